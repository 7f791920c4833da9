package odata

import "strings"

// ListCodec converts an ordered string list to and from its single text
// form
type ListCodec interface {
	Marshal(list []string) (string, error)
	Unmarshal(text string) ([]string, error)
}

// SpaceListCodec joins items with a single space. Spaces and backslashes
// inside an item are escaped with a backslash so items may contain
// whitespace. Runs of unescaped spaces on input are a single separator.
// Empty items have no encoding and are dropped in both directions.
type SpaceListCodec struct{}

// DefaultListCodec is the list encoding used for NuGet tags
var DefaultListCodec ListCodec = SpaceListCodec{}

// Marshal implements ListCodec
func (SpaceListCodec) Marshal(list []string) (string, error) {
	var b strings.Builder
	first := true
	for _, item := range list {
		if item == "" {
			continue
		}
		if !first {
			b.WriteByte(' ')
		}
		first = false
		for _, r := range item {
			if r == ' ' || r == '\\' {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

// Unmarshal implements ListCodec
func (SpaceListCodec) Unmarshal(text string) ([]string, error) {
	list := []string{}
	var cur strings.Builder
	escaped := false
	flush := func() {
		if cur.Len() > 0 {
			list = append(list, cur.String())
			cur.Reset()
		}
	}
	for _, r := range text {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == ' ':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	// a dangling escape keeps its backslash
	if escaped {
		cur.WriteByte('\\')
	}
	flush()
	return list, nil
}
