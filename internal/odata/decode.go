package odata

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ralt/nugetprops/internal/models"
)

// Layouts accepted when reading Edm.DateTime values. Zone-less values are
// read as UTC.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
}

// scalarText returns the trimmed text of e, or ok=false when e carries no
// value (nil, m:null or empty).
func scalarText(e *Element) (string, bool) {
	if e == nil || e.IsNull() {
		return "", false
	}
	text := strings.TrimSpace(e.Text)
	if text == "" {
		return "", false
	}
	return text, true
}

func malformed(e *Element, kind Kind, text string, err error) error {
	return models.NewCodecError(models.ErrMalformedScalar, e.Name.Local,
		fmt.Errorf("invalid %s value %q: %w", kind, text, err))
}

// StringValue returns the text content of e. A nil element has no value.
func StringValue(e *Element) (string, bool) {
	if e == nil {
		return "", false
	}
	return e.Text, true
}

// parseInteger accepts decimal, 0x/0X/# hexadecimal and leading-zero
// octal notation with an optional sign.
func parseInteger(text string, bitSize int) (int64, error) {
	s := text
	sign := ""
	if s != "" && (s[0] == '-' || s[0] == '+') {
		sign, s = s[:1], s[1:]
	}
	if strings.HasPrefix(s, "#") {
		s = "0x" + s[1:]
	}
	if strings.Contains(s, "_") {
		return 0, fmt.Errorf("underscore in number")
	}
	if len(s) > 1 && s[0] == '0' {
		switch s[1] {
		case 'b', 'B', 'o', 'O':
			return 0, fmt.Errorf("unsupported base prefix %q", s[:2])
		}
	}
	return strconv.ParseInt(sign+s, 0, bitSize)
}

// Int32Value decodes an Edm.Int32 element
func Int32Value(e *Element) (*int32, error) {
	text, ok := scalarText(e)
	if !ok {
		return nil, nil
	}
	n, err := parseInteger(text, 32)
	if err != nil {
		return nil, malformed(e, KindInt32, text, err)
	}
	v := int32(n)
	return &v, nil
}

// Int64Value decodes an Edm.Int64 element
func Int64Value(e *Element) (*int64, error) {
	text, ok := scalarText(e)
	if !ok {
		return nil, nil
	}
	n, err := parseInteger(text, 64)
	if err != nil {
		return nil, malformed(e, KindInt64, text, err)
	}
	return &n, nil
}

// DoubleValue decodes an Edm.Double element
func DoubleValue(e *Element) (*float64, error) {
	text, ok := scalarText(e)
	if !ok {
		return nil, nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, malformed(e, KindDouble, text, err)
	}
	return &v, nil
}

// BooleanValue decodes an Edm.Boolean element. Only "true" and "false"
// are accepted, in any letter case.
func BooleanValue(e *Element) (*bool, error) {
	text, ok := scalarText(e)
	if !ok {
		return nil, nil
	}
	var v bool
	switch strings.ToLower(text) {
	case "true":
		v = true
	case "false":
		v = false
	default:
		return nil, malformed(e, KindBoolean, text, fmt.Errorf("not a boolean"))
	}
	return &v, nil
}

// TimeValue decodes an Edm.DateTime element
func TimeValue(e *Element) (*time.Time, error) {
	text, ok := scalarText(e)
	if !ok {
		return nil, nil
	}
	var lastErr error
	for _, layout := range dateTimeLayouts {
		t, err := time.Parse(layout, text)
		if err == nil {
			return &t, nil
		}
		lastErr = err
	}
	return nil, malformed(e, KindDateTime, text, lastErr)
}

// StringListValue decodes a list element with codec. A missing or null
// element yields an empty list.
func StringListValue(e *Element, codec ListCodec) ([]string, error) {
	if e == nil || e.IsNull() {
		return []string{}, nil
	}
	list, err := codec.Unmarshal(e.Text)
	if err != nil {
		return nil, malformed(e, KindStringList, e.Text, err)
	}
	return list, nil
}
