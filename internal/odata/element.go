package odata

import (
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ralt/nugetprops/internal/models"
)

// DateTimeLayout renders timestamps in ISO 8601 extended calendar format
// with millisecond precision and a zone offset ("Z" for UTC).
const DateTimeLayout = "2006-01-02T15:04:05.999Z07:00"

// Element is one typed element of a properties document
type Element struct {
	Name  xml.Name
	Attrs []xml.Attr
	Text  string
}

// Attr returns the value of the attribute space:local
func (e *Element) Attr(space, local string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Space == space && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets space:local to value, replacing an existing attribute
func (e *Element) SetAttr(space, local, value string) {
	for i, a := range e.Attrs {
		if a.Name.Space == space && a.Name.Local == local {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, xml.Attr{Name: xml.Name{Space: space, Local: local}, Value: value})
}

// IsNull reports whether the element carries m:null="true"
func (e *Element) IsNull() bool {
	v, ok := e.Attr(MetadataNS, "null")
	return ok && v == "true"
}

// TypeName returns the m:type attribute, empty for plain strings
func (e *Element) TypeName() string {
	v, _ := e.Attr(MetadataNS, "type")
	return v
}

// PreservesSpace reports whether the element carries xml:space="preserve"
func (e *Element) PreservesSpace() bool {
	v, ok := e.Attr(XMLNS, "space")
	return ok && v == "preserve"
}

// MakeElement creates a typed element from an already rendered value.
// An empty text on a nullable element is flagged with m:null="true"; every
// kind except KindString is announced with m:type. String lists are also
// marked xml:space="preserve" since their encoding is whitespace
// significant.
func MakeElement(name string, nullable bool, kind Kind, text string) (*Element, error) {
	if err := validateName(name); err != nil {
		return nil, models.NewCodecError(models.ErrConstruction, name, err)
	}

	e := &Element{
		Name: xml.Name{Space: DataServicesNS, Local: name},
		Text: text,
	}
	if nullable && text == "" {
		e.SetAttr(MetadataNS, "null", "true")
	}
	if kind != KindString {
		e.SetAttr(MetadataNS, "type", kind.WireName())
	}
	if kind == KindStringList {
		e.SetAttr(XMLNS, "space", "preserve")
	}
	return e, nil
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("element name is empty")
	}
	if strings.ContainsAny(name, ": \t\r\n<>&\"'/=") {
		return fmt.Errorf("invalid element name %q", name)
	}
	return nil
}

// StringElement creates a plain string element. An empty value is null.
func StringElement(name string, nullable bool, value string) (*Element, error) {
	return MakeElement(name, nullable, KindString, value)
}

// Int32Element creates an Edm.Int32 element, nil meaning no value
func Int32Element(name string, nullable bool, value *int32) (*Element, error) {
	var text string
	if value != nil {
		text = strconv.FormatInt(int64(*value), 10)
	}
	return MakeElement(name, nullable, KindInt32, text)
}

// Int64Element creates an Edm.Int64 element, nil meaning no value
func Int64Element(name string, nullable bool, value *int64) (*Element, error) {
	var text string
	if value != nil {
		text = strconv.FormatInt(*value, 10)
	}
	return MakeElement(name, nullable, KindInt64, text)
}

// DoubleElement creates an Edm.Double element, nil meaning no value
func DoubleElement(name string, nullable bool, value *float64) (*Element, error) {
	var text string
	if value != nil {
		text = FormatDouble(*value)
	}
	return MakeElement(name, nullable, KindDouble, text)
}

// BooleanElement creates an Edm.Boolean element, nil meaning no value
func BooleanElement(name string, nullable bool, value *bool) (*Element, error) {
	var text string
	if value != nil {
		text = strconv.FormatBool(*value)
	}
	return MakeElement(name, nullable, KindBoolean, text)
}

// DateTimeElement creates an Edm.DateTime element, nil meaning no value
func DateTimeElement(name string, nullable bool, value *time.Time) (*Element, error) {
	var text string
	if value != nil {
		var err error
		if text, err = FormatDateTime(*value); err != nil {
			return nil, models.NewCodecError(models.ErrConstruction, name, err)
		}
	}
	return MakeElement(name, nullable, KindDateTime, text)
}

// StringListElement creates a whitespace preserving list element. A nil
// list means no value; the list is rendered with codec.
func StringListElement(name string, nullable bool, value []string, codec ListCodec) (*Element, error) {
	var text string
	if value != nil {
		var err error
		if text, err = codec.Marshal(value); err != nil {
			return nil, models.NewCodecError(models.ErrConstruction, name, fmt.Errorf("failed to encode string list: %w", err))
		}
	}
	return MakeElement(name, nullable, KindStringList, text)
}

// FormatDouble renders v in a locale independent form that always carries
// a fractional part ("-1.0", "4.25"). Infinities and NaN use the OData
// literals INF, -INF and NaN.
func FormatDouble(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "INF"
	case math.IsInf(v, -1):
		return "-INF"
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// FormatDateTime renders t with DateTimeLayout. Years outside 0..9999
// cannot be expressed in the four digit calendar form.
func FormatDateTime(t time.Time) (string, error) {
	if y := t.Year(); y < 0 || y > 9999 {
		return "", fmt.Errorf("year %d out of range for xml date-time", y)
	}
	return t.Format(DateTimeLayout), nil
}
