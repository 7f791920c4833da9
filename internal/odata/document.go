package odata

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/ralt/nugetprops/internal/models"
)

// Prefixes declared on the properties root and used for every child
const (
	metadataPrefix     = "m"
	dataServicesPrefix = "d"
)

// Properties is the m:properties root of an entry. Its content is exactly
// the ordered element sequence, without any wrapper.
type Properties struct {
	Elements []*Element
}

// MarshalXML writes the root with the m and d namespace declarations and
// the elements with prefixed names.
func (p Properties) MarshalXML(enc *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{
		Name: xml.Name{Local: metadataPrefix + ":properties"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "xmlns:" + metadataPrefix}, Value: MetadataNS},
			{Name: xml.Name{Local: "xmlns:" + dataServicesPrefix}, Value: DataServicesNS},
		},
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for _, e := range p.Elements {
		if e == nil {
			continue
		}
		if err := e.MarshalXML(enc, xml.StartElement{}); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// UnmarshalXML collects every child element in document order
func (p *Properties) UnmarshalXML(dec *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			e := &Element{}
			if err := dec.DecodeElement(e, &t); err != nil {
				return err
			}
			p.Elements = append(p.Elements, e)
		case xml.EndElement:
			return nil
		}
	}
}

// MarshalXML writes e using the prefixes declared by Properties, so it is
// only meaningful inside a properties root.
func (e *Element) MarshalXML(enc *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{Name: prefixed(e.Name, dataServicesPrefix)}
	for _, a := range e.Attrs {
		if isNamespaceDecl(a.Name) {
			continue
		}
		start.Attr = append(start.Attr, xml.Attr{Name: prefixed(a.Name, ""), Value: a.Value})
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if e.Text != "" {
		if err := enc.EncodeToken(xml.CharData(e.Text)); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// UnmarshalXML reads the name, attributes and text content of e. Nested
// elements are skipped.
func (e *Element) UnmarshalXML(dec *xml.Decoder, start xml.StartElement) error {
	e.Name = start.Name
	e.Attrs = e.Attrs[:0]
	for _, a := range start.Attr {
		if isNamespaceDecl(a.Name) {
			continue
		}
		e.Attrs = append(e.Attrs, a)
	}

	var text bytes.Buffer
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.StartElement:
			if err := dec.Skip(); err != nil {
				return err
			}
		case xml.EndElement:
			e.Text = text.String()
			return nil
		}
	}
}

func isNamespaceDecl(n xml.Name) bool {
	return n.Space == "xmlns" || (n.Space == "" && n.Local == "xmlns")
}

// prefixed maps a namespace qualified name onto the literal prefixed form
// the encoder writes verbatim.
func prefixed(n xml.Name, fallback string) xml.Name {
	switch n.Space {
	case DataServicesNS:
		return xml.Name{Local: dataServicesPrefix + ":" + n.Local}
	case MetadataNS:
		return xml.Name{Local: metadataPrefix + ":" + n.Local}
	case XMLNS:
		return xml.Name{Local: "xml:" + n.Local}
	case "":
		if fallback != "" {
			return xml.Name{Local: fallback + ":" + n.Local}
		}
		return xml.Name{Local: n.Local}
	default:
		return n
	}
}

// WriteProperties writes the properties document holding elements to w
func WriteProperties(w io.Writer, elements []*Element) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(Properties{Elements: elements}); err != nil {
		return models.NewCodecError(models.ErrConstruction, "properties", err)
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// MarshalProperties renders the properties document holding elements
func MarshalProperties(elements []*Element) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteProperties(&buf, elements); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ParseProperties reads a properties document and returns its child
// elements in document order.
func ParseProperties(r io.Reader) ([]*Element, error) {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				err = fmt.Errorf("no properties element found")
			}
			return nil, models.NewCodecError(models.ErrPackageParse, "properties", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Space != MetadataNS || start.Name.Local != "properties" {
			return nil, models.NewCodecError(models.ErrPackageParse, "properties",
				fmt.Errorf("unexpected root element {%s}%s", start.Name.Space, start.Name.Local))
		}
		var p Properties
		if err := dec.DecodeElement(&p, &start); err != nil {
			return nil, models.NewCodecError(models.ErrPackageParse, "properties", err)
		}
		return p.Elements, nil
	}
}
