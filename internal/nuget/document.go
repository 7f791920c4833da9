package nuget

import (
	"encoding/xml"
	"io"

	"github.com/ralt/nugetprops/internal/odata"
)

// MarshalXML writes the record as an m:properties element
func (p *EntryProperties) MarshalXML(enc *xml.Encoder, start xml.StartElement) error {
	elements, err := p.Serialize()
	if err != nil {
		return err
	}
	return odata.Properties{Elements: elements}.MarshalXML(enc, start)
}

// UnmarshalXML reads the record from an m:properties element
func (p *EntryProperties) UnmarshalXML(dec *xml.Decoder, start xml.StartElement) error {
	var props odata.Properties
	if err := props.UnmarshalXML(dec, start); err != nil {
		return err
	}
	return p.Deserialize(props.Elements)
}

// Marshal renders the record as a standalone properties document
func (p *EntryProperties) Marshal() ([]byte, error) {
	elements, err := p.Serialize()
	if err != nil {
		return nil, err
	}
	return odata.MarshalProperties(elements)
}

// ParseEntryProperties reads a properties document into a new record
func ParseEntryProperties(r io.Reader) (*EntryProperties, error) {
	elements, err := odata.ParseProperties(r)
	if err != nil {
		return nil, err
	}
	p := NewEntryProperties()
	if err := p.Deserialize(elements); err != nil {
		return nil, err
	}
	return p, nil
}
