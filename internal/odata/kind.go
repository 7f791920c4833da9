// Package odata implements the typed element encoding used by the
// Microsoft DataServices (OData v2) flavour of NuGet feed entries.
//
// Every value is carried by a single element in the data-services
// namespace. Its primitive type is declared with an m:type attribute and
// a missing value with m:null="true", both in the metadata namespace.
// Plain strings are the implicit default and never carry m:type.
package odata

import "fmt"

// XML namespaces used by the wire format
const (
	DataServicesNS = "http://schemas.microsoft.com/ado/2007/08/dataservices"
	MetadataNS     = "http://schemas.microsoft.com/ado/2007/08/dataservices/metadata"
	XMLNS          = "http://www.w3.org/XML/1998/namespace"
)

// Kind is the semantic type of a typed element
type Kind int

const (
	KindString Kind = iota
	KindInt32
	KindInt64
	KindDouble
	KindBoolean
	KindDateTime
	KindStringList
)

// Legacy clients expect string lists to be announced with the date-time
// marker; decoders ignore m:type entirely.
const stringListWireName = "Edm.DateTime"

// WireName returns the m:type value for the kind, or "" for KindString.
// The switch is exhaustive on purpose: a new Kind without a wire name
// falls through to the panic below.
func (k Kind) WireName() string {
	switch k {
	case KindString:
		return ""
	case KindInt32:
		return "Edm.Int32"
	case KindInt64:
		return "Edm.Int64"
	case KindDouble:
		return "Edm.Double"
	case KindBoolean:
		return "Edm.Boolean"
	case KindDateTime:
		return "Edm.DateTime"
	case KindStringList:
		return stringListWireName
	}
	panic(fmt.Sprintf("odata: kind %d has no wire name", int(k)))
}

// String returns a human readable name of the kind
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindDouble:
		return "double"
	case KindBoolean:
		return "boolean"
	case KindDateTime:
		return "datetime"
	case KindStringList:
		return "stringlist"
	default:
		return "unknown"
	}
}

// Kinds lists every declared kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindString, KindInt32, KindInt64, KindDouble, KindBoolean, KindDateTime, KindStringList}
}
