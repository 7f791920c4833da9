package nuget

import (
	"fmt"
	"strings"

	"github.com/ralt/nugetprops/internal/models"
	"github.com/ralt/nugetprops/internal/odata"
)

// property binds one element of the properties document to a field of
// EntryProperties in both directions. decode receives nil when the element
// is absent.
type property struct {
	name     string
	nullable bool
	kind     odata.Kind
	encode   func(p *EntryProperties, name string, nullable bool) (*odata.Element, error)
	decode   func(p *EntryProperties, e *odata.Element) error
}

// propertyTable lists the serialized fields in wire order
var propertyTable = []property{
	versionProp("Version"),
	textProp("Title", true, func(p *EntryProperties) *string { return &p.Title }),
	textProp("IconUrl", true, func(p *EntryProperties) *string { return &p.IconURL }),
	textProp("LicenseUrl", true, func(p *EntryProperties) *string { return &p.LicenseURL }),
	textProp("ProjectUrl", true, func(p *EntryProperties) *string { return &p.ProjectURL }),
	textProp("ProjectSourceUrl", true, func(p *EntryProperties) *string { return &p.ProjectSourceURL }),
	textProp("PackageSourceUrl", true, func(p *EntryProperties) *string { return &p.PackageSourceURL }),
	textProp("DocsUrl", true, func(p *EntryProperties) *string { return &p.DocsURL }),
	textProp("MailingListUrl", true, func(p *EntryProperties) *string { return &p.MailingListURL }),
	textProp("BugTrackerUrl", true, func(p *EntryProperties) *string { return &p.BugTrackerURL }),
	textProp("ReportAbuseUrl", true, func(p *EntryProperties) *string { return &p.ReportAbuseURL }),
	int32Prop("DownloadCount", func(p *EntryProperties) int32 { return p.DownloadCount }, (*EntryProperties).SetDownloadCount),
	int32Prop("VersionDownloadCount", func(p *EntryProperties) int32 { return p.VersionDownloadCount }, (*EntryProperties).SetVersionDownloadCount),
	int32Prop("RatingsCount", func(p *EntryProperties) int32 { return p.RatingsCount }, (*EntryProperties).SetRatingsCount),
	int32Prop("VersionRatingsCount", func(p *EntryProperties) int32 { return p.VersionRatingsCount }, (*EntryProperties).SetVersionRatingsCount),
	doubleProp("Rating", func(p *EntryProperties) float64 { return p.Rating }, (*EntryProperties).SetRating),
	doubleProp("VersionRating", func(p *EntryProperties) float64 { return p.VersionRating }, (*EntryProperties).SetVersionRating),
	boolProp("RequireLicenseAcceptance", func(p *EntryProperties) bool { return p.RequireLicenseAcceptance }, (*EntryProperties).SetRequireLicenseAcceptance),
	textProp("Description", false, func(p *EntryProperties) *string { return &p.Description }),
	textProp("ReleaseNotes", true, func(p *EntryProperties) *string { return &p.ReleaseNotes }),
	textProp("Language", true, func(p *EntryProperties) *string { return &p.Language }),
	publishedProp("Published"),
	priceProp("Price"),
	textProp("Dependencies", false, func(p *EntryProperties) *string { return &p.Dependencies }),
	textProp("PackageHash", false, func(p *EntryProperties) *string { return &p.PackageHash }),
	packageSizeProp("PackageSize"),
	textProp("ExternalPackageUri", true, func(p *EntryProperties) *string { return &p.ExternalPackageURI }),
	textProp("Categories", true, func(p *EntryProperties) *string { return &p.Categories }),
	textProp("Copyright", true, func(p *EntryProperties) *string { return &p.Copyright }),
	textProp("PackageType", true, func(p *EntryProperties) *string { return &p.PackageType }),
	tagsProp("Tags"),
	boolProp("IsLatestVersion", func(p *EntryProperties) bool { return p.IsLatestVersion }, (*EntryProperties).SetIsLatestVersion),
	textProp("Summary", true, func(p *EntryProperties) *string { return &p.Summary }),
}

// PropertyNames returns the element names in wire order
func PropertyNames() []string {
	names := make([]string, len(propertyTable))
	for i, prop := range propertyTable {
		names[i] = prop.name
	}
	return names
}

// Serialize returns one typed element per known field, in wire order
func (p *EntryProperties) Serialize() ([]*odata.Element, error) {
	elements := make([]*odata.Element, 0, len(propertyTable))
	for _, prop := range propertyTable {
		e, err := prop.encode(p, prop.name, prop.nullable)
		if err != nil {
			return nil, err
		}
		elements = append(elements, e)
	}
	return elements, nil
}

// Deserialize populates every field except ID from elements. Elements
// are matched by local name regardless of order; when a name repeats the
// last occurrence wins. On error p is left unchanged.
func (p *EntryProperties) Deserialize(elements []*odata.Element) error {
	byName := make(map[string]*odata.Element, len(elements))
	for _, e := range elements {
		if e == nil {
			continue
		}
		byName[e.Name.Local] = e
	}

	next := *p
	for _, prop := range propertyTable {
		if err := prop.decode(&next, byName[prop.name]); err != nil {
			return err
		}
	}
	*p = next
	return nil
}

func requiredMissing(name string) error {
	return models.NewCodecError(models.ErrRequiredField, name, fmt.Errorf("element is missing"))
}

func versionProp(name string) property {
	return property{
		name: name,
		kind: odata.KindString,
		encode: func(p *EntryProperties, name string, nullable bool) (*odata.Element, error) {
			return odata.StringElement(name, nullable, p.Version.String())
		},
		decode: func(p *EntryProperties, e *odata.Element) error {
			text, ok := odata.StringValue(e)
			if !ok || e.IsNull() || strings.TrimSpace(text) == "" {
				return requiredMissing(name)
			}
			v, err := ParseVersion(text)
			if err != nil {
				return models.NewCodecError(models.ErrMalformedScalar, name, err)
			}
			p.Version = v
			return nil
		},
	}
}

// textProp decodes a missing element to "", never to a null marker
func textProp(name string, nullable bool, field func(*EntryProperties) *string) property {
	return property{
		name:     name,
		nullable: nullable,
		kind:     odata.KindString,
		encode: func(p *EntryProperties, name string, nullable bool) (*odata.Element, error) {
			return odata.StringElement(name, nullable, *field(p))
		},
		decode: func(p *EntryProperties, e *odata.Element) error {
			text, _ := odata.StringValue(e)
			*field(p) = text
			return nil
		},
	}
}

func int32Prop(name string, get func(*EntryProperties) int32, set func(*EntryProperties, *int32)) property {
	return property{
		name: name,
		kind: odata.KindInt32,
		encode: func(p *EntryProperties, name string, nullable bool) (*odata.Element, error) {
			v := get(p)
			return odata.Int32Element(name, nullable, &v)
		},
		decode: func(p *EntryProperties, e *odata.Element) error {
			v, err := odata.Int32Value(e)
			if err != nil {
				return err
			}
			set(p, v)
			return nil
		},
	}
}

func doubleProp(name string, get func(*EntryProperties) float64, set func(*EntryProperties, *float64)) property {
	return property{
		name: name,
		kind: odata.KindDouble,
		encode: func(p *EntryProperties, name string, nullable bool) (*odata.Element, error) {
			v := get(p)
			return odata.DoubleElement(name, nullable, &v)
		},
		decode: func(p *EntryProperties, e *odata.Element) error {
			v, err := odata.DoubleValue(e)
			if err != nil {
				return err
			}
			set(p, v)
			return nil
		},
	}
}

func boolProp(name string, get func(*EntryProperties) bool, set func(*EntryProperties, *bool)) property {
	return property{
		name: name,
		kind: odata.KindBoolean,
		encode: func(p *EntryProperties, name string, nullable bool) (*odata.Element, error) {
			v := get(p)
			return odata.BooleanElement(name, nullable, &v)
		},
		decode: func(p *EntryProperties, e *odata.Element) error {
			v, err := odata.BooleanValue(e)
			if err != nil {
				return err
			}
			set(p, v)
			return nil
		},
	}
}

func publishedProp(name string) property {
	return property{
		name: name,
		kind: odata.KindDateTime,
		encode: func(p *EntryProperties, name string, nullable bool) (*odata.Element, error) {
			return odata.DateTimeElement(name, nullable, &p.Published)
		},
		decode: func(p *EntryProperties, e *odata.Element) error {
			t, err := odata.TimeValue(e)
			if err != nil {
				return err
			}
			if t == nil {
				return requiredMissing(name)
			}
			p.Published = *t
			return nil
		},
	}
}

func priceProp(name string) property {
	return property{
		name: name,
		kind: odata.KindDouble,
		encode: func(p *EntryProperties, name string, nullable bool) (*odata.Element, error) {
			return odata.DoubleElement(name, nullable, p.Price)
		},
		decode: func(p *EntryProperties, e *odata.Element) error {
			v, err := odata.DoubleValue(e)
			if err != nil {
				return err
			}
			p.Price = v
			return nil
		},
	}
}

func packageSizeProp(name string) property {
	return property{
		name: name,
		kind: odata.KindInt64,
		encode: func(p *EntryProperties, name string, nullable bool) (*odata.Element, error) {
			return odata.Int64Element(name, nullable, p.PackageSize)
		},
		decode: func(p *EntryProperties, e *odata.Element) error {
			v, err := odata.Int64Value(e)
			if err != nil {
				return err
			}
			p.PackageSize = v
			return nil
		},
	}
}

func tagsProp(name string) property {
	return property{
		name:     name,
		nullable: true,
		kind:     odata.KindStringList,
		encode: func(p *EntryProperties, name string, nullable bool) (*odata.Element, error) {
			tags := p.Tags
			if tags == nil {
				tags = []string{}
			}
			return odata.StringListElement(name, nullable, tags, odata.DefaultListCodec)
		},
		decode: func(p *EntryProperties, e *odata.Element) error {
			tags, err := odata.StringListValue(e, odata.DefaultListCodec)
			if err != nil {
				return err
			}
			p.Tags = tags
			return nil
		},
	}
}
