package model

import (
	"github.com/venicegeo/geojson-go/geojson"
)

// Acquisition is the normalized catalog record of one ingested metadata package.
// Optional fields are nil when the package did not provide them.
type Acquisition struct {
	Identifier       string
	ParentIdentifier string
	CallID           *string
	StartDate        *string
	EndDate          *string
	Platform         *string
	Instrument       *string
	Footprint        Footprint
	MetadataPath     *string
	QuicklookPath    *string
	ThumbnailPath    *string
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}

// StringValue dereferences an optional string, returning "" for nil
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Validate checks the invariants every record handed to the catalog must hold
func (a *Acquisition) Validate() error {
	if a.Identifier == "" {
		return NewKindError(ErrMalformedMetadata, nil, "no identifier")
	}
	if err := a.Footprint.Validate(); err != nil {
		return err
	}
	for _, date := range []*string{a.StartDate, a.EndDate} {
		if date == nil {
			continue
		}
		if _, err := ParseCatalogTime(*date); err != nil {
			return NewKindError(ErrMalformedMetadata, err, "identifier %s", a.Identifier)
		}
	}
	return nil
}

// GeoJSONFeature implements the GeoJSONFeatureCreator interface
func (a Acquisition) GeoJSONFeature() (*geojson.Feature, error) {
	properties := map[string]interface{}{
		"parentIdentifier": a.ParentIdentifier,
	}
	optional := map[string]*string{
		"callId":     a.CallID,
		"startDate":  a.StartDate,
		"endDate":    a.EndDate,
		"platform":   a.Platform,
		"instrument": a.Instrument,
		"metadata":   a.MetadataPath,
	}
	for key, value := range optional {
		if value != nil {
			properties[key] = *value
		}
	}

	var geometry interface{}
	if len(a.Footprint) > 0 {
		geometry = a.Footprint.GeoJSON()
	}
	f := geojson.NewFeature(geometry, a.Identifier, properties)
	if geometry != nil {
		f.Bbox = f.ForceBbox()
	}

	assets := DerivedAssets{Quicklook: a.QuicklookPath, Thumbnail: a.ThumbnailPath}
	if err := assets.Apply(f); err != nil {
		return nil, err
	}
	return f, nil
}
