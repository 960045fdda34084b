package model

import (
	"github.com/venicegeo/geojson-go/geojson"
)

// DerivedAssets is a mixin carrying the preview images of an acquisition
type DerivedAssets struct {
	Quicklook *string
	Thumbnail *string
}

// Apply implements the GeoJSONFeatureMixin interface
func (da DerivedAssets) Apply(feature *geojson.Feature) error {
	if feature.Properties == nil {
		feature.Properties = map[string]interface{}{}
	}
	if da.Quicklook != nil {
		feature.Properties["quicklook"] = *da.Quicklook
	}
	if da.Thumbnail != nil {
		feature.Properties["thumbnail"] = *da.Thumbnail
	}
	return nil
}
