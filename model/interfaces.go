package model

import "github.com/venicegeo/geojson-go/geojson"

// GeoJSONFeatureCreator is an interface for data that can convert itself to a GeoJSON feature
type GeoJSONFeatureCreator interface {
	GeoJSONFeature() (*geojson.Feature, error)
}

// GeoJSONFeatureMixin is an interface for data that can be used to augment an existing GeoJSON feature
type GeoJSONFeatureMixin interface {
	Apply(*geojson.Feature) error
}

var (
	_ GeoJSONFeatureCreator = Acquisition{}
	_ GeoJSONFeatureMixin   = DerivedAssets{}
)
