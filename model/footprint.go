package model

import (
	"encoding/json"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/pkg/errors"
	"github.com/venicegeo/geojson-go/geojson"
)

// Footprint is the ground outline of a scene as a lon/lat ring.
// A valid footprint is closed and holds at least four positions.
type Footprint orb.Ring

// NewFootprint builds a footprint from lon/lat points, closing it if needed
func NewFootprint(points ...orb.Point) Footprint {
	return Footprint(points).Close()
}

// Closed reports whether the first and last positions are equal
func (f Footprint) Closed() bool {
	return len(f) > 0 && f[0] == f[len(f)-1]
}

// Close returns the ring with its first position repeated at the end, if it was not already
func (f Footprint) Close() Footprint {
	if len(f) == 0 || f.Closed() {
		return f
	}
	closed := make(Footprint, len(f), len(f)+1)
	copy(closed, f)
	return append(closed, f[0])
}

// Validate checks the ring is closed with at least four positions
func (f Footprint) Validate() error {
	if len(f) < 4 {
		return NewKindError(ErrMalformedMetadata, nil, "footprint has %d positions, need at least 4", len(f))
	}
	if !f.Closed() {
		return NewKindError(ErrMalformedMetadata, nil, "footprint ring is not closed")
	}
	return nil
}

// Ring returns the footprint as an orb ring
func (f Footprint) Ring() orb.Ring {
	return orb.Ring(f)
}

// Bound returns the bounding box of the footprint
func (f Footprint) Bound() orb.Bound {
	return orb.Ring(f).Bound()
}

// WKT renders the footprint as a WKT POLYGON
func (f Footprint) WKT() string {
	return wkt.MarshalString(orb.Polygon{orb.Ring(f)})
}

// GeoJSON renders the footprint as a single-ring GeoJSON polygon
func (f Footprint) GeoJSON() *geojson.Polygon {
	ring := make([][]float64, len(f))
	for i, point := range f {
		ring[i] = []float64{point.Lon(), point.Lat()}
	}
	return geojson.NewPolygon([][][]float64{ring})
}

// GeoJSONString renders the footprint as GeoJSON polygon text
func (f Footprint) GeoJSONString() (string, error) {
	raw, err := json.Marshal(f.GeoJSON())
	if err != nil {
		return "", errors.Wrap(err, "marshal footprint")
	}
	return string(raw), nil
}

// FootprintFromGeoJSON reads the outer ring of a GeoJSON polygon
func FootprintFromGeoJSON(data []byte) (Footprint, error) {
	polygon, err := geojson.PolygonFromBytes(data)
	if err != nil {
		return nil, errors.Wrap(err, "parse footprint GeoJSON")
	}
	if polygon == nil || len(polygon.Coordinates) == 0 {
		return nil, errors.New("footprint GeoJSON has no rings")
	}
	outer := polygon.Coordinates[0]
	footprint := make(Footprint, 0, len(outer))
	for _, position := range outer {
		if len(position) < 2 {
			return nil, errors.Errorf("footprint position %v has fewer than 2 ordinates", position)
		}
		footprint = append(footprint, orb.Point{position[0], position[1]})
	}
	return footprint, nil
}
