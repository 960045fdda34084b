package formats

import (
	"github.com/paulmach/orb"

	"github.com/venicegeo/bf-acquisition-ingest/geometry"
	"github.com/venicegeo/bf-acquisition-ingest/model"
)

const rs2Lineage = "urn:ogc:def:EOP:CSA:RSAT2"

// NewRS2Reader reads Radarsat-2 product.xml documents, deriving the
// footprint from the geolocation grid tie points
func NewRS2Reader() Reader {
	return fileReader{
		format:     model.FormatRS2,
		extensions: []string{"xml"},
		preferred:  []string{"product.xml"},
		parse:      parseRS2,
	}
}

func parseRS2(name string, content []byte) (*model.Acquisition, error) {
	doc, err := parseXML(content)
	if err != nil {
		return nil, model.NewKindError(model.ErrMalformedMetadata, err, "%s", name)
	}

	productID := doc.first("productId").value()
	if productID == "" {
		return nil, malformed("%s has no productId", name)
	}

	tiePoints := doc.path("geographicInformation", "geolocationGrid").all("imageTiePoint")
	grid := make([]geometry.GridPoint, 0, len(tiePoints))
	for _, tiePoint := range tiePoints {
		image := tiePoint.first("imageCoordinate")
		ground := tiePoint.first("geodeticCoordinate")

		line, err := parseFloat("line", image.first("line").value())
		if err != nil {
			return nil, err
		}
		pixel, err := parseFloat("pixel", image.first("pixel").value())
		if err != nil {
			return nil, err
		}
		lat, err := parseFloat("latitude", ground.first("latitude").value())
		if err != nil {
			return nil, err
		}
		lon, err := parseFloat("longitude", ground.first("longitude").value())
		if err != nil {
			return nil, err
		}
		grid = append(grid, geometry.GridPoint{Line: line, Pixel: pixel, Location: orb.Point{lon, lat}})
	}

	footprint, err := geometry.CornersFromGrid(grid)
	if err != nil {
		return nil, footprintError(err)
	}

	source := doc.first("sourceAttributes")
	date := optionalDate(source.first("rawDataStartTime").optionalValue())
	return &model.Acquisition{
		Identifier:       rs2Lineage + ":" + productID,
		ParentIdentifier: rs2Lineage,
		StartDate:        date,
		EndDate:          date,
		Platform:         source.first("satellite").optionalValue(),
		Instrument:       source.first("sensor").optionalValue(),
		Footprint:        footprint,
	}, nil
}
