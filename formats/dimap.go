package formats

import (
	"strings"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"

	"github.com/venicegeo/bf-acquisition-ingest/geometry"
	"github.com/venicegeo/bf-acquisition-ingest/model"
)

// Lineages of DIMAP products
const (
	spotLineage     = "urn:ogc:def:EOP:SPOT:ALL"
	formosatLineage = "urn:ogc:def:EOP:FORMOSAT"
	dmcLineage      = "urn:ogc:def:EOP:DMC:"
	phrLineage      = "urn:ogc:def:EOP:PHR:"
)

// NewDIMAPReader reads DIMAP v1 documents. Formosat frames are not
// guaranteed to list their vertices in ring order.
func NewDIMAPReader(format model.Format) Reader {
	formosat := format == model.FormatF2
	return fileReader{
		format:     format,
		extensions: []string{"dim"},
		parse: func(name string, content []byte) (*model.Acquisition, error) {
			return parseDIMAP(name, content, formosat)
		},
	}
}

// NewDIMAPv2Reader reads Pleiades DIMAP v2 documents
func NewDIMAPv2Reader() Reader {
	return fileReader{
		format:     model.FormatPHR,
		extensions: []string{"dim"},
		parse:      parseDIMAPv2,
	}
}

type frameVertex struct {
	location orb.Point
	row, col *float64
}

func parseDIMAP(name string, content []byte, formosat bool) (*model.Acquisition, error) {
	doc, err := parseXML(content)
	if err != nil {
		return nil, model.NewKindError(model.ErrMalformedMetadata, err, "%s", name)
	}

	frame := doc.first("Dataset_Frame")
	vertexElements := frame.all("Vertex")
	if len(vertexElements) == 0 {
		// some Formosat products spell it in capitals
		vertexElements = frame.all("VERTEX")
	}
	vertices, err := readFrameVertices(vertexElements)
	if err != nil {
		return nil, err
	}

	var footprint model.Footprint
	if formosat {
		footprint, err = formosatFootprint(vertices)
	} else {
		points := make([]orb.Point, len(vertices))
		for i, v := range vertices {
			points[i] = v.location
		}
		footprint, err = geometry.PassThrough(points)
	}
	if err != nil {
		return nil, footprintError(err)
	}

	scene := doc.first("Source_Information")
	sceneSource := scene.first("Scene_Source")
	sourceID := scene.first("SOURCE_ID").value()
	if sourceID == "" {
		return nil, malformed("%s has no Source_Information/SOURCE_ID", name)
	}

	mission := sceneSource.first("MISSION").value()
	var parentIdentifier string
	switch {
	case formosat:
		parentIdentifier = formosatLineage
	case strings.HasPrefix(doc.first("METADATA_PROFILE").value(), "DMC"):
		parentIdentifier = dmcLineage + mission
	default:
		parentIdentifier = spotLineage
	}

	date := imagingDate(sceneSource)
	return &model.Acquisition{
		Identifier:       parentIdentifier + ":" + model.NormalizeIdentifier(sourceID),
		ParentIdentifier: parentIdentifier,
		StartDate:        date,
		EndDate:          date,
		Platform:         indexedName(sceneSource, "MISSION", "MISSION_INDEX"),
		Instrument:       indexedName(sceneSource, "INSTRUMENT", "INSTRUMENT_INDEX"),
		Footprint:        footprint,
	}, nil
}

func readFrameVertices(elements []*element) ([]frameVertex, error) {
	vertices := make([]frameVertex, 0, len(elements))
	for _, e := range elements {
		lon, err := parseFloat("FRAME_LON", e.first("FRAME_LON").value())
		if err != nil {
			return nil, err
		}
		lat, err := parseFloat("FRAME_LAT", e.first("FRAME_LAT").value())
		if err != nil {
			return nil, err
		}
		v := frameVertex{location: orb.Point{lon, lat}}
		if row := e.first("FRAME_ROW"); row != nil {
			if value, err := parseFloat("FRAME_ROW", row.value()); err == nil {
				v.row = &value
			}
		}
		if col := e.first("FRAME_COL"); col != nil {
			if value, err := parseFloat("FRAME_COL", col.value()); err == nil {
				v.col = &value
			}
		}
		vertices = append(vertices, v)
	}
	return vertices, nil
}

// formosatFootprint prefers the exact grid assignment and falls back to the
// permutation search when the frame does not carry a complete row/col grid
func formosatFootprint(vertices []frameVertex) (model.Footprint, error) {
	grid := make([]geometry.GridPoint, 0, len(vertices))
	for _, v := range vertices {
		if v.row == nil || v.col == nil {
			grid = nil
			break
		}
		grid = append(grid, geometry.GridPoint{Line: *v.row, Pixel: *v.col, Location: v.location})
	}
	if grid != nil {
		footprint, err := geometry.CornersFromGrid(grid)
		if err == nil || !errors.Is(err, geometry.ErrIncompleteGrid) {
			return footprint, err
		}
	}

	if len(vertices) != 4 {
		return nil, errors.Wrapf(geometry.ErrDegenerateFootprint, "expected 4 frame vertices, got %d", len(vertices))
	}
	var corners [4]orb.Point
	for i, v := range vertices {
		corners[i] = v.location
	}
	return geometry.CorrectQuad(corners)
}

func parseDIMAPv2(name string, content []byte) (*model.Acquisition, error) {
	doc, err := parseXML(content)
	if err != nil {
		return nil, model.NewKindError(model.ErrMalformedMetadata, err, "%s", name)
	}

	spectralMode := doc.path("Processing_Information", "Product_Settings", "SPECTRAL_PROCESSING").value()

	var points []orb.Point
	for _, vertex := range doc.first("Dataset_Extent").all("Vertex") {
		lon, err := parseFloat("LON", vertex.first("LON").value())
		if err != nil {
			return nil, err
		}
		lat, err := parseFloat("LAT", vertex.first("LAT").value())
		if err != nil {
			return nil, err
		}
		points = append(points, orb.Point{lon, lat})
	}
	footprint, err := geometry.PassThrough(points)
	if err != nil {
		return nil, footprintError(err)
	}

	scene := doc.first("Source_Identification")
	stripSource := scene.first("Strip_Source")
	sourceID := scene.first("SOURCE_ID").value()
	if sourceID == "" {
		return nil, malformed("%s has no Source_Identification/SOURCE_ID", name)
	}
	parentIdentifier := phrLineage + stripSource.first("MISSION_INDEX").value()

	date := imagingDate(stripSource)
	return &model.Acquisition{
		Identifier:       parentIdentifier + ":" + model.NormalizeIdentifier(sourceID+spectralMode),
		ParentIdentifier: parentIdentifier,
		StartDate:        date,
		EndDate:          date,
		Platform:         indexedName(stripSource, "MISSION", "MISSION_INDEX"),
		Instrument:       indexedName(stripSource, "INSTRUMENT", "INSTRUMENT_INDEX"),
		Footprint:        footprint,
	}, nil
}

// imagingDate joins IMAGING_DATE and IMAGING_TIME
func imagingDate(source *element) *string {
	date := source.first("IMAGING_DATE").value()
	if date == "" {
		return nil
	}
	if t := source.first("IMAGING_TIME").value(); t != "" {
		date += "T" + t
	}
	return model.StringPtr(model.NormalizeDate(date))
}

// indexedName is "<NAME> <INDEX>", or "<NAME>" when the index element is absent
func indexedName(source *element, nameElement, indexElement string) *string {
	n := source.first(nameElement)
	if n == nil {
		return nil
	}
	name := n.value()
	if index := source.first(indexElement); index != nil {
		name += " " + index.value()
	}
	return model.StringPtr(name)
}
