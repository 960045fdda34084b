package formats

import (
	"strings"

	"github.com/paulmach/orb"

	"github.com/venicegeo/bf-acquisition-ingest/geometry"
	"github.com/venicegeo/bf-acquisition-ingest/model"
)

// lineageByPrefix infers the mission lineage of EO documents that carry no parentIdentifier
var lineageByPrefix = map[string]string{
	"ALP": "urn:ogc:def:EOP:JAXA:ALOS",
	"ALA": "urn:ogc:def:EOP:JAXA:ALOS",
}

const unknownLineage = ":"

// NewEOPReader reads generic Earth Observation XML documents (OPT, SAR, K2, RS1).
// OPT and K2 packages sometimes wrap their content in one extra directory.
func NewEOPReader(format model.Format) Reader {
	return fileReader{
		format:     format,
		extensions: []string{"xml"},
		descend:    format == model.FormatOPT || format == model.FormatK2,
		parse:      parseEOP,
	}
}

func parseEOP(name string, content []byte) (*model.Acquisition, error) {
	doc, err := parseXML(content)
	if err != nil {
		return nil, model.NewKindError(model.ErrMalformedMetadata, err, "%s", name)
	}

	info := doc.first("EarthObservationMetaData")
	identifier := info.first("identifier").value()
	if identifier == "" {
		return nil, malformed("%s has no EarthObservationMetaData/identifier", name)
	}

	var parentIdentifier string
	if parent := info.first("parentIdentifier"); parent != nil {
		parentIdentifier = parent.value()
	} else {
		parentIdentifier = inferLineage(identifier)
		identifier = parentIdentifier + ":" + identifier
	}

	posList := doc.first("Polygon").first("posList").value()
	if posList == "" {
		return nil, malformed("%s has no Polygon/posList", name)
	}
	points, err := parsePosList(posList, true)
	if err != nil {
		return nil, err
	}
	footprint, err := geometry.PassThrough(points)
	if err != nil {
		return nil, footprintError(err)
	}

	record := &model.Acquisition{
		Identifier:       identifier,
		ParentIdentifier: parentIdentifier,
		StartDate:        optionalDate(doc.first("beginPosition").optionalValue()),
		EndDate:          optionalDate(doc.first("endPosition").optionalValue()),
		Footprint:        footprint,
	}

	if platform := doc.first("Platform"); platform != nil {
		record.Platform = model.StringPtr(platform.first("shortName").value() + platform.first("serialIdentifier").value())
	}
	record.Instrument = model.StringPtr(doc.first("Instrument").first("shortName").value())
	return record, nil
}

func inferLineage(identifier string) string {
	if len(identifier) >= 3 {
		if lineage, ok := lineageByPrefix[identifier[:3]]; ok {
			return lineage
		}
	}
	return unknownLineage
}

// parsePosList reads a GML posList. With latFirst, pairs are "lat lon".
func parsePosList(posList string, latFirst bool) ([]orb.Point, error) {
	fields := strings.Fields(posList)
	if len(fields)%2 != 0 {
		return nil, malformed("posList has an odd number of ordinates (%d)", len(fields))
	}

	points := make([]orb.Point, 0, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		first, err := parseFloat("posList", fields[i])
		if err != nil {
			return nil, err
		}
		second, err := parseFloat("posList", fields[i+1])
		if err != nil {
			return nil, err
		}
		if latFirst {
			points = append(points, orb.Point{second, first})
		} else {
			points = append(points, orb.Point{first, second})
		}
	}
	return points, nil
}
