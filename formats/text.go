package formats

import (
	"bufio"
	"bytes"
	"strings"
	"time"

	"github.com/paulmach/orb"

	"github.com/venicegeo/bf-acquisition-ingest/geometry"
	"github.com/venicegeo/bf-acquisition-ingest/model"
)

// Lineages of the text formats
const (
	saccLineage    = "urn:ogc:def:EOP:CONAE:SAC-C"
	irsLineage     = "urn:ogc:def:EOP:ISRO:IRS"
	landsatLineage = "urn:ogc:def:EOP:USGS:LANDSAT"
)

// NewSACCReader reads SAC-C "key: value" text metadata
func NewSACCReader() Reader {
	return fileReader{format: model.FormatSACC, extensions: []string{"txt"}, parse: parseSACC}
}

// NewIRSReader reads IRS text metadata, where keys are fixed line prefixes
func NewIRSReader() Reader {
	return fileReader{format: model.FormatIRS, extensions: []string{"txt"}, parse: parseIRS}
}

// NewLandsatReader reads USGS MTL `KEY = "value"` metadata
func NewLandsatReader() Reader {
	return fileReader{format: model.FormatLANDSAT, extensions: []string{"txt"}, parse: parseLandsat}
}

// corner keys
const (
	ulLat = "ul_lat"
	ulLon = "ul_lon"
	urLat = "ur_lat"
	urLon = "ur_lon"
	lrLat = "lr_lat"
	lrLon = "lr_lon"
	llLat = "ll_lat"
	llLon = "ll_lon"
)

// cornerRing builds the UL, UR, LR, LL ring from named corner values
func cornerRing(values map[string]string) (model.Footprint, error) {
	order := [][2]string{{ulLon, ulLat}, {urLon, urLat}, {lrLon, lrLat}, {llLon, llLat}}
	points := make([]orb.Point, 0, len(order))
	for _, keys := range order {
		lonRaw, hasLon := values[keys[0]]
		latRaw, hasLat := values[keys[1]]
		if !hasLon || !hasLat {
			return nil, malformed("missing corner %s/%s", keys[0], keys[1])
		}
		lon, err := parseFloat(keys[0], lonRaw)
		if err != nil {
			return nil, err
		}
		lat, err := parseFloat(keys[1], latRaw)
		if err != nil {
			return nil, err
		}
		points = append(points, orb.Point{lon, lat})
	}

	footprint, err := geometry.PassThrough(points)
	if err != nil {
		return nil, footprintError(err)
	}
	return footprint, nil
}

func scanLines(content []byte, visit func(line string)) error {
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		visit(strings.TrimRight(scanner.Text(), "\r"))
	}
	return scanner.Err()
}

var saccCorners = map[string]string{
	"lat_upper_left":  ulLat,
	"lon_upper_left":  ulLon,
	"lat_upper_right": urLat,
	"lon_upper_right": urLon,
	"lat_lower_right": lrLat,
	"lon_lower_right": lrLon,
	"lat_lower_left":  llLat,
	"lon_lower_left":  llLon,
}

func parseSACC(name string, content []byte) (*model.Acquisition, error) {
	record := &model.Acquisition{ParentIdentifier: saccLineage}
	corners := map[string]string{}

	err := scanLines(content, func(line string) {
		separator := strings.Index(line, ":")
		if separator < 0 {
			return
		}
		key := strings.TrimSpace(line[:separator])
		value := strings.TrimSpace(line[separator+1:])

		switch key {
		case "imageID":
			if value != "" {
				record.Identifier = saccLineage + ":" + value
			}
		case "start":
			record.StartDate = optionalDate(&value)
		case "stop":
			record.EndDate = optionalDate(&value)
		case "satellite":
			record.Platform = model.StringPtr(value)
		case "sensor":
			record.Instrument = model.StringPtr(value)
		default:
			if corner, ok := saccCorners[key]; ok {
				corners[corner] = value
			}
		}
	})
	if err != nil {
		return nil, model.NewKindError(model.ErrMalformedMetadata, err, "%s", name)
	}
	if record.Identifier == "" {
		return nil, malformed("%s has no imageID", name)
	}

	if record.Footprint, err = cornerRing(corners); err != nil {
		return nil, err
	}
	return record, nil
}

// irsPrefixes are matched against the start of each line, in order
var irsPrefixes = []struct {
	prefix string
	key    string
}{
	{"Satellite", "satellite"},
	{"Sensor", "sensor"},
	{"DateOfPass", "date"},
	{"North West Latitude", ulLat},
	{"North West Longitude", ulLon},
	{"North East Latitude", urLat},
	{"North East Longitude", urLon},
	{"South East Latitude", lrLat},
	{"South East Longitude", lrLon},
	{"South West Latitude", llLat},
	{"South West Longitude", llLon},
}

// irsDateLayout matches "01-NOV-2010"; month names parse case-insensitively
const irsDateLayout = "02-Jan-2006"

func parseIRS(name string, content []byte) (*model.Acquisition, error) {
	values := map[string]string{}
	err := scanLines(content, func(line string) {
		for _, p := range irsPrefixes {
			if strings.HasPrefix(line, p.prefix) {
				values[p.key] = strings.TrimSpace(line[len(p.prefix):])
				return
			}
		}
	})
	if err != nil {
		return nil, model.NewKindError(model.ErrMalformedMetadata, err, "%s", name)
	}

	stem := fileStem(name)
	if stem == "" {
		return nil, malformed("%s has no usable file name", name)
	}
	record := &model.Acquisition{
		Identifier:       irsLineage + ":" + model.NormalizeIdentifier(stem),
		ParentIdentifier: irsLineage,
	}
	if satellite, ok := values["satellite"]; ok {
		record.Platform = model.StringPtr("IRS " + satellite)
	}
	if sensor, ok := values["sensor"]; ok {
		record.Instrument = model.StringPtr(sensor)
	}
	if raw, ok := values["date"]; ok {
		if pass, err := time.Parse(irsDateLayout, raw); err == nil {
			date := pass.Format("2006-01-02")
			record.StartDate = &date
			record.EndDate = model.StringPtr(date)
		}
	}

	if record.Footprint, err = cornerRing(values); err != nil {
		return nil, err
	}
	return record, nil
}

var landsatCorners = map[string]string{
	"PRODUCT_UL_CORNER_LAT": ulLat,
	"PRODUCT_UL_CORNER_LON": ulLon,
	"PRODUCT_UR_CORNER_LAT": urLat,
	"PRODUCT_UR_CORNER_LON": urLon,
	"PRODUCT_LR_CORNER_LAT": lrLat,
	"PRODUCT_LR_CORNER_LON": lrLon,
	"PRODUCT_LL_CORNER_LAT": llLat,
	"PRODUCT_LL_CORNER_LON": llLon,
}

func parseLandsat(name string, content []byte) (*model.Acquisition, error) {
	stem := fileStem(name)
	if stem == "" {
		return nil, malformed("%s has no usable file name", name)
	}
	record := &model.Acquisition{
		Identifier:       landsatLineage + ":" + model.NormalizeIdentifier(stem),
		ParentIdentifier: landsatLineage,
	}
	corners := map[string]string{}
	var date, sceneTime string

	err := scanLines(content, func(line string) {
		parts := strings.Split(line, "=")
		if len(parts) != 2 {
			return
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(strings.ReplaceAll(parts[1], `"`, ""))

		switch key {
		case "ACQUISITION_DATE", "DATE_ACQUIRED":
			date = value
		case "SCENE_CENTER_SCAN_TIME", "SCENE_CENTER_TIME":
			sceneTime = value
		case "SPACECRAFT_ID":
			record.Platform = model.StringPtr(value)
		case "SENSOR_ID":
			record.Instrument = model.StringPtr(value)
		default:
			if corner, ok := landsatCorners[key]; ok {
				corners[corner] = value
			}
		}
	})
	if err != nil {
		return nil, model.NewKindError(model.ErrMalformedMetadata, err, "%s", name)
	}

	if date != "" {
		instant := date
		if sceneTime != "" {
			instant += "T" + sceneTime
		}
		record.StartDate = model.StringPtr(model.NormalizeDate(instant))
		record.EndDate = model.StringPtr(model.NormalizeDate(instant))
	}

	if record.Footprint, err = cornerRing(corners); err != nil {
		return nil, err
	}
	return record, nil
}
