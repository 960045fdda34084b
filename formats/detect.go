package formats

import (
	"path/filepath"
	"strings"

	"github.com/venicegeo/bf-acquisition-ingest/model"
)

// Registry maps every supported format to its reader
type Registry map[model.Format]Reader

// NewRegistry returns a registry holding a reader for each supported format
func NewRegistry() Registry {
	registry := Registry{}
	for _, reader := range []Reader{
		NewEOPReader(model.FormatOPT),
		NewEOPReader(model.FormatSAR),
		NewEOPReader(model.FormatK2),
		NewEOPReader(model.FormatRS1),
		NewRS2Reader(),
		NewDIMAPReader(model.FormatDIMAP),
		NewDIMAPReader(model.FormatF2),
		NewDIMAPv2Reader(),
		NewSACCReader(),
		NewIRSReader(),
		NewLandsatReader(),
	} {
		registry[reader.Format()] = reader
	}
	return registry
}

// Reader returns the reader for a format
func (r Registry) Reader(format model.Format) (Reader, error) {
	reader, ok := r[format]
	if !ok {
		return nil, model.NewKindError(model.ErrUnknownFormat, nil, "no reader for %q", format)
	}
	return reader, nil
}

// Detection is what a package file name and format hint resolve to
type Detection struct {
	CallID string
	Format model.Format
	// Hinted is true when the format came from an explicit hint rather than the file name
	Hinted bool
}

// Detect resolves the call id and format of a package named
// "{callId}_{format}_*.zip". The call id is always the first token; the
// format is the hint unless the hint is AUTO (or empty).
func Detect(zipName, hint string) (Detection, error) {
	tokens := PackageTokens(zipName)
	detection := Detection{CallID: tokens[0]}

	if strings.TrimSpace(hint) == "" {
		hint = string(model.FormatAuto)
	}
	format, err := model.ParseFormat(hint)
	if err != nil {
		return detection, err
	}

	if format != model.FormatAuto {
		detection.Format = format
		detection.Hinted = true
		return detection, nil
	}

	if len(tokens) < 2 {
		return detection, model.NewKindError(model.ErrUnknownFormat, nil, "%s does not name a format", zipName)
	}
	format, err = model.ParseFormat(tokens[1])
	if err != nil {
		return detection, err
	}
	if format == model.FormatAuto {
		return detection, model.NewKindError(model.ErrUnknownFormat, nil, "%s does not name a format", zipName)
	}
	detection.Format = format
	return detection, nil
}

// PackageTokens splits a package base name (without .zip) on underscores
func PackageTokens(zipName string) []string {
	base := filepath.Base(zipName)
	if strings.EqualFold(filepath.Ext(base), ".zip") {
		base = base[:len(base)-len(".zip")]
	}
	return strings.Split(base, "_")
}
