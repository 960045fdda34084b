// Package ingest drives acquisition packages from zip file to catalog row.
package ingest

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/venicegeo/bf-acquisition-ingest/assets"
	"github.com/venicegeo/bf-acquisition-ingest/catalog"
	"github.com/venicegeo/bf-acquisition-ingest/formats"
	"github.com/venicegeo/bf-acquisition-ingest/geometry"
	"github.com/venicegeo/bf-acquisition-ingest/model"
	"github.com/venicegeo/bf-acquisition-ingest/util"
)

// State is a step of the per-package state machine
type State int

// States, in processing order. Error is terminal.
const (
	Pending State = iota
	Unzipped
	Detected
	Parsed
	GeometryCorrected
	AssetsResolved
	Written
	Archived
	Error
)

var stateNames = [...]string{"Pending", "Unzipped", "Detected", "Parsed", "GeometryCorrected", "AssetsResolved", "Written", "Archived", "Error"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Item is the result of processing one package
type Item struct {
	ZipPath string
	// Dir is the directory the package was extracted to
	Dir       string
	Detection formats.Detection
	Record    *model.Acquisition
	// State is the last state reached, or Error
	State State
	// Reached is the last state reached before an error
	Reached State
	Err     error
	Result  catalog.UpsertResult
	// AssetErrs are derivation failures; they do not fail the item
	AssetErrs  []error
	ArchivedTo string
}

func (item *Item) reach(state State) {
	item.State = state
	item.Reached = state
}

func (item *Item) fail(err error) Item {
	item.State = Error
	item.Err = err
	return *item
}

// Outcome is "inserted", "updated", "write_failed" or "error"
func (item Item) Outcome() string {
	switch {
	case item.Err == nil:
		return item.Result.String()
	case errors.Is(item.Err, model.ErrCatalogWrite):
		return "write_failed"
	}
	return "error"
}

// AssetResolver finds or derives the images of an extracted package
type AssetResolver interface {
	Resolve(ctx context.Context, dir string, format model.Format, paths *assets.Paths) []error
}

// Pipeline processes packages. Store, Archiver and Resolver are required.
type Pipeline struct {
	// Detector defaults to formats.Detect
	Detector func(zipName, hint string) (formats.Detection, error)
	Readers  formats.Registry
	Resolver AssetResolver
	Store    catalog.Store
	Archiver Archiver
	Notifier Notifier
	Metrics  *Metrics
	// MetadataDir is where packages are extracted; catalog paths are relative to it
	MetadataDir string
	// Timeout bounds each catalog write; zero means no bound
	Timeout time.Duration
	LogCtx  util.LogContext
}

// ProcessZip runs one package through the pipeline. Every package that
// could be extracted is archived, whatever happens after extraction.
func (p *Pipeline) ProcessZip(ctx context.Context, zipPath, hint string) Item {
	start := time.Now()
	item := p.process(ctx, zipPath, hint)
	p.Metrics.Observe(item, time.Since(start))

	if item.Err != nil {
		util.LogSimpleErr(p.LogCtx, fmt.Sprintf("Could not ingest %s (reached %s)", zipPath, item.Reached), item.Err)
	} else {
		util.LogInfo(p.LogCtx, fmt.Sprintf("Ingested %s as %s (%s)", zipPath, item.Record.Identifier, item.Result))
	}
	return item
}

func (p *Pipeline) process(ctx context.Context, zipPath, hint string) Item {
	item := Item{ZipPath: zipPath}
	relativeDir := packageStem(zipPath)
	item.Dir = filepath.Join(p.MetadataDir, relativeDir)

	if err := Unzip(zipPath, item.Dir); err != nil {
		return item.fail(model.NewKindError(model.ErrEmptyPackage, err, "unzip %s", filepath.Base(zipPath)))
	}
	item.reach(Unzipped)

	err := p.catalogue(ctx, &item, hint, relativeDir)

	archivedTo, archiveErr := p.Archiver.Archive(zipPath, ArchiveName(zipPath, item.Detection))
	if archiveErr != nil {
		util.LogAlert(p.LogCtx, fmt.Sprintf("%s was not archived: %v", zipPath, archiveErr))
	} else {
		item.ArchivedTo = archivedTo
		if err == nil {
			item.reach(Archived)
		}
	}

	if err != nil {
		return item.fail(err)
	}
	return item
}

// catalogue takes an extracted package from detection to catalog write
func (p *Pipeline) catalogue(ctx context.Context, item *Item, hint, relativeDir string) error {
	detect := p.Detector
	if detect == nil {
		detect = formats.Detect
	}
	detection, err := detect(item.ZipPath, hint)
	if err != nil {
		return err
	}
	item.Detection = detection
	item.reach(Detected)

	reader, err := p.Readers.Reader(detection.Format)
	if err != nil {
		return err
	}
	record, err := reader.Read(item.Dir)
	if err != nil {
		return err
	}
	item.reach(Parsed)

	if err := record.Validate(); err != nil {
		return err
	}
	if geometry.SelfIntersects(record.Footprint) {
		return model.NewKindError(model.ErrMalformedMetadata, geometry.ErrDegenerateFootprint, "footprint of %s", record.Identifier)
	}
	item.reach(GeometryCorrected)

	// OPT and K2 packages may keep their content one directory down
	metadataPath := model.StringValue(record.MetadataPath)
	contentDir := path.Dir(metadataPath)
	var paths assets.Paths
	item.AssetErrs = p.Resolver.Resolve(ctx, filepath.Join(item.Dir, filepath.FromSlash(contentDir)), detection.Format, &paths)
	derived := paths.DerivedAssets(path.Join(relativeDir, contentDir))

	record.CallID = model.StringPtr(detection.CallID)
	record.MetadataPath = model.StringPtr(path.Join(relativeDir, metadataPath))
	record.QuicklookPath = derived.Quicklook
	record.ThumbnailPath = derived.Thumbnail
	item.Record = record
	item.reach(AssetsResolved)

	if err := p.write(ctx, item); err != nil {
		return err
	}
	item.reach(Written)
	return nil
}

func (p *Pipeline) write(ctx context.Context, item *Item) error {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}
	result, err := p.Store.Upsert(ctx, item.Record)
	if err != nil {
		if model.ErrorKind(err) == nil {
			err = model.NewKindError(model.ErrCatalogWrite, err, "upsert %s", item.Record.Identifier)
		}
		return err
	}
	item.Result = result
	return nil
}

// IngestFile processes one package and sends its verdict to the notifier
func (p *Pipeline) IngestFile(ctx context.Context, zipPath, hint string) Item {
	item := p.ProcessZip(ctx, zipPath, hint)
	if p.Notifier != nil {
		if err := p.Notifier.Notify(ctx, item); err != nil {
			util.LogAlert(p.LogCtx, fmt.Sprintf("Notification for %s failed: %v", zipPath, err))
		}
	}
	return item
}

// packageStem is the zip base name without its extension
func packageStem(zipPath string) string {
	base := filepath.Base(zipPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
