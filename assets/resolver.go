// Package assets finds or derives the quicklook and thumbnail images that
// accompany an acquisition package.
package assets

import (
	"context"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/venicegeo/bf-acquisition-ingest/formats"
	"github.com/venicegeo/bf-acquisition-ingest/model"
	"github.com/venicegeo/bf-acquisition-ingest/util"
)

// Paths are image file names relative to the package directory; empty means absent
type Paths struct {
	Quicklook string
	Thumbnail string
}

// DerivedAssets returns the paths prefixed with a catalog-relative directory
func (p Paths) DerivedAssets(prefix string) model.DerivedAssets {
	var da model.DerivedAssets
	if p.Quicklook != "" {
		da.Quicklook = model.StringPtr(path.Join(prefix, p.Quicklook))
	}
	if p.Thumbnail != "" {
		da.Thumbnail = model.StringPtr(path.Join(prefix, p.Thumbnail))
	}
	return da
}

// Resolver discovers package images and derives the missing ones
type Resolver struct {
	Converter Converter
	// Timeout bounds each converter invocation; zero means no bound
	Timeout time.Duration
	LogCtx  util.LogContext
}

// NewResolver returns a Resolver using gdal_translate at gdalPath
func NewResolver(gdalPath string, timeout time.Duration, logCtx util.LogContext) *Resolver {
	return &Resolver{
		Converter: GDALConverter{Path: gdalPath},
		Timeout:   timeout,
		LogCtx:    logCtx,
	}
}

// Discover looks for images shipped in dir, without deriving anything
func Discover(dir string, format model.Format) (Paths, error) {
	var paths Paths
	images, err := formats.ListFiles(dir, "jpg", "jpeg")
	if err != nil {
		return paths, model.NewKindError(model.ErrAssetDerivation, err, "list images in %s", dir)
	}

	for _, image := range images {
		if format.QuicklookIsAnyJPEG() {
			paths.Quicklook = image
			continue
		}
		lower := strings.ToLower(image)
		if strings.HasPrefix(lower, "icon") {
			paths.Thumbnail = image
		}
		if strings.HasPrefix(lower, "preview") {
			paths.Quicklook = image
		}
	}
	return paths, nil
}

// Resolve fills paths from the images found in dir, converting a raster to a
// quicklook and downscaling the quicklook to a thumbnail when they are missing.
// Failures are logged and returned, and leave the affected path unset.
func (r *Resolver) Resolve(ctx context.Context, dir string, format model.Format, paths *Paths) []error {
	var errs []error
	found, err := Discover(dir, format)
	if err != nil {
		return append(errs, r.logFailure(err))
	}
	*paths = found

	if paths.Quicklook == "" && format.ShipsRasterSource() {
		if quicklook, err := r.rasterQuicklook(ctx, dir); err != nil {
			errs = append(errs, r.logFailure(err))
		} else {
			paths.Quicklook = quicklook
		}
	}

	if paths.Quicklook != "" && paths.Thumbnail == "" {
		thumbnail := "th_" + paths.Quicklook
		err := r.convert(ctx, func(ctx context.Context) error {
			return r.Converter.Thumbnail(ctx, filepath.Join(dir, paths.Quicklook), filepath.Join(dir, thumbnail))
		})
		if err != nil {
			errs = append(errs, r.logFailure(model.NewKindError(model.ErrAssetDerivation, err, "thumbnail of %s", paths.Quicklook)))
		} else {
			paths.Thumbnail = thumbnail
		}
	}
	return errs
}

// rasterQuicklook converts the first TIFF of dir into a JPEG of the same stem.
// No TIFF is not an error.
func (r *Resolver) rasterQuicklook(ctx context.Context, dir string) (string, error) {
	rasters, err := formats.ListFiles(dir, "tif")
	if err != nil {
		return "", model.NewKindError(model.ErrAssetDerivation, err, "list rasters in %s", dir)
	}
	if len(rasters) == 0 {
		return "", nil
	}

	source := rasters[0]
	jpeg := strings.TrimSuffix(source, filepath.Ext(source)) + ".jpg"
	err = r.convert(ctx, func(ctx context.Context) error {
		return r.Converter.ToJPEG(ctx, filepath.Join(dir, source), filepath.Join(dir, jpeg))
	})
	if err != nil {
		return "", model.NewKindError(model.ErrAssetDerivation, err, "quicklook from %s", source)
	}
	util.LogInfo(r.logCtx(), "Created quicklook "+jpeg+" from "+source)
	return jpeg, nil
}

func (r *Resolver) convert(ctx context.Context, run func(context.Context) error) error {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	return run(ctx)
}

func (r *Resolver) logFailure(err error) error {
	util.LogAlert(r.logCtx(), err.Error())
	return err
}

func (r *Resolver) logCtx() util.LogContext {
	if r.LogCtx == nil {
		return &util.BasicLogContext{}
	}
	return r.LogCtx
}
