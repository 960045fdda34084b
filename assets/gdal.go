package assets

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// Converter renders derived images. Paths are absolute.
type Converter interface {
	// ToJPEG converts a raster to a full size JPEG
	ToJPEG(ctx context.Context, src, dst string) error
	// Thumbnail writes a JPEG downscaled to a quarter of the source size
	Thumbnail(ctx context.Context, src, dst string) error
}

// GDALConverter shells out to gdal_translate
type GDALConverter struct {
	Path string
}

// ToJPEG implements Converter. gdal_translate leaves a .aux.xml sidecar next
// to the output, which is removed.
func (c GDALConverter) ToJPEG(ctx context.Context, src, dst string) error {
	if err := c.run(ctx, "-of", "JPEG", src, dst); err != nil {
		return err
	}
	if err := os.Remove(dst + ".aux.xml"); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove gdal sidecar")
	}
	return nil
}

// Thumbnail implements Converter
func (c GDALConverter) Thumbnail(ctx context.Context, src, dst string) error {
	return c.run(ctx, "-of", "JPEG", "-outsize", "25%", "25%", src, dst)
}

func (c GDALConverter) run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, c.Path, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return errors.Wrapf(ctx.Err(), "%s %s", c.Path, strings.Join(args, " "))
		}
		return errors.Wrapf(err, "%s %s: %s", c.Path, strings.Join(args, " "), strings.TrimSpace(out.String()))
	}
	return nil
}
