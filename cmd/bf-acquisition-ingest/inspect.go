package main

import (
	"fmt"
	"path"
	"path/filepath"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/venicegeo/bf-acquisition-ingest/assets"
	"github.com/venicegeo/bf-acquisition-ingest/formats"
	"github.com/venicegeo/bf-acquisition-ingest/model"
)

// inspectAction reads an already extracted package and prints the feature
// that would be catalogued. Nothing is converted or written.
func inspectAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.NewExitError("usage: inspect <dir> --format F", 2)
	}
	format, err := model.ParseFormat(c.String("format"))
	if err != nil {
		return cli.NewExitError(err, 2)
	}
	if format == model.FormatAuto {
		return cli.NewExitError("inspect needs an explicit --format", 2)
	}

	feature, err := inspect(c.Args().First(), format)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintln(c.App.Writer, feature)
	return nil
}

func inspect(dir string, format model.Format) (string, error) {
	reader, err := formats.NewRegistry().Reader(format)
	if err != nil {
		return "", err
	}
	record, err := reader.Read(dir)
	if err != nil {
		return "", err
	}
	if err := record.Validate(); err != nil {
		return "", err
	}

	contentDir := path.Dir(model.StringValue(record.MetadataPath))
	paths, err := assets.Discover(filepath.Join(dir, filepath.FromSlash(contentDir)), format)
	if err != nil {
		return "", err
	}
	derived := paths.DerivedAssets(contentDir)
	record.QuicklookPath = derived.Quicklook
	record.ThumbnailPath = derived.Thumbnail

	return featureString(record)
}

func featureString(creator model.GeoJSONFeatureCreator) (string, error) {
	feature, err := creator.GeoJSONFeature()
	if err != nil {
		return "", err
	}
	return feature.String(), nil
}
