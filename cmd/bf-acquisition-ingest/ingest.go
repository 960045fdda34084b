package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/venicegeo/bf-acquisition-ingest/assets"
	"github.com/venicegeo/bf-acquisition-ingest/catalog"
	"github.com/venicegeo/bf-acquisition-ingest/formats"
	"github.com/venicegeo/bf-acquisition-ingest/ingest"
	"github.com/venicegeo/bf-acquisition-ingest/util"
)

// newPipeline wires a pipeline to the catalog database and the configured directories.
// The returned store must be closed by the caller.
func newPipeline(ctx util.LogContext) (*ingest.Pipeline, catalog.Store, error) {
	db, err := getDbConnectionFunc(ctx)
	if err != nil {
		return nil, nil, err
	}
	store := catalog.NewPostgresStore(db, ctx)
	pipeline := &ingest.Pipeline{
		Readers:     formats.NewRegistry(),
		Resolver:    assets.NewResolver(util.GetGdalTranslatePath(), util.GetRasterToolTimeout(), ctx),
		Store:       store,
		Archiver:    ingest.DirArchiver{Dir: util.GetArchivesDir()},
		Metrics:     ingest.NewMetrics(),
		MetadataDir: util.GetMetadataDir(),
		Timeout:     util.GetCatalogTimeout(),
		LogCtx:      ctx,
	}
	return pipeline, store, nil
}

// interruptible returns a context canceled on SIGINT or SIGTERM
func interruptible() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func writeMetrics(ctx util.LogContext, metrics *ingest.Metrics) {
	textfile := util.GetMetricsTextfile()
	if textfile == "" {
		return
	}
	if err := metrics.WriteTextfile(textfile); err != nil {
		util.LogAlert(ctx, fmt.Sprintf("Could not write metrics to %s: %v", textfile, err))
	}
}

func ingestAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.NewExitError("usage: ingest <zip>", 2)
	}
	ctx := &util.BasicLogContext{}
	pipeline, store, err := newPipeline(ctx)
	if err != nil {
		return cli.NewExitError(util.LogSimpleErr(ctx, "Could not connect to the catalog", err), 1)
	}
	defer store.Close()
	if c.Bool("notify") {
		pipeline.Notifier = ingest.LogNotifier{LogCtx: ctx, Recipient: c.String("recipient")}
	}

	runCtx, cancel := interruptible()
	defer cancel()
	item := pipeline.IngestFile(runCtx, c.Args().First(), c.String("format"))
	writeMetrics(ctx, pipeline.Metrics)

	if item.Err != nil {
		return cli.NewExitError(fmt.Sprintf("%s: %v", ingest.Verdict(item), item.Err), 1)
	}
	fmt.Fprintf(c.App.Writer, "%s %s %s\n", ingest.Verdict(item), item.Record.Identifier, item.Result)
	return nil
}

func ingestAllAction(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.NewExitError("usage: ingest_all <callId|ALL> <format|ALL>", 2)
	}
	ctx := &util.BasicLogContext{}
	source := c.String("source")
	if source == "" {
		source = util.GetArchivesDir()
	}

	pipeline, store, err := newPipeline(ctx)
	if err != nil {
		return cli.NewExitError(util.LogSimpleErr(ctx, "Could not connect to the catalog", err), 1)
	}
	defer store.Close()

	runCtx, cancel := interruptible()
	defer cancel()
	stats, err := pipeline.Batch(runCtx, ingest.Selection{
		Source: source,
		Filter: ingest.Filter{CallID: c.Args().Get(0), Format: c.Args().Get(1)},
	})
	writeMetrics(ctx, pipeline.Metrics)
	if err != nil {
		return cli.NewExitError(util.LogSimpleErr(ctx, "Batch ingest failed", err), 1)
	}
	fmt.Fprintln(c.App.Writer, stats.String())
	return nil
}
