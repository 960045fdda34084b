package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/venicegeo/bf-acquisition-ingest/formats"
	"github.com/venicegeo/bf-acquisition-ingest/model"
	"github.com/venicegeo/bf-acquisition-ingest/util"
)

// All disables a batch filter
const All = "ALL"

// JobStats summarizes a batch
type JobStats struct {
	Written     int
	Skipped     int
	Errored     int
	WriteFailed int
	StartTime   time.Time
	EndTime     time.Time
	Canceled    bool
}

func (stats *JobStats) String() string {
	return fmt.Sprintf(`
		Start:	%v
		End:	%v
		Canceled: %v
		#Written:	%v
		#Skipped:	%v
		#Error:		%v
		#WriteFailed:	%v
		`,
		stats.StartTime.Format("Mon Jan _2 15:04:05 2006"),
		stats.EndTime.Format("Mon Jan _2 15:04:05 2006"),
		stats.Canceled,
		stats.Written,
		stats.Skipped,
		stats.Errored,
		stats.WriteFailed)
}

func (stats *JobStats) count(item Item) {
	switch item.Outcome() {
	case "write_failed":
		stats.WriteFailed++
	case "error":
		stats.Errored++
	default:
		stats.Written++
	}
}

// Filter selects archived packages by the call id and format of their name
type Filter struct {
	CallID string
	Format string
}

// Match reports whether a package name passes the filter. Formats compare by
// canonical name, so RSAT2 matches RS2.
func (f Filter) Match(zipName string) bool {
	tokens := formats.PackageTokens(zipName)
	if f.CallID != "" && f.CallID != All && tokens[0] != f.CallID {
		return false
	}
	if f.Format == "" || strings.EqualFold(f.Format, All) {
		return true
	}
	if len(tokens) < 2 {
		return false
	}
	want, err := model.ParseFormat(f.Format)
	if err != nil {
		return false
	}
	got, err := model.ParseFormat(tokens[1])
	return err == nil && got == want
}

// Selection is either a single File, or the *.zip files of Source that pass Filter
type Selection struct {
	File   string
	Hint   string
	Source string
	Filter Filter
}

// maintainer is implemented by stores that want a pass after a batch
type maintainer interface {
	Maintain(ctx context.Context) error
}

// progressLogInterval is how often a running batch logs its counts
const progressLogInterval = 30 * time.Second

// Batch processes every selected package in order. No failure stops the
// batch; cancelling ctx stops it between packages.
func (p *Pipeline) Batch(ctx context.Context, selection Selection) (JobStats, error) {
	var stats JobStats
	stats.StartTime = time.Now()

	files, skipped, err := selection.files()
	if err != nil {
		return stats, err
	}
	stats.Skipped = skipped

	hint := selection.Hint
	if hint == "" {
		hint = string(model.FormatAuto)
	}

	lastProgressLogTime := time.Now()
	for _, file := range files {
		if ctx.Err() != nil {
			util.LogInfo(p.LogCtx, "Ingest job canceled.")
			stats.Canceled = true
			break
		}
		if time.Since(lastProgressLogTime) > progressLogInterval {
			util.LogInfo(p.LogCtx, fmt.Sprintf("Ingest Progress: Written:%v Skipped:%v Error:%v WriteFailed:%v",
				stats.Written, stats.Skipped, stats.Errored, stats.WriteFailed))
			lastProgressLogTime = time.Now()
		}

		stats.count(p.ProcessZip(ctx, file, hint))
	}

	if m, ok := p.Store.(maintainer); ok && stats.Written > 0 {
		if err := m.Maintain(ctx); err != nil {
			util.LogAlert(p.LogCtx, "Catalog maintenance failed: "+err.Error())
		}
	}

	stats.EndTime = time.Now()
	util.LogInfo(p.LogCtx, "Ingest Complete: "+stats.String())
	util.LogInfo(p.LogCtx, fmt.Sprintf("Ingest took %s", stats.EndTime.Sub(stats.StartTime)))
	return stats, nil
}

// files lists the selected packages and how many were filtered out
func (s Selection) files() ([]string, int, error) {
	if s.File != "" {
		return []string{s.File}, 0, nil
	}
	if s.Source == "" {
		return nil, 0, errors.New("selection has neither a file nor a source directory")
	}

	names, err := formats.ListFiles(s.Source, "zip")
	if err != nil {
		return nil, 0, errors.Wrapf(err, "list %s", s.Source)
	}
	var files []string
	skipped := 0
	for _, name := range names {
		if !s.Filter.Match(name) {
			skipped++
			continue
		}
		files = append(files, filepath.Join(s.Source, name))
	}
	return files, skipped, nil
}
