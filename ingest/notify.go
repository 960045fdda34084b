package ingest

import (
	"context"
	"fmt"

	"github.com/venicegeo/bf-acquisition-ingest/util"
)

// Notifier reports the verdict of a single-package run
type Notifier interface {
	Notify(ctx context.Context, item Item) error
}

// Verdict is "OK" for a package that reached the catalog, "KO" otherwise
func Verdict(item Item) string {
	if item.Err != nil {
		return "KO"
	}
	return "OK"
}

// LogNotifier writes the verdict to the audit log
type LogNotifier struct {
	LogCtx    util.LogContext
	Recipient string
}

// Notify implements Notifier
func (n LogNotifier) Notify(ctx context.Context, item Item) error {
	verdict := Verdict(item)
	severity := util.INFO
	if item.Err != nil {
		severity = util.ERROR
	}
	util.LogAudit(n.LogCtx, util.LogAuditInput{
		Actor:    util.AppName,
		Action:   "notify",
		Actee:    n.Recipient,
		Message:  fmt.Sprintf("Upload of %s: %s", item.ZipPath, verdict),
		Severity: severity,
	})
	return nil
}
