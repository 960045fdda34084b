package util

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogAudit_WritesStructuredFields(t *testing.T) {
	// Mock
	core, logs := observer.New(zap.DebugLevel)
	restore := SetLogger(zap.New(core))
	defer restore()
	ctx := &BasicLogContext{}

	// Tested code
	LogAudit(ctx, LogAuditInput{Actor: "ingest", Action: "upsert", Actee: "urn:ogc:def:EOP:SPOT:ALL:X", Message: "written", Severity: INFO})
	err := LogSimpleErr(ctx, "failed", errors.New("boom"))

	// Asserts
	assert.EqualError(t, err, "boom")
	entries := logs.All()
	if assert.Len(t, entries, 2) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "written", entries[0].Message)
		assert.Equal(t, "ingest", fields["actor"])
		assert.Equal(t, "upsert", fields["action"])
		assert.Equal(t, AppName, fields["app"])
		assert.Equal(t, ctx.SessionID(), fields["session"])
		assert.Equal(t, zap.ErrorLevel, entries[1].Level)
	}
}

func TestBasicLogContext_SessionIDIsStable(t *testing.T) {
	ctx := &BasicLogContext{}
	first := ctx.SessionID()

	assert.NotEmpty(t, first)
	assert.Equal(t, first, ctx.SessionID())
	assert.NotEqual(t, first, (&BasicLogContext{}).SessionID())
}
