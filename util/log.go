// Copyright 2018, RadiantBlue Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package util

import (
	"os"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Severity is the level attached to an audit message
type Severity string

// Audit severities
const (
	DEBUG   Severity = "DEBUG"
	INFO    Severity = "INFO"
	NOTICE  Severity = "NOTICE"
	WARNING Severity = "WARNING"
	ERROR   Severity = "ERROR"
)

// LogContext identifies the process and session a log message belongs to
type LogContext interface {
	AppName() string
	SessionID() string
	LogRootDir() string
}

// BasicLogContext is a LogContext that lazily creates its own session ID
type BasicLogContext struct {
	sessionID string
}

// AppName returns the application name
func (ctx *BasicLogContext) AppName() string {
	return AppName
}

// SessionID returns a Session ID, creating one if needed
func (ctx *BasicLogContext) SessionID() string {
	if ctx.sessionID == "" {
		ctx.sessionID = NewSessionID()
	}
	return ctx.sessionID
}

// LogRootDir returns an empty string; output always goes to the process logger
func (ctx *BasicLogContext) LogRootDir() string {
	return ""
}

// NewSessionID returns a random session identifier
func NewSessionID() string {
	return uuid.New().String()
}

// LogAuditInput describes an auditable action
type LogAuditInput struct {
	Actor    string
	Action   string
	Actee    string
	Message  string
	Severity Severity
}

var (
	loggerMu sync.RWMutex
	logger   *zap.Logger
)

// SetLogger replaces the process logger, returning a func that restores the previous one
func SetLogger(l *zap.Logger) (restore func()) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	previous := logger
	logger = l
	return func() { SetLogger(previous) }
}

func getLogger() *zap.Logger {
	loggerMu.RLock()
	l := logger
	loggerMu.RUnlock()
	if l != nil {
		return l
	}

	loggerMu.Lock()
	defer loggerMu.Unlock()
	if logger == nil {
		logger = newProcessLogger()
	}
	return logger
}

func newProcessLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	level := zapcore.InfoLevel
	if raw, ok := os.LookupEnv(LOG_LEVEL); ok {
		if err := level.UnmarshalText([]byte(raw)); err != nil {
			level = zapcore.InfoLevel
		}
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

func contextFields(ctx LogContext) []zap.Field {
	if ctx == nil {
		return nil
	}
	return []zap.Field{
		zap.String("app", ctx.AppName()),
		zap.String("session", ctx.SessionID()),
	}
}

// LogInfo logs an informational message
func LogInfo(ctx LogContext, message string) {
	getLogger().Info(message, contextFields(ctx)...)
}

// LogAlert logs a message that an operator should look at
func LogAlert(ctx LogContext, message string) {
	getLogger().Warn(message, contextFields(ctx)...)
}

// LogSimpleErr logs an error with a message and returns the original error
// so that callers can log and return in one statement
func LogSimpleErr(ctx LogContext, message string, err error) error {
	fields := append(contextFields(ctx), zap.Error(err))
	getLogger().Error(message, fields...)
	return err
}

// LogAudit logs an audit record
func LogAudit(ctx LogContext, input LogAuditInput) {
	fields := append(contextFields(ctx),
		zap.String("actor", input.Actor),
		zap.String("action", input.Action),
		zap.String("actee", input.Actee),
		zap.String("severity", string(input.Severity)),
	)

	l := getLogger()
	switch input.Severity {
	case ERROR:
		l.Error(input.Message, fields...)
	case WARNING:
		l.Warn(input.Message, fields...)
	case DEBUG:
		l.Debug(input.Message, fields...)
	default:
		l.Info(input.Message, fields...)
	}
}

// SyncLogger flushes buffered log entries
func SyncLogger() {
	_ = getLogger().Sync()
}
