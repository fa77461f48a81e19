// Package audit is the append-only sink for compliance-relevant state
// transitions. Entries are emitted inside the same call that performs the
// transition, after the transaction commits.
package audit

import (
	"context"
	"time"

	"go.uber.org/zap"

	"go-leaveflow/internal/shared/contextutil"
)

type Event struct {
	Action    string
	CompanyID string
	ActorID   string
	SubjectID string
	Message   string
	Meta      map[string]any
}

//go:generate mockgen -source=audit.go -destination=mock/audit_mock.go -package=mock
type Logger interface {
	Log(ctx context.Context, event Event)
}

// StdoutLogger writes audit events through the process zap logger. A
// database-backed sink can replace it without touching the emitters.
type StdoutLogger struct{}

func NewStdoutLogger() *StdoutLogger {
	return &StdoutLogger{}
}

func (l *StdoutLogger) Log(ctx context.Context, event Event) {
	zap.L().Named("audit").Info("audit event",
		zap.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("action", event.Action),
		zap.String("company_id", event.CompanyID),
		zap.String("actor_id", event.ActorID),
		zap.String("subject_id", event.SubjectID),
		zap.String("message", event.Message),
		zap.Any("meta", event.Meta),
	)
}
