package audit

import (
	"context"

	"admincore/internal/shared/audit"
	"admincore/internal/shared/biztime"
	"admincore/internal/shared/goroutine"
	"admincore/internal/shared/logger"
)

// SlogSink writes audit events to the structured log asynchronously so the
// request path never waits on logging.
type SlogSink struct {
	logger logger.Interface
}

func NewSlogSink(log logger.Interface) *SlogSink {
	return &SlogSink{logger: log.Named("audit")}
}

func (s *SlogSink) Emit(_ context.Context, event audit.Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = biztime.NowUTC()
	}
	goroutine.SafeGo(s.logger, "audit.emit", func() {
		s.logger.Infow("security event",
			"type", string(event.Type),
			"principal_id", event.PrincipalID,
			"username", event.Username,
			"device_id", event.DeviceID,
			"ip", event.IPAddress,
			"user_agent", event.UserAgent,
			"detail", event.Detail,
			"occurred_at", event.OccurredAt,
		)
	})
}
