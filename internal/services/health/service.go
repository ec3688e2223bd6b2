package health

import (
	"context"
	"database/sql"
	"time"
)

// Service encapsulates health-related checks.
type Service struct {
	DB *sql.DB
}

// NewService constructs a new health service. db may be nil when running on
// the in-memory repository.
func NewService(db *sql.DB) *Service {
	return &Service{DB: db}
}

// Status reports process liveness and, when a database is wired, whether it
// answers a ping.
func (s *Service) Status(ctx context.Context) map[string]bool {
	status := map[string]bool{"ok": true}
	if s.DB != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		status["database"] = s.DB.PingContext(pingCtx) == nil
	}
	return status
}
