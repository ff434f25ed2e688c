package reminder

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/petalmart/storefront/internal/log"
)

// Scheduler periodically scans every indexed scope for due reminders.
type Scheduler struct {
	svc      *ReminderService
	interval time.Duration
}

func NewScheduler(svc *ReminderService, interval time.Duration) *Scheduler {
	return &Scheduler{svc: svc, interval: interval}
}

// Run blocks until the context is cancelled.
func (s *Scheduler) Run(c context.Context) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Scheduler Run").
		Logger()
	c = logger.WithContext(c)

	logger.Info().Msg("starting reminder scheduler")
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.Done():
			logger.Info().Msg("stopping reminder scheduler")
			return
		case <-ticker.C:
			for _, scope := range s.svc.indexedScopes(c) {
				s.svc.CheckDue(c, scope)
			}
		}
	}
}
