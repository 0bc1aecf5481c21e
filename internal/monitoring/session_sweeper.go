package monitoring

import (
	"time"

	"github.com/Irshadp556/movie-review-analysis/internal/auth"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// SessionSweeper periodically drops expired sessions from the in-memory
// store so abandoned browsers don't pin memory forever.
type SessionSweeper struct {
	store    *auth.Store
	schedule cron.Schedule
	done     chan bool
}

// NewSessionSweeper creates a sweeper from a standard cron expression
// (descriptors like "@every 10m" work too).
func NewSessionSweeper(store *auth.Store, cronExpr string) (*SessionSweeper, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, err
	}
	return &SessionSweeper{
		store:    store,
		schedule: schedule,
		done:     make(chan bool),
	}, nil
}

// Run starts the sweep loop.
func (sw *SessionSweeper) Run() {
	log.Info().Msg("Starting background session sweeper...")
	for {
		next := sw.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-sw.done:
			timer.Stop()
			log.Info().Msg("Stopping background session sweeper.")
			return
		case <-timer.C:
			sw.sweep()
		}
	}
}

// Stop halts the sweep loop.
func (sw *SessionSweeper) Stop() {
	sw.done <- true
}

func (sw *SessionSweeper) sweep() {
	if removed := sw.store.SweepExpired(); removed > 0 {
		log.Info().Int("removed", removed).Int("remaining", sw.store.Count()).Msg("Swept expired sessions")
	}
}
