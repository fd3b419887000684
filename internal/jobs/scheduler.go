package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// ResetTokenSweeper clears password reset tokens that expired before
// cutoff. *repository.UserRepository satisfies it.
type ResetTokenSweeper interface {
	ClearExpiredResetTokens(ctx context.Context, cutoff time.Time) (int64, error)
}

type Scheduler struct {
	cron      *cron.Cron
	tokens    ResetTokenSweeper
	spec      string
	retention time.Duration
	log       zerolog.Logger
	now       func() time.Time
}

// NewScheduler sweeps reset tokens on spec (cron with seconds). Tokens are
// kept for retention past their expiry so a late reset still reports the
// token as expired.
func NewScheduler(tokens ResetTokenSweeper, spec string, retention time.Duration, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithSeconds()),
		tokens:    tokens,
		spec:      spec,
		retention: retention,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *Scheduler) Start() error {
	if s.tokens == nil || s.spec == "" {
		return nil
	}

	if _, err := s.cron.AddFunc(s.spec, s.sweepResetTokens); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts the scheduler. The returned context is done once running
// jobs have finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) sweepResetTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := s.now().Add(-s.retention)
	n, err := s.tokens.ClearExpiredResetTokens(ctx, cutoff)
	if err != nil {
		s.log.Error().Err(err).Msg("sweep reset tokens failed")
		return
	}
	if n > 0 {
		s.log.Info().Int64("cleared", n).Time("cutoff", cutoff).Msg("stale reset tokens cleared")
	}
}
