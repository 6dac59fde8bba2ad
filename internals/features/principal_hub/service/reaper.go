package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const (
	DefaultReaperSpec  = "@every 5m"
	reaperStoreTimeout = 10 * time.Second
)

// cronLogger routes cron's own messages through zerolog.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}

// StartHubReaper evicts hub entries idle longer than maxIdle on the given
// schedule. Stop the returned cron on shutdown.
func StartHubReaper(h *Hub, spec string, maxIdle time.Duration, logger zerolog.Logger) (*cron.Cron, error) {
	if spec == "" {
		spec = DefaultReaperSpec
	}
	log := logger.With().Str("component", "principal_hub_reaper").Logger()
	cl := cronLogger{log: log}

	c := cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)))
	if _, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), reaperStoreTimeout)
		defer cancel()
		if n := h.EvictIdle(ctx, maxIdle); n > 0 {
			log.Info().Int("evicted", n).Int("live", h.Len()).Msg("🧹 idle hub entries evicted")
		}
	}); err != nil {
		return nil, err
	}

	log.Info().Str("schedule", spec).Dur("max_idle", maxIdle).Msg("hub reaper started")
	c.Start()
	return c, nil
}
