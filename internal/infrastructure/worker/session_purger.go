package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const defaultPurgeInterval = 5 * time.Minute

// Purger is the session operation the worker drives.
type Purger interface {
	PurgeExpired(ctx context.Context) error
}

// Ticker abstracts time.Ticker so tests can drive ticks by hand.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct {
	ticker *time.Ticker
}

func (t timeTicker) C() <-chan time.Time { return t.ticker.C }
func (t timeTicker) Stop()               { t.ticker.Stop() }

// TickerFactory builds the ticker for a given interval.
type TickerFactory func(time.Duration) Ticker

// SessionPurger periodically drops expired sessions from stores without
// native expiry.
type SessionPurger struct {
	sessions  Purger
	interval  time.Duration
	newTicker TickerFactory
	log       zerolog.Logger
}

// NewSessionPurger creates a purger running every interval.
// If interval <= 0, defaultPurgeInterval is used.
func NewSessionPurger(sessions Purger, interval time.Duration, log zerolog.Logger) *SessionPurger {
	if interval <= 0 {
		interval = defaultPurgeInterval
	}
	return &SessionPurger{
		sessions: sessions,
		interval: interval,
		newTicker: func(d time.Duration) Ticker {
			return timeTicker{ticker: time.NewTicker(d)}
		},
		log: log,
	}
}

// WithTicker replaces the ticker factory.
func (p *SessionPurger) WithTicker(f TickerFactory) *SessionPurger {
	p.newTicker = f
	return p
}

// Start launches the purge loop. It returns a stop function that cancels the
// loop and waits for it to exit; calling it more than once is safe.
func (p *SessionPurger) Start(ctx context.Context) func() {
	if p.sessions == nil {
		return func() {}
	}
	workerCtx, cancel := context.WithCancel(ctx)
	ticker := p.newTicker(p.interval)
	done := make(chan struct{})

	go func() {
		defer func() {
			ticker.Stop()
			close(done)
		}()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C():
				if err := p.sessions.PurgeExpired(workerCtx); err != nil {
					p.log.Error().Err(err).Msg("failed to purge expired sessions")
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
}
