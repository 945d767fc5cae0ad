package syncclient

import (
	"context"
	"time"
)

// Monitor derives the online flag from periodic health checks and runs the
// periodic sync while online and signed in.
type Monitor struct {
	Client         *Client
	HealthInterval time.Duration
	SyncInterval   time.Duration
	// Sync refreshes whatever the caller keeps locally.
	Sync func(ctx context.Context) error
}

// Run blocks until ctx ends. Everything happens on this goroutine, so a slow
// sync delays the next tick instead of overlapping it.
func (m *Monitor) Run(ctx context.Context) {
	health := m.HealthInterval
	if health <= 0 {
		health = 10 * time.Second
	}
	every := m.SyncInterval
	if every <= 0 {
		every = 30 * time.Second
	}
	m.check(ctx)

	ht := time.NewTicker(health)
	defer ht.Stop()
	st := time.NewTicker(every)
	defer st.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ht.C:
			m.check(ctx)
		case <-st.C:
			m.sync(ctx)
		}
	}
}

func (m *Monitor) check(ctx context.Context) {
	err := m.Client.Health(ctx)
	if ctx.Err() != nil {
		return
	}
	m.Client.SetOnline(ctx, err == nil)
}

func (m *Monitor) sync(ctx context.Context) {
	if m.Sync == nil || !m.Client.Online() || m.Client.token() == "" {
		return
	}
	if err := m.Sync(ctx); err != nil {
		m.Client.log.Warn().Err(err).Msg("sync failed")
	}
}
