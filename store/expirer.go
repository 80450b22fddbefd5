package store

import (
	"context"
	"time"
)

// Expirer periodically sweeps a Keyspace for expired entries. It carries no
// state across iterations and emits no events; Get is responsible for
// hiding entries the expirer has not yet swept.
type Expirer struct {
	ks       *Keyspace
	interval time.Duration
}

// NewExpirer creates an Expirer that purges ks every interval.
func NewExpirer(ks *Keyspace, interval time.Duration) *Expirer {
	return &Expirer{ks: ks, interval: interval}
}

// Run blocks, purging the keyspace every interval, until ctx is canceled.
func (e *Expirer) Run(ctx context.Context) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.ks.Purge()
		}
	}
}
