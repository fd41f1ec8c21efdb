package digest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const refreshTimeout = 60 * time.Second

// Refresher produces the current digest text.
type Refresher func(ctx context.Context) (string, error)

// Digest keeps a periodically refreshed market summary in memory so that
// clients reading the summary resource get a recent snapshot without
// triggering upstream API calls.
type Digest struct {
	cron    *cron.Cron
	refresh Refresher

	mu        sync.RWMutex
	latest    string
	updatedAt time.Time
}

// New creates a digest refreshed on the given cron spec (with seconds field).
func New(spec string, refresh Refresher) (*Digest, error) {
	d := &Digest{
		cron:    cron.New(cron.WithSeconds()),
		refresh: refresh,
	}
	if _, err := d.cron.AddFunc(spec, d.run); err != nil {
		return nil, fmt.Errorf("register digest task: %w", err)
	}
	return d, nil
}

// Start starts the cron scheduler and kicks off an initial refresh.
func (d *Digest) Start() {
	d.cron.Start()
	go d.run()
	logrus.Info("digest scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (d *Digest) Stop() {
	d.cron.Stop()
	logrus.Info("digest scheduler stopped")
}

// Latest returns the most recent digest text and when it was produced.
// The text is empty until the first refresh completes.
func (d *Digest) Latest() (string, time.Time) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.latest, d.updatedAt
}

// RunNow refreshes the digest immediately.
func (d *Digest) RunNow() {
	d.run()
}

func (d *Digest) run() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	text, err := d.refresh(ctx)
	if err != nil {
		logrus.Errorf("digest refresh: %v", err)
		return
	}

	d.mu.Lock()
	d.latest = text
	d.updatedAt = time.Now()
	d.mu.Unlock()
	logrus.Debug("digest refreshed")
}
