// Package stats polls the bot's read-only operational snapshot. A failed
// tick is logged and the next one proceeds.
package stats

import (
	"context"
	"sync"
	"time"

	"github.com/roylee0704/gron"
	"go.uber.org/atomic"

	"feedboard/internal/models"
	"feedboard/internal/providers"
	"feedboard/internal/remote"
	"feedboard/internal/structures"
)

type Poller struct {
	interval time.Duration
	client   remote.API
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface

	// opsMu orders publishes against Stop: once Stop returns, no in-flight
	// tick can install its result.
	opsMu   sync.Mutex
	running atomic.Bool
	cron    *gron.Cron
	ctx     context.Context
	cancel  context.CancelFunc
	snap    *models.StatsSnapshot
	notify  chan struct{}
}

func NewPoller(conf *structures.Config, client remote.API, logger providers.Logger, metrics providers.MetricsProviderInterface) *Poller {
	return &Poller{
		interval: conf.Poller.Interval,
		client:   client,
		logger:   logger,
		metrics:  metrics,
		notify:   make(chan struct{}, 1),
	}
}

// Changes receives a signal whenever a new snapshot is published.
func (p *Poller) Changes() <-chan struct{} {
	return p.notify
}

// Snapshot returns the last published snapshot, nil before the first
// successful tick.
func (p *Poller) Snapshot() *models.StatsSnapshot {
	p.opsMu.Lock()
	defer p.opsMu.Unlock()
	return p.snap
}

func (p *Poller) Running() bool {
	return p.running.Load()
}

// Start schedules a tick every interval and fires one immediately. Starting
// a running poller is a no-op.
func (p *Poller) Start() {
	p.opsMu.Lock()
	if p.running.Load() {
		p.opsMu.Unlock()
		return
	}
	p.running.Store(true)
	p.ctx, p.cancel = context.WithCancel(context.Background())
	p.cron = gron.New()
	p.cron.AddFunc(gron.Every(p.interval), p.tick)
	p.cron.Start()
	ctx := p.ctx
	p.opsMu.Unlock()

	p.logger.Infof(providers.TypeApp, "Stats poller started, interval %s", p.interval)
	go p.fetchAndPublish(ctx)
}

// Stop cancels the schedule and any in-flight request. After Stop returns,
// no further tick runs and no in-flight result is ever published.
func (p *Poller) Stop() {
	p.opsMu.Lock()
	if !p.running.Load() {
		p.opsMu.Unlock()
		return
	}
	p.running.Store(false)
	p.cancel()
	p.cron.Stop()
	p.cron = nil
	p.opsMu.Unlock()

	p.logger.Infof(providers.TypeApp, "Stats poller stopped")
}

func (p *Poller) tick() {
	p.opsMu.Lock()
	ctx := p.ctx
	running := p.running.Load()
	p.opsMu.Unlock()
	if !running {
		return
	}
	p.fetchAndPublish(ctx)
}

func (p *Poller) fetchAndPublish(ctx context.Context) {
	snap, err := p.client.Stats(ctx)
	if err != nil {
		// Swallowed: the next tick self-heals.
		p.metrics.IncPollTicks(false)
		p.logger.Warnf(providers.TypeApp, "Stats poll failed: %s", err)
		return
	}

	p.opsMu.Lock()
	if !p.running.Load() {
		p.opsMu.Unlock()
		return
	}
	p.snap = snap
	p.opsMu.Unlock()

	p.metrics.IncPollTicks(true)
	select {
	case p.notify <- struct{}{}:
	default:
	}
}
