package prometheus

import (
	"context"
	"sync"
	"time"

	"github.com/activeobj/go-active-object/core"
	prom "github.com/prometheus/client_golang/prometheus"
)

// DispatcherSnapshotProvider provides current dispatcher stats snapshots.
type DispatcherSnapshotProvider interface {
	Stats() core.DispatcherStats
}

// SnapshotPoller periodically exports Dispatcher Stats() snapshots into
// Prometheus gauges.
type SnapshotPoller struct {
	interval time.Duration

	dispatchersMu sync.RWMutex
	dispatchers   map[string]DispatcherSnapshotProvider

	dispatcherPending  *prom.GaugeVec
	dispatcherExecuted *prom.GaugeVec
	dispatcherRejected *prom.GaugeVec
	dispatcherClosed   *prom.GaugeVec
	dispatcherState    *prom.GaugeVec

	stateMu sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewSnapshotPoller creates a snapshot poller and registers its collectors.
func NewSnapshotPoller(reg prom.Registerer, interval time.Duration) (*SnapshotPoller, error) {
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	if interval <= 0 {
		interval = time.Second
	}

	pending := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "activeobject",
		Name:      "dispatcher_pending",
		Help:      "Number of pending tasks per dispatcher.",
	}, []string{"dispatcher"})
	executed := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "activeobject",
		Name:      "dispatcher_executed_total",
		Help:      "Dispatcher executed task count snapshot.",
	}, []string{"dispatcher"})
	rejected := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "activeobject",
		Name:      "dispatcher_rejected_total",
		Help:      "Dispatcher rejected task count snapshot.",
	}, []string{"dispatcher"})
	closed := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "activeobject",
		Name:      "dispatcher_closed",
		Help:      "Dispatcher closed state (1=closed, 0=open).",
	}, []string{"dispatcher"})
	state := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "activeobject",
		Name:      "dispatcher_state",
		Help:      "Dispatcher worker state (0=starting, 1=initialized, 2=running, 3=stopping, 4=terminated).",
	}, []string{"dispatcher"})

	var err error
	if pending, err = registerCollector(reg, pending); err != nil {
		return nil, err
	}
	if executed, err = registerCollector(reg, executed); err != nil {
		return nil, err
	}
	if rejected, err = registerCollector(reg, rejected); err != nil {
		return nil, err
	}
	if closed, err = registerCollector(reg, closed); err != nil {
		return nil, err
	}
	if state, err = registerCollector(reg, state); err != nil {
		return nil, err
	}

	return &SnapshotPoller{
		interval:           interval,
		dispatchers:        make(map[string]DispatcherSnapshotProvider),
		dispatcherPending:  pending,
		dispatcherExecuted: executed,
		dispatcherRejected: rejected,
		dispatcherClosed:   closed,
		dispatcherState:    state,
	}, nil
}

// AddDispatcher adds or replaces a dispatcher snapshot provider by name.
func (p *SnapshotPoller) AddDispatcher(name string, provider DispatcherSnapshotProvider) {
	if p == nil || provider == nil {
		return
	}
	name = normalizeLabel(name, "dispatcher")
	p.dispatchersMu.Lock()
	p.dispatchers[name] = provider
	p.dispatchersMu.Unlock()
}

// Start begins periodic polling; repeated calls are no-ops.
func (p *SnapshotPoller) Start(ctx context.Context) {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if p.running {
		p.stateMu.Unlock()
		return
	}
	pollCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true
	p.stateMu.Unlock()

	go p.loop(pollCtx)
}

// Stop stops periodic polling; repeated calls are safe.
func (p *SnapshotPoller) Stop() {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if !p.running {
		p.stateMu.Unlock()
		return
	}
	cancel := p.cancel
	done := p.done
	p.stateMu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	p.stateMu.Lock()
	p.running = false
	p.cancel = nil
	p.done = nil
	p.stateMu.Unlock()
}

func (p *SnapshotPoller) loop(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.collectOnce()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.collectOnce()
		}
	}
}

func (p *SnapshotPoller) collectOnce() {
	p.dispatchersMu.RLock()
	defer p.dispatchersMu.RUnlock()

	for name, provider := range p.dispatchers {
		stats := provider.Stats()
		p.dispatcherPending.WithLabelValues(name).Set(float64(stats.Pending))
		p.dispatcherExecuted.WithLabelValues(name).Set(float64(stats.Executed))
		p.dispatcherRejected.WithLabelValues(name).Set(float64(stats.Rejected))
		if stats.Closed {
			p.dispatcherClosed.WithLabelValues(name).Set(1)
		} else {
			p.dispatcherClosed.WithLabelValues(name).Set(0)
		}
		p.dispatcherState.WithLabelValues(name).Set(float64(stats.State))
	}
}
