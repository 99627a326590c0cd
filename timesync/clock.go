// Package timesync maps wall time to layers.
package timesync

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/spacemeshos/go-governance/common/types"
)

// Opt for configuring NodeClock.
type Opt func(*option)

type option struct {
	clock         clockwork.Clock
	genesisTime   time.Time
	layerDuration time.Duration
	log           *zap.Logger
}

func (o *option) validate() error {
	if o.genesisTime.IsZero() {
		return errors.New("genesis time is required")
	}
	if o.layerDuration <= 0 {
		return fmt.Errorf("layer duration must be positive, got %s", o.layerDuration)
	}
	if o.log == nil {
		return errors.New("logger is required")
	}
	return nil
}

// WithLayerDuration sets how long a layer lasts.
func WithLayerDuration(d time.Duration) Opt {
	return func(o *option) {
		o.layerDuration = d
	}
}

// WithGenesisTime sets the start of layer 0.
func WithGenesisTime(t time.Time) Opt {
	return func(o *option) {
		o.genesisTime = t.Local()
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Opt {
	return func(o *option) {
		o.log = logger
	}
}

// WithClock overwrites the wall clock, used in tests.
func WithClock(clock clockwork.Clock) Opt {
	return func(o *option) {
		o.clock = clock
	}
}

// NodeClock reports the current layer. It keeps no background goroutines:
// the layer is always derived from the wall clock.
type NodeClock struct {
	clock         clockwork.Clock
	genesis       time.Time
	layerDuration time.Duration
	log           *zap.Logger

	mu      sync.Mutex
	waiters map[types.LayerID]*layerWaiter
}

type layerWaiter struct {
	ch    chan struct{}
	timer clockwork.Timer
}

// NewClock creates a clock that counts layers from the genesis time.
func NewClock(opts ...Opt) (*NodeClock, error) {
	cfg := &option{
		clock: clockwork.NewRealClock(),
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	nc := &NodeClock{
		clock:         cfg.clock,
		genesis:       cfg.genesisTime,
		layerDuration: cfg.layerDuration,
		log:           cfg.log,
		waiters:       make(map[types.LayerID]*layerWaiter),
	}
	nc.log.Info("converting clock",
		zap.Time("now", nc.clock.Now()),
		zap.Time("genesis", nc.genesis),
		zap.Duration("layer duration", nc.layerDuration),
	)
	return nc, nil
}

// GenesisTime returns at which time the first layer starts.
func (t *NodeClock) GenesisTime() time.Time {
	return t.genesis
}

// LayerDuration returns the duration of a single layer.
func (t *NodeClock) LayerDuration() time.Duration {
	return t.layerDuration
}

// Now returns the wall clock time.
func (t *NodeClock) Now() time.Time {
	return t.clock.Now()
}

// CurrentLayer returns the layer of the wall clock. It is 0 before genesis.
func (t *NodeClock) CurrentLayer() types.LayerID {
	layer := t.TimeToLayer(t.clock.Now())
	layerGauge.Set(float64(layer))
	return layer
}

// TimeToLayer returns the layer that contains the time.
func (t *NodeClock) TimeToLayer(tm time.Time) types.LayerID {
	if tm.Before(t.genesis) {
		return 0
	}
	return types.LayerID(uint32(tm.Sub(t.genesis) / t.layerDuration))
}

// LayerToTime returns the start of the layer.
func (t *NodeClock) LayerToTime(id types.LayerID) time.Time {
	return t.genesis.Add(time.Duration(id) * t.layerDuration)
}

// AwaitLayer returns a channel that is closed when the layer starts.
func (t *NodeClock) AwaitLayer(layer types.LayerID) <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	if w, ok := t.waiters[layer]; ok {
		return w.ch
	}
	ch := make(chan struct{})
	wait := t.LayerToTime(layer).Sub(t.clock.Now())
	if wait <= 0 {
		close(ch)
		return ch
	}
	w := &layerWaiter{ch: ch}
	w.timer = t.clock.AfterFunc(wait, func() {
		t.mu.Lock()
		delete(t.waiters, layer)
		t.mu.Unlock()
		close(ch)
	})
	t.waiters[layer] = w
	return ch
}

// Close stops pending layer waiters. Their channels are never closed.
func (t *NodeClock) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for layer, w := range t.waiters {
		w.timer.Stop()
		delete(t.waiters, layer)
	}
}
