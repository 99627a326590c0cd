package events

import (
	"fmt"
	"sync"

	"github.com/libp2p/go-libp2p/core/event"
	"github.com/libp2p/go-libp2p/p2p/host/eventbus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Opt for configuring Reporter.
type Opt func(*Reporter)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Opt {
	return func(r *Reporter) {
		r.logger = logger
	}
}

// WithBufferSize sets the number of recent events kept for Recent.
func WithBufferSize(size int) Opt {
	return func(r *Reporter) {
		r.recent = newRing[any](size)
	}
}

// Reporter publishes governance events on an event bus.
// A nil *Reporter is valid and drops all events.
type Reporter struct {
	logger *zap.Logger
	bus    event.Bus

	settings event.Emitter
	created  event.Emitter
	votes    event.Emitter
	executed event.Emitter

	mu     sync.Mutex
	recent *ring[any]
}

// NewReporter creates emitters for all governance events.
func NewReporter(opts ...Opt) (*Reporter, error) {
	r := &Reporter{
		logger: zap.NewNop(),
		recent: newRing[any](100),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.bus = eventbus.NewBus()
	var err error
	if r.settings, err = r.bus.Emitter(new(SettingsUpdated)); err != nil {
		return nil, fmt.Errorf("settings emitter: %w", err)
	}
	if r.created, err = r.bus.Emitter(new(ProposalCreated)); err != nil {
		return nil, fmt.Errorf("proposal emitter: %w", err)
	}
	if r.votes, err = r.bus.Emitter(new(VoteCast)); err != nil {
		return nil, fmt.Errorf("vote emitter: %w", err)
	}
	if r.executed, err = r.bus.Emitter(new(ProposalExecuted)); err != nil {
		return nil, fmt.Errorf("execution emitter: %w", err)
	}
	return r, nil
}

func (r *Reporter) emit(emitter event.Emitter, name string, ev zapcore.ObjectMarshaler, value any) {
	r.mu.Lock()
	r.recent.insert(value)
	r.mu.Unlock()
	if err := emitter.Emit(value); err != nil {
		r.logger.Error("failed to emit event", zap.String("event", name), zap.Error(err))
		return
	}
	r.logger.Debug("emitted event", zap.String("event", name), zap.Object("data", ev))
}

// ReportSettingsUpdated publishes SettingsUpdated.
func (r *Reporter) ReportSettingsUpdated(ev SettingsUpdated) {
	if r == nil {
		return
	}
	r.emit(r.settings, "settings updated", &ev, ev)
}

// ReportProposalCreated publishes ProposalCreated.
func (r *Reporter) ReportProposalCreated(ev ProposalCreated) {
	if r == nil {
		return
	}
	r.emit(r.created, "proposal created", &ev, ev)
}

// ReportVoteCast publishes VoteCast.
func (r *Reporter) ReportVoteCast(ev VoteCast) {
	if r == nil {
		return
	}
	r.emit(r.votes, "vote cast", &ev, ev)
}

// ReportProposalExecuted publishes ProposalExecuted.
func (r *Reporter) ReportProposalExecuted(ev ProposalExecuted) {
	if r == nil {
		return
	}
	r.emit(r.executed, "proposal executed", &ev, ev)
}

// Recent returns buffered events from the oldest to the newest.
func (r *Reporter) Recent() []any {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rst := make([]any, 0, r.recent.cap())
	r.recent.iterate(func(val any) bool {
		rst = append(rst, val)
		return true
	})
	return rst
}

// Close closes all emitters.
func (r *Reporter) Close() error {
	if r == nil {
		return nil
	}
	var errs []error
	for _, emitter := range []event.Emitter{r.settings, r.created, r.votes, r.executed} {
		if err := emitter.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close emitters: %v", errs)
	}
	return nil
}
