package events

import (
	"fmt"
	"sync"

	"github.com/libp2p/go-libp2p/core/event"
	"github.com/libp2p/go-libp2p/p2p/host/eventbus"
)

const subscriptionChanBufSize = 1 << 10

// SubOpt for configuring subscriptions.
type SubOpt func(*subConf)

type subConf struct {
	buffer int
}

// WithSubBuffer sets the size of the subscription buffer.
func WithSubBuffer(size int) SubOpt {
	return func(c *subConf) {
		c.buffer = size
	}
}

// Subscription delivers events of a single type.
type Subscription[T any] struct {
	sub     event.Subscription
	out     chan T
	once    sync.Once
	done    chan struct{}
	stopped chan struct{}
}

// Out returns a channel that is closed after Close. Consumers must drain it,
// otherwise the bus blocks once the buffer is full.
func (s *Subscription[T]) Out() <-chan T {
	return s.out
}

// Close stops the subscription and returns once Out is closed.
// Events that were not consumed are dropped.
func (s *Subscription[T]) Close() (err error) {
	s.once.Do(func() {
		close(s.done)
		err = s.sub.Close()
	})
	<-s.stopped
	return err
}

// Subscribe to events of type T on the reporter bus.
func Subscribe[T any](r *Reporter, opts ...SubOpt) (*Subscription[T], error) {
	if r == nil {
		return nil, fmt.Errorf("subscribe %T: reporter is not configured", *new(T))
	}
	conf := subConf{buffer: subscriptionChanBufSize}
	for _, opt := range opts {
		opt(&conf)
	}
	sub, err := r.bus.Subscribe(new(T), eventbus.BufSize(conf.buffer))
	if err != nil {
		return nil, fmt.Errorf("subscribe %T: %w", *new(T), err)
	}
	rst := &Subscription[T]{
		sub:     sub,
		out:     make(chan T, conf.buffer),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go func() {
		defer close(rst.stopped)
		defer close(rst.out)
		for ev := range sub.Out() {
			select {
			case rst.out <- ev.(T):
			case <-rst.done:
				return
			}
		}
	}()
	return rst, nil
}
