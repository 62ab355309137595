// Package observable implements a publish-on-mutation registry. A store owns
// one Feed per observable value and publishes a complete snapshot after each
// committed mutation; subscribers receive those snapshots in order on a
// channel.
package observable

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// DefaultBuffer bounds the number of undelivered snapshots kept per subscriber.
const DefaultBuffer = 64

type Feed[T any] struct {
	mu     sync.Mutex
	subs   map[string]*Subscription[T]
	buffer int
	closed bool
}

func NewFeed[T any]() *Feed[T] {
	return NewFeedWithBuffer[T](DefaultBuffer)
}

// NewFeedWithBuffer creates a feed whose subscribers keep at most n pending
// snapshots. When a slow subscriber is full the oldest pending snapshot is
// discarded; every snapshot is a full state so the newest one always wins.
func NewFeedWithBuffer[T any](n int) *Feed[T] {
	if n < 1 {
		n = 1
	}
	return &Feed[T]{
		subs:   make(map[string]*Subscription[T]),
		buffer: n,
	}
}

// Subscribe registers a subscriber whose first delivered value is initial.
// The subscription ends when ctx is done, when Unsubscribe is called or when
// the feed is closed; in every case the Updates channel is closed.
func (f *Feed[T]) Subscribe(ctx context.Context, initial T) *Subscription[T] {
	s := &Subscription[T]{
		id:      uuid.NewString(),
		feed:    f,
		out:     make(chan T),
		pending: []T{initial},
		limit:   f.buffer,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		exited:  make(chan struct{}),
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		s.stop()
		close(s.out)
		close(s.exited)
		return s
	}
	f.subs[s.id] = s
	f.mu.Unlock()

	s.signal()
	go s.pump(ctx)
	return s
}

// Publish queues v for every current subscriber. It never blocks on a
// subscriber.
func (f *Feed[T]) Publish(v T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	for _, s := range f.subs {
		s.enqueue(v)
	}
}

// Len returns the number of live subscriptions.
func (f *Feed[T]) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

// Close ends every subscription and rejects new ones. It waits until all
// subscriber goroutines have exited.
func (f *Feed[T]) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	subs := make([]*Subscription[T], 0, len(f.subs))
	for _, s := range f.subs {
		subs = append(subs, s)
	}
	f.subs = make(map[string]*Subscription[T])
	f.mu.Unlock()

	for _, s := range subs {
		s.stop()
		<-s.exited
	}
}

func (f *Feed[T]) remove(id string) {
	f.mu.Lock()
	delete(f.subs, id)
	f.mu.Unlock()
}

// Subscription is a single registered observer of a Feed.
type Subscription[T any] struct {
	id   string
	feed *Feed[T]
	out  chan T

	mu      sync.Mutex
	pending []T
	limit   int

	wake     chan struct{}
	done     chan struct{}
	exited   chan struct{}
	stopOnce sync.Once
}

func (s *Subscription[T]) ID() string { return s.id }

// Updates returns the channel snapshots are delivered on. It is closed when
// the subscription ends.
func (s *Subscription[T]) Updates() <-chan T { return s.out }

// Unsubscribe stops delivery. Once it returns no further values are sent and
// the Updates channel is closed. Calling it more than once is safe.
func (s *Subscription[T]) Unsubscribe() {
	s.stop()
	<-s.exited
}

func (s *Subscription[T]) stop() {
	s.stopOnce.Do(func() { close(s.done) })
}

func (s *Subscription[T]) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Subscription[T]) enqueue(v T) {
	s.mu.Lock()
	if len(s.pending) >= s.limit {
		var zero T
		s.pending[0] = zero
		s.pending = s.pending[1:]
	}
	s.pending = append(s.pending, v)
	s.mu.Unlock()
	s.signal()
}

func (s *Subscription[T]) next() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	if len(s.pending) == 0 {
		return zero, false
	}
	v := s.pending[0]
	s.pending[0] = zero
	s.pending = s.pending[1:]
	return v, true
}

func (s *Subscription[T]) pump(ctx context.Context) {
	defer func() {
		s.feed.remove(s.id)
		s.mu.Lock()
		s.pending = nil
		s.mu.Unlock()
		close(s.out)
		close(s.exited)
	}()

	ctxDone := ctx.Done()
	for {
		select {
		case <-s.done:
			return
		case <-ctxDone:
			s.stop()
			return
		case <-s.wake:
		}

		for {
			v, ok := s.next()
			if !ok {
				break
			}
			select {
			case s.out <- v:
			case <-s.done:
				return
			case <-ctxDone:
				s.stop()
				return
			}
		}
	}
}
