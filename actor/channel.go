package actor

import (
	"context"
	"sync"
	"sync/atomic"
)

// link is the shared state of one channel.
type link[M any] struct {
	queue chan M

	mu      sync.Mutex
	senders int
	// done is closed when the last Sender is closed.
	done chan struct{}

	stopOnce sync.Once
	// stopped is closed when the Receiver is closed.
	stopped chan struct{}

	serving atomic.Bool
	state   atomic.Int32
}

// NewChannel returns the two ends of a bounded channel. Capacities below one
// are raised to one.
func NewChannel[M any](capacity int) (*Sender[M], *Receiver[M]) {
	if capacity < 1 {
		capacity = 1
	}
	l := &link[M]{
		queue:   make(chan M, capacity),
		senders: 1,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	return &Sender[M]{link: l}, &Receiver[M]{link: l}
}

func (l *link[M]) acquire() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.senders == 0 {
		return false
	}
	l.senders++
	return true
}

func (l *link[M]) release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.senders--
	if l.senders == 0 {
		close(l.done)
	}
}

func (l *link[M]) stop() {
	l.stopOnce.Do(func() { close(l.stopped) })
}

// Sender is one handle on the sending end. Handles are reference counted:
// Clone adds one, Close drops one, and the channel closes with the last.
// A handle must not be used after Close.
type Sender[M any] struct {
	link   *link[M]
	closed atomic.Bool
}

// Clone returns a new handle on the same channel. Cloning a closed handle
// yields a closed handle.
func (s *Sender[M]) Clone() *Sender[M] {
	c := &Sender[M]{link: s.link}
	if s.closed.Load() || !s.link.acquire() {
		c.closed.Store(true)
	}
	return c
}

// Close drops this handle. It is safe to call more than once.
func (s *Sender[M]) Close() {
	if s.closed.CompareAndSwap(false, true) {
		s.link.release()
	}
}

// Send enqueues m, waiting while the channel is full.
func (s *Sender[M]) Send(ctx context.Context, m M) error {
	if s.closed.Load() {
		return ErrServiceUnavailable
	}
	select {
	case <-s.link.stopped:
		return ErrServiceUnavailable
	default:
	}
	select {
	case s.link.queue <- m:
		return nil
	case <-s.link.stopped:
		return ErrServiceUnavailable
	case <-ctx.Done():
		return abandoned(ctx.Err())
	}
}

// Stopped is closed once the Receiver end is closed.
func (s *Sender[M]) Stopped() <-chan struct{} {
	return s.link.stopped
}

// Receiver is the single receiving end of a channel.
type Receiver[M any] struct {
	link *link[M]
}

// Recv returns the next message. After every Sender is closed it drains the
// queue and then returns ErrChannelClosed.
func (r *Receiver[M]) Recv(ctx context.Context) (M, error) {
	var zero M
	select {
	case <-r.link.stopped:
		return zero, ErrChannelClosed
	default:
	}
	select {
	case m := <-r.link.queue:
		return m, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-r.link.stopped:
		return zero, ErrChannelClosed
	case <-r.link.done:
		select {
		case m := <-r.link.queue:
			return m, nil
		default:
			return zero, ErrChannelClosed
		}
	}
}

// Close stops the receiving end. Pending and later sends fail with
// ErrServiceUnavailable.
func (r *Receiver[M]) Close() {
	r.link.stop()
}

// Len is the number of queued messages.
func (r *Receiver[M]) Len() int {
	return len(r.link.queue)
}

func (r *Receiver[M]) State() State {
	return State(r.link.state.Load())
}

func (r *Receiver[M]) setState(s State) {
	r.link.state.Store(int32(s))
}
