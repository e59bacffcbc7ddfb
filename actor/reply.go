package actor

import (
	"context"
	"sync/atomic"
)

// ReplySlot is a one-shot return channel. The Server fulfils it at most
// once; the call site that created it reads it once.
type ReplySlot[T any] struct {
	value     chan T
	abandoned <-chan struct{}
	fulfilled atomic.Bool
}

// NewReplySlot ties the slot to the caller's context: once ctx is done the
// slot counts as abandoned.
func NewReplySlot[T any](ctx context.Context) *ReplySlot[T] {
	return &ReplySlot[T]{
		value:     make(chan T, 1),
		abandoned: ctx.Done(),
	}
}

// Fulfill delivers v. It never blocks. It returns ErrCallAbandoned if the
// caller has stopped waiting and ErrReplyFulfilled on a second call.
func (r *ReplySlot[T]) Fulfill(v T) error {
	if !r.fulfilled.CompareAndSwap(false, true) {
		return ErrReplyFulfilled
	}
	select {
	case <-r.abandoned:
		return ErrCallAbandoned
	default:
	}
	r.value <- v
	return nil
}

// wait blocks until the slot is fulfilled, ctx is done or the Server stops.
func (r *ReplySlot[T]) wait(ctx context.Context, stopped <-chan struct{}) (T, error) {
	var zero T
	select {
	case v := <-r.value:
		return v, nil
	case <-ctx.Done():
		return zero, abandoned(ctx.Err())
	case <-stopped:
		select {
		case v := <-r.value:
			return v, nil
		default:
			return zero, ErrServiceUnavailable
		}
	}
}

// Message is implemented by every generated message variant.
type Message interface {
	Operation() string
}

// Export is the payload of one message variant: the operation's request and
// the slot its response goes to.
type Export[Req, Resp any] struct {
	Request Req
	Reply   *ReplySlot[Resp]
}

// Respond fulfils the reply slot with v.
func (e Export[Req, Resp]) Respond(v Resp) error {
	if e.Reply == nil {
		return ErrCallAbandoned
	}
	return e.Reply.Fulfill(v)
}

// Call sends one message built around a fresh reply slot and waits for the
// reply. Exactly one message is sent per call.
func Call[M any, T any](ctx context.Context, tx *Sender[M], build func(*ReplySlot[T]) M) (T, error) {
	var zero T
	reply := NewReplySlot[T](ctx)
	if err := tx.Send(ctx, build(reply)); err != nil {
		return zero, err
	}
	return reply.wait(ctx, tx.Stopped())
}
