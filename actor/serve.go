package actor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/comnipl/servify/actor"

// State is the phase of the dispatch loop.
type State int32

const (
	StateIdle State = iota
	StateReceived
	StateDispatched
	StateReplied
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateReceived:
		return "received"
	case StateDispatched:
		return "dispatched"
	case StateReplied:
		return "replied"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Outcome is how one dispatched message ended.
type Outcome string

const (
	OutcomeReplied   Outcome = "replied"
	OutcomeAbandoned Outcome = "abandoned"
	OutcomeFailed    Outcome = "failed"
)

// Observer is told about every dispatched message.
type Observer interface {
	Observe(service, operation string, outcome Outcome, d time.Duration)
}

type serveConfig struct {
	name     string
	logger   *slog.Logger
	observer Observer
	tracer   trace.TracerProvider
}

type ServeOption func(*serveConfig)

// WithName sets the service name used in logs, spans and observations.
func WithName(name string) ServeOption {
	return func(c *serveConfig) { c.name = name }
}

func WithLogger(l *slog.Logger) ServeOption {
	return func(c *serveConfig) { c.logger = l }
}

func WithObserver(o Observer) ServeOption {
	return func(c *serveConfig) { c.observer = o }
}

// WithTracerProvider overrides otel.GetTracerProvider for message spans.
func WithTracerProvider(tp trace.TracerProvider) ServeOption {
	return func(c *serveConfig) { c.tracer = tp }
}

// Serve receives messages one at a time and passes each to handle, which
// must fulfil the message's reply slot. Messages are handled strictly in
// arrival order and never concurrently.
//
// Serve returns nil once every Sender is closed and the queue is drained,
// and ctx.Err() when ctx ends first. A handler error wrapping
// ErrCallAbandoned is logged and the loop continues; any other handler error
// stops the loop and is returned. The Receiver is closed when Serve returns.
func (r *Receiver[M]) Serve(ctx context.Context, handle func(context.Context, M) error, opts ...ServeOption) error {
	if !r.link.serving.CompareAndSwap(false, true) {
		return ErrAlreadyServing
	}
	defer r.Close()

	cfg := serveConfig{name: "service"}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.tracer == nil {
		cfg.tracer = otel.GetTracerProvider()
	}
	tracer := cfg.tracer.Tracer(instrumentationName)
	log := cfg.logger.With("service", cfg.name)

	for {
		r.setState(StateIdle)
		msg, err := r.Recv(ctx)
		if errors.Is(err, ErrChannelClosed) {
			log.Debug("all clients closed, stopping")
			return nil
		}
		if err != nil {
			return err
		}
		r.setState(StateReceived)

		op := operationOf(msg)
		mctx, span := tracer.Start(ctx, cfg.name+"/"+op, trace.WithAttributes(
			attribute.String("servify.service", cfg.name),
			attribute.String("servify.operation", op),
		))
		start := time.Now()
		r.setState(StateDispatched)
		err = handle(mctx, msg)
		elapsed := time.Since(start)

		outcome := OutcomeReplied
		switch {
		case err == nil:
			r.setState(StateReplied)
		case errors.Is(err, ErrCallAbandoned):
			outcome = OutcomeAbandoned
			span.SetAttributes(attribute.Bool("servify.abandoned", true))
			log.Debug("caller went away before the reply", "operation", op)
		default:
			outcome = OutcomeFailed
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		if cfg.observer != nil {
			cfg.observer.Observe(cfg.name, op, outcome, elapsed)
		}
		if outcome == OutcomeFailed {
			log.Error("dispatch failed", "operation", op, "error", err)
			return fmt.Errorf("%s: %w", op, err)
		}
	}
}

func operationOf(msg any) string {
	if m, ok := msg.(Message); ok {
		return m.Operation()
	}
	return fmt.Sprintf("%T", msg)
}
