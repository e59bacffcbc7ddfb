package actor_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/comnipl/servify/actor"
	"github.com/comnipl/servify/examples/counter"
)

func startCounter(t *testing.T, opts ...actor.ServeOption) *counter.SimpleCounterClient {
	t.Helper()
	rx, client := counter.NewSimpleCounter(8)
	go func() { _ = (&counter.SimpleCounterServer{}).Listen(context.Background(), rx, opts...) }()
	t.Cleanup(client.Close)
	return client
}

func TestListenStopsWhenClientsClose(t *testing.T) {
	t.Parallel()

	rx, client := counter.NewSimpleCounter(4)
	clone := client.Clone()
	server := &counter.SimpleCounterServer{}
	done := make(chan error, 1)
	go func() { done <- server.Listen(context.Background(), rx) }()

	client.Close()
	client.Close()
	_, err := clone.IncrementAndGet(context.Background(), 2)
	require.NoError(t, err, "a live clone keeps the server running")

	clone.Close()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Listen did not return after the last client closed")
	}

	_, err = clone.Get(context.Background())
	assert.ErrorIs(t, err, actor.ErrServiceUnavailable)
}

func TestCallAfterServerStops(t *testing.T) {
	t.Parallel()

	rx, client := counter.NewSimpleCounter(1)
	defer client.Close()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- (&counter.SimpleCounterServer{}).Listen(ctx, rx) }()

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	_, err := client.Get(context.Background())
	assert.ErrorIs(t, err, actor.ErrServiceUnavailable)
}

func TestAbandonedCallDoesNotStopServer(t *testing.T) {
	t.Parallel()

	rx, client := counter.NewSimpleCounter(4)
	defer client.Close()

	// Queue a call whose caller gives up before the server starts.
	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 1)
	go func() {
		_, err := client.IncrementAndGet(ctx, 5)
		errs <- err
	}()
	require.Eventually(t, func() bool { return rx.Len() == 1 }, 5*time.Second, time.Millisecond)
	cancel()
	err := <-errs
	assert.ErrorIs(t, err, actor.ErrCallAbandoned)
	assert.ErrorIs(t, err, context.Canceled)

	obs := &recorder{}
	go func() { _ = (&counter.SimpleCounterServer{}).Listen(context.Background(), rx, actor.WithObserver(obs)) }()

	// The abandoned operation still ran; only its result was dropped.
	got, err := client.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, got)
	require.Eventually(t, func() bool { return len(obs.outcomes()) == 2 }, 5*time.Second, time.Millisecond)
	assert.Equal(t, []actor.Outcome{actor.OutcomeAbandoned, actor.OutcomeReplied}, obs.outcomes())
}

func TestServeTwice(t *testing.T) {
	t.Parallel()

	rx, client := counter.NewSimpleCounter(1)
	defer client.Close()
	go func() { _ = (&counter.SimpleCounterServer{}).Listen(context.Background(), rx) }()
	_, err := client.Get(context.Background())
	require.NoError(t, err)

	err = (&counter.SimpleCounterServer{}).Listen(context.Background(), rx)
	assert.ErrorIs(t, err, actor.ErrAlreadyServing)
}

func TestHandlerErrorStopsServe(t *testing.T) {
	t.Parallel()

	tx, rx := actor.NewChannel[counter.SimpleCounterMessage](1)
	defer tx.Close()
	require.NoError(t, tx.Send(context.Background(), counter.SimpleCounterGet{}))

	boom := errors.New("boom")
	err := rx.Serve(context.Background(), func(context.Context, counter.SimpleCounterMessage) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "get")

	err = tx.Send(context.Background(), counter.SimpleCounterGet{})
	assert.ErrorIs(t, err, actor.ErrServiceUnavailable)
}

func TestRespondWithoutSlot(t *testing.T) {
	t.Parallel()

	var m counter.SimpleCounterGet
	assert.ErrorIs(t, m.Respond(1), actor.ErrCallAbandoned)
}

func TestServeRecordsSpans(t *testing.T) {
	t.Parallel()

	exp := tracetest.NewInMemoryExporter()
	tp := trace.NewTracerProvider(trace.WithSyncer(exp))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	client := startCounter(t, actor.WithTracerProvider(tp))
	_, err := client.IncrementAndGet(context.Background(), 1)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return len(exp.GetSpans()) == 1 }, 5*time.Second, time.Millisecond)
	assert.Equal(t, "SimpleCounter/increment_and_get", exp.GetSpans()[0].Name)
}

func TestServeStates(t *testing.T) {
	t.Parallel()

	tx, rx := actor.NewChannel[counter.SimpleCounterMessage](1)
	assert.Equal(t, actor.StateIdle, rx.State())
	require.NoError(t, tx.Send(context.Background(), counter.SimpleCounterGet{}))
	tx.Close()

	var during actor.State
	err := rx.Serve(context.Background(), func(context.Context, counter.SimpleCounterMessage) error {
		during = rx.State()
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, actor.StateDispatched, during)
	assert.Equal(t, actor.StateIdle, rx.State())
}

type recorder struct {
	mu  sync.Mutex
	got []actor.Outcome
}

func (r *recorder) Observe(_, _ string, o actor.Outcome, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, o)
}

func (r *recorder) outcomes() []actor.Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]actor.Outcome(nil), r.got...)
}
