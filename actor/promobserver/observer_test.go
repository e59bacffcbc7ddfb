package promobserver

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/comnipl/servify/actor"
)

func TestObserve(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	o, err := New(reg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	o.Observe("Counter", "get", actor.OutcomeReplied, time.Millisecond)
	o.Observe("Counter", "get", actor.OutcomeReplied, time.Millisecond)
	o.Observe("Counter", "set", actor.OutcomeAbandoned, time.Millisecond)

	want := `
# HELP servify_messages_total Messages dispatched by servify servers.
# TYPE servify_messages_total counter
servify_messages_total{operation="get",outcome="replied",service="Counter"} 2
servify_messages_total{operation="set",outcome="abandoned",service="Counter"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(want), "servify_messages_total"); err != nil {
		t.Fatal(err)
	}
	if n := testutil.CollectAndCount(o.duration); n != 2 {
		t.Fatalf("duration series = %d, want 2", n)
	}
}

func TestNewTwiceOnSameRegistry(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	if _, err := New(reg); err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := New(reg); err == nil {
		t.Fatal("expected duplicate registration error")
	}
}
