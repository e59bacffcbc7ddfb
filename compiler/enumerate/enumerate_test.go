package enumerate

import (
	"testing"

	"github.com/comnipl/servify/compiler/decl"
	"github.com/comnipl/servify/compiler/names"
	"github.com/comnipl/servify/compiler/plan"
)

func TestEnumerateBijection(t *testing.T) {
	t.Parallel()

	d, err := names.NewDeriver(names.DefaultPolicy())
	if err != nil {
		t.Fatalf("NewDeriver: %v", err)
	}
	opNames := []string{"increment_and_get", "get_value", "reset"}
	var ops []names.Names
	for _, op := range opNames {
		ops = append(ops, d.Derive("Counter", op))
	}

	u, diags := Enumerate(d, d.Service("Counter"), ops, decl.Pos{})
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if u.Name != "CounterMessage" || u.Marker != "isCounterMessage" {
		t.Fatalf("union = %#v", u)
	}
	if len(u.Variants) != len(ops) {
		t.Fatalf("got %d variants for %d operations", len(u.Variants), len(ops))
	}
	want := []plan.EnumVariant{
		{Tag: "IncrementAndGet", Type: "CounterIncrementAndGet", Grouping: "counter_increment_and_get"},
		{Tag: "GetValue", Type: "CounterGetValue", Grouping: "counter_get_value"},
		{Tag: "Reset", Type: "CounterReset", Grouping: "counter_reset"},
	}
	for i := range want {
		if u.Variants[i] != want[i] {
			t.Fatalf("variant %d = %#v, want %#v", i, u.Variants[i], want[i])
		}
	}
}

func TestEnumerateRejectsVariantCollision(t *testing.T) {
	t.Parallel()

	d, err := names.NewDeriver(names.DefaultPolicy())
	if err != nil {
		t.Fatalf("NewDeriver: %v", err)
	}
	ops := []names.Names{d.Derive("Counter", "get_value"), d.Derive("Counter", "GetValue")}
	u, diags := Enumerate(d, d.Service("Counter"), ops, decl.Pos{File: "counter.cue", Line: 3})
	if len(u.Variants) != 0 {
		t.Fatalf("expected empty union, got %#v", u)
	}
	if len(diags) != 1 || diags[0].Code != plan.CodeVariantCollision || diags[0].Line != 3 {
		t.Fatalf("diagnostics = %v", diags)
	}
}
