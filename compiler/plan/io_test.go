package plan

import (
	"path/filepath"
	"reflect"
	"testing"
)

func samplePlan() *Plan {
	return &Plan{
		SchemaVersion: SchemaVersion,
		Generator:     "servify test",
		Status:        StatusOK,
		Modules: []Module{{
			Path:    []string{"counter"},
			Package: "counter",
			Dir:     "counter",
			Services: []Service{{
				Name: "Counter",
				Operations: []Operation{{
					Name:    "get_value",
					Request: RequestType{Name: "__get_value_request"},
					Variant: EnumVariant{Tag: "GetValue", Type: "CounterGetValue"},
				}},
				Message:  MessageUnion{Name: "CounterMessage", Variants: []EnumVariant{{Tag: "GetValue", Type: "CounterGetValue"}}},
				Dispatch: DispatchLoop{Method: "Listen", Cases: []DispatchCase{{Variant: "CounterGetValue", Tag: "GetValue"}}},
			}},
		}},
	}
}

func TestPlanRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.json")
	in := samplePlan()
	if err := WritePlan(path, in); err != nil {
		t.Fatalf("WritePlan failed: %v", err)
	}
	out, err := ReadPlan(path)
	if err != nil {
		t.Fatalf("ReadPlan failed: %v", err)
	}
	if !reflect.DeepEqual(out, in) {
		t.Fatalf("round trip mismatch:\n got %#v\nwant %#v", out, in)
	}
}

func TestHashIgnoresInputHash(t *testing.T) {
	t.Parallel()

	a := samplePlan()
	b := samplePlan()
	b.InputHash = "abc"
	ha, err := Hash(a)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	hb, err := Hash(b)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if ha != hb {
		t.Fatalf("hash depends on input hash: %s != %s", ha, hb)
	}
	b.Modules[0].Services[0].Name = "Other"
	if hc, _ := Hash(b); hc == ha {
		t.Fatal("hash did not change with plan content")
	}
}

func TestArtifactIDIsStable(t *testing.T) {
	t.Parallel()

	a := ArtifactID("counter", "Counter", "get_value")
	if a != ArtifactID("counter", "Counter", "get_value") {
		t.Fatal("artifact id is not deterministic")
	}
	if a == ArtifactID("counter", "Counter", "increment_and_get") {
		t.Fatal("distinct artifacts share an id")
	}
	if a == ArtifactID("counter", "Counterget", "_value") {
		t.Fatal("artifact id parts are not separated")
	}
}
