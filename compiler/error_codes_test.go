package compiler

import (
	"slices"
	"strings"
	"testing"

	"github.com/comnipl/servify/compiler/plan"
)

func TestStableErrorCodesAreUniqueAndNonEmpty(t *testing.T) {
	seen := map[string]struct{}{}
	for _, code := range StableErrorCodes {
		if code == "" {
			t.Fatalf("found empty error code in registry")
		}
		if _, ok := seen[code]; ok {
			t.Fatalf("duplicate error code in registry: %s", code)
		}
		seen[code] = struct{}{}
	}
}

func TestRejectionCodesAreRegistered(t *testing.T) {
	for stage, code := range rejectionCodes {
		if !slices.Contains(StableErrorCodes, code) {
			t.Fatalf("stage %s rejects with unregistered code %s", stage, code)
		}
	}
	for _, stage := range []Stage{StageCUE, StageExtract, StageLink, StageSynth} {
		if _, ok := rejectionCodes[stage]; !ok {
			t.Fatalf("no rejection code for stage %s", stage)
		}
	}
}

func TestExtractRejectionMessage(t *testing.T) {
	p := &plan.Plan{
		Status:     plan.StatusFail,
		RejectedBy: string(StageExtract),
		Diagnostics: []plan.Diagnostic{{
			Level:   plan.LevelError,
			Code:    plan.CodeUnsupportedItem,
			Message: "cannot handle non-operation items (const LIMIT)",
		}},
	}
	err := RejectionError(p)
	want := "[EXTRACT:EXTRACT_REJECTED_ERROR] 1 error(s): "
	if err == nil || !strings.HasPrefix(err.Error(), want) {
		t.Fatalf("RejectionError = %v, want prefix %q", err, want)
	}
}
