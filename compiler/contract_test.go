package compiler

import (
	"errors"
	"strings"
	"testing"
)

func TestWrapContractError(t *testing.T) {
	root := errors.New("root")
	err := WrapContractError(StageCUE, ErrCodeCUELoad, "load counter", root)
	if err == nil {
		t.Fatalf("expected wrapped error")
	}

	msg := err.Error()
	if !strings.Contains(msg, "[CUE:CUE_LOAD_ERROR]") {
		t.Fatalf("missing stage/code in error: %s", msg)
	}
	if !strings.Contains(msg, "load counter") {
		t.Fatalf("missing op in error: %s", msg)
	}
	if !errors.Is(err, root) {
		t.Fatalf("wrapped error should unwrap to root cause")
	}

	var ce *ContractError
	if !errors.As(err, &ce) || ce.Stage != StageCUE {
		t.Fatalf("errors.As did not recover the contract error")
	}
}

func TestWrapContractErrorNil(t *testing.T) {
	if err := WrapContractError(StageEmit, ErrCodeEmitWrite, "write", nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
