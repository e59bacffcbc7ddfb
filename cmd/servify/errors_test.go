package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/comnipl/servify/compiler"
)

func TestFormatStageFailureSnapshot(t *testing.T) {
	got := formatStageFailure(
		"Generation FAILED",
		compiler.StageEmit,
		compiler.ErrCodeEmitWrite,
		"apply",
		errors.New("boom"),
	)

	goldenPath := filepath.Join("testdata", "cli_error_snapshot.txt")
	wantBytes, err := os.ReadFile(goldenPath)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	want := string(wantBytes)
	if got+"\n" != want {
		t.Fatalf("snapshot mismatch\nwant: %q\ngot:  %q", want, got+"\n")
	}
}

func TestPrintErrorKeepsStage(t *testing.T) {
	var buf bytes.Buffer
	err := compiler.WrapContractError(compiler.StageLink, compiler.ErrCodeLinkRejected, "link", errors.New("x"))
	printError(&buf, "Generation FAILED", compiler.StageEmit, compiler.ErrCodeEmitWrite, "apply", err)
	if got := buf.String(); got != "Generation FAILED: [LINK:LINK_REJECTED_ERROR] link: x\n" {
		t.Fatalf("got %q", got)
	}
}
