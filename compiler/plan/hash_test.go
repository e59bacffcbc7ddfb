package plan

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestComputeInputHashSkipsNonInput(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "counter", "counter.cue"), "package counter\n")
	before, err := ComputeInputHash(root)
	if err != nil {
		t.Fatalf("ComputeInputHash: %v", err)
	}

	writeFile(t, filepath.Join(root, "cue.mod", "module.cue"), "module: \"example.com/x\"\n")
	writeFile(t, filepath.Join(root, "_scratch", "x.cue"), "package x\n")
	writeFile(t, filepath.Join(root, "counter", "simple_counter_servify.go"), "package counter\n")
	after, err := ComputeInputHash(root)
	if err != nil {
		t.Fatalf("ComputeInputHash: %v", err)
	}
	if before != after {
		t.Fatal("hash changed for files the loader never reads")
	}

	writeFile(t, filepath.Join(root, "counter", "counter.cue"), "package counter\n\nX: 1\n")
	changed, err := ComputeInputHash(root)
	if err != nil {
		t.Fatalf("ComputeInputHash: %v", err)
	}
	if changed == before {
		t.Fatal("hash did not change with the input")
	}
}

func TestSkipDir(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]bool{
		"cue.mod": true, ".git": true, "_build": true, "counter": false, "mod": false,
	} {
		if got := SkipDir(name); got != want {
			t.Fatalf("SkipDir(%q) = %v, want %v", name, got, want)
		}
	}
}
