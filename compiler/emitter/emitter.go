// Package emitter writes the Go source of a generation plan.
package emitter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/comnipl/servify/compiler/plan"
)

var ErrFailedPlan = errors.New("emitter: plan has status fail")

const (
	OpCreate    = "create"
	OpUpdate    = "update"
	OpUnchanged = "unchanged"
)

type Emitter struct {
	// Root is the directory module dirs are relative to.
	Root      string
	Version   string
	InputHash string
	DryRun    bool
	Logger    *slog.Logger
}

func New(root string) *Emitter {
	return &Emitter{Root: root}
}

// File is one rendered output file. Path is slash-separated and relative to
// the emitter root.
type File struct {
	Path    string
	Service string
	Content []byte
}

func (e *Emitter) header() []string {
	h := "Code generated by servify"
	if e.Version != "" {
		h += " " + e.Version
	}
	lines := []string{h + ". DO NOT EDIT."}
	if e.InputHash != "" {
		lines = append(lines, "Input hash: "+e.InputHash)
	}
	return lines
}

// RenderService renders the file of one service.
func (e *Emitter) RenderService(m plan.Module, svc plan.Service) (File, error) {
	p := path.Join(m.Dir, svc.File)
	src, err := (&serviceFile{module: m, svc: svc, header: e.header()}).render()
	if err != nil {
		return File{}, err
	}
	out, err := formatGoStrict(src, p)
	if err != nil {
		return File{}, err
	}
	return File{Path: p, Service: svc.Name, Content: out}, nil
}

// Render renders every service of p concurrently. Files come back in plan
// order.
func (e *Emitter) Render(ctx context.Context, p *plan.Plan) ([]File, error) {
	if p.Status == plan.StatusFail {
		return nil, ErrFailedPlan
	}
	type job struct {
		m   plan.Module
		svc plan.Service
	}
	var jobs []job
	for _, m := range p.Modules {
		for _, svc := range m.Services {
			jobs = append(jobs, job{m, svc})
		}
	}

	files := make([]File, len(jobs))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, j := range jobs {
		g.Go(func() error {
			f, err := e.RenderService(j.m, j.svc)
			if err != nil {
				return err
			}
			files[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// WriteError is a failure to write one rendered file.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string { return fmt.Sprintf("write %s: %v", e.Path, e.Err) }
func (e *WriteError) Unwrap() error { return e.Err }

// Apply renders p and writes the files that changed. With DryRun set nothing
// is written but the returned changes are the same.
func (e *Emitter) Apply(ctx context.Context, p *plan.Plan) ([]plan.FileChange, error) {
	log := e.Logger
	if log == nil {
		log = slog.Default()
	}
	files, err := e.Render(ctx, p)
	if err != nil {
		return nil, err
	}

	changes := make([]plan.FileChange, 0, len(files))
	for _, f := range files {
		target := filepath.Join(e.Root, filepath.FromSlash(f.Path))
		change := plan.FileChange{Op: OpCreate, Path: f.Path, Service: f.Service, Hash: plan.ContentHash(f.Content)}
		existing, err := os.ReadFile(target)
		switch {
		case err == nil && bytes.Equal(existing, f.Content):
			change.Op = OpUnchanged
		case err == nil:
			change.Op = OpUpdate
		case !errors.Is(err, os.ErrNotExist):
			return nil, &WriteError{Path: f.Path, Err: err}
		}
		changes = append(changes, change)

		if e.DryRun || change.Op == OpUnchanged {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return nil, &WriteError{Path: f.Path, Err: err}
		}
		if err := os.WriteFile(target, f.Content, 0o644); err != nil {
			return nil, &WriteError{Path: f.Path, Err: err}
		}
		log.Info("wrote generated file", "path", f.Path, "service", f.Service, "op", change.Op)
	}
	return changes, nil
}
