package parser

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"

	"github.com/comnipl/servify/compiler/plan"
)

// Parser loads CUE service descriptions.
type Parser struct {
	ctx *cue.Context
}

func New() *Parser {
	return &Parser{
		ctx: cuecontext.New(),
	}
}

// Package is one directory of CUE files under the input root.
type Package struct {
	// Rel is the directory relative to the root, split into segments.
	Rel   []string
	Dir   string
	Name  string
	Value cue.Value
}

// FormatCUELocationError converts CUE error into human-readable advice with locations.
func FormatCUELocationError(err error) string {
	if err == nil {
		return ""
	}

	var msg strings.Builder
	for _, e := range errors.Errors(err) {
		fmt.Fprintf(&msg, "CUE error: %v\n", e)

		positions := errors.Positions(e)
		if len(positions) > 1 {
			msg.WriteString("   conflict between these locations:\n")
			for i, p := range positions {
				fmt.Fprintf(&msg, "   %d. %s\n", i+1, p.String())
			}
		}
	}

	if msg.Len() == 0 {
		return err.Error()
	}
	return msg.String()
}

// LoadTree loads every directory under root that holds .cue files, in path
// order. Directories starting with "." or "_" are skipped.
func (p *Parser) LoadTree(root string) ([]Package, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	dirs := make(map[string][]string)
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != absRoot && plan.SkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == ".cue" {
			dir := filepath.Dir(path)
			dirs[dir] = append(dirs[dir], filepath.Base(path))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(dirs) == 0 {
		return nil, fmt.Errorf("no CUE files found in %s", root)
	}

	keys := make([]string, 0, len(dirs))
	for dir := range dirs {
		keys = append(keys, dir)
	}
	sort.Strings(keys)

	pkgs := make([]Package, 0, len(keys))
	for _, dir := range keys {
		files := dirs[dir]
		sort.Strings(files)
		v, name, err := p.loadFiles(dir, files)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", dir, err)
		}
		rel, err := filepath.Rel(absRoot, dir)
		if err != nil {
			return nil, err
		}
		var segs []string
		if rel != "." {
			segs = strings.Split(filepath.ToSlash(rel), "/")
		}
		pkgs = append(pkgs, Package{Rel: segs, Dir: dir, Name: name, Value: v})
	}
	return pkgs, nil
}

func (p *Parser) loadFiles(dir string, files []string) (cue.Value, string, error) {
	bis := load.Instances(files, &load.Config{
		Dir: dir,
	})
	if len(bis) == 0 {
		return cue.Value{}, "", fmt.Errorf("no CUE instance in %s", dir)
	}
	if bis[0].Err != nil {
		return cue.Value{}, "", bis[0].Err
	}

	v := p.ctx.BuildInstance(bis[0])
	if err := v.Validate(cue.All()); err != nil {
		return cue.Value{}, "", err
	}
	if v.Err() != nil {
		return cue.Value{}, "", v.Err()
	}
	return v, bis[0].PkgName, nil
}

// CompileString builds a value from source text held in memory.
func (p *Parser) CompileString(src, filename string) (cue.Value, error) {
	v := p.ctx.CompileString(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return cue.Value{}, err
	}
	if err := v.Validate(cue.All()); err != nil {
		return cue.Value{}, err
	}
	return v, nil
}
