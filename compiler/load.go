package compiler

import (
	"context"
	"fmt"
	"path"

	"github.com/comnipl/servify/compiler/decl"
	"github.com/comnipl/servify/compiler/normalizer"
	"github.com/comnipl/servify/compiler/parser"
	"github.com/comnipl/servify/compiler/plan"
	"github.com/comnipl/servify/internal/pkg/logger"
)

// LoadUnit reads every CUE package under root. Declarations the normalizer
// rejects are returned as diagnostics next to the unit.
func LoadUnit(ctx context.Context, root string) (decl.Unit, []plan.Diagnostic, error) {
	pkgs, err := parser.New().LoadTree(root)
	if err != nil {
		return decl.Unit{}, nil, WrapContractError(StageCUE, ErrCodeCUELoad, "load "+root,
			fmt.Errorf("%s", parser.FormatCUELocationError(err)))
	}

	n := normalizer.New(root)
	unit := decl.Unit{Root: root}
	var diags []plan.Diagnostic
	for _, pkg := range pkgs {
		dir := "."
		if len(pkg.Rel) > 0 {
			dir = path.Join(pkg.Rel...)
		}
		m, ds := n.Module(pkg.Rel, pkg.Name, dir, pkg.Value)
		diags = append(diags, ds...)
		unit.Modules = append(unit.Modules, m)
	}
	logger.From(ctx).Debug("cue loaded", "root", root, "packages", len(pkgs), "diagnostics", len(diags))
	return unit, diags, nil
}
