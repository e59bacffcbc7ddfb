// Package normalizer turns loaded CUE values into the declarations the
// generator consumes.
package normalizer

import (
	"cuelang.org/go/cue"

	"github.com/comnipl/servify/compiler/decl"
	"github.com/comnipl/servify/compiler/plan"
)

// ImplField groups export blocks: impl: <Target>: {...} @export().
const ImplField = "impl"

type Normalizer struct {
	// Root is stripped from file names in positions.
	Root string
}

func New(root string) *Normalizer {
	return &Normalizer{Root: root}
}

// Module normalizes one CUE package. Declarations that cannot be read are
// reported and left out of the module.
func (n *Normalizer) Module(rel []string, pkg, dir string, v cue.Value) (decl.Module, []plan.Diagnostic) {
	m := decl.Module{Path: rel, Package: pkg, Dir: dir}
	var diags []plan.Diagnostic

	iter, err := v.Fields()
	if err != nil {
		return m, []plan.Diagnostic{plan.Errorf(n.pos(v), plan.CodeMalformedDecl, "read package %s: %v", pkg, err)}
	}
	for iter.Next() {
		label := labelName(iter.Selector())
		val := iter.Value()

		if ann, ok := n.annotation(val, decl.AnnotationService); ok {
			svc, ds := n.service(label, val, ann)
			diags = append(diags, ds...)
			m.Services = append(m.Services, svc)
			continue
		}
		if ann, ok := n.annotation(val, decl.AnnotationExport); ok {
			block, ds := n.exportBlock(label, val, ann)
			diags = append(diags, ds...)
			if !plan.HasErrors(ds) {
				m.Blocks = append(m.Blocks, block)
			}
			continue
		}
		if label == ImplField && val.IncompleteKind() == cue.StructKind {
			blocks, ds := n.implBlocks(val)
			diags = append(diags, ds...)
			m.Blocks = append(m.Blocks, blocks...)
		}
	}
	return m, diags
}

func (n *Normalizer) implBlocks(v cue.Value) ([]decl.ExportBlock, []plan.Diagnostic) {
	var blocks []decl.ExportBlock
	var diags []plan.Diagnostic
	iter, _ := v.Fields()
	for iter.Next() {
		val := iter.Value()
		ann, ok := n.annotation(val, decl.AnnotationExport)
		if !ok {
			continue
		}
		block, ds := n.exportBlock(labelName(iter.Selector()), val, ann)
		diags = append(diags, ds...)
		if !plan.HasErrors(ds) {
			blocks = append(blocks, block)
		}
	}
	return blocks, diags
}
