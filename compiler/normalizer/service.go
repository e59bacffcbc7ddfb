package normalizer

import (
	"cuelang.org/go/cue"

	"github.com/comnipl/servify/compiler/decl"
	"github.com/comnipl/servify/compiler/plan"
)

// service reads a state record. Its string fields are the state, each value
// naming the Go type.
func (n *Normalizer) service(name string, v cue.Value, ann decl.Annotation) (decl.ServiceDecl, []plan.Diagnostic) {
	svc := decl.ServiceDecl{
		Name:       name,
		Target:     targetKind(v),
		Annotation: ann,
		Pos:        n.pos(v),
	}
	if svc.Target != decl.TargetStruct {
		return svc, nil
	}

	var diags []plan.Diagnostic
	iter, _ := v.Fields()
	for iter.Next() {
		fv := iter.Value()
		field := labelName(iter.Selector())
		typ, err := fv.String()
		if err != nil {
			diags = append(diags, plan.Errorf(n.pos(fv), plan.CodeMalformedDecl,
				"service %s: state field %s must be a Go type name string", name, field))
			continue
		}
		svc.State = append(svc.State, decl.Field{Name: field, Type: decl.TypeRef(typ), Pos: n.pos(fv)})
	}
	return svc, diags
}

func (n *Normalizer) exportBlock(target string, v cue.Value, ann decl.Annotation) (decl.ExportBlock, []plan.Diagnostic) {
	block := decl.ExportBlock{
		TargetKind: targetKind(v),
		Annotation: ann,
		Pos:        n.pos(v),
	}
	path, err := decl.ParsePath(target)
	if err != nil {
		return block, []plan.Diagnostic{plan.Errorf(block.Pos, plan.CodeMalformedTarget,
			"servify: export target %q: %v", target, err)}
	}
	block.Target = path
	if block.TargetKind != decl.TargetStruct {
		return block, nil
	}

	iter, _ := v.Fields()
	for iter.Next() {
		block.Items = append(block.Items, n.item(labelName(iter.Selector()), iter.Value()))
	}
	return block, nil
}

// item classifies one member of an export block. Only structs with a body
// are operations.
func (n *Normalizer) item(name string, v cue.Value) decl.Item {
	it := decl.Item{Name: name, Pos: n.pos(v)}
	switch v.IncompleteKind() {
	case cue.StructKind:
		switch {
		case has(v, "body"):
			it.Kind = decl.ItemFunc
			it.Func = n.function(v)
		case has(v, "const"):
			it.Kind = decl.ItemConst
		case has(v, "type"):
			it.Kind = decl.ItemType
		default:
			it.Kind = decl.ItemOther
		}
	case cue.StringKind:
		it.Kind = decl.ItemField
	case cue.IntKind, cue.FloatKind, cue.NumberKind, cue.BoolKind:
		it.Kind = decl.ItemConst
	default:
		it.Kind = decl.ItemOther
	}
	return it
}

func (n *Normalizer) function(v cue.Value) *decl.Func {
	fn := &decl.Func{
		Returns: decl.TypeRef(getString(v, "returns")),
		Body:    getString(v, "body"),
	}
	if has(v, "receiver") || has(v, "mutable") {
		fn.Receiver = &decl.Receiver{
			Name:    getString(v, "receiver"),
			Mutable: getBool(v, "mutable"),
		}
	}
	params := v.LookupPath(cue.ParsePath("params"))
	if params.Exists() {
		iter, _ := params.Fields()
		for iter.Next() {
			pv := iter.Value()
			typ, _ := pv.String()
			fn.Params = append(fn.Params, decl.Param{
				Name: labelName(iter.Selector()),
				Type: decl.TypeRef(typ),
				Pos:  n.pos(pv),
			})
		}
	}
	return fn
}
