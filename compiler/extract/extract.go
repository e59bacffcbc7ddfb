// Package extract turns export blocks into operation signatures.
package extract

import (
	"github.com/comnipl/servify/compiler/decl"
	"github.com/comnipl/servify/compiler/plan"
)

// Signature is one exported operation with its receiver stripped.
type Signature struct {
	Service  string
	Name     string
	Params   []decl.Param
	Returns  decl.TypeRef
	Body     string
	Receiver string
	Mutable  bool
	Module   []string
	Pos      decl.Pos
}

// DefaultReceiver names the state parameter when a declaration omits it.
const DefaultReceiver = "s"

// Extract returns the signatures of every operation in block, in declaration
// order. If any item is rejected no signatures are returned.
func Extract(block decl.ExportBlock) ([]Signature, []plan.Diagnostic) {
	diags := CheckExport(block)
	service := block.Target.Last()

	sigs := make([]Signature, 0, len(block.Items))
	seen := make(map[string]decl.Pos, len(block.Items))
	for _, item := range block.Items {
		if item.Kind != decl.ItemFunc || item.Func == nil {
			diags = append(diags, plan.Errorf(item.Pos, plan.CodeUnsupportedItem,
				"servify: export cannot handle non-operation items (%s %s)", item.Kind, item.Name))
			continue
		}
		if prev, dup := seen[item.Name]; dup {
			diags = append(diags, plan.Errorf(item.Pos, plan.CodeDuplicateOperation,
				"operation %s is already declared at %s", item.Name, prev))
			continue
		}
		seen[item.Name] = item.Pos

		sig, ds := signature(service, item)
		diags = append(diags, ds...)
		sigs = append(sigs, sig)
	}

	if plan.HasErrors(diags) {
		return nil, diags
	}
	return sigs, diags
}

func signature(service string, item decl.Item) (Signature, []plan.Diagnostic) {
	fn := item.Func
	recv := DefaultReceiver
	mutable := false
	if fn.Receiver != nil {
		if fn.Receiver.Name != "" {
			recv = fn.Receiver.Name
		}
		mutable = fn.Receiver.Mutable
	}

	var diags []plan.Diagnostic
	if !isIdent(recv) {
		diags = append(diags, plan.Errorf(item.Pos, plan.CodeMalformedParam,
			"operation %s: receiver %q is not an identifier", item.Name, recv))
	}
	params := make([]decl.Param, 0, len(fn.Params))
	names := make(map[string]bool, len(fn.Params))
	for i, p := range fn.Params {
		pos := p.Pos
		if !pos.IsValid() {
			pos = item.Pos
		}
		switch {
		case !isIdent(p.Name):
			diags = append(diags, plan.Errorf(pos, plan.CodeMalformedParam,
				"operation %s: parameter %d has no valid name", item.Name, i+1))
		case p.Type == "":
			diags = append(diags, plan.Errorf(pos, plan.CodeMalformedParam,
				"operation %s: parameter %s has no type", item.Name, p.Name))
		case p.Name == recv:
			diags = append(diags, plan.Errorf(pos, plan.CodeMalformedParam,
				"operation %s: parameter %s shadows the receiver", item.Name, p.Name))
		case names[p.Name]:
			diags = append(diags, plan.Errorf(pos, plan.CodeMalformedParam,
				"operation %s: parameter %s is declared twice", item.Name, p.Name))
		}
		names[p.Name] = true
		params = append(params, p)
	}

	if err := auditBody(fn.Body); err != nil {
		diags = append(diags, plan.Errorf(item.Pos, plan.CodeBodySyntax,
			"operation %s: body does not parse: %v", item.Name, err))
	}

	return Signature{
		Service:  service,
		Name:     item.Name,
		Params:   params,
		Returns:  fn.Returns,
		Body:     fn.Body,
		Receiver: recv,
		Mutable:  mutable,
		Pos:      item.Pos,
	}, diags
}
