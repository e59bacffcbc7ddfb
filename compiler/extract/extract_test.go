package extract

import (
	"strings"
	"testing"

	"github.com/comnipl/servify/compiler/decl"
	"github.com/comnipl/servify/compiler/plan"
)

func counterBlock() decl.ExportBlock {
	return decl.ExportBlock{
		Target:     decl.MustParsePath("Counter"),
		TargetKind: decl.TargetStruct,
		Annotation: decl.Annotation{Kind: decl.AnnotationExport},
		Items: []decl.Item{
			{
				Kind: decl.ItemFunc,
				Name: "increment_and_get",
				Func: &decl.Func{
					Receiver: &decl.Receiver{Name: "c", Mutable: true},
					Params:   []decl.Param{{Name: "count", Type: "int"}},
					Returns:  "int",
					Body:     "c.count += count\nreturn c.count",
				},
				Pos: decl.Pos{File: "counter.cue", Line: 8},
			},
			{
				Kind: decl.ItemFunc,
				Name: "get_value",
				Func: &decl.Func{Returns: "int", Body: "return s.count"},
				Pos:  decl.Pos{File: "counter.cue", Line: 16},
			},
			{
				Kind: decl.ItemFunc,
				Name: "set",
				Func: &decl.Func{
					Receiver: &decl.Receiver{Mutable: true},
					Params:   []decl.Param{{Name: "count", Type: "int"}, {Name: "label", Type: "string"}},
					Body:     "s.count = count",
				},
			},
		},
	}
}

func TestExtract(t *testing.T) {
	t.Parallel()

	sigs, diags := Extract(counterBlock())
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(sigs) != 3 {
		t.Fatalf("got %d signatures, want 3", len(sigs))
	}

	inc := sigs[0]
	if inc.Service != "Counter" || inc.Name != "increment_and_get" {
		t.Fatalf("unexpected identity: %s.%s", inc.Service, inc.Name)
	}
	if inc.Receiver != "c" || !inc.Mutable {
		t.Fatalf("receiver = %q mutable=%v", inc.Receiver, inc.Mutable)
	}
	if len(inc.Params) != 1 || inc.Params[0].Name != "count" {
		t.Fatalf("receiver was not stripped from params: %#v", inc.Params)
	}

	get := sigs[1]
	if get.Receiver != DefaultReceiver || get.Mutable {
		t.Fatalf("default receiver = %q mutable=%v", get.Receiver, get.Mutable)
	}
	if len(get.Params) != 0 {
		t.Fatalf("get_value params = %#v", get.Params)
	}

	set := sigs[2]
	if !set.Returns.IsUnit() {
		t.Fatalf("missing return type should default to unit, got %q", set.Returns)
	}
	if set.Params[0].Name != "count" || set.Params[1].Name != "label" || set.Params[1].Type != "string" {
		t.Fatalf("param order not preserved: %#v", set.Params)
	}
}

func TestExtractRejectsConstantAtomically(t *testing.T) {
	t.Parallel()

	block := counterBlock()
	block.Items = append(block.Items, decl.Item{
		Kind: decl.ItemConst,
		Name: "LIMIT",
		Pos:  decl.Pos{File: "counter.cue", Line: 30, Column: 3},
	})

	sigs, diags := Extract(block)
	if sigs != nil {
		t.Fatalf("expected no signatures, got %d", len(sigs))
	}
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %v", diags)
	}
	d := diags[0]
	if d.Code != plan.CodeUnsupportedItem || d.Line != 30 || d.Column != 3 {
		t.Fatalf("unexpected diagnostic: %#v", d)
	}
	if !strings.Contains(d.Message, "cannot handle non-operation items") {
		t.Fatalf("message = %q", d.Message)
	}
}

func TestExtractDiagnostics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		edit func(*decl.ExportBlock)
		code string
	}{
		{"duplicate", func(b *decl.ExportBlock) { b.Items[1].Name = "increment_and_get" }, plan.CodeDuplicateOperation},
		{"unnamed param", func(b *decl.ExportBlock) { b.Items[2].Func.Params[0].Name = "" }, plan.CodeMalformedParam},
		{"untyped param", func(b *decl.ExportBlock) { b.Items[2].Func.Params[1].Type = "" }, plan.CodeMalformedParam},
		{"receiver shadowed", func(b *decl.ExportBlock) { b.Items[0].Func.Params[0].Name = "c" }, plan.CodeMalformedParam},
		{"repeated param", func(b *decl.ExportBlock) { b.Items[2].Func.Params[1].Name = "count" }, plan.CodeMalformedParam},
		{"bad body", func(b *decl.ExportBlock) { b.Items[1].Func.Body = "return (s.count" }, plan.CodeBodySyntax},
		{"option", func(b *decl.ExportBlock) { b.Annotation.Options = []decl.Option{{Key: "impls"}} }, plan.CodeUnknownOption},
		{"scalar target", func(b *decl.ExportBlock) { b.TargetKind = decl.TargetScalar }, plan.CodeMalformedTarget},
		{"field item", func(b *decl.ExportBlock) { b.Items[0] = decl.Item{Kind: decl.ItemOther, Name: "count"} }, plan.CodeUnsupportedItem},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			block := counterBlock()
			// Items hold pointers; copy them before editing.
			for i := range block.Items {
				if fn := block.Items[i].Func; fn != nil {
					cp := *fn
					cp.Params = append([]decl.Param(nil), fn.Params...)
					block.Items[i].Func = &cp
				}
			}
			tt.edit(&block)

			sigs, diags := Extract(block)
			if sigs != nil {
				t.Fatalf("expected no signatures")
			}
			for _, d := range diags {
				if d.Code == tt.code {
					return
				}
			}
			t.Fatalf("missing %s in %v", tt.code, diags)
		})
	}
}

func TestServiceOperations(t *testing.T) {
	t.Parallel()

	svc := decl.ServiceDecl{
		Name:   "Counter",
		Target: decl.TargetStruct,
		Annotation: decl.Annotation{
			Kind:    decl.AnnotationService,
			Options: []decl.Option{{Key: OptionImpls, Value: "increment_and_get | get_value|module.ops.reset"}},
		},
		State: []decl.Field{{Name: "count", Type: "int"}},
	}
	refs, diags := ServiceOperations(svc)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	var got []string
	for _, r := range refs {
		got = append(got, r.String())
	}
	if strings.Join(got, ",") != "increment_and_get,get_value,module.ops.reset" {
		t.Fatalf("refs = %v", got)
	}

	svc.Annotation.Options = append(svc.Annotation.Options, decl.Option{Key: "capacity", Value: "8"})
	if refs, diags := ServiceOperations(svc); refs != nil || !hasCode(diags, plan.CodeUnknownOption) {
		t.Fatalf("expected unknown option, got %v", diags)
	}

	svc.Annotation.Options = svc.Annotation.Options[:1]
	svc.Target = decl.TargetList
	if _, diags := ServiceOperations(svc); !hasCode(diags, plan.CodeMalformedTarget) {
		t.Fatalf("expected malformed target, got %v", diags)
	}
}

func hasCode(ds []plan.Diagnostic, code string) bool {
	for _, d := range ds {
		if d.Code == code {
			return true
		}
	}
	return false
}
