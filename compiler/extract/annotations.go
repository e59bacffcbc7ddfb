package extract

import (
	"strings"

	"github.com/comnipl/servify/compiler/decl"
	"github.com/comnipl/servify/compiler/plan"
)

// OptionImpls lists a service's operations, separated by "|".
const OptionImpls = "impls"

// ServiceOperations validates a service annotation and returns its ordered
// operation references.
func ServiceOperations(svc decl.ServiceDecl) ([]decl.Path, []plan.Diagnostic) {
	var diags []plan.Diagnostic
	if svc.Target != decl.TargetStruct {
		diags = append(diags, plan.Errorf(svc.Pos, plan.CodeMalformedTarget,
			"servify: service annotation expects a struct, %s is a %s", svc.Name, svc.Target))
	}

	var refs []decl.Path
	for _, opt := range svc.Annotation.Options {
		if opt.Key != OptionImpls {
			diags = append(diags, plan.Errorf(posOr(opt.Pos, svc.Pos), plan.CodeUnknownOption,
				"servify: unknown service option %q", opt.Key))
			continue
		}
		for _, raw := range strings.Split(opt.Value, "|") {
			if strings.TrimSpace(raw) == "" {
				continue
			}
			p, err := decl.ParsePath(raw)
			if err != nil {
				diags = append(diags, plan.Errorf(posOr(opt.Pos, svc.Pos), plan.CodeUnknownOperation,
					"servify: service %s: %v", svc.Name, err))
				continue
			}
			refs = append(refs, p)
		}
	}

	seen := make(map[string]bool, len(svc.State))
	for _, f := range svc.State {
		if !isIdent(f.Name) || f.Type == "" {
			diags = append(diags, plan.Errorf(posOr(f.Pos, svc.Pos), plan.CodeMalformedDecl,
				"service %s: state field %q needs a name and a type", svc.Name, f.Name))
		}
		if seen[f.Name] {
			diags = append(diags, plan.Errorf(posOr(f.Pos, svc.Pos), plan.CodeMalformedDecl,
				"service %s: state field %s is declared twice", svc.Name, f.Name))
		}
		seen[f.Name] = true
	}

	if plan.HasErrors(diags) {
		return nil, diags
	}
	return refs, diags
}

// CheckExport validates an export annotation. It takes no options and only
// applies to struct targets.
func CheckExport(block decl.ExportBlock) []plan.Diagnostic {
	var diags []plan.Diagnostic
	if block.TargetKind != decl.TargetStruct {
		diags = append(diags, plan.Errorf(block.Pos, plan.CodeMalformedTarget,
			"servify: export annotation expects an implementation block, %s is a %s", block.Target, block.TargetKind))
	}
	for _, opt := range block.Annotation.Options {
		diags = append(diags, plan.Errorf(posOr(opt.Pos, block.Pos), plan.CodeUnknownOption,
			"servify: export takes no options, got %q", opt.Key))
	}
	return diags
}

func posOr(p, fallback decl.Pos) decl.Pos {
	if p.IsValid() {
		return p
	}
	return fallback
}
