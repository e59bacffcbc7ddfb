package plan

import "fmt"

func ValidatePlan(p *Plan) error {
	if p == nil {
		return fmt.Errorf("plan is nil")
	}
	if p.SchemaVersion == "" {
		return fmt.Errorf("schemaVersion is required")
	}
	if p.SchemaVersion != SchemaVersion {
		return fmt.Errorf("unsupported schemaVersion: %s", p.SchemaVersion)
	}
	if p.Status == "" {
		return fmt.Errorf("status is required")
	}
	if p.Status == StatusFail && len(p.Modules) > 0 {
		return fmt.Errorf("failed plan must not carry modules")
	}
	if p.RejectedBy != "" && p.Status != StatusFail {
		return fmt.Errorf("plan rejected by %s has status %q", p.RejectedBy, p.Status)
	}
	if HasErrors(p.Diagnostics) && p.Status != StatusFail {
		return fmt.Errorf("plan with error diagnostics has status %q", p.Status)
	}
	for _, m := range p.Modules {
		for _, s := range m.Services {
			if err := validateService(s); err != nil {
				return fmt.Errorf("module %q: %w", m.Dir, err)
			}
		}
	}
	return nil
}

// validateService checks that operations, variants and dispatch cases are in
// one-to-one correspondence.
func validateService(s Service) error {
	if len(s.Message.Variants) != len(s.Operations) {
		return fmt.Errorf("service %s: %d variants for %d operations", s.Name, len(s.Message.Variants), len(s.Operations))
	}
	if len(s.Dispatch.Cases) != len(s.Operations) {
		return fmt.Errorf("service %s: %d dispatch cases for %d operations", s.Name, len(s.Dispatch.Cases), len(s.Operations))
	}
	seen := make(map[string]bool, len(s.Operations))
	for i, op := range s.Operations {
		if seen[op.Variant.Tag] {
			return fmt.Errorf("service %s: variant %s is not unique", s.Name, op.Variant.Tag)
		}
		seen[op.Variant.Tag] = true
		if s.Message.Variants[i].Tag != op.Variant.Tag {
			return fmt.Errorf("service %s: variant %d is %s, want %s", s.Name, i, s.Message.Variants[i].Tag, op.Variant.Tag)
		}
		if s.Dispatch.Cases[i].Variant != op.Variant.Type {
			return fmt.Errorf("service %s: dispatch case %d handles %s, want %s", s.Name, i, s.Dispatch.Cases[i].Variant, op.Variant.Type)
		}
		if len(op.Request.Fields) != len(op.Client.Params) {
			return fmt.Errorf("service %s: operation %s request has %d fields for %d parameters", s.Name, op.Name, len(op.Request.Fields), len(op.Client.Params))
		}
	}
	return nil
}
