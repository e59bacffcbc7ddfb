// Package enumerate builds the closed message set of a service.
package enumerate

import (
	"github.com/comnipl/servify/compiler/decl"
	"github.com/comnipl/servify/compiler/names"
	"github.com/comnipl/servify/compiler/plan"
)

// Variant is the message variant of one operation.
func Variant(d *names.Deriver, n names.Names) plan.EnumVariant {
	return plan.EnumVariant{
		Tag:      n.Variant,
		Type:     d.VariantType(n.Service, n.Variant),
		Grouping: n.Grouping,
	}
}

// Enumerate returns the message union of svc with one variant per operation,
// in listing order. Two operations mapping to the same variant are reported
// and yield an empty union.
func Enumerate(d *names.Deriver, svc names.ServiceNames, ops []names.Names, pos decl.Pos) (plan.MessageUnion, []plan.Diagnostic) {
	var diags []plan.Diagnostic
	owner := make(map[string]string, len(ops))
	variants := make([]plan.EnumVariant, 0, len(ops))
	for _, n := range ops {
		v := Variant(d, n)
		if prev, ok := owner[v.Tag]; ok {
			diags = append(diags, plan.Errorf(pos, plan.CodeVariantCollision,
				"service %s: operations %s and %s both map to message %s", svc.Service, prev, n.Operation, v.Type))
			continue
		}
		owner[v.Tag] = n.Operation
		variants = append(variants, v)
	}
	if len(diags) > 0 {
		return plan.MessageUnion{}, diags
	}
	return plan.MessageUnion{
		Name:     svc.Message,
		Marker:   svc.Marker,
		Variants: variants,
	}, nil
}
