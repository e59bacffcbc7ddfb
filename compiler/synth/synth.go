// Package synth builds the request and response types of an operation.
package synth

import (
	"github.com/comnipl/servify/compiler/extract"
	"github.com/comnipl/servify/compiler/names"
	"github.com/comnipl/servify/compiler/plan"
)

// Synthesize mirrors the parameter list into a request struct and aliases the
// return type as the response. Types are copied verbatim.
func Synthesize(sig extract.Signature, n names.Names) (plan.RequestType, plan.ResponseType) {
	fields := make([]plan.Field, len(sig.Params))
	for i, p := range sig.Params {
		fields[i] = plan.Field{Name: p.Name, Type: string(p.Type)}
	}
	req := plan.RequestType{Name: n.Request, Fields: fields}
	resp := plan.ResponseType{
		Name: n.Response,
		Type: string(sig.Returns),
		Unit: sig.Returns.IsUnit(),
	}
	return req, resp
}

// Grouping exposes the request and response of one operation under a single
// name for references from other modules.
func Grouping(n names.Names) plan.Grouping {
	return plan.Grouping{Name: n.Grouping, Request: n.Request, Response: n.Response}
}
