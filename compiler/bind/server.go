// Package bind attaches the per-operation methods to the generated Server and
// Client types.
package bind

import (
	"github.com/comnipl/servify/compiler/extract"
	"github.com/comnipl/servify/compiler/names"
	"github.com/comnipl/servify/compiler/plan"
)

// BindServer returns the public wrapper and internal handler of one
// operation. Every wrapper has the shape func(Request) Response regardless of
// the operation's parameter list.
func BindServer(sig extract.Signature, n names.Names, req plan.RequestType, resp plan.ResponseType) plan.ServerMethodPair {
	args := make([]string, len(req.Fields))
	for i, f := range req.Fields {
		args[i] = f.Name
	}
	params := make([]plan.Field, len(sig.Params))
	for i, p := range sig.Params {
		params[i] = plan.Field{Name: p.Name, Type: string(p.Type)}
	}

	return plan.ServerMethodPair{
		Wrapper: plan.WrapperMethod{
			Name:       n.Method,
			RequestVar: freshName("req", sig.Receiver),
			Request:    req.Name,
			Response:   resp.Name,
			Args:       args,
			Unit:       resp.Unit,
		},
		Internal: plan.InternalMethod{
			Name:     n.Internal,
			Receiver: plan.Receiver{Name: sig.Receiver, Mutable: sig.Mutable},
			Params:   params,
			Returns:  resp.Type,
			Body:     sig.Body,
		},
	}
}
