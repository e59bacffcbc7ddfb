// Package dispatch builds the Server's message loop.
package dispatch

import (
	"github.com/comnipl/servify/compiler/names"
	"github.com/comnipl/servify/compiler/plan"
)

// Generate returns the dispatch loop of a service: one case per message
// variant, each calling the operation's public wrapper and fulfilling the
// reply with its result.
func Generate(svc names.ServiceNames, union plan.MessageUnion, ops []plan.Operation) plan.DispatchLoop {
	wrappers := make(map[string]plan.WrapperMethod, len(ops))
	for _, op := range ops {
		wrappers[op.Variant.Type] = op.Server.Wrapper
	}

	cases := make([]plan.DispatchCase, 0, len(union.Variants))
	for _, v := range union.Variants {
		w := wrappers[v.Type]
		cases = append(cases, plan.DispatchCase{
			Variant:  v.Type,
			Tag:      v.Tag,
			Wrapper:  w.Name,
			Response: w.Response,
		})
	}
	return plan.DispatchLoop{
		Method:  svc.Listen,
		Server:  svc.Server,
		Message: union.Name,
		MsgVar:  "m",
		Cases:   cases,
	}
}
