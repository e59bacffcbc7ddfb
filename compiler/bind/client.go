package bind

import (
	"strconv"

	"github.com/comnipl/servify/compiler/extract"
	"github.com/comnipl/servify/compiler/names"
	"github.com/comnipl/servify/compiler/plan"
)

// BindClient returns the proxy method of one operation. It keeps the
// original parameter list behind a leading context parameter.
func BindClient(sig extract.Signature, n names.Names, variant plan.EnumVariant) plan.ClientMethod {
	taken := make([]string, 0, len(sig.Params)+1)
	params := make([]plan.Field, len(sig.Params))
	for i, p := range sig.Params {
		params[i] = plan.Field{Name: p.Name, Type: string(p.Type)}
		taken = append(taken, p.Name)
	}
	recv := freshName("c", taken...)
	ctx := freshName("ctx", append(taken, recv)...)
	reply := freshName("reply", append(taken, recv, ctx)...)

	return plan.ClientMethod{
		Name:         n.Method,
		Receiver:     recv,
		ContextParam: ctx,
		ReplyParam:   reply,
		Params:       params,
		Request:      n.Request,
		Response:     n.Response,
		Variant:      variant.Type,
	}
}

// freshName returns base, or base with the smallest numeric suffix that is
// not taken.
func freshName(base string, taken ...string) string {
	used := make(map[string]bool, len(taken))
	for _, t := range taken {
		used[t] = true
	}
	if !used[base] {
		return base
	}
	for i := 1; ; i++ {
		if name := base + strconv.Itoa(i); !used[name] {
			return name
		}
	}
}
