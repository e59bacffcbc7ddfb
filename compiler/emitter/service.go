package emitter

import (
	"bytes"
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/comnipl/servify/compiler/plan"
)

const actorPkg = "github.com/comnipl/servify/actor"

// serviceFile builds one generated file. Types and bodies from the input are
// passed through verbatim; imports they need are added by formatGoStrict.
type serviceFile struct {
	module plan.Module
	svc    plan.Service
	header []string
}

func (g *serviceFile) render() ([]byte, error) {
	f := jen.NewFile(g.module.Package)
	for _, h := range g.header {
		f.HeaderComment(h)
	}
	f.ImportName(actorPkg, "actor")

	g.server(f)
	for _, op := range g.svc.Operations {
		g.operation(f, op)
	}
	g.message(f)
	g.listen(f)
	g.client(f)

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", g.svc.Name, err)
	}
	return buf.Bytes(), nil
}

func fields(fs []plan.Field) []jen.Code {
	out := make([]jen.Code, len(fs))
	for i, fl := range fs {
		out[i] = jen.Id(fl.Name).Id(fl.Type)
	}
	return out
}

func (g *serviceFile) server(f *jen.File) {
	f.Commentf("%s owns the state of %s. Only the goroutine running %s touches it.",
		g.svc.Server, g.svc.Name, g.svc.Dispatch.Method)
	f.Type().Id(g.svc.Server).Struct(fields(g.svc.State)...)
	f.Line()
}

func (g *serviceFile) operation(f *jen.File, op plan.Operation) {
	f.Type().Id(op.Request.Name).Struct(fields(op.Request.Fields)...)
	f.Line()
	if op.Response.Unit {
		f.Type().Id(op.Response.Name).Op("=").Struct()
	} else {
		f.Type().Id(op.Response.Name).Op("=").Id(op.Response.Type)
	}
	f.Line()
	f.Type().Id(op.Grouping.Name).Op("=").Qual(actorPkg, "Export").Types(
		jen.Id(op.Grouping.Request), jen.Id(op.Grouping.Response))
	f.Line()

	in := op.Server.Internal
	recv := jen.Id(in.Receiver.Name)
	if in.Receiver.Mutable {
		recv.Op("*")
	}
	recv.Id(g.svc.Server)
	sig := f.Func().Params(recv).Id(in.Name).Params(fields(in.Params)...)
	if in.Returns != "" {
		sig.Id(in.Returns)
	}
	if in.Body == "" {
		sig.Block()
	} else {
		sig.Block(jen.Id(in.Body))
	}
	f.Line()

	w := op.Server.Wrapper
	args := make([]jen.Code, len(w.Args))
	for i, a := range w.Args {
		args[i] = jen.Id(w.RequestVar).Dot(a)
	}
	call := jen.Id(in.Receiver.Name).Dot(in.Name).Call(args...)
	var body []jen.Code
	if w.Unit {
		body = []jen.Code{call, jen.Return(jen.Id(w.Response).Values())}
	} else {
		body = []jen.Code{jen.Return(call)}
	}
	f.Func().Params(jen.Id(in.Receiver.Name).Op("*").Id(g.svc.Server)).Id(w.Name).
		Params(jen.Id(w.RequestVar).Id(w.Request)).Id(w.Response).Block(body...)
	f.Line()
}

func (g *serviceFile) message(f *jen.File) {
	u := g.svc.Message
	f.Commentf("%s is one request to a %s.", u.Name, g.svc.Server)
	f.Type().Id(u.Name).Interface(
		jen.Qual(actorPkg, "Message"),
		jen.Id(u.Marker).Params(),
	)
	f.Line()
	for i, v := range u.Variants {
		f.Type().Id(v.Type).Struct(jen.Id(v.Grouping))
		f.Line()
		f.Func().Params(jen.Id(v.Type)).Id("Operation").Params().String().Block(
			jen.Return(jen.Lit(g.svc.Operations[i].Name)),
		)
		f.Line()
		f.Func().Params(jen.Id(v.Type)).Id(u.Marker).Params().Block()
		f.Line()
	}
}

func (g *serviceFile) listen(f *jen.File) {
	d := g.svc.Dispatch
	cases := make([]jen.Code, 0, len(d.Cases)+1)
	for _, c := range d.Cases {
		cases = append(cases, jen.Case(jen.Id(c.Variant)).Block(
			jen.Return(jen.Id(d.MsgVar).Dot("Respond").Call(
				jen.Id("s").Dot(c.Wrapper).Call(jen.Id(d.MsgVar).Dot("Request")))),
		))
	}
	unhandled := jen.Return(jen.Qual(actorPkg, "UnhandledMessage").Call(jen.Id("msg")))
	handler := []jen.Code{unhandled}
	if len(cases) > 0 {
		cases = append(cases, jen.Default().Block(unhandled))
		handler = []jen.Code{jen.Switch(jen.Id(d.MsgVar).Op(":=").Id("msg").Assert(jen.Id("type"))).Block(cases...)}
	}

	f.Commentf("%s serves messages from rx until every client is closed or ctx ends.", d.Method)
	f.Func().Params(jen.Id("s").Op("*").Id(d.Server)).Id(d.Method).Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("rx").Op("*").Qual(actorPkg, "Receiver").Types(jen.Id(d.Message)),
		jen.Id("opts").Op("...").Qual(actorPkg, "ServeOption"),
	).Error().Block(
		jen.Return(jen.Id("rx").Dot("Serve").Call(
			jen.Id("ctx"),
			jen.Func().Params(jen.Id("_").Qual("context", "Context"), jen.Id("msg").Id(d.Message)).Error().Block(handler...),
			jen.Append(
				jen.Index().Qual(actorPkg, "ServeOption").Values(
					jen.Qual(actorPkg, "WithName").Call(jen.Lit(g.svc.Name))),
				jen.Id("opts").Op("..."),
			).Op("..."),
		)),
	)
	f.Line()
}

func (g *serviceFile) client(f *jen.File) {
	msg := g.svc.Message.Name
	client := g.svc.Client

	f.Commentf("%s sends requests to a %s. It is safe for concurrent use.", client, g.svc.Server)
	f.Type().Id(client).Struct(
		jen.Id("tx").Op("*").Qual(actorPkg, "Sender").Types(jen.Id(msg)),
	)
	f.Line()

	f.Commentf("%s returns the receiving end for %s.%s and a client bound to it.",
		g.svc.Constructor, g.svc.Server, g.svc.Dispatch.Method)
	f.Func().Id(g.svc.Constructor).Params(jen.Id("capacity").Int()).Params(
		jen.Op("*").Qual(actorPkg, "Receiver").Types(jen.Id(msg)),
		jen.Op("*").Id(client),
	).Block(
		jen.List(jen.Id("tx"), jen.Id("rx")).Op(":=").Qual(actorPkg, "NewChannel").Types(jen.Id(msg)).Call(jen.Id("capacity")),
		jen.Return(jen.Id("rx"), jen.Op("&").Id(client).Values(jen.Dict{jen.Id("tx"): jen.Id("tx")})),
	)
	f.Line()

	f.Func().Params(jen.Id("c").Op("*").Id(client)).Id("Clone").Params().Op("*").Id(client).Block(
		jen.Return(jen.Op("&").Id(client).Values(jen.Dict{jen.Id("tx"): jen.Id("c").Dot("tx").Dot("Clone").Call()})),
	)
	f.Line()
	f.Func().Params(jen.Id("c").Op("*").Id(client)).Id("Close").Params().Block(
		jen.Id("c").Dot("tx").Dot("Close").Call(),
	)
	f.Line()

	for _, op := range g.svc.Operations {
		m := op.Client
		params := append([]jen.Code{jen.Id(m.ContextParam).Qual("context", "Context")}, fields(m.Params)...)
		values := jen.Dict{}
		for _, p := range m.Params {
			values[jen.Id(p.Name)] = jen.Id(p.Name)
		}
		f.Func().Params(jen.Id(m.Receiver).Op("*").Id(client)).Id(m.Name).Params(params...).
			Params(jen.Id(m.Response), jen.Error()).Block(
			jen.Return(jen.Qual(actorPkg, "Call").Call(
				jen.Id(m.ContextParam),
				jen.Id(m.Receiver).Dot("tx"),
				jen.Func().Params(jen.Id(m.ReplyParam).Op("*").Qual(actorPkg, "ReplySlot").Types(jen.Id(m.Response))).Id(msg).Block(
					jen.Return(jen.Id(m.Variant).Values(jen.Id(op.Grouping.Name).Values(jen.Dict{
						jen.Id("Request"): jen.Id(m.Request).Values(values),
						jen.Id("Reply"):   jen.Id(m.ReplyParam),
					}))),
				),
			)),
		)
		f.Line()
	}
}
