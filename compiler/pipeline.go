package compiler

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/comnipl/servify/compiler/bind"
	"github.com/comnipl/servify/compiler/decl"
	"github.com/comnipl/servify/compiler/dispatch"
	"github.com/comnipl/servify/compiler/enumerate"
	"github.com/comnipl/servify/compiler/extract"
	"github.com/comnipl/servify/compiler/names"
	"github.com/comnipl/servify/compiler/pathres"
	"github.com/comnipl/servify/compiler/plan"
	"github.com/comnipl/servify/compiler/synth"
)

const Version = "0.1.0"

const instrumentationName = "github.com/comnipl/servify/compiler"

type Options struct {
	Names          names.Policy
	Paths          pathres.Policy
	Logger         *slog.Logger
	TracerProvider trace.TracerProvider
}

func DefaultOptions() Options {
	return Options{
		Names: names.DefaultPolicy(),
		Paths: pathres.DefaultPolicy(),
	}
}

// Plan runs every generation stage over unit. Rejected declarations are
// reported as diagnostics in a plan with status fail and no modules; the
// error return is reserved for invalid options.
func Plan(ctx context.Context, unit decl.Unit, opts Options) (*plan.Plan, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	tp := opts.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	tracer := tp.Tracer(instrumentationName)

	deriver, err := names.NewDeriver(opts.Names)
	if err != nil {
		return nil, WrapContractError(StageConfig, ErrCodeConfigNamingPolicy, "naming policy", err)
	}
	resolver, err := pathres.NewResolver(opts.Paths)
	if err != nil {
		return nil, WrapContractError(StageConfig, ErrCodeConfigPathPolicy, "path policy", err)
	}

	ctx, span := tracer.Start(ctx, "servify.plan", trace.WithAttributes(
		attribute.Int("servify.modules", len(unit.Modules)),
	))
	defer span.End()

	out := &plan.Plan{
		SchemaVersion: plan.SchemaVersion,
		Generator:     "servify " + Version,
	}
	fail := func(stage Stage, diags []plan.Diagnostic) (*plan.Plan, error) {
		out.Diagnostics = diags
		out.Status = plan.StatusFail
		out.RejectedBy = string(stage)
		out.Modules = nil
		span.SetStatus(otelcodes.Error, string(stage))
		log.Debug("generation rejected", "stage", stage, "errors", len(plan.Errors(diags)))
		return out, nil
	}

	var diags []plan.Diagnostic

	_, stage := tracer.Start(ctx, "servify.extract")
	blocks := make(map[int][][]extract.Signature, len(unit.Modules))
	for mi, m := range unit.Modules {
		for _, block := range m.Blocks {
			sigs, ds := extract.Extract(block)
			diags = append(diags, ds...)
			for i := range sigs {
				sigs[i].Module = m.Path
			}
			blocks[mi] = append(blocks[mi], sigs)
		}
	}
	stage.End()
	if plan.HasErrors(diags) {
		return fail(StageExtract, diags)
	}

	_, stage = tracer.Start(ctx, "servify.link")
	linked, ds := Link(unit, blocks, resolver, deriver)
	diags = append(diags, ds...)
	stage.End()
	if plan.HasErrors(diags) {
		return fail(StageLink, diags)
	}

	_, stage = tracer.Start(ctx, "servify.synth")
	modules, ds := assemble(unit, linked, deriver)
	diags = append(diags, ds...)
	stage.End()
	if plan.HasErrors(diags) {
		return fail(StageSynth, diags)
	}

	out.Diagnostics = diags
	out.Status = plan.StatusOf(diags)
	out.Modules = modules
	if err := plan.ValidatePlan(out); err != nil {
		return nil, WrapContractError(StageSynth, ErrCodeSynthRejected, "validate plan", err)
	}
	log.Debug("plan assembled", "modules", len(modules), "diagnostics", len(diags))
	return out, nil
}

// assemble builds the plan modules from linked services, keeping the module
// order of the unit and the service order of each module.
func assemble(unit decl.Unit, linked []LinkedService, d *names.Deriver) ([]plan.Module, []plan.Diagnostic) {
	var diags []plan.Diagnostic
	byModule := make(map[int][]LinkedService)
	for _, ls := range linked {
		byModule[ls.Module] = append(byModule[ls.Module], ls)
	}

	var modules []plan.Module
	for mi, m := range unit.Modules {
		services := byModule[mi]
		if len(services) == 0 {
			continue
		}

		var svcNames []names.ServiceNames
		var opNames []names.Names
		state := make(map[string][]string, len(services))
		for _, ls := range services {
			svcNames = append(svcNames, d.Service(ls.Decl.Name))
			for _, f := range ls.Decl.State {
				state[ls.Decl.Name] = append(state[ls.Decl.Name], f.Name)
			}
			for _, op := range ls.Ops {
				opNames = append(opNames, d.Derive(ls.Decl.Name, op.Sig.Name))
			}
		}
		if collisions := d.Collisions(svcNames, state, opNames); len(collisions) > 0 {
			for _, c := range collisions {
				diags = append(diags, plan.Errorf(decl.Pos{File: m.Dir}, plan.CodeNameCollision,
					"module %q: %s", m.Key(), c))
			}
			continue
		}

		pm := plan.Module{Path: m.Path, Package: m.Package, Dir: m.Dir}
		for _, ls := range services {
			svc, ds := buildService(m, ls, d)
			diags = append(diags, ds...)
			pm.Services = append(pm.Services, svc)
		}
		modules = append(modules, pm)
	}
	return modules, diags
}

func buildService(m decl.Module, ls LinkedService, d *names.Deriver) (plan.Service, []plan.Diagnostic) {
	var diags []plan.Diagnostic
	sn := d.Service(ls.Decl.Name)
	svc := plan.Service{
		ID:          plan.ArtifactID(m.Key(), ls.Decl.Name),
		Name:        ls.Decl.Name,
		Server:      sn.Server,
		Client:      sn.Client,
		Constructor: sn.Constructor,
		File:        sn.File,
	}
	for _, f := range ls.Decl.State {
		svc.State = append(svc.State, plan.Field{Name: f.Name, Type: string(f.Type)})
	}
	if len(ls.Ops) == 0 {
		diags = append(diags, plan.Warnf(ls.Decl.Pos, plan.CodeEmptyService,
			"service %s lists no operations", ls.Decl.Name))
	}

	opNames := make([]names.Names, 0, len(ls.Ops))
	for _, lo := range ls.Ops {
		sig := lo.Sig
		n := d.Derive(ls.Decl.Name, sig.Name)
		opNames = append(opNames, n)

		req, resp := synth.Synthesize(sig, n)
		variant := enumerate.Variant(d, n)
		svc.Operations = append(svc.Operations, plan.Operation{
			ID:       plan.ArtifactID(m.Key(), ls.Decl.Name, sig.Name),
			Service:  ls.Decl.Name,
			Name:     sig.Name,
			Module:   sig.Module,
			Ref:      lo.Ref.String(),
			Request:  req,
			Response: resp,
			Variant:  variant,
			Grouping: synth.Grouping(n),
			Server:   bind.BindServer(sig, n, req, resp),
			Client:   bind.BindClient(sig, n, variant),
		})
	}

	union, ds := enumerate.Enumerate(d, sn, opNames, ls.Decl.Pos)
	diags = append(diags, ds...)
	svc.Message = union
	svc.Dispatch = dispatch.Generate(sn, union, svc.Operations)
	return svc, diags
}

// Generate loads the CUE input under root and plans it.
func Generate(ctx context.Context, root string, opts Options) (*plan.Plan, error) {
	unit, loadDiags, err := LoadUnit(ctx, root)
	if err != nil {
		return nil, err
	}

	var p *plan.Plan
	if plan.HasErrors(loadDiags) {
		p = &plan.Plan{
			SchemaVersion: plan.SchemaVersion,
			Generator:     "servify " + Version,
			Status:        plan.StatusFail,
			RejectedBy:    string(StageCUE),
			Diagnostics:   loadDiags,
		}
	} else {
		p, err = Plan(ctx, unit, opts)
		if err != nil {
			return nil, err
		}
		p.Diagnostics = append(loadDiags, p.Diagnostics...)
		p.Status = plan.StatusOf(p.Diagnostics)
	}

	hash, err := plan.ComputeInputHash(root)
	if err != nil {
		return nil, WrapContractError(StageCUE, ErrCodeCUEHash, "hash input", err)
	}
	p.InputHash = hash
	return p, nil
}

// RejectionError turns a failed plan into an error value for callers that
// stop at the first failure.
func RejectionError(p *plan.Plan) error {
	if p == nil || p.Status != plan.StatusFail {
		return nil
	}
	errs := plan.Errors(p.Diagnostics)
	if len(errs) == 0 {
		return nil
	}
	stage := Stage(p.RejectedBy)
	if stage == "" {
		stage = stageOf(errs[0].Code)
	}
	code, ok := rejectionCodes[stage]
	if !ok {
		stage, code = StageSynth, ErrCodeSynthRejected
	}
	return WrapContractError(stage, code, fmt.Sprintf("%d error(s)", len(errs)), errs[0])
}

var rejectionCodes = map[Stage]string{
	StageCUE:     ErrCodeCUENormalize,
	StageExtract: ErrCodeExtractRejected,
	StageLink:    ErrCodeLinkRejected,
	StageSynth:   ErrCodeSynthRejected,
}

// stageOf guesses the rejecting stage of a plan read from disk without
// RejectedBy.
func stageOf(code string) Stage {
	switch code {
	case plan.CodeUnsupportedItem, plan.CodeMalformedParam, plan.CodeBodySyntax, plan.CodeMalformedTarget,
		plan.CodeUnknownOption, plan.CodeMalformedDecl:
		return StageExtract
	case plan.CodeUnknownOperation, plan.CodeForeignOperation, plan.CodeUnknownService, plan.CodeDuplicateService,
		plan.CodeDuplicateOperation:
		return StageLink
	}
	return StageSynth
}
