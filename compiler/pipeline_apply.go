package compiler

import (
	"context"
	"errors"
	"fmt"

	"github.com/comnipl/servify/compiler/emitter"
	"github.com/comnipl/servify/compiler/plan"
)

type ApplyOptions struct {
	DryRun bool
	// CheckInput re-hashes root and refuses a plan made from other input.
	CheckInput bool
}

// ApplyPlan writes the files of p under root. A plan with status fail is
// refused and nothing is written.
func ApplyPlan(ctx context.Context, root string, p *plan.Plan, opts ApplyOptions) ([]plan.FileChange, error) {
	if err := plan.ValidatePlan(p); err != nil {
		return nil, WrapContractError(StageEmit, ErrCodeEmitRender, "validate plan", err)
	}
	if p.Status == plan.StatusFail {
		cause := RejectionError(p)
		if cause == nil {
			cause = emitter.ErrFailedPlan
		}
		return nil, WrapContractError(StageEmit, ErrCodeEmitFailPlan, "apply", cause)
	}
	if opts.CheckInput && p.InputHash != "" {
		current, err := plan.ComputeInputHash(root)
		if err != nil {
			return nil, WrapContractError(StageCUE, ErrCodeCUEHash, "hash input", err)
		}
		if current != p.InputHash {
			return nil, WrapContractError(StageEmit, ErrCodeEmitFailPlan, "apply",
				fmt.Errorf("plan precondition failed: input hash mismatch"))
		}
	}

	e := emitter.New(root)
	e.Version = Version
	e.InputHash = p.InputHash
	e.DryRun = opts.DryRun
	changes, err := e.Apply(ctx, p)
	if err != nil {
		var we *emitter.WriteError
		switch {
		case errors.As(err, &we):
			return nil, WrapContractError(StageEmit, ErrCodeEmitWrite, "write", err)
		case errors.Is(err, emitter.ErrInvalidSource):
			return nil, WrapContractError(StageEmit, ErrCodeEmitFormat, "format", err)
		default:
			return nil, WrapContractError(StageEmit, ErrCodeEmitRender, "render", err)
		}
	}
	return changes, nil
}

// Preview renders the file of one service without writing it.
func Preview(p *plan.Plan, service string) (emitter.File, error) {
	e := emitter.New("")
	e.Version = Version
	e.InputHash = p.InputHash
	for _, m := range p.Modules {
		for _, svc := range m.Services {
			if svc.Name == service {
				f, err := e.RenderService(m, svc)
				if err != nil {
					return emitter.File{}, WrapContractError(StageEmit, ErrCodeEmitRender, "render "+service, err)
				}
				return f, nil
			}
		}
	}
	return emitter.File{}, fmt.Errorf("service %q is not in the plan", service)
}
