package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/comnipl/servify/compiler"
	"github.com/comnipl/servify/compiler/plan"
)

func runGenerate(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dryRun := fs.Bool("dry-run", false, "report changes without writing files")
	e, dir, err := setup(ctx, fs, args, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	defer e.close()

	p, err := compiler.Generate(ctx, dir, e.opts)
	if err != nil {
		printError(stderr, "Generation FAILED", compiler.StageCUE, compiler.ErrCodeCUELoad, "load", err)
		return 1
	}
	if emitDiagnostics(stderr, p.Diagnostics) {
		fmt.Fprintln(stderr, "Generation FAILED due to diagnostic errors. No files were written.")
		return 1
	}

	changes, err := compiler.ApplyPlan(ctx, dir, p, compiler.ApplyOptions{DryRun: *dryRun})
	if err != nil {
		printError(stderr, "Generation FAILED", compiler.StageEmit, compiler.ErrCodeEmitWrite, "apply", err)
		return 1
	}
	counts := map[string]int{}
	for _, c := range changes {
		counts[c.Op]++
		fmt.Fprintf(stdout, "%-9s %s\n", c.Op, c.Path)
	}
	verb := "Generated"
	if *dryRun {
		verb = "Dry run:"
	}
	fmt.Fprintf(stdout, "%s %d file(s): %d create, %d update, %d unchanged.\n",
		verb, len(changes), counts["create"], counts["update"], counts["unchanged"])
	return 0
}

func runPlan(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("plan", flag.ContinueOnError)
	fs.SetOutput(stderr)
	out := fs.String("o", "", "write the plan to this file instead of stdout")
	e, dir, err := setup(ctx, fs, args, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	defer e.close()

	p, err := compiler.Generate(ctx, dir, e.opts)
	if err != nil {
		printError(stderr, "Plan FAILED", compiler.StageCUE, compiler.ErrCodeCUELoad, "load", err)
		return 1
	}
	if *out != "" {
		if err := plan.WritePlan(*out, p); err != nil {
			fmt.Fprintf(stderr, "Plan FAILED: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "Plan written to %s (status %s).\n", *out, p.Status)
	} else {
		data, err := plan.Marshal(p)
		if err != nil {
			fmt.Fprintf(stderr, "Plan FAILED: %v\n", err)
			return 1
		}
		_, _ = stdout.Write(data)
	}
	if p.Status == plan.StatusFail {
		return 1
	}
	return 0
}

func runValidate(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	e, dir, err := setup(ctx, fs, args, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	defer e.close()

	fmt.Fprintln(stdout, "Validating service declarations...")
	p, err := compiler.Generate(ctx, dir, e.opts)
	if err != nil {
		printError(stderr, "Validation FAILED", compiler.StageCUE, compiler.ErrCodeCUELoad, "load", err)
		return 1
	}
	if emitDiagnostics(stderr, p.Diagnostics) {
		fmt.Fprintln(stdout, "Validation FAILED due to diagnostic errors.")
		return 1
	}
	fmt.Fprintln(stdout, "Validation SUCCESSFUL.")
	return 0
}

func runHash(args []string, stdout, stderr io.Writer) int {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	h, err := plan.ComputeInputHash(dir)
	if err != nil {
		printStageFailure(stderr, "Hash FAILED", compiler.StageCUE, compiler.ErrCodeCUEHash, "hash input", err)
		return 1
	}
	fmt.Fprintf(stdout, "servify version: %s\n", compiler.Version)
	fmt.Fprintf(stdout, "Input hash:      %s (%s)\n", h, dir)
	return 0
}

func emitDiagnostics(w io.Writer, diagnostics []plan.Diagnostic) bool {
	hasErrors := false
	for _, d := range diagnostics {
		severity := "WARN"
		if d.IsError() {
			severity = "ERROR"
			hasErrors = true
		}
		fmt.Fprintf(w, "%s [%s]: %s\n", severity, d.Code, d.Message)
		if d.File != "" {
			fmt.Fprintf(w, "   at %s:%d:%d\n", d.File, d.Line, d.Column)
		}
	}
	return hasErrors
}
