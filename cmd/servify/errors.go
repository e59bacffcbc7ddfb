package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/comnipl/servify/compiler"
)

func formatStageFailure(prefix string, stage compiler.Stage, code, op string, err error) string {
	return fmt.Sprintf("%s: %v", prefix, compiler.WrapContractError(stage, code, op, err))
}

func printStageFailure(w io.Writer, prefix string, stage compiler.Stage, code, op string, err error) {
	fmt.Fprintln(w, formatStageFailure(prefix, stage, code, op, err))
}

// printError prints err as is when it already carries a stage.
func printError(w io.Writer, prefix string, stage compiler.Stage, code, op string, err error) {
	var ce *compiler.ContractError
	if errors.As(err, &ce) {
		fmt.Fprintf(w, "%s: %v\n", prefix, err)
		return
	}
	printStageFailure(w, prefix, stage, code, op, err)
}
