package plan

import (
	"fmt"

	"github.com/comnipl/servify/compiler/decl"
)

const (
	LevelError   = "error"
	LevelWarning = "warning"
)

// Diagnostic is a generation-time finding anchored at a source position.
type Diagnostic struct {
	Level   string `json:"level"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

func (d Diagnostic) Error() string {
	pos := decl.Pos{File: d.File, Line: d.Line, Column: d.Column}
	if pos.IsValid() {
		return fmt.Sprintf("%s: %s: %s", pos, d.Code, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Code, d.Message)
}

func (d Diagnostic) IsError() bool { return d.Level == LevelError }

func Errorf(pos decl.Pos, code, format string, args ...any) Diagnostic {
	return newDiagnostic(LevelError, pos, code, format, args...)
}

func Warnf(pos decl.Pos, code, format string, args ...any) Diagnostic {
	return newDiagnostic(LevelWarning, pos, code, format, args...)
}

func newDiagnostic(level string, pos decl.Pos, code, format string, args ...any) Diagnostic {
	return Diagnostic{
		Level:   level,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		File:    pos.File,
		Line:    pos.Line,
		Column:  pos.Column,
	}
}

func HasErrors(ds []Diagnostic) bool {
	for _, d := range ds {
		if d.IsError() {
			return true
		}
	}
	return false
}

// Errors returns only the error-level diagnostics.
func Errors(ds []Diagnostic) []Diagnostic {
	var out []Diagnostic
	for _, d := range ds {
		if d.IsError() {
			out = append(out, d)
		}
	}
	return out
}

// StatusOf derives the plan status from its diagnostics.
func StatusOf(ds []Diagnostic) PlanStatus {
	status := StatusOK
	for _, d := range ds {
		if d.IsError() {
			return StatusFail
		}
		status = StatusWarn
	}
	return status
}
