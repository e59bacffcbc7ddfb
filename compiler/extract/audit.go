package extract

import (
	"go/parser"
	"go/token"
	"strings"
)

func isIdent(s string) bool {
	return token.IsIdentifier(s) && s != "_"
}

// auditBody parses body as the statement list of a function. It checks syntax
// only; names and types are left to the Go compiler of the generated package.
func auditBody(body string) error {
	if strings.TrimSpace(body) == "" {
		return nil
	}
	src := "package p\nfunc _() {\n" + body + "\n}\n"
	_, err := parser.ParseFile(token.NewFileSet(), "body.go", src, parser.SkipObjectResolution)
	return err
}
