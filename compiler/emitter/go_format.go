package emitter

import (
	"errors"
	"fmt"

	"golang.org/x/tools/imports"
)

var ErrInvalidSource = errors.New("generated go is invalid")

// formatGoStrict formats generated Go source, adds the imports operation
// bodies rely on and fails fast on syntax issues.
func formatGoStrict(src []byte, path string) ([]byte, error) {
	out, err := imports.Process(path, src, &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (%s): %w", ErrInvalidSource, path, err)
	}
	return out, nil
}
