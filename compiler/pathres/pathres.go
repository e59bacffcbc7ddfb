// Package pathres rewrites operation references so they stay valid from the
// scope they are emitted into.
package pathres

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/comnipl/servify/compiler/decl"
)

// Policy names the parent scope segment. It must be a single path segment
// distinct from the unit keyword.
type Policy struct {
	ParentSegment string `json:"parentSegment" validate:"required,ne=module,excludes=.,excludes=/"`
}

func DefaultPolicy() Policy {
	return Policy{ParentSegment: "super"}
}

type Resolver struct {
	policy Policy
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (p Policy) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("path policy: %w", err)
	}
	return nil
}

func NewResolver(p Policy) (*Resolver, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Resolver{policy: p}, nil
}

// Resolve returns p as seen from one scope deeper than it was written in.
// Global and unit-rooted paths are returned unchanged. A relative path gets
// the parent segment prepended, so resolving it twice inserts it twice:
// callers resolve exactly once per emission site.
func (r *Resolver) Resolve(p decl.Path) decl.Path {
	if p.IsAbsolute() {
		return p.Clone()
	}
	segs := make([]string, 0, len(p.Segments)+1)
	segs = append(segs, r.policy.ParentSegment)
	segs = append(segs, p.Segments...)
	return decl.Path{Root: decl.Relative, Segments: segs}
}

// IsParent reports whether seg is the parent scope segment.
func (r *Resolver) IsParent(seg string) bool {
	return seg == r.policy.ParentSegment
}

// Anchor turns a resolved path into segments from the unit root. scope is
// the segments of the scope the path was resolved into. The boolean is false
// when the path climbs above the unit root.
func (r *Resolver) Anchor(scope []string, p decl.Path) ([]string, bool) {
	switch p.Root {
	case decl.Global:
		return append([]string(nil), p.Segments...), true
	case decl.UnitRooted:
		return append([]string(nil), p.Segments[1:]...), true
	}
	cur := append([]string(nil), scope...)
	segs := p.Segments
	for len(segs) > 0 && r.IsParent(segs[0]) {
		if len(cur) == 0 {
			return nil, false
		}
		cur = cur[:len(cur)-1]
		segs = segs[1:]
	}
	return append(cur, segs...), true
}
