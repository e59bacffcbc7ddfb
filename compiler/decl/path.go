package decl

import (
	"fmt"
	"strings"
	"unicode"
)

// Root describes what a Path is anchored to.
type Root int

const (
	// Relative paths are interpreted from the scope they are written in.
	Relative Root = iota
	// UnitRooted paths start with UnitKeyword and are anchored at the input root.
	UnitRooted
	// Global paths start with "/" and are already root-absolute.
	Global
)

// UnitKeyword is the leading segment of a unit-rooted path.
const UnitKeyword = "module"

// Path is a structured reference: a sequence of segments plus its anchor.
// The textual form separates segments with "." and marks global paths with
// a leading "/".
type Path struct {
	Root     Root
	Segments []string
}

// ParsePath parses the textual form of a path.
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Path{}, fmt.Errorf("empty path")
	}
	root := Relative
	if strings.HasPrefix(s, "/") {
		root = Global
		s = strings.TrimPrefix(s, "/")
	}
	segs := strings.Split(s, ".")
	for _, seg := range segs {
		if !isIdent(seg) {
			return Path{}, fmt.Errorf("invalid path segment %q", seg)
		}
	}
	if root == Relative && segs[0] == UnitKeyword {
		if len(segs) == 1 {
			return Path{}, fmt.Errorf("path %q names the unit root, not an item", s)
		}
		root = UnitRooted
	}
	return Path{Root: root, Segments: segs}, nil
}

// MustParsePath is ParsePath for literals known to be valid.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Path) String() string {
	s := strings.Join(p.Segments, ".")
	if p.Root == Global {
		return "/" + s
	}
	return s
}

func (p Path) IsAbsolute() bool {
	return p.Root != Relative
}

// Last returns the final segment, the name of the referenced item.
func (p Path) Last() string {
	if len(p.Segments) == 0 {
		return ""
	}
	return p.Segments[len(p.Segments)-1]
}

func (p Path) Clone() Path {
	return Path{Root: p.Root, Segments: append([]string(nil), p.Segments...)}
}

func (p Path) Equal(o Path) bool {
	if p.Root != o.Root || len(p.Segments) != len(o.Segments) {
		return false
	}
	for i := range p.Segments {
		if p.Segments[i] != o.Segments[i] {
			return false
		}
	}
	return true
}

func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Path) UnmarshalText(b []byte) error {
	parsed, err := ParsePath(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// JoinSegments renders a module path as a slash-separated key.
func JoinSegments(segs []string) string {
	return strings.Join(segs, "/")
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}
