package normalizer

import (
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"

	"github.com/comnipl/servify/compiler/decl"
)

func (n *Normalizer) pos(v cue.Value) decl.Pos {
	pos := v.Pos()
	if !pos.IsValid() {
		return decl.Pos{}
	}
	file := pos.Filename()

	base := n.Root
	if base == "" {
		if cwd, err := os.Getwd(); err == nil {
			base = cwd
		}
	}
	if base != "" {
		if abs, err := filepath.Abs(base); err == nil {
			if rel, err := filepath.Rel(abs, file); err == nil && !strings.HasPrefix(rel, "..") {
				file = filepath.ToSlash(rel)
			}
		}
	}

	return decl.Pos{File: file, Line: pos.Line(), Column: pos.Column()}
}

func getString(v cue.Value, path string) string {
	res := v.LookupPath(cue.ParsePath(path))
	s, _ := res.String()
	return strings.TrimSpace(s)
}

func getBool(v cue.Value, path string) bool {
	res := v.LookupPath(cue.ParsePath(path))
	b, _ := res.Bool()
	return b
}

func has(v cue.Value, path string) bool {
	return v.LookupPath(cue.ParsePath(path)).Exists()
}

func labelName(sel cue.Selector) string {
	if sel.LabelType() == cue.StringLabel {
		return sel.Unquoted()
	}
	return sel.String()
}

func targetKind(v cue.Value) decl.TargetKind {
	switch v.IncompleteKind() {
	case cue.StructKind:
		return decl.TargetStruct
	case cue.ListKind:
		return decl.TargetList
	default:
		return decl.TargetScalar
	}
}

// annotation returns the servify attribute of kind attached to v.
func (n *Normalizer) annotation(v cue.Value, kind decl.AnnotationKind) (decl.Annotation, bool) {
	for _, attr := range v.Attributes(cue.FieldAttr | cue.DeclAttr) {
		if attr.Name() != string(kind) {
			continue
		}
		ann := decl.Annotation{Kind: kind, Pos: n.pos(v)}
		for i := 0; i < attr.NumArgs(); i++ {
			k, val := attr.Arg(i)
			k = strings.TrimSpace(k)
			if k == "" && val == "" {
				continue
			}
			ann.Options = append(ann.Options, decl.Option{Key: k, Value: strings.TrimSpace(val), Pos: ann.Pos})
		}
		return ann, true
	}
	return decl.Annotation{}, false
}
