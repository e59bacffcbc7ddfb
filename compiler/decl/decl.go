// Package decl defines the structured declarations the generator consumes.
// Front ends (see compiler/normalizer) produce a Unit; every later stage
// reads it and never mutates it.
package decl

import "fmt"

// Pos anchors a declaration in its source file.
type Pos struct {
	File   string `json:"file,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

func (p Pos) IsValid() bool {
	return p.File != "" || p.Line > 0
}

func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}
	if p.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// TypeRef is an opaque type descriptor. It is threaded through generation
// verbatim; the empty TypeRef is the unit type.
type TypeRef string

// UnitType is the return type of operations that declare none.
const UnitType TypeRef = ""

func (t TypeRef) IsUnit() bool { return t == UnitType }

// TargetKind is the shape of the declaration an annotation was attached to.
type TargetKind string

const (
	TargetStruct TargetKind = "struct"
	TargetScalar TargetKind = "scalar"
	TargetList   TargetKind = "list"
)

type AnnotationKind string

const (
	AnnotationService AnnotationKind = "service"
	AnnotationExport  AnnotationKind = "export"
)

// Option is one key=value argument of an annotation. Unkeyed arguments keep
// their text in Key with an empty Value.
type Option struct {
	Key   string
	Value string
	Pos   Pos
}

type Annotation struct {
	Kind    AnnotationKind
	Options []Option
	Pos     Pos
}

// Field is one member of a service's state record.
type Field struct {
	Name string
	Type TypeRef
	Pos  Pos
}

type Param struct {
	Name string
	Type TypeRef
	Pos  Pos
}

// Receiver is the state parameter of an operation.
type Receiver struct {
	Name    string
	Mutable bool
}

// ServiceDecl is a state record carrying the service annotation.
type ServiceDecl struct {
	Name       string
	Target     TargetKind
	Annotation Annotation
	State      []Field
	Pos        Pos
}

type ItemKind string

const (
	ItemFunc  ItemKind = "fn"
	ItemConst ItemKind = "const"
	ItemField ItemKind = "field"
	ItemType  ItemKind = "type"
	ItemOther ItemKind = "item"
)

// Func is an operation-shaped item: receiver, parameters, return type and an
// opaque statement body.
type Func struct {
	Receiver *Receiver
	Params   []Param
	Returns  TypeRef
	Body     string
}

// Item is one member of an export block. Only ItemFunc items carry a Func.
type Item struct {
	Kind ItemKind
	Name string
	Func *Func
	Pos  Pos
}

// ExportBlock is an implementation block carrying the export annotation.
// Target names the service the block implements, relative to the block's
// module.
type ExportBlock struct {
	Target     Path
	TargetKind TargetKind
	Annotation Annotation
	Items      []Item
	Pos        Pos
}

// Module is one compilation scope: a directory of input files. Dir is
// slash-separated and relative to the input root.
type Module struct {
	Path     []string
	Package  string
	Dir      string
	Services []ServiceDecl
	Blocks   []ExportBlock
}

// Key returns the module path joined with "/", "" for the unit root.
func (m Module) Key() string {
	return JoinSegments(m.Path)
}

// Unit is the whole input of one generation run.
type Unit struct {
	Root    string
	Modules []Module
}
