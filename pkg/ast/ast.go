// Package ast defines the semantic object graph the parser and type
// resolver build: a tree of namespaces, structs, typedefs and their
// generic parameters, rooted at a Project's global namespace. Every node
// implements Context, a small capability interface (name, documentation,
// modifiers, parent, type lookup by path) shared across the tagged variant
// set, following the teacher's Entity/ScopeTree containment shape but
// restructured into typed name->child maps instead of a single flat
// entity kind.
package ast

import "strings"

// Modifier is one entry of a drained bracketed-modifier set, e.g.
// `deprecated` or `size(4)`. Params holds the space-joined lexeme runs of
// each comma-separated parameter, in source order.
type Modifier struct {
	Name   string
	Params []string
}

// Documentation is the accumulated text of consecutive `///` tokens
// attached to a declaration.
type Documentation struct {
	Text string
}

// Context is the shared capability trait every semantic node satisfies:
// a name, attached documentation, attached modifiers, a non-owning parent
// link, and the ability to resolve a scoped type path starting at itself
// and, on failure, walking up to its parent.
type Context interface {
	Name() string
	Doc() *Documentation
	SetDoc(*Documentation)
	Modifiers() []Modifier
	SetModifiers([]Modifier)
	Parent() Context
	setParent(Context)

	// FindType resolves path (already split on "::") against this
	// context's own children, and if not found, delegates outward to the
	// parent. Returns nil if nothing matches.
	FindType(path []string) Type
}

// Type is the subset of Context that can appear as a type reference: a
// Namespace cannot be a type, but Struct, Enum, Typedef, BasicType and
// GenericType all can.
type Type interface {
	Context
	isType()
}

type base struct {
	name      string
	doc       *Documentation
	modifiers []Modifier
	parent    Context
}

func (b *base) Name() string             { return b.name }
func (b *base) SetName(name string)      { b.name = name }
func (b *base) Doc() *Documentation       { return b.doc }
func (b *base) SetDoc(d *Documentation)   { b.doc = d }
func (b *base) Modifiers() []Modifier     { return b.modifiers }
func (b *base) SetModifiers(m []Modifier) { b.modifiers = m }
func (b *base) Parent() Context           { return b.parent }
func (b *base) setParent(p Context)       { b.parent = p }

// findInParent is the shared "not found locally, ask upward" fallback
// every variant's FindType uses after checking its own children.
func findInParent(c Context, path []string) Type {
	if c.Parent() == nil {
		return nil
	}
	return c.Parent().FindType(path)
}

// ---------------------------------------------------------------------
// Project

// Project is the root of the object graph: it owns the global Namespace
// plus the compiler-facing bootstrap state (alias map, defined exclusives)
// that the semantic folder and parser consult while ingesting source.
type Project struct {
	base
	Global            *Namespace
	Aliases           map[string]string
	DefinedExclusives map[string]bool
	Basics            map[string]*BasicType
}

func NewProject() *Project {
	p := &Project{
		Aliases:           map[string]string{},
		DefinedExclusives: map[string]bool{},
		Basics:            map[string]*BasicType{},
	}
	// The global namespace has no Context parent: it is the root of the
	// tree. Its back-reference to Project is a plain field, not a parent
	// link, so namespace type lookup can reach the predefined BasicType
	// table without the two forming a Context/Context cycle.
	p.Global = NewNamespace("", nil)
	p.Global.project = p
	return p
}

func (p *Project) FindType(path []string) Type { return p.Global.FindType(path) }

// Bootstrap registers one BasicType instance per PredefinedKind on the
// project, matching the "bootstrap types" the configuration collaborator
// is documented to supply (spec section 6). Idempotent.
func (p *Project) Bootstrap() {
	for k, name := range predefinedNames {
		if _, ok := p.Basics[name]; ok {
			continue
		}
		p.Basics[name] = NewBasicType(k, p)
	}
}

// ---------------------------------------------------------------------
// Namespace

// Namespace holds four independent name->child maps (Namespace, Struct,
// Enum, Typedef), matching the data model exactly: names are unique per
// mapping, and re-declaration/import collisions are first-wins.
type Namespace struct {
	base
	Namespaces map[string]*Namespace
	Structs    map[string]*Struct
	Enums      map[string]*Enum
	Typedefs   map[string]*TypedefType

	// project is set only on the global namespace; it lets FindType reach
	// the predefined BasicType table without a parent-link cycle back to
	// Project (the global namespace's Parent() is nil, the true tree
	// root).
	project *Project
}

func NewNamespace(name string, parent Context) *Namespace {
	n := &Namespace{
		base:       base{name: name, parent: parent},
		Namespaces: map[string]*Namespace{},
		Structs:    map[string]*Struct{},
		Enums:      map[string]*Enum{},
		Typedefs:   map[string]*TypedefType{},
	}
	return n
}

// GetOrCreateChild returns the existing nested namespace of that name,
// merging into it, or creates and registers a new one.
func (n *Namespace) GetOrCreateChild(name string) *Namespace {
	if existing, ok := n.Namespaces[name]; ok {
		return existing
	}
	child := NewNamespace(name, n)
	n.Namespaces[name] = child
	return child
}

func (n *Namespace) FindType(path []string) Type {
	if len(path) == 0 {
		return nil
	}
	head, rest := path[0], path[1:]

	if len(rest) == 0 {
		if s, ok := n.Structs[head]; ok {
			return s
		}
		if e, ok := n.Enums[head]; ok {
			return e
		}
		if td, ok := n.Typedefs[head]; ok {
			return td
		}
	}
	if child, ok := n.Namespaces[head]; ok && len(rest) > 0 {
		if found := child.FindType(rest); found != nil {
			return found
		}
	}

	if len(rest) == 0 && n.project != nil {
		if b, ok := n.project.Basics[head]; ok {
			return b
		}
	}

	return findInParent(n, path)
}

// ---------------------------------------------------------------------
// GenericType — a template parameter, e.g. `T` in `template<typename T>`.

type GenericType struct {
	base
	Default Type // nil if this parameter has no default
}

func NewGenericType(name string, parent Context) *GenericType {
	return &GenericType{base: base{name: name, parent: parent}}
}

func (g *GenericType) isType() {}
func (g *GenericType) FindType(path []string) Type {
	return findInParent(g, path)
}

// ---------------------------------------------------------------------
// Struct

// StructKind distinguishes `struct` from the interface-family keywords
// (`class`/`interface`/`interaction`), which the spec treats identically
// except for this tag.
type StructKind int

const (
	KindStruct StructKind = iota
	KindInterface
)

// Struct models both plain structs and interface-family declarations.
// GenericParams and GenericDefaults are parallel ordered lists (spec 4.4:
// "an ordered list of GenericType parameters and a parallel ordered list
// of default Type references").
type Struct struct {
	base
	Kind            StructKind
	Structs         map[string]*Struct
	Typedefs        map[string]*TypedefType
	GenericParams   []*GenericType
	GenericDefaults []Type
	Related         []Type
	Forward         bool // true until a body has been parsed
	HasBody         bool // true once a body (even empty) has been recorded
}

func NewStruct(name string, kind StructKind, parent Context) *Struct {
	return &Struct{
		base:     base{name: name, parent: parent},
		Kind:     kind,
		Structs:  map[string]*Struct{},
		Typedefs: map[string]*TypedefType{},
		Forward:  true,
	}
}

func (s *Struct) isType() {}

func (s *Struct) FindType(path []string) Type {
	if len(path) == 0 {
		return nil
	}
	head, rest := path[0], path[1:]

	if len(rest) == 0 {
		for _, g := range s.GenericParams {
			if g.Name() == head {
				return g
			}
		}
		if child, ok := s.Structs[head]; ok {
			return child
		}
		if td, ok := s.Typedefs[head]; ok {
			return td
		}
	}
	if child, ok := s.Structs[head]; ok && len(rest) > 0 {
		if found := child.FindType(rest); found != nil {
			return found
		}
	}
	return findInParent(s, path)
}

// ---------------------------------------------------------------------
// Enum

// Enum is a named enumeration type. The core does not parse enumerator
// bodies (out of the grammar the spec defines) but a forward-declared or
// externally-registered Enum can still be the target of a using-import or
// a type reference.
type Enum struct {
	base
}

func NewEnum(name string, parent Context) *Enum {
	return &Enum{base: base{name: name, parent: parent}}
}

func (e *Enum) isType()                     {}
func (e *Enum) FindType(path []string) Type { return findInParent(e, path) }

// ---------------------------------------------------------------------
// TypedefType

// TypedefType is a non-owning reference to an underlying type plus the
// modifier flags that made it distinct (e.g. const). OriginalType must
// never form a cycle; walking it is the "typedef chain".
type TypedefType struct {
	base
	OriginalType Type
	IsConst      bool
	TemplateArgs []Type // recorded but not substituted (spec 4.5 Step 4)
	NoopWrapper  bool   // true if this wrapper adds nothing over OriginalType
}

func NewTypedefType(name string, original Type, parent Context) *TypedefType {
	return &TypedefType{
		base:         base{name: name, parent: parent},
		OriginalType: original,
	}
}

func (t *TypedefType) isType() {}

func (t *TypedefType) FindType(path []string) Type {
	return findInParent(t, path)
}

// Bypass implements getTypeBypassingTypedefIfNoop: a pure no-op wrapper
// (adds no modifiers, carries no template arguments, and is otherwise
// indistinguishable from its target) collapses to the underlying type.
func (t *TypedefType) Bypass() Type {
	if t.NoopWrapper {
		return Underlying(t.OriginalType)
	}
	return t
}

// Underlying walks the typedef chain to its terminal (non-typedef) type.
func Underlying(t Type) Type {
	for {
		td, ok := t.(*TypedefType)
		if !ok {
			return t
		}
		if td.OriginalType == nil {
			return td
		}
		t = td.OriginalType
	}
}

// ---------------------------------------------------------------------
// BasicType

// PredefinedKind enumerates the fixed set of predefined typedefs the type
// resolver can synthesize without any user input.
type PredefinedKind int

const (
	KVoid PredefinedKind = iota
	KBool
	KChar
	KSChar
	KUChar
	KShort
	KSShort
	KUShort
	KInt
	KSInt
	KUInt
	KLong
	KSLong
	KULong
	KLongLong
	KSLongLong
	KULongLong
	KInt8
	KSInt8
	KUInt8
	KInt16
	KSInt16
	KUInt16
	KInt32
	KSInt32
	KUInt32
	KInt64
	KSInt64
	KUInt64
	KByte
	KWord
	KDWord
	KQWord
	KFloat
	KFloat32
	KFloat64
	KDouble
	KLDouble
	KPointer
	KBinary
	KSize
	KString
	KAString
	KWString
)

var predefinedNames = map[PredefinedKind]string{
	KVoid: "void", KBool: "bool", KChar: "char", KSChar: "schar", KUChar: "uchar",
	KShort: "short", KSShort: "sshort", KUShort: "ushort",
	KInt: "int", KSInt: "sint", KUInt: "uint",
	KLong: "long", KSLong: "slong", KULong: "ulong",
	KLongLong: "longlong", KSLongLong: "slonglong", KULongLong: "ulonglong",
	KInt8: "int8", KSInt8: "sint8", KUInt8: "uint8",
	KInt16: "int16", KSInt16: "sint16", KUInt16: "uint16",
	KInt32: "int32", KSInt32: "sint32", KUInt32: "uint32",
	KInt64: "int64", KSInt64: "sint64", KUInt64: "uint64",
	KByte: "byte", KWord: "word", KDWord: "dword", KQWord: "qword",
	KFloat: "float", KFloat32: "float32", KFloat64: "float64",
	KDouble: "double", KLDouble: "ldouble",
	KPointer: "pointer", KBinary: "binary", KSize: "size",
	KString: "string", KAString: "astring", KWString: "wstring",
}

func (k PredefinedKind) String() string { return predefinedNames[k] }

// BasicType is a leaf, predefined type. There is exactly one BasicType
// instance per PredefinedKind per Project, held in the Project's Basics
// table, which the global namespace's FindType consults.
type BasicType struct {
	base
	Kind PredefinedKind
}

func NewBasicType(kind PredefinedKind, parent Context) *BasicType {
	return &BasicType{base: base{name: kind.String(), parent: parent}, Kind: kind}
}

func (b *BasicType) isType()                     {}
func (b *BasicType) FindType(path []string) Type { return findInParent(b, path) }

// PredefinedKindByName looks up a PredefinedKind by its spec name.
func PredefinedKindByName(name string) (PredefinedKind, bool) {
	for k, n := range predefinedNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// JoinPath renders a scoped path for error messages, e.g. ["a","b"] -> "a::b".
func JoinPath(path []string) string {
	return strings.Join(path, "::")
}
