package types

import (
	"testing"

	"idlc/pkg/ast"
	"idlc/pkg/token"
)

func ident(v string, line int) *token.Token   { return token.New(token.Identifier, v, line) }
func scope(line int) *token.Token             { return token.New(token.ScopeOperator, "::", line) }
func angle(v string, line int) *token.Token   { return token.New(token.AngleBrace, v, line) }
func comma(line int) *token.Token             { return token.New(token.CommaOperator, ",", line) }

func newResolvedProject() *ast.Project {
	proj := ast.NewProject()
	proj.Bootstrap()
	return proj
}

func TestResolveBareBasicType(t *testing.T) {
	proj := newResolvedProject()
	got, created, err := ResolveType(proj.Global, []*token.Token{ident("int", 1)}, "type")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created != nil {
		t.Fatal("expected no typedef wrapper for a bare basic type reference")
	}
	bt, ok := got.(*ast.BasicType)
	if !ok || bt.Kind != ast.KInt {
		t.Fatalf("expected int BasicType, got %v", got)
	}
}

func TestResolveUnsignedLongLongMergesToPredefined(t *testing.T) {
	proj := newResolvedProject()
	tokens := []*token.Token{ident("unsigned", 1), ident("long", 1), ident("long", 1)}
	got, _, err := ResolveType(proj.Global, tokens, "type")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bt, ok := got.(*ast.BasicType)
	if !ok || bt.Kind != ast.KULongLong {
		t.Fatalf("expected ulonglong BasicType, got %v", got)
	}
}

func TestResolveSignedUnsignedConflictErrors(t *testing.T) {
	proj := newResolvedProject()
	tokens := []*token.Token{ident("signed", 1), ident("unsigned", 1), ident("int", 1)}
	if _, _, err := ResolveType(proj.Global, tokens, "type"); err == nil {
		t.Fatal("expected an error combining signed and unsigned")
	}
}

func TestResolveTripleLongErrors(t *testing.T) {
	proj := newResolvedProject()
	tokens := []*token.Token{ident("long", 1), ident("long", 1), ident("long", 1)}
	if _, _, err := ResolveType(proj.Global, tokens, "type"); err == nil {
		t.Fatal("expected an error for three longs")
	}
}

func TestResolveFloatDoubleConflictErrors(t *testing.T) {
	proj := newResolvedProject()
	tokens := []*token.Token{ident("float", 1), ident("double", 1)}
	if _, _, err := ResolveType(proj.Global, tokens, "type"); err == nil {
		t.Fatal("expected an error combining float and double")
	}
}

func TestResolveRedeclaredTypeNameErrors(t *testing.T) {
	proj := newResolvedProject()
	tokens := []*token.Token{ident("Foo", 1), ident("Bar", 1)}
	if _, _, err := ResolveType(proj.Global, tokens, "type"); err == nil {
		t.Fatal("expected an error for two consecutive identifiers forming the type name")
	}
}

func TestResolveConstWrapsInNamedlessTypedef(t *testing.T) {
	proj := newResolvedProject()
	tokens := []*token.Token{ident("const", 1), ident("int", 1)}
	got, created, err := ResolveType(proj.Global, tokens, "type")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	td, ok := got.(*ast.TypedefType)
	if !ok || !td.IsConst {
		t.Fatalf("expected a const typedef wrapping int, got %v", got)
	}
	if created != td {
		t.Fatal("expected the created typedef to be surfaced separately for adoption")
	}
}

func TestResolveScopedTypeName(t *testing.T) {
	proj := newResolvedProject()
	a := proj.Global.GetOrCreateChild("a")
	widget := ast.NewStruct("Widget", ast.KindStruct, a)
	a.Structs["Widget"] = widget

	tokens := []*token.Token{ident("a", 1), scope(1), ident("Widget", 1)}
	got, created, err := ResolveType(proj.Global, tokens, "type")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created != nil {
		t.Fatal("expected no wrapper for a bare struct reference")
	}
	if got != ast.Type(widget) {
		t.Fatalf("expected the scoped lookup to resolve to Widget, got %v", got)
	}
}

func TestResolveUnresolvedTypeNameErrors(t *testing.T) {
	proj := newResolvedProject()
	tokens := []*token.Token{ident("Nonexistent", 1)}
	if _, _, err := ResolveType(proj.Global, tokens, "type"); err == nil {
		t.Fatal("expected an error for an unresolved type name")
	}
}

func TestResolveTemplateOnStructRecordsArgs(t *testing.T) {
	proj := newResolvedProject()
	box := ast.NewStruct("Box", ast.KindStruct, proj.Global)
	proj.Global.Structs["Box"] = box

	tokens := []*token.Token{
		ident("Box", 1), angle("<", 1), ident("int", 1), angle(">", 1),
	}
	got, created, err := ResolveType(proj.Global, tokens, "type")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	td, ok := got.(*ast.TypedefType)
	if !ok {
		t.Fatalf("expected a synthesized typedef carrying template args, got %v", got)
	}
	if created != td {
		t.Fatal("expected the created wrapper to be surfaced for adoption")
	}
	if len(td.TemplateArgs) != 1 {
		t.Fatalf("expected exactly one template argument recorded, got %d", len(td.TemplateArgs))
	}
	bt, ok := td.TemplateArgs[0].(*ast.BasicType)
	if !ok || bt.Kind != ast.KInt {
		t.Fatalf("expected the recorded template argument to be int, got %v", td.TemplateArgs[0])
	}
}

func TestResolveTemplateOnNonStructErrors(t *testing.T) {
	proj := newResolvedProject()
	tokens := []*token.Token{ident("int", 1), angle("<", 1), ident("int", 1), angle(">", 1)}
	if _, _, err := ResolveType(proj.Global, tokens, "type"); err == nil {
		t.Fatal("expected an error attaching template arguments to a non-struct type")
	}
}

func TestResolveTwoTemplateArgumentsSplitOnComma(t *testing.T) {
	proj := newResolvedProject()
	pair := ast.NewStruct("Pair", ast.KindStruct, proj.Global)
	proj.Global.Structs["Pair"] = pair

	tokens := []*token.Token{
		ident("Pair", 1), angle("<", 1),
		ident("int", 1), comma(1), ident("float", 1),
		angle(">", 1),
	}
	got, _, err := ResolveType(proj.Global, tokens, "type")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	td := got.(*ast.TypedefType)
	if len(td.TemplateArgs) != 2 {
		t.Fatalf("expected two template arguments, got %d", len(td.TemplateArgs))
	}
}
