package ast

import "testing"

func TestNestedNamespaceCreation(t *testing.T) {
	proj := NewProject()
	a := proj.Global.GetOrCreateChild("a")
	b := a.GetOrCreateChild("b")

	if proj.Global.Namespaces["a"] != a {
		t.Fatal("expected a registered under global")
	}
	if a.Namespaces["b"] != b {
		t.Fatal("expected b registered under a")
	}
	if b.Parent() != Context(a) {
		t.Fatal("expected b's parent to be a")
	}
}

func TestNamespaceMergeOnRedeclare(t *testing.T) {
	proj := NewProject()
	first := proj.Global.GetOrCreateChild("a")
	second := proj.Global.GetOrCreateChild("a")
	if first != second {
		t.Fatal("expected nested namespace redeclaration to merge into the existing node")
	}
}

func TestFindTypeWalksUpToParent(t *testing.T) {
	proj := NewProject()
	proj.Bootstrap()
	a := proj.Global.GetOrCreateChild("a")
	b := a.GetOrCreateChild("b")

	s := NewStruct("Widget", KindStruct, a)
	a.Structs["Widget"] = s

	found := b.FindType([]string{"Widget"})
	if found != Type(s) {
		t.Fatalf("expected lookup from b to find Widget declared in enclosing a, got %v", found)
	}
}

func TestFindTypeResolvesBasicType(t *testing.T) {
	proj := NewProject()
	proj.Bootstrap()
	found := proj.Global.FindType([]string{"int"})
	bt, ok := found.(*BasicType)
	if !ok || bt.Kind != KInt {
		t.Fatalf("expected predefined int BasicType, got %v", found)
	}
}

func TestTypedefUnderlyingWalksChain(t *testing.T) {
	proj := NewProject()
	proj.Bootstrap()
	intType := proj.Basics["int"]
	td1 := NewTypedefType("MyInt", intType, proj.Global)
	td2 := NewTypedefType("MyInt2", td1, proj.Global)

	got := Underlying(td2)
	if got != Type(intType) {
		t.Fatalf("expected chain to bottom out at int BasicType, got %v", got)
	}
}

func TestNoopTypedefBypass(t *testing.T) {
	proj := NewProject()
	proj.Bootstrap()
	intType := proj.Basics["int"]
	td := NewTypedefType("AliasOfInt", intType, proj.Global)
	td.NoopWrapper = true

	if td.Bypass() != Type(intType) {
		t.Fatal("expected no-op typedef to collapse to its underlying type")
	}
}

func TestStructForwardDeclarationDefaults(t *testing.T) {
	proj := NewProject()
	s := NewStruct("S", KindStruct, proj.Global)
	if !s.Forward {
		t.Fatal("expected a newly created struct to start as a forward declaration")
	}
	if s.HasBody {
		t.Fatal("expected a newly created struct to have no body yet")
	}
}

func TestGenericParamLookupOnStruct(t *testing.T) {
	proj := NewProject()
	box := NewStruct("Box", KindStruct, proj.Global)
	tparam := NewGenericType("T", box)
	box.GenericParams = append(box.GenericParams, tparam)

	found := box.FindType([]string{"T"})
	if found != Type(tparam) {
		t.Fatalf("expected generic parameter T to resolve within its struct, got %v", found)
	}
}
