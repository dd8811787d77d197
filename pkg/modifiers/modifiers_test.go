package modifiers

import "testing"

func TestNewCatalogSeedsBuiltins(t *testing.T) {
	c := NewCatalog()
	arity, ok := c.ToModifier("deprecated")
	if !ok || arity != 0 {
		t.Fatalf("expected deprecated to be a known 0-arity modifier, got %v %v", arity, ok)
	}
	arity, ok = c.ToModifier("default")
	if !ok || arity != Variadic {
		t.Fatalf("expected default to be variadic, got %v %v", arity, ok)
	}
}

func TestRegisterOverridesAndAddsModifiers(t *testing.T) {
	c := NewCatalog()
	c.Register("size", 2)
	if arity, _ := c.ToModifier("size"); arity != 2 {
		t.Fatalf("expected overridden size arity 2, got %v", arity)
	}
	c.Register("custom", 3)
	total, ok := c.GetTotalParams("custom")
	if !ok || total != 3 {
		t.Fatalf("expected custom arity 3, got %v %v", total, ok)
	}
}

func TestGetTotalParamsUnknownModifier(t *testing.T) {
	c := NewCatalog()
	if _, ok := c.GetTotalParams("nonexistent"); ok {
		t.Fatal("expected unknown modifier to report false")
	}
}
