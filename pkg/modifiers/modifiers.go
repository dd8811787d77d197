// Package modifiers implements the bracketed-modifier catalog collaborator
// (spec section 6: toModifier/getTotalParams): a registry mapping a
// modifier's identifier to its expected parameter arity, where -1 means
// variadic.
package modifiers

// Arity is the expected parameter count for a modifier; -1 is variadic.
type Arity int

const Variadic Arity = -1

// Catalog is the registered set of known modifier names.
type Catalog struct {
	arities map[string]Arity
}

// NewCatalog seeds a catalog with the built-in modifiers every project
// gets for free, then lets configuration add more (the modifiers map of
// the config document).
func NewCatalog() *Catalog {
	c := &Catalog{arities: map[string]Arity{}}
	for name, arity := range builtins {
		c.arities[name] = arity
	}
	return c
}

// builtins are the modifiers the language surface itself relies on or
// commonly expects, independent of any particular project's configuration.
var builtins = map[string]Arity{
	"deprecated": 0,
	"exclude":    0,
	"default":    Variadic,
	"size":       1,
	"code":       1,
	"json":       Variadic,
}

// Register adds or overrides a modifier's arity.
func (c *Catalog) Register(name string, arity Arity) {
	c.arities[name] = arity
}

// ToModifier looks up name, returning its arity and whether it is known at
// all.
func (c *Catalog) ToModifier(name string) (Arity, bool) {
	arity, ok := c.arities[name]
	return arity, ok
}

// GetTotalParams mirrors the external interface's naming exactly: -1 for
// variadic, else the exact parameter count. Unknown names return (0, false).
func (c *Catalog) GetTotalParams(name string) (int, bool) {
	arity, ok := c.arities[name]
	if !ok {
		return 0, false
	}
	return int(arity), true
}
