package parser

import (
	"idlc/pkg/ast"
	"idlc/pkg/ierrors"
	"idlc/pkg/token"
)

// parseNamespaceContents is the top-level content loop, shared by the
// global namespace and every nested one.
func (p *Parser) parseNamespaceContents(ns *ast.Namespace) error {
	return p.runProductions([]production{
		p.parseDocumentation,
		p.parseSemiColon,
		p.parseDirective,
		p.parseModifiers,
		func() (bool, error) { return p.parseNamespace(ns) },
		func() (bool, error) { return p.parseUsing(ns) },
		func() (bool, error) { return p.parseTypedef(ns) },
		func() (bool, error) { return p.parseStruct(ns) },
	})
}

// parseNamespace handles `namespace <id> { ... }`, merging into an
// existing same-named nested namespace rather than replacing it.
func (p *Parser) parseNamespace(parent *ast.Namespace) (bool, error) {
	peeked, err := p.stack.Peek("namespace")
	if err != nil {
		return false, err
	}
	if peeked.Type != token.Identifier || peeked.Value != "namespace" {
		return false, nil
	}
	if _, err := p.stack.Extract("namespace"); err != nil {
		return false, err
	}

	nameTok, err := p.stack.Extract("namespace")
	if err != nil {
		return false, err
	}
	if nameTok.Type != token.Identifier {
		return false, ierrors.NewFailureWithLine(ierrors.CategoryMalformed, nameTok.Line, "namespace", "namespace missing identifier")
	}

	openTok, err := p.stack.Extract("namespace")
	if err != nil {
		return false, err
	}
	if openTok.Type != token.CurlyBrace || !openTok.IsOpen() {
		return false, ierrors.NewFailureWithLine(ierrors.CategoryMalformed, openTok.Line, "namespace", `namespace expecting "{"`)
	}

	child := parent.GetOrCreateChild(nameTok.Value)
	p.fillContext(child)

	if err := p.parseNamespaceContents(child); err != nil {
		return false, err
	}

	closeTok, err := p.stack.Extract("namespace")
	if err != nil {
		return false, err
	}
	if closeTok.Type != token.CurlyBrace || !closeTok.IsClose() {
		return false, ierrors.NewFailureWithLine(ierrors.CategoryMalformed, closeTok.Line, "namespace", `namespace expecting "}"`)
	}

	return true, nil
}

// parseUsing handles both `using namespace <path>;` (importing every
// enum/struct/typedef of the referenced namespace as typedefs into the
// current one) and `using <type-path>;` (importing a single type).
func (p *Parser) parseUsing(ns *ast.Namespace) (bool, error) {
	peeked, err := p.stack.Peek("using")
	if err != nil {
		return false, err
	}
	if peeked.Type != token.Identifier || peeked.Value != "using" {
		return false, nil
	}
	if _, err := p.stack.Extract("using"); err != nil {
		return false, err
	}

	peeked, err = p.stack.Peek("using")
	if err != nil {
		return false, err
	}
	if peeked.Type == token.Identifier && peeked.Value == "namespace" {
		if _, err := p.stack.Extract("using"); err != nil {
			return false, err
		}
		pathTokens, err := p.extractUntil("using", token.SemiColon)
		if err != nil {
			return false, err
		}
		if _, err := p.stack.Extract(";"); err != nil {
			return false, err
		}

		path := identifierPath(pathTokens)
		found := lookupNamespace(ns, path)
		if found == nil {
			return false, ierrors.NewFailureWithLine(ierrors.CategoryUnresolved, p.stack.LastLine(), "using", "using namespace was not found: "+ast.JoinPath(path))
		}
		importNamespace(ns, found)
		return true, nil
	}

	pathTokens, err := p.extractUntil("using", token.SemiColon)
	if err != nil {
		return false, err
	}
	if _, err := p.stack.Extract(";"); err != nil {
		return false, err
	}

	path := identifierPath(pathTokens)
	foundType := ns.FindType(path)
	if foundType == nil {
		return false, ierrors.NewFailureWithLine(ierrors.CategoryUnresolved, p.stack.LastLine(), "using", "using type was not found: "+ast.JoinPath(path))
	}
	importType(ns, foundType)
	return true, nil
}

// identifierPath collapses a token run of Identifier/ScopeOperator tokens
// (as produced by extracting up to a terminating SemiColon) into a
// "::"-split path.
func identifierPath(tokens []*token.Token) []string {
	var path []string
	for _, tok := range tokens {
		if tok.Type == token.Identifier {
			path = append(path, tok.Value)
		}
	}
	return path
}

// lookupNamespace resolves path against from, and on failure walks
// outward to enclosing namespaces (mirroring FindType's fallback), so a
// `using namespace a::b;` inside a nested namespace can still reach a
// sibling of one of its ancestors.
func lookupNamespace(from *ast.Namespace, path []string) *ast.Namespace {
	for ns := from; ns != nil; {
		if found := descendNamespace(ns, path); found != nil {
			return found
		}
		parent, ok := ns.Parent().(*ast.Namespace)
		if !ok {
			return nil
		}
		ns = parent
	}
	return nil
}

func descendNamespace(from *ast.Namespace, path []string) *ast.Namespace {
	cur := from
	for _, seg := range path {
		next, ok := cur.Namespaces[seg]
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}

// importNamespace copies every enum, struct, and typedef of source into
// dest as typedefs, skipping names already bound (first-wins).
func importNamespace(dest, source *ast.Namespace) {
	if dest == source {
		return
	}
	for name, e := range source.Enums {
		if _, exists := dest.Typedefs[name]; exists {
			continue
		}
		dest.Typedefs[name] = ast.NewTypedefType(name, e, dest)
	}
	for name, s := range source.Structs {
		if _, exists := dest.Typedefs[name]; exists {
			continue
		}
		td := ast.NewTypedefType(name, s, dest)
		td.OriginalType = bypassed(s)
		dest.Typedefs[name] = td
	}
	for name, td := range source.Typedefs {
		if _, exists := dest.Typedefs[name]; exists {
			continue
		}
		dest.Typedefs[name] = ast.NewTypedefType(name, td, dest)
	}
}

func importType(dest *ast.Namespace, t ast.Type) {
	t = bypassed(t)
	name := t.Name()
	if _, exists := dest.Typedefs[name]; exists {
		return
	}
	dest.Typedefs[name] = ast.NewTypedefType(name, t, dest)
}

func bypassed(t ast.Type) ast.Type {
	if td, ok := t.(*ast.TypedefType); ok {
		return td.Bypass()
	}
	return t
}
