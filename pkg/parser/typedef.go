package parser

import (
	"idlc/pkg/ast"
	"idlc/pkg/ierrors"
	"idlc/pkg/token"
	"idlc/pkg/types"
)

// parseTypedef handles `typedef <type-tokens...> <identifier>;`.
func (p *Parser) parseTypedef(context ast.Context) (bool, error) {
	peeked, err := p.stack.Peek("typedef")
	if err != nil {
		return false, err
	}
	if peeked.Type != token.Identifier || peeked.Value != "typedef" {
		return false, nil
	}
	if _, err := p.stack.Extract("typedef"); err != nil {
		return false, err
	}

	typeTokens, err := p.extractUntil("typedef", token.SemiColon)
	if err != nil {
		return false, err
	}
	if _, err := p.stack.Extract(";"); err != nil {
		return false, err
	}

	if len(typeTokens) < 2 {
		return false, ierrors.NewFailureWithLine(ierrors.CategoryMalformed, p.stack.LastLine(), "typedef", "typedef typename was not found")
	}
	nameTok := typeTokens[len(typeTokens)-1]
	typeTokens = typeTokens[:len(typeTokens)-1]
	if nameTok.Type != token.Identifier {
		return false, ierrors.NewFailureWithLine(ierrors.CategoryMalformed, nameTok.Line, "typedef", "typedef identifier was not found")
	}

	if err := p.processTypedef(context, typeTokens, nameTok.Value); err != nil {
		return false, err
	}
	return true, nil
}

// processTypedef resolves typeTokens and registers the result (adopting
// a typedef the resolver already created, or wrapping a bare type in a
// fresh one) under typeName in context's typedef map.
func (p *Parser) processTypedef(context ast.Context, typeTokens []*token.Token, typeName string) error {
	resolved, created, err := types.ResolveType(context, typeTokens, "typedef")
	if err != nil {
		return err
	}

	var namedTypedef *ast.TypedefType
	if created != nil {
		namedTypedef = created
	} else {
		namedTypedef = ast.NewTypedefType("", resolved, context)
	}

	namedTypedef.SetName(typeName)
	p.fillContext(namedTypedef)

	if ns, ok := context.(*ast.Namespace); ok {
		if _, exists := ns.Typedefs[typeName]; exists {
			return nil // assume types are the same
		}
		ns.Typedefs[typeName] = namedTypedef
		return nil
	}
	if s, ok := context.(*ast.Struct); ok {
		if _, exists := s.Typedefs[typeName]; exists {
			return nil
		}
		s.Typedefs[typeName] = namedTypedef
		return nil
	}
	return ierrors.NewFailure(ierrors.CategoryMalformed, "typedef found in context that does not allow typedefs")
}
