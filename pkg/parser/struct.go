package parser

import (
	"idlc/pkg/ast"
	"idlc/pkg/ierrors"
	"idlc/pkg/token"
	"idlc/pkg/types"
)

var structKeywords = map[string]ast.StructKind{
	"struct":      ast.KindStruct,
	"class":       ast.KindInterface,
	"interface":   ast.KindInterface,
	"interaction": ast.KindInterface,
}

// parseStruct handles an optional `template< ... >` prefix followed by
// `struct|class|interface|interaction <name>`, either as a forward
// declaration (`;`) or a full definition with an optional inheritance
// list and a `{ ... }` body.
func (p *Parser) parseStruct(context ast.Context) (bool, error) {
	peeked, err := p.stack.Peek("interface/struct")
	if err != nil {
		return false, err
	}
	if peeked.Type != token.Identifier {
		return false, nil
	}

	foundTemplate := false
	var templateTokens []*token.Token
	if peeked.Value == "template" {
		foundTemplate = true
		if _, err := p.stack.Extract("interface/struct"); err != nil {
			return false, err
		}
		region, ok, err := p.stack.ExtractToClosingBrace("interface/struct", false)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, ierrors.NewFailureWithLine(ierrors.CategoryMalformed, p.stack.LastLine(), "interface/struct", "template expecting arguments")
		}
		templateTokens = region

		peeked, err = p.stack.Peek("interface/struct")
		if err != nil {
			return false, err
		}
	}

	kind, isKeyword := structKeywords[peeked.Value]
	if !isKeyword {
		if foundTemplate {
			return false, ierrors.NewFailureWithLine(ierrors.CategoryMalformed, peeked.Line, "interface/struct", "template expecting keyword struct or interface")
		}
		return false, nil
	}
	if _, err := p.stack.Extract("interface/struct"); err != nil {
		return false, err
	}

	nameTok, err := p.stack.Extract("interface/struct")
	if err != nil {
		return false, err
	}
	if nameTok.Type != token.Identifier {
		return false, ierrors.NewFailureWithLine(ierrors.CategoryMalformed, nameTok.Line, "interface/struct", "expecting name identifier")
	}

	peeked, err = p.stack.Peek("interface/struct")
	if err != nil {
		return false, err
	}
	if peeked.Type == token.SemiColon {
		if foundTemplate {
			return false, ierrors.NewFailureWithLine(ierrors.CategoryMalformed, peeked.Line, "interface/struct", "template is missing template body")
		}
		if _, err := p.stack.Extract(";"); err != nil {
			return false, err
		}
		if _, err := p.processStructForward(context, nameTok.Value, kind); err != nil {
			return false, err
		}
		return true, nil
	}

	newStruct, err := p.processStructDefinition(context, nameTok.Value, kind)
	if err != nil {
		return false, err
	}

	if foundTemplate {
		if err := p.parseTemplateParams(newStruct, templateTokens); err != nil {
			return false, err
		}
	}

	tok, err := p.stack.Extract("interface/struct")
	if err != nil {
		return false, err
	}
	if tok.Type == token.ColonOperator {
		if err := p.parseInheritanceList(newStruct); err != nil {
			return false, err
		}
		tok, err = p.stack.Extract("interface/struct")
		if err != nil {
			return false, err
		}
	}

	if tok.Type != token.CurlyBrace || !tok.IsOpen() {
		return false, ierrors.NewFailureWithLine(ierrors.CategoryMalformed, tok.Line, "interface/struct", `expecting "{"`)
	}
	p.stack.PutBack(tok)

	body, ok, err := p.stack.ExtractToClosingBrace("interface/struct", false)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, ierrors.NewFailureWithLine(ierrors.CategoryMalformed, p.stack.LastLine(), "interface/struct", "expecting struct body")
	}

	p.stack.Push(body)
	err = p.parseStructContents(newStruct)
	p.stack.Pop()
	if err != nil {
		return false, err
	}

	newStruct.HasBody = true
	newStruct.Forward = false
	return true, nil
}

func (p *Parser) parseStructContents(s *ast.Struct) error {
	return p.runProductions([]production{
		p.parseDocumentation,
		p.parseSemiColon,
		p.parseDirective,
		p.parseModifiers,
		func() (bool, error) { return p.parseTypedef(s) },
		func() (bool, error) { return p.parseStruct(s) },
	})
}

// processStructForward returns an existing Struct of the given name in
// context, or creates a fresh forward-declared one.
func (p *Parser) processStructForward(context ast.Context, name string, kind ast.StructKind) (*ast.Struct, error) {
	switch scope := context.(type) {
	case *ast.Namespace:
		if existing, ok := scope.Structs[name]; ok {
			p.fillContext(existing)
			return existing, nil
		}
		s := ast.NewStruct(name, kind, context)
		p.fillContext(s)
		scope.Structs[name] = s
		return s, nil
	case *ast.Struct:
		if existing, ok := scope.Structs[name]; ok {
			p.fillContext(existing)
			return existing, nil
		}
		s := ast.NewStruct(name, kind, context)
		p.fillContext(s)
		scope.Structs[name] = s
		return s, nil
	}
	return nil, ierrors.NewFailure(ierrors.CategoryMalformed, "struct found in context that does not allow nested structs")
}

// processStructDefinition returns the Struct to fill with a body: reusing
// a prior forward declaration, or erroring if one with a body already
// exists (the spec's clearly-intended reading — the original code
// disallows any re-declaration regardless of Forward, which would make
// forward declarations followed by their definition impossible).
func (p *Parser) processStructDefinition(context ast.Context, name string, kind ast.StructKind) (*ast.Struct, error) {
	s, err := p.processStructForward(context, name, kind)
	if err != nil {
		return nil, err
	}
	if s.HasBody {
		return nil, ierrors.NewFailureWithLine(ierrors.CategoryDuplicate, p.stack.LastLine(), "interface/struct", "struct/interface already defined: "+name)
	}
	return s, nil
}

// parseTemplateParams folds `<name [= type-tokens]>, ...` into
// GenericParams/GenericDefaults. Once one parameter carries a default,
// every subsequent parameter must too.
func (p *Parser) parseTemplateParams(s *ast.Struct, templateTokens []*token.Token) error {
	p.stack.Push(templateTokens)
	defer p.stack.Pop()

	foundDefault := false
	for p.stack.HasMore() {
		if consumed, err := p.parseComma(); err != nil {
			return err
		} else if consumed {
			continue
		}

		nameTok, err := p.stack.Extract("interface/struct")
		if err != nil {
			return err
		}
		if nameTok.Type == token.Identifier && nameTok.Value == "typename" {
			nameTok, err = p.stack.Extract("interface/struct")
			if err != nil {
				return err
			}
		}
		if nameTok.Type != token.Identifier {
			return ierrors.NewFailureWithLine(ierrors.CategoryMalformed, nameTok.Line, "interface/struct", "template expecting generic name")
		}
		generic := ast.NewGenericType(nameTok.Value, s)

		var defaultType ast.Type
		if p.stack.HasMore() {
			peeked, err := p.stack.Peek("interface/struct")
			if err != nil {
				return err
			}
			if peeked.Type == token.EqualsOperator {
				if _, err := p.stack.Extract("interface/struct"); err != nil {
					return err
				}
				typeTokens, err := p.stack.ExtractToComma("interface/struct")
				if err != nil {
					return err
				}
				resolved, _, err := types.ResolveType(s, typeTokens, "interface/struct")
				if err != nil {
					return err
				}
				defaultType = resolved
				foundDefault = true
			}
		}

		if foundDefault && defaultType == nil {
			return ierrors.NewFailureWithLine(ierrors.CategoryMalformed, nameTok.Line, "interface/struct", "template expecting default type")
		}

		s.GenericParams = append(s.GenericParams, generic)
		s.GenericDefaults = append(s.GenericDefaults, defaultType)
		generic.Default = defaultType
	}
	return nil
}

// parseInheritanceList folds a comma-separated list of type-token runs
// after `:` into Related entries on s, up to the opening `{`.
func (p *Parser) parseInheritanceList(s *ast.Struct) error {
	var run []*token.Token
	for {
		peeked, err := p.stack.Peek("interface/struct")
		if err != nil {
			return err
		}
		if peeked.Type == token.CurlyBrace {
			break
		}
		if peeked.Type == token.CommaOperator {
			if _, err := p.stack.Extract(","); err != nil {
				return err
			}
			if len(run) < 1 {
				return ierrors.NewFailureWithLine(ierrors.CategoryMalformed, peeked.Line, "interface/struct", "expecting related type name")
			}
			if err := p.processRelated(s, run); err != nil {
				return err
			}
			run = nil
			continue
		}
		tok, err := p.stack.Extract("interface/struct")
		if err != nil {
			return err
		}
		run = append(run, tok)
	}
	if len(run) < 1 {
		return ierrors.NewFailureWithLine(ierrors.CategoryMalformed, p.stack.LastLine(), "interface/struct", "expecting related type name")
	}
	return p.processRelated(s, run)
}

func (p *Parser) processRelated(s *ast.Struct, typeTokens []*token.Token) error {
	resolved, _, err := types.ResolveType(s, typeTokens, "interface/struct inherited")
	if err != nil {
		return err
	}
	if resolved == nil {
		return ierrors.NewFailureWithLine(ierrors.CategoryUnresolved, p.stack.LastLine(), "interface/struct", "related type was not found")
	}
	s.Related = append(s.Related, resolved)
	return nil
}
