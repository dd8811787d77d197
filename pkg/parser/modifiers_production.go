package parser

import (
	"strings"

	"idlc/pkg/ast"
	"idlc/pkg/ierrors"
	"idlc/pkg/modifiers"
	"idlc/pkg/token"
	"idlc/pkg/tokstack"
)

// parseModifiers handles a bracketed `[ ... ]` modifier set: split by
// top-level commas into items, each an identifier optionally followed by
// a parenthesized, comma-split parameter list, looked up in the modifier
// catalog for its expected arity.
func (p *Parser) parseModifiers() (bool, error) {
	peeked, err := p.stack.Peek("modifiers")
	if err != nil {
		return false, err
	}
	if peeked.Type != token.SquareBrace || !peeked.IsOpen() {
		return false, nil
	}

	region, ok, err := p.stack.ExtractToClosingBrace("modifiers", false)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	items := tokstack.New()
	items.Push(region)
	for items.HasMore() {
		itemTokens, err := items.ExtractToComma("modifiers")
		if err != nil {
			return false, err
		}
		if _, err := skipComma(items); err != nil {
			return false, err
		}
		if len(itemTokens) == 0 {
			continue
		}
		if err := p.parseModifierItem(itemTokens); err != nil {
			return false, err
		}
	}

	return true, nil
}

func skipComma(s *tokstack.Stack) (bool, error) {
	if !s.HasMore() {
		return false, nil
	}
	peeked, err := s.Peek(",")
	if err != nil {
		return false, err
	}
	if peeked.Type != token.CommaOperator {
		return false, nil
	}
	_, err = s.Extract(",")
	return true, err
}

func (p *Parser) parseModifierItem(itemTokens []*token.Token) error {
	item := tokstack.New()
	item.Push(itemTokens)

	nameTok, err := item.Extract("modifiers")
	if err != nil {
		return err
	}
	if nameTok.Type != token.Identifier {
		return ierrors.NewFailureWithLine(ierrors.CategoryMalformed, nameTok.Line, "modifiers", "modifiers expecting identifier")
	}
	name := strings.ToLower(nameTok.Value)

	arity, known := p.catalog.ToModifier(name)
	if !known {
		return ierrors.NewFailureWithLine(ierrors.CategoryMalformed, nameTok.Line, "modifiers", "modifier is not recognized: "+nameTok.Value)
	}

	var values []string
	if item.HasMore() {
		paramRegion, ok, err := item.ExtractToClosingBrace("modifiers", false)
		if err != nil {
			return err
		}
		if ok {
			params := tokstack.New()
			params.Push(paramRegion)
			for params.HasMore() {
				paramTokens, err := params.ExtractToComma("modifiers")
				if err != nil {
					return err
				}
				if _, err := skipComma(params); err != nil {
					return err
				}
				values = append(values, joinLexemes(paramTokens))
			}
		}
	} else if arity != 0 {
		return ierrors.NewFailureWithLine(ierrors.CategoryMalformed, nameTok.Line, "modifiers", "modifiers expecting parameters")
	}

	if arity != modifiers.Variadic && int(arity) != len(values) {
		return ierrors.NewFailureWithLine(ierrors.CategoryMalformed, nameTok.Line, "modifiers",
			"modifiers expecting total parameter mismatch")
	}

	if p.pendingSet[name] {
		return ierrors.NewFailureWithLine(ierrors.CategoryDuplicate, nameTok.Line, "modifiers", "modifier is already set: "+name)
	}
	p.pendingSet[name] = true
	p.pendingMods = append(p.pendingMods, ast.Modifier{Name: name, Params: values})
	return nil
}

func joinLexemes(tokens []*token.Token) string {
	var b strings.Builder
	for i, tok := range tokens {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(tok.Value)
	}
	return b.String()
}
