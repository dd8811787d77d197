package types

import (
	"idlc/pkg/ast"
	"idlc/pkg/ierrors"
	"idlc/pkg/token"
	"idlc/pkg/tokstack"
)

// extractTemplateArgs implements spec 4.5 Step 1: it splits tokens at the
// first top-level `<`, returning everything before it as the pre-template
// run and, if a template was present, the balanced comma-separated
// argument token lists found inside the angle brackets (brackets excluded).
func extractTemplateArgs(tokens []*token.Token, what string) (pretemplate []*token.Token, args [][]*token.Token, hadTemplate bool, err error) {
	st := tokstack.New()
	st.Push(tokens)

	for st.HasMore() {
		tok, extractErr := st.Extract(what)
		if extractErr != nil {
			return nil, nil, false, extractErr
		}
		if tok.Type == token.AngleBrace && tok.IsOpen() {
			st.PutBack(tok)
			region, ok, closeErr := st.ExtractToClosingBrace(what, false)
			if closeErr != nil {
				return nil, nil, false, closeErr
			}
			if !ok {
				// Extract already confirmed an open angle brace; this
				// cannot fail, but if it somehow did, treat as no template.
				break
			}
			hadTemplate = true

			inner := tokstack.New()
			inner.Push(region)
			for inner.HasMore() {
				if peeked, peekErr := inner.Peek(what); peekErr == nil && peeked.Type == token.CommaOperator {
					if _, extractErr := inner.Extract(what); extractErr != nil {
						return nil, nil, false, extractErr
					}
				}
				if !inner.HasMore() {
					break
				}
				argTokens, commaErr := inner.ExtractToComma(what)
				if commaErr != nil {
					return nil, nil, false, commaErr
				}
				args = append(args, argTokens)
			}
			break
		}
		pretemplate = append(pretemplate, tok)
	}

	return pretemplate, args, hadTemplate, nil
}

// foldModifiers implements spec 4.5 Step 2: every Identifier is folded via
// Insert, every ScopeOperator via InsertScope, anything else is illegal.
func foldModifiers(tokens []*token.Token, what string) (*ModifierBag, error) {
	bag := &ModifierBag{}
	st := tokstack.New()
	st.Push(tokens)

	for st.HasMore() {
		tok, err := st.Extract(what)
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case token.Identifier:
			if err := bag.Insert(tok.Value, tok.Line, what); err != nil {
				return nil, err
			}
		case token.ScopeOperator:
			if err := bag.InsertScope(tok.Line, what); err != nil {
				return nil, err
			}
		default:
			return nil, ierrors.NewFailureWithLine(ierrors.CategoryIllegalType, tok.Line, what, "has not legal type modifier")
		}
	}
	return bag, nil
}

func lastLine(tokens []*token.Token) int {
	if len(tokens) == 0 {
		return 1
	}
	return tokens[len(tokens)-1].Line
}

// ResolveType is the top-level driver, grounded on
// IDLCompiler::findTypeOrCreateTypedef: extract any template argument
// list, fold the remaining tokens into a modifier bag, resolve or
// synthesize the named type, attach template arguments to a freshly
// created (or newly wrapping) typedef if the resolved type is a struct,
// and finally collapse a pure no-op wrapper to its underlying type.
//
// It returns the resolved type plus, separately, any typedef it created
// so a caller adopting it (the typedef production) can rename it instead
// of wrapping twice.
func ResolveType(context ast.Context, tokens []*token.Token, what string) (ast.Type, *ast.TypedefType, error) {
	pretemplate, argTokenLists, hadTemplate, err := extractTemplateArgs(tokens, what)
	if err != nil {
		return nil, nil, err
	}

	var templateTypes []ast.Type
	for _, argTokens := range argTokenLists {
		argType, _, err := ResolveType(context, argTokens, what)
		if err != nil {
			return nil, nil, err
		}
		templateTypes = append(templateTypes, argType)
	}

	bag, err := foldModifiers(pretemplate, what)
	if err != nil {
		return nil, nil, err
	}

	line := lastLine(pretemplate)
	result, created, err := bag.ProcessType(context, line, what)
	if err != nil {
		return nil, nil, err
	}

	if len(templateTypes) > 0 {
		// Template realization (spec 4.5 Step 4) is an intentional
		// placeholder: template arguments are recorded on the typedef, not
		// substituted into a specialized struct body.
		if _, isStruct := ast.Underlying(result).(*ast.Struct); !isStruct {
			return nil, nil, ierrors.NewFailureWithLine(ierrors.CategoryIllegalType, line, what,
				"has template parameters but type referenced isn't a struct or generic template")
		}
		if created == nil {
			created = ast.NewTypedefType("", result, context)
			result = created
		}
		created.TemplateArgs = templateTypes
	}
	_ = hadTemplate

	if td, ok := result.(*ast.TypedefType); ok {
		if td.Name() == "" && !td.IsConst && len(td.TemplateArgs) == 0 {
			td.NoopWrapper = true
		}
		return td.Bypass(), created, nil
	}
	return result, created, nil
}
