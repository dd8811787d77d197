package parser

import "idlc/pkg/token"

// parseDocumentation drains every consecutive Documentation token into the
// pending buffer.
func (p *Parser) parseDocumentation() (bool, error) {
	found := false
	for p.stack.HasMore() {
		peeked, err := p.stack.Peek("documentation")
		if err != nil {
			return found, err
		}
		if peeked.Type != token.Documentation {
			break
		}
		found = true
		tok, err := p.stack.Extract("documentation")
		if err != nil {
			return found, err
		}
		p.pendingDoc = append(p.pendingDoc, tok.Value)
	}
	return found, nil
}

// parseSemiColon consumes a single stray SemiColon (grammar noise between
// declarations).
func (p *Parser) parseSemiColon() (bool, error) {
	peeked, err := p.stack.Peek(";")
	if err != nil {
		return false, err
	}
	if peeked.Type != token.SemiColon {
		return false, nil
	}
	if _, err := p.stack.Extract(";"); err != nil {
		return false, err
	}
	return true, nil
}

// parseComma consumes a single stray CommaOperator, used by productions
// that skip an optional separator between list items.
func (p *Parser) parseComma() (bool, error) {
	peeked, err := p.stack.Peek(",")
	if err != nil {
		return false, err
	}
	if peeked.Type != token.CommaOperator {
		return false, nil
	}
	if _, err := p.stack.Extract(","); err != nil {
		return false, err
	}
	return true, nil
}

// extractUntil drains tokens from the active stream up to (not including)
// the next token of kind, at the top brace-nesting level implied by
// individual extraction (no bracket-region awareness — callers that need
// that use tokstack.ExtractToTokenType directly). It is used by the
// productions that scan a raw run up to a terminating SemiColon.
func (p *Parser) extractUntil(what string, kind token.Type) ([]*token.Token, error) {
	var out []*token.Token
	for {
		peeked, err := p.stack.Peek(what)
		if err != nil {
			return nil, err
		}
		if peeked.Type == kind {
			return out, nil
		}
		tok, err := p.stack.Extract(what)
		if err != nil {
			return nil, err
		}
		out = append(out, tok)
	}
}
