package parser

import (
	"strings"

	"idlc/pkg/ierrors"
	"idlc/pkg/lexer"
	"idlc/pkg/token"
)

// parseDirective handles a `//!` Directive token: its lexeme is re-lexed
// and pushed as its own frame (spec's SUPPLEMENTED FEATURES item: a
// directive is re-lexed in its own token-stack frame rather than
// string-matched). Inside, an EXCLUSIVE directive can put the parser into
// ignore mode, in which subsequent tokens from the *enclosing* stream are
// silently discarded until the next Directive token or the end of the
// stream. That next Directive is re-lexed and processed in turn: an
// EXCLUSIVE whose id is not enabled keeps ignore mode on, and any other
// directive lifts it.
func (p *Parser) parseDirective() (bool, error) {
	peeked, err := p.stack.Peek("directive")
	if err != nil {
		return false, err
	}
	if peeked.Type != token.Directive {
		return false, nil
	}
	tok, err := p.stack.Extract("directive")
	if err != nil {
		return false, err
	}

	if err := p.pushDirectiveFrame(tok); err != nil {
		return false, err
	}

	for {
		matched, ignore, err := p.parseDirectiveExclusive()
		if err != nil {
			p.stack.Pop()
			return false, err
		}
		if !matched || !ignore {
			break
		}

		p.stack.Pop() // done with this directive's own re-lexed frame

		reenabled := false
		for p.stack.HasMore() {
			outer, err := p.stack.Extract("directive")
			if err != nil {
				return false, err
			}
			if outer.Type == token.Directive {
				if err := p.pushDirectiveFrame(outer); err != nil {
					return false, err
				}
				reenabled = true
				break
			}
			// discarded: still in ignore mode
		}
		if !reenabled {
			return true, nil
		}
	}

	p.stack.Pop()
	return true, nil
}

// pushDirectiveFrame re-lexes a directive token's lexeme (the text after
// `//!`) at its original line and pushes the result as the active stream.
func (p *Parser) pushDirectiveFrame(tok *token.Token) error {
	tokens, err := lexer.Tokenize([]byte(tok.Value), tok.Line)
	if err != nil {
		return err
	}
	p.stack.Push(tokens)
	return nil
}

// parseDirectiveExclusive recognizes `EXCLUSIVE <id>`. ignoreMode is true
// unless id is "x" (case-insensitive) or already present in the project's
// defined-exclusives set.
func (p *Parser) parseDirectiveExclusive() (matched bool, ignoreMode bool, err error) {
	peeked, err := p.stack.Peek("EXCLUSIVE")
	if err != nil {
		return false, false, err
	}
	if peeked.Type != token.Identifier || peeked.Value != "EXCLUSIVE" {
		return false, false, nil
	}
	if _, err := p.stack.Extract("EXCLUSIVE"); err != nil {
		return false, false, err
	}

	idTok, err := p.stack.Extract("EXCLUSIVE")
	if err != nil {
		return false, false, err
	}
	if idTok.Type != token.Identifier {
		return false, false, ierrors.NewFailureWithLine(ierrors.CategoryMalformed, idTok.Line, "EXCLUSIVE", "EXCLUSIVE expecting identifier")
	}

	ignoreMode = true
	if strings.EqualFold(idTok.Value, "x") || p.project.DefinedExclusives[idTok.Value] {
		ignoreMode = false
	}
	return true, ignoreMode, nil
}
