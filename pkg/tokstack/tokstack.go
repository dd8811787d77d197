// Package tokstack implements the token-stack machine: a LIFO of token
// streams supporting push/pop/peek/extract/putback and brace-balanced
// extraction. It is the mechanism that makes the parser re-entrant: any
// production that needs to recurse over a bounded sub-region first
// extracts that region into its own frame, parses it in isolation, and
// pops back to the enclosing stream.
package tokstack

import (
	"idlc/pkg/ierrors"
	"idlc/pkg/token"
)

// frame is one active token stream plus the last token consumed from it.
// Tracking lastToken per frame (rather than discarding it, as the
// original's peekNextToken/extractNextToken accidentally did) is what lets
// LastLine report the line of the most recently consumed token even after
// popping back out of a nested frame.
type frame struct {
	tokens    []*token.Token
	lastToken *token.Token
}

// Stack is the token-stack machine described by the component design.
type Stack struct {
	frames    []*frame
	lastToken *token.Token
}

func New() *Stack {
	return &Stack{}
}

func (s *Stack) top() *frame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

// Push makes tokens the active stream.
func (s *Stack) Push(tokens []*token.Token) {
	f := &frame{tokens: tokens}
	if len(tokens) > 0 {
		f.lastToken = tokens[0]
	}
	s.frames = append(s.frames, f)
}

// Pop discards the active stream and restores the previous frame's
// "last seen" token as the stack's tracked line-reporting token.
func (s *Stack) Pop() []*token.Token {
	f := s.top()
	if f == nil {
		panic("tokstack: pop of empty stack")
	}
	s.frames = s.frames[:len(s.frames)-1]
	if prev := s.top(); prev != nil && prev.lastToken != nil {
		s.lastToken = prev.lastToken
	}
	return f.tokens
}

// HasMore reports whether the active stream has at least one token left.
func (s *Stack) HasMore() bool {
	f := s.top()
	return f != nil && len(f.tokens) > 0
}

// LastLine returns the line of the most recently consumed token, or 1 if
// nothing has been consumed yet.
func (s *Stack) LastLine() int {
	if s.lastToken == nil {
		return 1
	}
	return s.lastToken.Line
}

func eofErr(what string, line int) error {
	return ierrors.NewFailureWithLine(ierrors.CategoryEOF, line, what, what+" unexpectedly reached EOF")
}

// Peek returns the front token of the active stream without consuming it.
func (s *Stack) Peek(what string) (*token.Token, error) {
	if f := s.top(); f != nil && len(f.tokens) > 0 {
		return f.tokens[0], nil
	}
	return nil, eofErr(what, s.LastLine())
}

// Extract consumes and returns the front token of the active stream.
func (s *Stack) Extract(what string) (*token.Token, error) {
	f := s.top()
	if f == nil || len(f.tokens) == 0 {
		return nil, eofErr(what, s.LastLine())
	}
	tok := f.tokens[0]
	f.tokens = f.tokens[1:]
	f.lastToken = tok
	s.lastToken = tok
	return tok, nil
}

// PutBack pushes a single token back onto the front of the active stream.
func (s *Stack) PutBack(tok *token.Token) {
	f := s.top()
	if f == nil {
		panic("tokstack: put back with no active stream")
	}
	f.tokens = append([]*token.Token{tok}, f.tokens...)
	f.lastToken = tok
	s.lastToken = tok
}

// PutBackMany pushes a list of tokens back onto the front of the active
// stream, preserving their relative order.
func (s *Stack) PutBackMany(tokens []*token.Token) {
	f := s.top()
	if f == nil {
		panic("tokstack: put back with no active stream")
	}
	if len(tokens) == 0 {
		return
	}
	merged := make([]*token.Token, 0, len(tokens)+len(f.tokens))
	merged = append(merged, tokens...)
	merged = append(merged, f.tokens...)
	f.tokens = merged
	f.lastToken = merged[0]
	s.lastToken = merged[0]
}

// ExtractToClosingBrace consumes a brace-balanced region. The next token
// must be an open brace of some kind; if it is not, ok is false and
// nothing is consumed. It maintains one depth counter per bracket kind so
// that, e.g., a `<` inside a `(...)` run does not close the paren early.
// When includeOuter is false the outermost open/close pair is stripped
// from the returned tokens.
func (s *Stack) ExtractToClosingBrace(what string, includeOuter bool) (out []*token.Token, ok bool, err error) {
	first, err := s.Peek(what)
	if err != nil {
		return nil, false, err
	}
	if !first.IsBraceFamily() || !first.IsOpen() {
		return nil, false, nil
	}

	var countBrace, countCurly, countSquare, countAngle int
	for {
		tok, err := s.Extract(what)
		if err != nil {
			return nil, false, err
		}
		out = append(out, tok)

		if tok.IsBraceFamily() {
			if tok.IsOpen() {
				switch tok.Type {
				case token.Brace:
					countBrace++
				case token.CurlyBrace:
					countCurly++
				case token.SquareBrace:
					countSquare++
				case token.AngleBrace:
					countAngle++
				}
			} else {
				switch tok.Type {
				case token.Brace:
					if countBrace < 1 {
						return nil, false, ierrors.NewFailureWithLine(ierrors.CategoryBraceMismatch, s.LastLine(), what, "brace mismatch")
					}
					countBrace--
				case token.CurlyBrace:
					if countCurly < 1 {
						return nil, false, ierrors.NewFailureWithLine(ierrors.CategoryBraceMismatch, s.LastLine(), what, "brace mismatch")
					}
					countCurly--
				case token.SquareBrace:
					if countSquare < 1 {
						return nil, false, ierrors.NewFailureWithLine(ierrors.CategoryBraceMismatch, s.LastLine(), what, "brace mismatch")
					}
					countSquare--
				case token.AngleBrace:
					if countAngle < 1 {
						return nil, false, ierrors.NewFailureWithLine(ierrors.CategoryBraceMismatch, s.LastLine(), what, "brace mismatch")
					}
					countAngle--
				}
			}
		}

		if countBrace == 0 && countCurly == 0 && countSquare == 0 && countAngle == 0 {
			break
		}
	}

	if !includeOuter && len(out) > 1 {
		out = out[1 : len(out)-1]
	}
	return out, true, nil
}

// ExtractToTokenType consumes tokens up to (optionally including) the next
// token of kind, at the current brace depth. When processBrackets is true,
// balanced brace regions are copied through verbatim without their inner
// commas/terminators being mistaken for the search target.
func (s *Stack) ExtractToTokenType(what string, kind token.Type, includeFoundToken, processBrackets bool) ([]*token.Token, error) {
	var out []*token.Token
	for s.HasMore() {
		tok, err := s.Extract(what)
		if err != nil {
			return out, err
		}
		if tok.Type == kind {
			if !includeFoundToken {
				s.PutBack(tok)
			} else {
				out = append(out, tok)
			}
			return out, nil
		}

		if processBrackets && tok.IsBraceFamily() {
			s.PutBack(tok)
			if tok.IsClose() {
				return out, nil
			}
			braceTokens, ok, err := s.ExtractToClosingBrace(what, true)
			if err != nil {
				return out, err
			}
			if ok {
				out = append(out, braceTokens...)
			}
			continue
		}

		out = append(out, tok)
	}
	return out, nil
}

// ExtractToComma is ExtractToTokenType specialized to comma boundaries,
// leaving the comma itself in the stream for the caller to consume.
func (s *Stack) ExtractToComma(what string) ([]*token.Token, error) {
	return s.ExtractToTokenType(what, token.CommaOperator, false, true)
}
