// Package lexer implements the hand-rolled scanner: byte cursor in, token
// stream out. It recognizes C-style numeric literals with bases, exponents
// and type suffixes, doc/directive comments, quote/char literals with C
// escapes, the restricted operator alphabet, and preprocessor-line
// skipping with backslash continuation.
package lexer

import (
	"strings"

	"idlc/pkg/ierrors"
	"idlc/pkg/token"
)

// maxTokens guards against runaway input the way the teacher's tokenizer
// bounds itself against pathological or malicious source files.
const maxTokens = 250000

// Lexer scans a single source buffer into a token stream.
type Lexer struct {
	src         []byte
	pos         int
	line        int
	startOfLine bool
}

// New creates a Lexer over src, starting at the given line (1-based). A
// starting line other than 1 lets callers re-lex a fragment (an alias
// replacement value, a directive body) while preserving the line number of
// the token that produced it.
func New(src []byte, startLine int) *Lexer {
	if startLine < 1 {
		startLine = 1
	}
	return &Lexer{src: src, line: startLine, startOfLine: true}
}

// Tokenize runs the lexer to completion, returning every token in source
// order. Plain line comments and skipped preprocessor lines produce no
// token. An unterminated quote or char literal aborts scanning early with
// a FailureWithLine.
func Tokenize(src []byte, startLine int) ([]*token.Token, error) {
	l := New(src, startLine)
	var toks []*token.Token
	for {
		tok, err := l.next()
		if err != nil {
			return toks, err
		}
		if tok == nil {
			continue
		}
		if tok.Type == token.EOF {
			return toks, nil
		}
		toks = append(toks, tok)
		if len(toks) > maxTokens {
			return toks, ierrors.NewFailureWithLine(ierrors.CategoryMalformed, l.line, "lexer", "token stream exceeds safety limit")
		}
	}
}

func (l *Lexer) atEnd() bool { return l.pos >= len(l.src) }

func (l *Lexer) peekByte() byte {
	if l.atEnd() {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekAt(offset int) byte {
	p := l.pos + offset
	if p < 0 || p >= len(l.src) {
		return 0
	}
	return l.src[p]
}

func (l *Lexer) hasPrefix(s string) bool {
	if l.pos+len(s) > len(l.src) {
		return false
	}
	return string(l.src[l.pos:l.pos+len(s)]) == s
}

func isHorizontalSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\r' }
func isDigit(c byte) bool           { return c >= '0' && c <= '9' }
func isOctalDigit(c byte) bool      { return c >= '0' && c <= '7' }
func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
func isAlpha(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
func isAlnum(c byte) bool { return isAlpha(c) || isDigit(c) }

func (l *Lexer) skipHorizontalWhitespace() {
	for isHorizontalSpace(l.peekByte()) {
		l.pos++
	}
}

// next produces the next significant event: a token, nil (something was
// skipped: whitespace, a comment, a preprocessor line), or an error.
func (l *Lexer) next() (*token.Token, error) {
	for {
		if l.atEnd() {
			return token.New(token.EOF, "", l.line), nil
		}

		c := l.peekByte()

		if isHorizontalSpace(c) {
			l.pos++
			continue
		}

		if c == '\n' {
			l.pos++
			l.line++
			l.startOfLine = true
			continue
		}

		if l.startOfLine && c == '#' {
			l.skipPreprocessorLine()
			l.startOfLine = false
			continue
		}
		l.startOfLine = false

		if c == '/' && l.peekAt(1) == '*' {
			l.skipBlockComment()
			continue
		}

		if c == '/' && l.peekAt(1) == '/' {
			return l.scanSlashSlash()
		}

		if c == '"' {
			return l.scanQuote()
		}

		if c == '\'' {
			return l.scanChar()
		}

		if isDigit(c) {
			return l.scanNumber(), nil
		}

		if c == '-' {
			save := l.pos
			l.pos++
			l.skipHorizontalWhitespace()
			if isDigit(l.peekByte()) {
				l.pos = save
				return l.scanNumber(), nil
			}
			l.pos = save
			return l.scanUnknown(), nil
		}

		if isAlpha(c) {
			return l.scanIdentifier(), nil
		}

		if tok := l.scanOperator(); tok != nil {
			return tok, nil
		}

		return l.scanUnknown(), nil
	}
}

// skipPreprocessorLine advances to end-of-line, then looks back over
// trailing whitespace: if the last non-whitespace byte is a backslash the
// directive continues onto the next physical line.
func (l *Lexer) skipPreprocessorLine() {
	for {
		eol := l.pos
		for eol < len(l.src) && l.src[eol] != '\n' {
			eol++
		}
		trail := eol - 1
		for trail > l.pos && isHorizontalSpace(l.src[trail]) {
			trail--
		}
		continued := trail >= l.pos && l.src[trail] == '\\'
		l.pos = eol
		if l.pos < len(l.src) {
			l.pos++ // consume the newline
			l.line++
		}
		if !continued {
			return
		}
		if l.atEnd() {
			return
		}
	}
}

func (l *Lexer) skipBlockComment() {
	l.pos += 2 // consume "/*"
	for !l.atEnd() {
		if l.peekByte() == '*' && l.peekAt(1) == '/' {
			l.pos += 2
			return
		}
		if l.peekByte() == '\n' {
			l.line++
		}
		l.pos++
	}
}

// scanSlashSlash distinguishes //! directives, /// documentation, and plain
// // comments. The lexeme is the remainder of the line without the marker;
// the terminating newline advances the line counter but is not consumed
// into the lexeme.
func (l *Lexer) scanSlashSlash() (*token.Token, error) {
	line := l.line
	third := l.peekAt(2)

	markerLen := 2
	kind := token.Unknown
	switch third {
	case '!':
		markerLen = 3
		kind = token.Directive
	case '/':
		markerLen = 3
		kind = token.Documentation
	default:
		markerLen = 2
	}

	l.pos += markerLen
	start := l.pos
	for !l.atEnd() && l.peekByte() != '\n' {
		l.pos++
	}
	text := string(l.src[start:l.pos])

	if kind == token.Unknown {
		// Plain line comment: consumed, no token.
		return nil, nil
	}
	return token.New(kind, text, line), nil
}

func (l *Lexer) scanQuote() (*token.Token, error) {
	line := l.line
	var sb strings.Builder
	l.pos++ // consume opening quote
	for {
		if l.atEnd() {
			return nil, ierrors.NewFailureWithLine(ierrors.CategoryMalformed, line, "lexer", "unterminated string literal")
		}
		c := l.src[l.pos]
		if c == '"' {
			l.pos++
			break
		}
		if c == '\n' {
			return nil, ierrors.NewFailureWithLine(ierrors.CategoryMalformed, line, "lexer", "unterminated string literal")
		}
		if c == '\\' {
			esc, n, err := l.readEscape(line)
			if err != nil {
				return nil, err
			}
			sb.WriteString(esc)
			l.pos += n
			continue
		}
		sb.WriteByte(c)
		l.pos++
	}
	return token.New(token.Quote, sb.String(), line), nil
}

func (l *Lexer) scanChar() (*token.Token, error) {
	line := l.line
	var sb strings.Builder
	l.pos++ // consume opening quote
	if l.atEnd() {
		return nil, ierrors.NewFailureWithLine(ierrors.CategoryMalformed, line, "lexer", "unterminated character literal")
	}
	if l.peekByte() == '\\' {
		esc, n, err := l.readEscape(line)
		if err != nil {
			return nil, err
		}
		sb.WriteString(esc)
		l.pos += n
	} else {
		if l.peekByte() == '\'' || l.peekByte() == '\n' {
			return nil, ierrors.NewFailureWithLine(ierrors.CategoryMalformed, line, "lexer", "empty character literal")
		}
		sb.WriteByte(l.peekByte())
		l.pos++
	}
	if l.atEnd() || l.peekByte() != '\'' {
		return nil, ierrors.NewFailureWithLine(ierrors.CategoryMalformed, line, "lexer", "unterminated character literal")
	}
	l.pos++ // consume closing quote
	return token.New(token.Char, sb.String(), line), nil
}

// readEscape reads a backslash escape starting at l.pos (pointing at the
// backslash) and returns its textual representation plus the number of
// source bytes consumed. It does not advance l.pos itself.
func (l *Lexer) readEscape(line int) (string, int, error) {
	if l.peekAt(1) == 0 && l.pos+1 >= len(l.src) {
		return "", 0, ierrors.NewFailureWithLine(ierrors.CategoryMalformed, line, "lexer", "dangling escape at end of input")
	}
	next := l.peekAt(1)
	switch next {
	case 'n', 't', 'r', '0', 'a', 'b', 'f', 'v', '\\', '\'', '"':
		return "\\" + string(next), 2, nil
	case 'x':
		n := 2
		for isHexDigit(l.peekAt(n)) {
			n++
		}
		return string(l.src[l.pos : l.pos+n]), n, nil
	default:
		return "\\" + string(next), 2, nil
	}
}

// scanNumber implements the spec's base/exponent/suffix state machine.
func (l *Lexer) scanNumber() *token.Token {
	line := l.line
	var sb strings.Builder

	if l.peekByte() == '-' {
		l.pos++
		l.skipHorizontalWhitespace()
		sb.WriteByte('-')
	}

	base := 10
	switch {
	case l.hasPrefix("0x") || l.hasPrefix("0X"):
		base = 16
		sb.WriteString(string(l.src[l.pos : l.pos+2]))
		l.pos += 2
	case l.hasPrefix("0b") || l.hasPrefix("0B"):
		base = 2
		sb.WriteString(string(l.src[l.pos : l.pos+2]))
		l.pos += 2
	case l.peekByte() == '0' && isOctalDigit(l.peekAt(1)):
		base = 8
		sb.WriteByte('0')
		l.pos++
	default:
		base = 10
	}

	digit := func(c byte) bool {
		switch base {
		case 16:
			return isHexDigit(c)
		case 2:
			return c == '0' || c == '1'
		case 8:
			return isOctalDigit(c)
		default:
			return isDigit(c)
		}
	}

	for digit(l.peekByte()) {
		sb.WriteByte(l.peekByte())
		l.pos++
	}

	if base == 10 {
		if l.peekByte() == '.' && isDigit(l.peekAt(1)) {
			sb.WriteByte('.')
			l.pos++
			for isDigit(l.peekByte()) {
				sb.WriteByte(l.peekByte())
				l.pos++
			}
		}

		if l.peekByte() == 'e' || l.peekByte() == 'E' {
			save := l.pos
			expChar := l.peekByte()
			cursor := 1
			var sign byte
			if l.peekAt(cursor) == '+' || l.peekAt(cursor) == '-' {
				sign = l.peekAt(cursor)
				cursor++
			}
			if isDigit(l.peekAt(cursor)) {
				l.pos += cursor
				sb.WriteByte(expChar)
				if sign != 0 {
					sb.WriteByte(sign)
				}
				for isDigit(l.peekByte()) {
					sb.WriteByte(l.peekByte())
					l.pos++
				}
			} else {
				l.pos = save
			}
		}
	}

	l.scanNumberSuffix(&sb, base)

	return token.New(token.Number, sb.String(), line)
}

func (l *Lexer) scanNumberSuffix(sb *strings.Builder, base int) {
	suffixStart := l.pos
	var suf strings.Builder
	hasU, hasF := false, false
	lCount := 0
	valid := true

scan:
	for {
		c := l.peekByte()
		switch {
		case c == 'u' || c == 'U':
			if hasU || hasF {
				valid = false
				break scan
			}
			hasU = true
			suf.WriteByte(c)
			l.pos++
		case c == 'l' || c == 'L':
			if hasF || lCount >= 2 {
				valid = false
				break scan
			}
			lCount++
			suf.WriteByte(c)
			l.pos++
		case c == 'f' || c == 'F':
			if base != 10 || hasU || hasF || lCount > 1 {
				valid = false
				break scan
			}
			hasF = true
			suf.WriteByte(c)
			l.pos++
		default:
			break scan
		}
	}

	if !valid {
		l.pos = suffixStart
		return
	}
	sb.WriteString(suf.String())
}

func (l *Lexer) scanIdentifier() *token.Token {
	line := l.line
	start := l.pos
	for isAlnum(l.peekByte()) {
		l.pos++
	}
	return token.New(token.Identifier, string(l.src[start:l.pos]), line)
}

// operator alphabet: { } ( ) [ ] ; < > :: = : , ?
func (l *Lexer) scanOperator() *token.Token {
	line := l.line
	c := l.peekByte()

	if c == ':' && l.peekAt(1) == ':' {
		l.pos += 2
		return token.New(token.ScopeOperator, "::", line)
	}

	switch c {
	case '{':
		l.pos++
		return token.New(token.CurlyBrace, "{", line)
	case '}':
		l.pos++
		return token.New(token.CurlyBrace, "}", line)
	case '(':
		l.pos++
		return token.New(token.Brace, "(", line)
	case ')':
		l.pos++
		return token.New(token.Brace, ")", line)
	case '[':
		l.pos++
		return token.New(token.SquareBrace, "[", line)
	case ']':
		l.pos++
		return token.New(token.SquareBrace, "]", line)
	case '<':
		l.pos++
		return token.New(token.AngleBrace, "<", line)
	case '>':
		l.pos++
		return token.New(token.AngleBrace, ">", line)
	case ';':
		l.pos++
		return token.New(token.SemiColon, ";", line)
	case '=':
		l.pos++
		return token.New(token.EqualsOperator, "=", line)
	case ':':
		l.pos++
		return token.New(token.ColonOperator, ":", line)
	case ',':
		l.pos++
		return token.New(token.CommaOperator, ",", line)
	case '?':
		l.pos++
		return token.New(token.QuestionOperator, "?", line)
	}
	return nil
}

func (l *Lexer) scanUnknown() *token.Token {
	line := l.line
	c := l.peekByte()
	l.pos++
	return token.New(token.Unknown, string(c), line)
}
