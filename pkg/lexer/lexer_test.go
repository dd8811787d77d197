package lexer

import (
	"testing"

	"idlc/pkg/token"
)

func typesOf(toks []*token.Token) []token.Type {
	out := make([]token.Type, len(toks))
	for i, t := range toks {
		out[i] = t.Type
	}
	return out
}

func TestTokenizeNamespaceSkeleton(t *testing.T) {
	src := []byte(`namespace a { namespace b { } }`)
	toks, err := Tokenize(src, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []token.Type{
		token.Identifier, token.Identifier, token.CurlyBrace,
		token.Identifier, token.Identifier, token.CurlyBrace, token.CurlyBrace,
		token.CurlyBrace,
	}
	got := typesOf(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s want %s", i, got[i], want[i])
		}
	}
}

func TestNumberBases(t *testing.T) {
	cases := map[string]string{
		"0":      "0",
		"0xFF":   "0xFF",
		"0b1010": "0b1010",
		"017":    "017",
	}
	for src, want := range cases {
		toks, err := Tokenize([]byte(src), 1)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", src, err)
		}
		if len(toks) != 1 || toks[0].Type != token.Number {
			t.Fatalf("%s: expected single Number token, got %v", src, toks)
		}
		if toks[0].Value != want {
			t.Errorf("%s: got lexeme %q want %q", src, toks[0].Value, want)
		}
	}
}

func TestExponentWithoutDigitsSplits(t *testing.T) {
	toks, err := Tokenize([]byte("1e"), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) != 2 || toks[0].Type != token.Number || toks[0].Value != "1" {
		t.Fatalf("expected [Number(1) Identifier(e)], got %v", toks)
	}
	if toks[1].Type != token.Identifier || toks[1].Value != "e" {
		t.Fatalf("expected trailing identifier e, got %v", toks[1])
	}
}

func TestNumberSuffixValidation(t *testing.T) {
	cases := map[string]string{
		"1ul":  "1ul",
		"1ll":  "1ll",
		"1.0f": "1.0f",
		"1uf":  "1", // f excluded after u: whole suffix run is invalidated and rewound
		"1lll": "1", // a third consecutive l invalidates and rewinds the whole suffix
	}
	for src, want := range cases {
		toks, err := Tokenize([]byte(src), 1)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", src, err)
		}
		if toks[0].Value != want {
			t.Errorf("%s: got %q want %q (tokens=%v)", src, toks[0].Value, want, toks)
		}
	}
}

func TestCharLiterals(t *testing.T) {
	cases := []string{`'\n'`, `'\\'`, `'\''`, `'\x41'`}
	for _, src := range cases {
		toks, err := Tokenize([]byte(src), 1)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", src, err)
		}
		if len(toks) != 1 || toks[0].Type != token.Char {
			t.Fatalf("%s: expected single Char token, got %v", src, toks)
		}
	}
}

func TestDirectiveAndDocumentation(t *testing.T) {
	src := []byte("//! EXCLUSIVE foo\n/// doc text\nstruct S;")
	toks, err := Tokenize(src, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Type != token.Directive || toks[0].Value != " EXCLUSIVE foo" {
		t.Fatalf("unexpected directive token: %v", toks[0])
	}
	if toks[1].Type != token.Documentation || toks[1].Value != " doc text" {
		t.Fatalf("unexpected documentation token: %v", toks[1])
	}
}

func TestPreprocessorLineContinuation(t *testing.T) {
	src := []byte("#define FOO \\\n  bar\nidentifier")
	toks, err := Tokenize(src, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) != 1 || toks[0].Value != "identifier" {
		t.Fatalf("expected preprocessor lines fully skipped, got %v", toks)
	}
	if toks[0].Line != 3 {
		t.Errorf("expected identifier on line 3, got line %d", toks[0].Line)
	}
}

func TestUnterminatedStringIsError(t *testing.T) {
	_, err := Tokenize([]byte(`"abc`), 1)
	if err == nil {
		t.Fatal("expected error for unterminated string")
	}
}

func TestLineNumbersMonotonic(t *testing.T) {
	src := []byte("a\nb\n\nc")
	toks, err := Tokenize(src, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := 0
	for _, tok := range toks {
		if tok.Line < 1 || tok.Line < last {
			t.Fatalf("non-monotonic or invalid line: %v", tok)
		}
		last = tok.Line
	}
}
