package tokstack

import (
	"testing"

	"idlc/pkg/token"
)

func toks(specs ...[2]interface{}) []*token.Token {
	out := make([]*token.Token, len(specs))
	for i, s := range specs {
		out[i] = token.New(s[0].(token.Type), s[1].(string), 1)
	}
	return out
}

func TestExtractAndPeek(t *testing.T) {
	s := New()
	s.Push(toks(
		[2]interface{}{token.Identifier, "a"},
		[2]interface{}{token.Identifier, "b"},
	))

	peeked, err := s.Peek("test")
	if err != nil || peeked.Value != "a" {
		t.Fatalf("peek: got %v, err %v", peeked, err)
	}

	first, err := s.Extract("test")
	if err != nil || first.Value != "a" {
		t.Fatalf("extract: got %v, err %v", first, err)
	}

	second, err := s.Extract("test")
	if err != nil || second.Value != "b" {
		t.Fatalf("extract: got %v, err %v", second, err)
	}

	if s.HasMore() {
		t.Fatal("expected stream exhausted")
	}

	if _, err := s.Extract("test"); err == nil {
		t.Fatal("expected EOF error")
	}
}

func TestPutBackRestoresOrder(t *testing.T) {
	s := New()
	s.Push(toks([2]interface{}{token.Identifier, "b"}))
	a := token.New(token.Identifier, "a", 1)
	s.PutBack(a)

	first, _ := s.Extract("test")
	second, _ := s.Extract("test")
	if first.Value != "a" || second.Value != "b" {
		t.Fatalf("expected a,b order, got %s,%s", first.Value, second.Value)
	}
}

func TestExtractToClosingBraceBalances(t *testing.T) {
	s := New()
	// { a ( b ) c }
	s.Push([]*token.Token{
		token.New(token.CurlyBrace, "{", 1),
		token.New(token.Identifier, "a", 1),
		token.New(token.Brace, "(", 1),
		token.New(token.Identifier, "b", 1),
		token.New(token.Brace, ")", 1),
		token.New(token.Identifier, "c", 1),
		token.New(token.CurlyBrace, "}", 1),
	})

	out, ok, err := s.ExtractToClosingBrace("test", true)
	if err != nil || !ok {
		t.Fatalf("expected balanced extraction, got ok=%v err=%v", ok, err)
	}
	if len(out) != 7 {
		t.Fatalf("expected 7 tokens including outer braces, got %d", len(out))
	}
	if s.HasMore() {
		t.Fatal("expected stream fully consumed")
	}
}

func TestExtractToClosingBraceStripsOuter(t *testing.T) {
	s := New()
	s.Push([]*token.Token{
		token.New(token.CurlyBrace, "{", 1),
		token.New(token.Identifier, "a", 1),
		token.New(token.CurlyBrace, "}", 1),
	})
	out, ok, err := s.ExtractToClosingBrace("test", false)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if len(out) != 1 || out[0].Value != "a" {
		t.Fatalf("expected single stripped token 'a', got %v", out)
	}
}

func TestExtractToClosingBraceMismatch(t *testing.T) {
	s := New()
	s.Push([]*token.Token{
		token.New(token.CurlyBrace, "{", 1),
		token.New(token.Brace, ")", 2),
	})
	_, _, err := s.ExtractToClosingBrace("test", true)
	if err == nil {
		t.Fatal("expected brace mismatch error")
	}
}

func TestExtractToCommaTreatsBracketsAtomically(t *testing.T) {
	s := New()
	// a ( 1 , 2 ) , b
	s.Push([]*token.Token{
		token.New(token.Identifier, "a", 1),
		token.New(token.Brace, "(", 1),
		token.New(token.Number, "1", 1),
		token.New(token.CommaOperator, ",", 1),
		token.New(token.Number, "2", 1),
		token.New(token.Brace, ")", 1),
		token.New(token.CommaOperator, ",", 1),
		token.New(token.Identifier, "b", 1),
	})
	out, err := s.ExtractToComma("test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 6 {
		t.Fatalf("expected 6 tokens (a, (,1,,,2,)), got %d: %v", len(out), out)
	}
	remaining, err := s.Extract("test")
	if err != nil || remaining.Type != token.CommaOperator {
		t.Fatalf("expected comma left in stream, got %v err %v", remaining, err)
	}
	last, err := s.Extract("test")
	if err != nil || last.Value != "b" {
		t.Fatalf("expected trailing b, got %v err %v", last, err)
	}
}

func TestPushPopRestoresLastLine(t *testing.T) {
	s := New()
	s.Push([]*token.Token{token.New(token.Identifier, "outer", 5)})
	s.Extract("test")
	s.Push([]*token.Token{token.New(token.Identifier, "inner", 9)})
	s.Extract("test")
	if s.LastLine() != 9 {
		t.Fatalf("expected inner line 9, got %d", s.LastLine())
	}
	s.Pop()
	if s.LastLine() != 5 {
		t.Fatalf("expected outer line restored to 5, got %d", s.LastLine())
	}
}
