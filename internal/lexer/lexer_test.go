package lexer

import (
	"testing"

	"github.com/go-proof/logic/internal/position"
)

func tokenize(src string) []Token {
	file := position.NewSourceFile("t.logic", src)
	l := New(file)

	var toks []Token

	for {
		tok := l.Next()
		toks = append(toks, tok)

		if tok.Type == TokenEOF {
			return toks
		}
	}
}

func TestLexerBasicTokens(t *testing.T) {
	toks := tokenize("(type person)")

	want := []TokenType{TokenLParen, TokenWord, TokenWord, TokenRParen, TokenEOF}
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(toks), toks)
	}

	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token %d: expected %v, got %v", i, w, toks[i].Type)
		}
	}

	if toks[1].Text != "type" || toks[2].Text != "person" {
		t.Errorf("unexpected word text: %q, %q", toks[1].Text, toks[2].Text)
	}
}

func TestLexerSkipsLineComments(t *testing.T) {
	toks := tokenize("(axiom # this is a comment\n foo)")

	var words []string
	for _, tok := range toks {
		if tok.Type == TokenWord {
			words = append(words, tok.Text)
		}
	}

	if len(words) != 2 || words[0] != "axiom" || words[1] != "foo" {
		t.Errorf("expected [axiom foo] skipping the comment, got %v", words)
	}
}

func TestLexerUTF8Identifier(t *testing.T) {
	toks := tokenize("(type Größe)")

	if toks[2].Text != "Größe" {
		t.Errorf("expected UTF-8 word Größe, got %q", toks[2].Text)
	}
}

func TestLexerTracksLineAndColumn(t *testing.T) {
	toks := tokenize("(a\n(b))")

	// 'b' starts on line 2, column 2.
	var bTok Token

	for _, tok := range toks {
		if tok.Text == "b" {
			bTok = tok
		}
	}

	if bTok.Span.Start.Line != 2 || bTok.Span.Start.Column != 2 {
		t.Errorf("expected b at 2:2, got %d:%d", bTok.Span.Start.Line, bTok.Span.Start.Column)
	}
}
