package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(tokens []Token) []Kind {
	out := make([]Kind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func texts(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Text
	}
	return out
}

func TestScanner_Kinds(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		kinds []Kind
		texts []string
	}{
		{
			name:  "simple rule",
			src:   ".a { color: red; }",
			kinds: []Kind{SelectorText, BraceOpen, PropertyName, Colon, ValueText, Semicolon, BraceClose, EOF},
			texts: []string{".a", "{", "color", ":", "red", ";", "}", ""},
		},
		{
			name:  "selector group keeps commas",
			src:   ".a,\n.b{}",
			kinds: []Kind{SelectorText, BraceOpen, BraceClose, EOF},
			texts: []string{".a,\n.b", "{", "}", ""},
		},
		{
			name:  "nested scss rule",
			src:   ".a { &:hover { color: red; } }",
			kinds: []Kind{SelectorText, BraceOpen, SelectorText, BraceOpen, PropertyName, Colon, ValueText, Semicolon, BraceClose, BraceClose, EOF},
			texts: []string{".a", "{", "&:hover", "{", "color", ":", "red", ";", "}", "}", ""},
		},
		{
			name:  "at-rule with block",
			src:   "@media (max-width: 600px) { .a { top: 0; } }",
			kinds: []Kind{AtKeyword, ValueText, BraceOpen, SelectorText, BraceOpen, PropertyName, Colon, ValueText, Semicolon, BraceClose, BraceClose, EOF},
			texts: []string{"@media", "(max-width: 600px)", "{", ".a", "{", "top", ":", "0", ";", "}", "}", ""},
		},
		{
			name:  "statement at-rule",
			src:   "@import 'base';",
			kinds: []Kind{AtKeyword, ValueText, StringLiteral, Semicolon, EOF},
			texts: []string{"@import", "'base'", "'base'", ";", ""},
		},
		{
			name:  "comment inside value follows the value",
			src:   ".a { color: red /* why */; }",
			kinds: []Kind{SelectorText, BraceOpen, PropertyName, Colon, ValueText, Comment, Semicolon, BraceClose, EOF},
			texts: []string{".a", "{", "color", ":", "red", "/* why */", ";", "}", ""},
		},
		{
			name:  "value with string",
			src:   `.a { font-family: "Open Sans", serif; }`,
			kinds: []Kind{SelectorText, BraceOpen, PropertyName, Colon, ValueText, StringLiteral, Semicolon, BraceClose, EOF},
			texts: []string{".a", "{", "font-family", ":", `"Open Sans", serif`, `"Open Sans"`, ";", "}", ""},
		},
		{
			name:  "quoted url stays inside the value",
			src:   `.a { background: url("x.png") no-repeat; }`,
			kinds: []Kind{SelectorText, BraceOpen, PropertyName, Colon, ValueText, Semicolon, BraceClose, EOF},
			texts: []string{".a", "{", "background", ":", `url("x.png") no-repeat`, ";", "}", ""},
		},
		{
			name:  "line comment",
			src:   "// note\n.a {}",
			kinds: []Kind{Comment, SelectorText, BraceOpen, BraceClose, EOF},
			texts: []string{"// note", ".a", "{", "}", ""},
		},
		{
			name:  "interpolated selector",
			src:   ".icon-#{$name} {}",
			kinds: []Kind{SelectorText, BraceOpen, BraceClose, EOF},
			texts: []string{".icon-#{$name}", "{", "}", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := New(tt.src).All()
			assert.Equal(t, tt.kinds, kinds(tokens))
			assert.Equal(t, tt.texts, texts(tokens))
		})
	}
}

func TestScanner_LineComment(t *testing.T) {
	tokens := New("// note\n.a {}").All()
	require.NotEmpty(t, tokens)
	assert.True(t, tokens[0].LineComment)
	assert.False(t, tokens[1].LineComment)
}

func TestScanner_Positions(t *testing.T) {
	tokens := New(".a {\n  color: red;\n}\n").All()
	require.Len(t, tokens, 8)

	prop := tokens[2]
	require.Equal(t, PropertyName, prop.Kind)
	assert.Equal(t, Position{Offset: 7, Line: 2, Column: 3}, prop.Span.Start)
	assert.Equal(t, Position{Offset: 12, Line: 2, Column: 8}, prop.Span.End)

	closing := tokens[6]
	require.Equal(t, BraceClose, closing.Kind)
	assert.Equal(t, "3:1", closing.Span.Start.String())
}

func TestScanner_Malformed(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		wantReason string
		wantText   string
	}{
		{
			name:       "unterminated comment",
			src:        ".a { /* oops",
			wantReason: "unterminated comment",
			wantText:   "/* oops",
		},
		{
			name:       "unterminated string at end of file",
			src:        `.a { content: "oops`,
			wantReason: "unterminated string",
			wantText:   `"oops`,
		},
		{
			name:       "string broken by newline",
			src:        ".a { content: 'oops\n}",
			wantReason: "unterminated string",
			wantText:   "'oops\n}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := New(tt.src).All()
			require.GreaterOrEqual(t, len(tokens), 2)

			bad := tokens[len(tokens)-2]
			assert.Equal(t, Malformed, bad.Kind)
			assert.Equal(t, tt.wantReason, bad.Reason)
			assert.Equal(t, tt.wantText, bad.Text)
			assert.Equal(t, EOF, tokens[len(tokens)-1].Kind)
		})
	}
}

func TestScanner_Restartable(t *testing.T) {
	s := New(".a { color: red; } .b { top: 0 }")
	first := s.All()
	second := s.All()
	assert.Equal(t, first, second)

	// EOF repeats once the input is exhausted
	for range first {
		s.Next()
	}
	assert.Equal(t, EOF, s.Next().Kind)
	assert.Equal(t, EOF, s.Next().Kind)
}

func TestSpan_Contains(t *testing.T) {
	outer := Span{Start: Position{Offset: 0}, End: Position{Offset: 10}}
	assert.True(t, outer.Contains(Span{Start: Position{Offset: 2}, End: Position{Offset: 5}}))
	assert.False(t, outer.Contains(Span{Start: Position{Offset: 8}, End: Position{Offset: 12}}))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "selector-text", SelectorText.String())
	assert.Equal(t, "at-rule-keyword", AtKeyword.String())
	assert.Equal(t, "kind(99)", Kind(99).String())
}
