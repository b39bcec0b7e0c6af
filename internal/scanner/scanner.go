// Package scanner turns CSS and SCSS source text into structural tokens.
//
// Low-level lexing is done by the tdewolff CSS lexer. The scanner folds its
// lexemes into selector runs, property names, values, braces, comments and
// string literals, keeping byte offsets so every diagnostic can point at the
// original text.
package scanner

import (
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// lexeme is a single token from the CSS lexer with its byte range.
type lexeme struct {
	tt          css.TokenType
	text        string
	start, end  int
	lineComment bool
}

// badInput marks the point where lexing stopped on an unterminated construct.
type badInput struct {
	start  int
	reason string
}

// Scanner produces a lazy, restartable sequence of Tokens.
type Scanner struct {
	src     string
	lines   lineIndex
	lexemes []lexeme
	bad     *badInput

	i        int
	depth    int
	queue    []Token
	tailDone bool
}

// New lexes src and returns a Scanner positioned at the first token.
func New(src string) *Scanner {
	lexemes, bad := lex(src)
	return &Scanner{
		src:     src,
		lines:   newLineIndex(src),
		lexemes: lexemes,
		bad:     bad,
	}
}

// Reset rewinds the scanner to the first token.
func (s *Scanner) Reset() {
	s.i = 0
	s.depth = 0
	s.queue = nil
	s.tailDone = false
}

// Position converts a byte offset into a line/column position.
func (s *Scanner) Position(offset int) Position {
	return s.lines.position(offset)
}

// Source returns the text being scanned.
func (s *Scanner) Source() string {
	return s.src
}

// All rewinds the scanner and returns every token up to and including EOF.
func (s *Scanner) All() []Token {
	s.Reset()
	var tokens []Token
	for {
		tok := s.Next()
		tokens = append(tokens, tok)
		if tok.Kind == EOF {
			break
		}
	}
	s.Reset()
	return tokens
}

// lex runs the CSS lexer over src. It stops at the first unterminated string
// or comment and reports where.
func lex(src string) ([]lexeme, *badInput) {
	input := parse.NewInputString(src)
	lexer := css.NewLexer(input)

	var lexemes []lexeme
	offset := 0
	for {
		tt, data := lexer.Next()
		if tt == css.ErrorToken {
			return lexemes, nil
		}

		lx := lexeme{tt: tt, text: string(data), start: offset, end: offset + len(data)}

		switch {
		case tt == css.DelimToken && lx.text == "/" && input.Peek(0) == '/':
			// SCSS line comment runs to the end of the line
			for {
				c := input.Peek(0)
				if c == '\n' || c == '\r' || (c == 0 && input.Err() != nil) {
					break
				}
				input.Move(1)
			}
			rest := input.Shift()
			lx.tt = css.CommentToken
			lx.text += string(rest)
			lx.end += len(rest)
			lx.lineComment = true
		case tt == css.CommentToken && (len(lx.text) < 4 || !strings.HasSuffix(lx.text, "*/")):
			return lexemes, &badInput{start: lx.start, reason: "unterminated comment"}
		case tt == css.BadStringToken || tt == css.StringToken && !stringTerminated(lx.text):
			return lexemes, &badInput{start: lx.start, reason: "unterminated string"}
		}

		offset = lx.end
		lexemes = append(lexemes, lx)
	}
}

// stringTerminated reports whether a quoted string ends with an unescaped
// copy of its opening quote.
func stringTerminated(s string) bool {
	if len(s) < 2 || s[len(s)-1] != s[0] {
		return false
	}
	backslashes := 0
	for i := len(s) - 2; i > 0 && s[i] == '\\'; i-- {
		backslashes++
	}
	return backslashes%2 == 0
}

// Next returns the next token. After EOF it keeps returning EOF.
func (s *Scanner) Next() Token {
	if len(s.queue) > 0 {
		tok := s.queue[0]
		s.queue = s.queue[1:]
		return tok
	}

	s.skipWhitespace()

	if s.i >= len(s.lexemes) {
		return s.tail()
	}

	lx := s.lexemes[s.i]
	switch lx.tt {
	case css.CommentToken:
		s.i++
		return s.commentToken(lx)
	case css.LeftBraceToken:
		s.i++
		s.depth++
		return s.token(BraceOpen, lx.text, lx.start, lx.end)
	case css.RightBraceToken:
		s.i++
		if s.depth > 0 {
			s.depth--
		}
		return s.token(BraceClose, lx.text, lx.start, lx.end)
	case css.SemicolonToken:
		s.i++
		return s.token(Semicolon, lx.text, lx.start, lx.end)
	case css.AtKeywordToken:
		s.i++
		tok := s.token(AtKeyword, lx.text, lx.start, lx.end)
		s.enqueue(s.run(ValueText, stopAtBlockOrStatement))
		return tok
	}

	if s.depth == 0 || s.nestedRuleAhead() {
		s.enqueue(s.run(SelectorText, stopAtBlockOrStatement))
		return s.Next()
	}
	return s.declaration()
}

// enqueue appends a run token, when present, followed by its extras.
func (s *Scanner) enqueue(tok Token, ok bool, extras []Token) {
	if ok {
		s.queue = append(s.queue, tok)
	}
	s.queue = append(s.queue, extras...)
}

// declaration emits property-name, colon and value tokens for one statement.
func (s *Scanner) declaration() Token {
	s.enqueue(s.run(PropertyName, stopAtColon))
	s.skipWhitespace()
	if s.i < len(s.lexemes) && s.lexemes[s.i].tt == css.ColonToken {
		lx := s.lexemes[s.i]
		s.i++
		s.queue = append(s.queue, s.token(Colon, lx.text, lx.start, lx.end))
		s.enqueue(s.run(ValueText, stopAtStatement))
	}
	return s.Next()
}

// tail emits the trailing malformed token, if any, followed by EOF.
func (s *Scanner) tail() Token {
	if s.bad != nil && !s.tailDone {
		s.tailDone = true
		tok := s.token(Malformed, s.src[s.bad.start:], s.bad.start, len(s.src))
		tok.Reason = s.bad.reason
		return tok
	}
	s.tailDone = true
	return s.token(EOF, "", len(s.src), len(s.src))
}

func (s *Scanner) token(kind Kind, text string, start, end int) Token {
	return Token{Kind: kind, Text: text, Span: s.lines.span(start, end)}
}

func (s *Scanner) commentToken(lx lexeme) Token {
	tok := s.token(Comment, lx.text, lx.start, lx.end)
	tok.LineComment = lx.lineComment
	return tok
}

func (s *Scanner) skipWhitespace() {
	for s.i < len(s.lexemes) && s.lexemes[s.i].tt == css.WhitespaceToken {
		s.i++
	}
}

// stopFunc decides whether a depth-0 lexeme ends the current run.
type stopFunc func(tt css.TokenType) bool

func stopAtBlockOrStatement(tt css.TokenType) bool {
	return tt == css.LeftBraceToken || tt == css.RightBraceToken || tt == css.SemicolonToken
}

func stopAtStatement(tt css.TokenType) bool {
	return tt == css.RightBraceToken || tt == css.SemicolonToken
}

func stopAtColon(tt css.TokenType) bool {
	return tt == css.ColonToken || stopAtBlockOrStatement(tt)
}

// run collects lexemes into a single text token of the given kind until stop
// matches at nesting depth zero. Comments and string literals inside the run
// are returned as extras so they can follow it. It reports false when the run
// holds no text.
func (s *Scanner) run(kind Kind, stop stopFunc) (Token, bool, []Token) {
	var (
		sb       strings.Builder
		extras   []Token
		parens   int
		interp   int
		start    = -1
		end      = -1
		lastText = -1
	)

	for ; s.i < len(s.lexemes); s.i++ {
		lx := s.lexemes[s.i]

		if parens == 0 && interp == 0 && stop(lx.tt) {
			break
		}

		switch lx.tt {
		case css.LeftParenthesisToken, css.LeftBracketToken, css.FunctionToken:
			parens++
		case css.RightParenthesisToken, css.RightBracketToken:
			if parens > 0 {
				parens--
			}
		case css.DelimToken:
			if lx.text == "#" && s.i+1 < len(s.lexemes) && s.lexemes[s.i+1].tt == css.LeftBraceToken {
				interp++
				sb.WriteString(lx.text)
				sb.WriteString(s.lexemes[s.i+1].text)
				if start < 0 {
					start = lx.start
				}
				s.i++
				end = s.lexemes[s.i].end
				lastText = sb.Len()
				continue
			}
		case css.RightBraceToken:
			if interp > 0 {
				interp--
			}
		case css.CommentToken:
			extras = append(extras, s.commentToken(lx))
			continue
		case css.StringToken:
			extras = append(extras, s.token(StringLiteral, lx.text, lx.start, lx.end))
		}

		if lx.tt == css.WhitespaceToken {
			if start >= 0 {
				sb.WriteString(lx.text)
			}
			continue
		}

		if start < 0 {
			start = lx.start
		}
		sb.WriteString(lx.text)
		end = lx.end
		lastText = sb.Len()
	}

	if start < 0 {
		return Token{}, false, extras
	}
	text := sb.String()[:lastText]
	return s.token(kind, text, start, end), true, extras
}

// nestedRuleAhead looks ahead from the current statement and reports whether
// it opens a block before it ends, meaning it is a nested selector rather
// than a declaration.
func (s *Scanner) nestedRuleAhead() bool {
	parens, interp := 0, 0
	for j := s.i; j < len(s.lexemes); j++ {
		lx := s.lexemes[j]
		switch lx.tt {
		case css.LeftParenthesisToken, css.LeftBracketToken, css.FunctionToken:
			parens++
		case css.RightParenthesisToken, css.RightBracketToken:
			if parens > 0 {
				parens--
			}
		case css.DelimToken:
			if lx.text == "#" && j+1 < len(s.lexemes) && s.lexemes[j+1].tt == css.LeftBraceToken {
				interp++
				j++
			}
		case css.LeftBraceToken:
			if parens == 0 && interp == 0 {
				return true
			}
		case css.RightBraceToken:
			if interp > 0 {
				interp--
				continue
			}
			if parens == 0 {
				return false
			}
		case css.SemicolonToken:
			if parens == 0 && interp == 0 {
				return false
			}
		}
	}
	return false
}
