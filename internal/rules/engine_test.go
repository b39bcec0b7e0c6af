package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/cssguide/internal/parser"
)

// lint parses src and returns the violations of the given rule.
func lint(t *testing.T, filename, src, rule string) []Violation {
	t.Helper()
	return lintWith(t, DefaultOptions(), filename, src, rule)
}

func lintWith(t *testing.T, opts Options, filename, src, rule string) []Violation {
	t.Helper()
	all := NewEngine(opts, nil).Check(parser.Parse(filename, src))
	var out []Violation
	for _, v := range all {
		if v.Rule == rule {
			out = append(out, v)
		}
	}
	return out
}

func TestEngine_Idempotent(t *testing.T) {
	src := `.Card {
  color: #FFFFFF;
  position: absolute;
  margin: 0.5em 0px;
  z-index: 950 !important;
  .card__a { .b { top: 0 } }
}
#main div.x { content: "x"; }
`
	engine := NewEngine(DefaultOptions(), nil)
	first := engine.Check(parser.Parse("a.scss", src))
	second := engine.Check(parser.Parse("a.scss", src))

	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestEngine_SpansInsideStylesheet(t *testing.T) {
	src := ".A { color: #FFF; margin: 0.5px; }\n.b {\n  top: 0\n"
	sheet := parser.Parse("a.css", src)
	for _, v := range NewEngine(DefaultOptions(), nil).Check(sheet) {
		assert.True(t, sheet.Span.Contains(v.Span), "%s outside stylesheet", v)
		assert.Equal(t, "a.css", v.File)
	}
}

func TestEngine_EnabledAndDisabled(t *testing.T) {
	src := ".a{color:#FFFFFF}"

	all := NewEngine(DefaultOptions(), nil).Check(parser.Parse("a.css", src))
	ids := make(map[string]bool)
	for _, v := range all {
		ids[v.Rule] = true
	}
	require.True(t, ids[HexColorCase])
	require.True(t, ids[MissingSemicolon])
	require.True(t, ids[FinalNewline])

	opts := DefaultOptions()
	opts.Enabled = []string{HexColorCase, MissingSemicolon}
	opts.Disabled = []string{MissingSemicolon}
	engine := NewEngine(opts, nil)
	got := engine.Check(parser.Parse("a.css", src))

	require.Len(t, got, 1)
	assert.Equal(t, HexColorCase, got[0].Rule)
	assert.True(t, engine.Enabled(HexColorCase))
	assert.False(t, engine.Enabled(MissingSemicolon))
	assert.False(t, engine.Enabled(FinalNewline))
}

func TestEngine_UnbalancedBracesKeepsLaterChecks(t *testing.T) {
	src := ".a { color: red;\n  margin: 0.5em;\n"

	unbalanced := lint(t, "a.css", src, UnbalancedBraces)
	require.Len(t, unbalanced, 1)
	assert.Equal(t, SeverityError, unbalanced[0].Severity)
	assert.Equal(t, 1, unbalanced[0].Span.Start.Line)

	// the declaration before the truncation is still checked
	zero := lint(t, "a.css", src, LeadingZero)
	require.Len(t, zero, 1)
	assert.Equal(t, 2, zero[0].Span.Start.Line)
}

func TestEngine_ParseAnomalies(t *testing.T) {
	got := lint(t, "a.css", ".a {\n  color: red\n}\n", MissingSemicolon)
	require.Len(t, got, 1)
	assert.Equal(t, SeverityWarning, got[0].Severity)
	assert.Equal(t, "add ';' after the value", got[0].Hint)

	got = lint(t, "a.css", ".a { content: 'x }\n", MalformedInput)
	require.Len(t, got, 1)
	assert.Equal(t, SeverityError, got[0].Severity)
}

func TestUnreadable(t *testing.T) {
	v := Unreadable("missing.css", assert.AnError)
	assert.Equal(t, FileUnreadable, v.Rule)
	assert.Equal(t, SeverityError, v.Severity)
	assert.Equal(t, 1, v.Span.Start.Line)
	assert.Contains(t, v.Message, "cannot read file")
}

func TestRegistry(t *testing.T) {
	seen := make(map[string]bool)
	for _, r := range All() {
		assert.False(t, seen[r.ID], "duplicate rule %s", r.ID)
		seen[r.ID] = true
		assert.NotEmpty(t, r.Description, r.ID)
		assert.NotZero(t, r.Severity, r.ID)
		if r.Kind == KindParse {
			assert.Nil(t, r.Check, r.ID)
		} else {
			assert.NotNil(t, r.Check, r.ID)
		}
	}
	assert.Len(t, IDs(), len(All()))

	r, ok := Lookup(NestingDepth)
	require.True(t, ok)
	assert.Equal(t, KindBlock, r.Kind)

	_, ok = Lookup("no-such-rule")
	assert.False(t, ok)
}

func TestSeverity(t *testing.T) {
	s, err := ParseSeverity("Warning")
	require.NoError(t, err)
	assert.Equal(t, SeverityWarning, s)

	_, err = ParseSeverity("fatal")
	assert.Error(t, err)

	assert.True(t, SeverityError.AtLeast(SeverityWarning))
	assert.False(t, SeverityWarning.AtLeast(SeverityError))

	text, err := SeverityError.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "error", string(text))

	var parsed Severity
	require.NoError(t, parsed.UnmarshalText([]byte("warn")))
	assert.Equal(t, SeverityWarning, parsed)
}

func TestClassify(t *testing.T) {
	bands := DefaultBands()

	names := func(z int) []string {
		var out []string
		for _, b := range Classify(bands, z) {
			out = append(out, b.Name)
		}
		return out
	}

	assert.Equal(t, []string{"page"}, names(50))
	assert.Equal(t, []string{"page", "popup-on-page"}, names(150))
	assert.Equal(t, []string{"modal"}, names(301))
	assert.Equal(t, []string{"popup-in-modal"}, names(900))
	assert.Empty(t, names(950))
	assert.Empty(t, names(0))
	assert.Empty(t, names(-1))
}
