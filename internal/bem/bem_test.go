package bem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ValidNames(t *testing.T) {
	tests := []struct {
		name string
		want Result
	}{
		{
			name: "block",
			want: Result{Kind: Block, Block: "block"},
		},
		{
			name: "search-form",
			want: Result{Kind: Block, Block: "search-form"},
		},
		{
			name: "block__element",
			want: Result{Kind: Element, Block: "block", Element: "element"},
		},
		{
			name: "main-nav__list-item",
			want: Result{Kind: Element, Block: "main-nav", Element: "list-item"},
		},
		{
			name: "block--mod_val",
			want: Result{Kind: Modifier, Block: "block", ModName: "mod", ModValue: "val"},
		},
		{
			name: "block__element--mod_val",
			want: Result{Kind: Modifier, Block: "block", Element: "element", ModName: "mod", ModValue: "val"},
		},
		{
			name: "h2",
			want: Result{Kind: Block, Block: "h2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.name)
			require.True(t, got.Valid(), "reason: %s", got.Reason)
			assert.Equal(t, tt.want, got)
			// the parsed parts rebuild the exact input
			assert.Equal(t, tt.name, got.String())
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantReason string
	}{
		{name: "empty", input: "", wantReason: "empty class name"},
		{name: "two modifiers", input: "block--a_b--c_d", wantReason: "multiple modifier markers"},
		{name: "two elements", input: "block__a__b", wantReason: "multiple element markers"},
		{name: "boolean modifier", input: "block--active", wantReason: `modifier "active" must be name_value`},
		{name: "uppercase", input: "Block", wantReason: `invalid character 'B'`},
		{name: "camel case", input: "searchForm", wantReason: `invalid character 'F'`},
		{name: "trailing hyphen", input: "block-", wantReason: "empty segment between hyphens"},
		{name: "empty element", input: "block__", wantReason: `element "": empty name`},
		{name: "empty block", input: "__element", wantReason: `block "": empty name`},
		{name: "modifier without value", input: "block--size_", wantReason: `modifier value "" must be lowercase letters and digits`},
		{name: "underscore in block", input: "my_block", wantReason: `invalid character '_'`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			assert.Equal(t, Malformed, got.Kind)
			assert.False(t, got.Valid())
			assert.Contains(t, got.Reason, tt.wantReason)
		})
	}
}

func TestParse_Deterministic(t *testing.T) {
	for _, name := range []string{"card__title--size_large", "card--", "x"} {
		assert.Equal(t, Parse(name), Parse(name))
	}
}

func TestResult_Owner(t *testing.T) {
	assert.Equal(t, "card", Parse("card--theme_dark").Owner())
	assert.Equal(t, "card__title", Parse("card__title--theme_dark").Owner())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "block", Block.String())
	assert.Equal(t, "element", Element.String())
	assert.Equal(t, "modifier", Modifier.String())
	assert.Equal(t, "malformed", Malformed.String())
}
