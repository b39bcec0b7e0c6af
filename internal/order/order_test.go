package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/cssguide/internal/parser"
)

func decls(props ...string) []*parser.Declaration {
	out := make([]*parser.Declaration, len(props))
	for i, p := range props {
		out[i] = &parser.Declaration{Property: p}
	}
	return out
}

func TestTable_Lookup(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		property string
		want     Group
		wantOK   bool
	}{
		{"position", Position, true},
		{"z-index", Position, true},
		{"display", Box, true},
		{"overflow-x", Box, true},
		{"padding-left", Box, true},
		{"border-top-width", Box, true},
		{"Margin", Box, true},
		{"font", Typography, true},
		{"font-size", Typography, true},
		{"text-align", Typography, true},
		{"line-height", Typography, true},
		{"color", Decoration, true},
		{"background", Decoration, true},
		{"unknown-prop", Decoration, true},
		{"-webkit-box-sizing", Box, true},
		{"-moz-text-size-adjust", Typography, true},
		{"--brand-color", Decoration, false},
		{"$gutter", Decoration, false},
	}

	for _, tt := range tests {
		t.Run(tt.property, func(t *testing.T) {
			got, ok := table.Lookup(tt.property)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTable_LongestPrefixWins(t *testing.T) {
	table := NewTable(map[string]Group{
		"border*":       Box,
		"border-color*": Decoration,
		"border-width":  Position,
	})

	g, _ := table.Lookup("border-color-top")
	assert.Equal(t, Decoration, g)

	g, _ = table.Lookup("border-style")
	assert.Equal(t, Box, g)

	// exact beats any prefix
	g, _ = table.Lookup("border-width")
	assert.Equal(t, Position, g)
}

func TestTable_Check(t *testing.T) {
	tests := []struct {
		name     string
		props    []string
		wantProp string
		wantOK   bool
	}{
		{
			name:   "ordered",
			props:  []string{"position", "top", "display", "width", "font-size", "color"},
			wantOK: false,
		},
		{
			name:     "position after decoration",
			props:    []string{"color", "position"},
			wantProp: "position",
			wantOK:   true,
		},
		{
			name:     "first offender only",
			props:    []string{"display", "font-size", "width", "top"},
			wantProp: "width",
			wantOK:   true,
		},
		{
			name:   "custom properties are ignored",
			props:  []string{"color", "--x", "background"},
			wantOK: false,
		},
		{
			name:   "same group in any order",
			props:  []string{"margin", "display", "padding"},
			wantOK: false,
		},
		{
			name:   "empty",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DefaultTable().Check(decls(tt.props...))
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantProp, got.Declaration.Property)
			}
		})
	}
}

func TestTable_CheckFinding(t *testing.T) {
	got, ok := DefaultTable().Check(decls("color", "position"))
	require.True(t, ok)
	assert.Equal(t, Position, got.Group)
	assert.Equal(t, "color", got.After.Property)
	assert.Equal(t, Decoration, got.AfterGroup)
	assert.Equal(t, `"position" (position) should come before "color" (decoration)`, got.String())
}

func TestMerge(t *testing.T) {
	table := Merge(DefaultGroups, map[string]Group{"color": Typography, "gap*": Box})

	g, _ := table.Lookup("color")
	assert.Equal(t, Typography, g)
	g, _ = table.Lookup("gap")
	assert.Equal(t, Box, g)
	g, _ = table.Lookup("position")
	assert.Equal(t, Position, g)
}

func TestParseGroup(t *testing.T) {
	g, err := ParseGroup("Typography")
	require.NoError(t, err)
	assert.Equal(t, Typography, g)

	_, err = ParseGroup("layout")
	assert.ErrorContains(t, err, "unknown property group")
}
