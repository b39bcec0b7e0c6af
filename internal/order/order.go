// Package order checks that declarations follow the property group order:
// Position, Box, Typography, then Decoration.
package order

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yacobolo/cssguide/internal/parser"
)

// Group is a property ordering group. Lower groups come first.
type Group int

// Property groups in their required order.
const (
	Position Group = iota
	Box
	Typography
	Decoration
)

var groupNames = []string{"position", "box", "typography", "decoration"}

func (g Group) String() string {
	if g < 0 || int(g) >= len(groupNames) {
		return fmt.Sprintf("group(%d)", int(g))
	}
	return groupNames[g]
}

// Groups returns every group in order.
func Groups() []Group {
	return []Group{Position, Box, Typography, Decoration}
}

// ParseGroup converts a group name (case-insensitive) to a Group.
func ParseGroup(name string) (Group, error) {
	for i, n := range groupNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Group(i), nil
		}
	}
	return Decoration, fmt.Errorf("unknown property group %q (want one of %s)", name, strings.Join(groupNames, ", "))
}

// DefaultGroups maps properties to groups. Entries ending in "*" match any
// property with that prefix.
var DefaultGroups = map[string]Group{
	"position": Position,
	"z-index":  Position,
	"top":      Position,
	"right":    Position,
	"bottom":   Position,
	"left":     Position,

	"display":    Box,
	"overflow*":  Box,
	"box-sizing": Box,
	"width":      Box,
	"height":     Box,
	"min-width":  Box,
	"max-width":  Box,
	"min-height": Box,
	"max-height": Box,
	"padding*":   Box,
	"border*":    Box,
	"margin*":    Box,
	"float":      Box,
	"clear":      Box,

	"font*":          Typography,
	"text-*":         Typography,
	"line-height":    Typography,
	"word-wrap":      Typography,
	"letter-spacing": Typography,
}

type prefixEntry struct {
	prefix string
	group  Group
}

// Table classifies property names into groups. It is read-only after
// construction and safe for concurrent use.
type Table struct {
	exact    map[string]Group
	prefixes []prefixEntry // longest first
}

// DefaultTable returns a table built from DefaultGroups.
func DefaultTable() *Table {
	return NewTable(DefaultGroups)
}

// NewTable builds a table from pattern → group entries.
func NewTable(entries map[string]Group) *Table {
	t := &Table{exact: make(map[string]Group)}
	for pattern, g := range entries {
		pattern = strings.ToLower(strings.TrimSpace(pattern))
		if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
			t.prefixes = append(t.prefixes, prefixEntry{prefix: prefix, group: g})
			continue
		}
		t.exact[pattern] = g
	}
	sort.Slice(t.prefixes, func(i, j int) bool {
		if len(t.prefixes[i].prefix) != len(t.prefixes[j].prefix) {
			return len(t.prefixes[i].prefix) > len(t.prefixes[j].prefix)
		}
		return t.prefixes[i].prefix < t.prefixes[j].prefix
	})
	return t
}

// Merge returns a new table with overrides applied on top of entries.
func Merge(entries, overrides map[string]Group) *Table {
	merged := make(map[string]Group, len(entries)+len(overrides))
	for k, v := range entries {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return NewTable(merged)
}

// Lookup returns the group of a property. Custom properties (--x) are not
// classified. Unknown properties fall back to Decoration.
func (t *Table) Lookup(property string) (Group, bool) {
	name := strings.ToLower(strings.TrimSpace(property))
	if name == "" || strings.HasPrefix(name, "--") || strings.HasPrefix(name, "$") {
		return Decoration, false
	}
	name = stripVendor(name)

	if g, ok := t.exact[name]; ok {
		return g, true
	}
	for _, p := range t.prefixes {
		if strings.HasPrefix(name, p.prefix) {
			return p.group, true
		}
	}
	return Decoration, true
}

func stripVendor(name string) string {
	if !strings.HasPrefix(name, "-") {
		return name
	}
	if i := strings.Index(name[1:], "-"); i > 0 {
		return name[i+2:]
	}
	return name
}

// Finding describes the first out-of-order declaration in a block.
type Finding struct {
	Declaration *parser.Declaration
	Group       Group
	// After is the property of the earlier declaration from a later group.
	After      *parser.Declaration
	AfterGroup Group
}

func (f Finding) String() string {
	return fmt.Sprintf("%q (%s) should come before %q (%s)",
		f.Declaration.Property, f.Group, f.After.Property, f.AfterGroup)
}

// Check walks decls in order and reports the first declaration whose group
// is lower than the highest group seen so far.
func (t *Table) Check(decls []*parser.Declaration) (Finding, bool) {
	var (
		highest Group = -1
		owner   *parser.Declaration
	)
	for _, d := range decls {
		g, ok := t.Lookup(d.Property)
		if !ok {
			continue
		}
		if g < highest {
			return Finding{Declaration: d, Group: g, After: owner, AfterGroup: highest}, true
		}
		if g > highest {
			highest = g
			owner = d
		}
	}
	return Finding{}, false
}
