// Package bem validates class names against the Block__Element--Modifier grammar:
//
//	block    = word ('-' word)*
//	element  = block '__' word ('-' word)*
//	modifier = (block|element) '--' word '_' word
//
// where word is one or more lowercase letters or digits.
package bem

import (
	"fmt"
	"strings"
)

// Kind is the shape of a parsed class name.
type Kind int

// Class name kinds
const (
	Malformed Kind = iota
	Block
	Element
	Modifier
)

func (k Kind) String() string {
	switch k {
	case Block:
		return "block"
	case Element:
		return "element"
	case Modifier:
		return "modifier"
	default:
		return "malformed"
	}
}

const (
	elementMarker  = "__"
	modifierMarker = "--"
)

// Result is the tagged outcome of Parse.
type Result struct {
	Kind     Kind
	Block    string
	Element  string // Element and Modifier owned by an element
	ModName  string
	ModValue string
	Reason   string // Malformed only
}

// Owner returns the block or block__element a modifier belongs to.
func (r Result) Owner() string {
	if r.Element != "" {
		return r.Block + elementMarker + r.Element
	}
	return r.Block
}

// Valid reports whether the name matched the grammar.
func (r Result) Valid() bool {
	return r.Kind != Malformed
}

func (r Result) String() string {
	switch r.Kind {
	case Block:
		return r.Block
	case Element:
		return r.Owner()
	case Modifier:
		return r.Owner() + modifierMarker + r.ModName + "_" + r.ModValue
	default:
		return "malformed: " + r.Reason
	}
}

func malformed(format string, args ...any) Result {
	return Result{Kind: Malformed, Reason: fmt.Sprintf(format, args...)}
}

// Parse classifies a class name (without the leading dot). It is a pure
// function: the same input always yields the same Result.
func Parse(name string) Result {
	if name == "" {
		return malformed("empty class name")
	}
	if strings.Count(name, modifierMarker) > 1 {
		return malformed("multiple modifier markers")
	}

	owner, mod, hasMod := strings.Cut(name, modifierMarker)

	if strings.Count(owner, elementMarker) > 1 {
		return malformed("multiple element markers")
	}
	block, element, hasElement := strings.Cut(owner, elementMarker)

	if reason := checkWords(block); reason != "" {
		return malformed("block %q: %s", block, reason)
	}

	result := Result{Kind: Block, Block: block}

	if hasElement {
		if reason := checkWords(element); reason != "" {
			return malformed("element %q: %s", element, reason)
		}
		result.Kind = Element
		result.Element = element
	}

	if hasMod {
		modName, modValue, ok := strings.Cut(mod, "_")
		if !ok {
			return malformed("modifier %q must be name_value", mod)
		}
		if !isWord(modName) {
			return malformed("modifier name %q must be lowercase letters and digits", modName)
		}
		if !isWord(modValue) {
			return malformed("modifier value %q must be lowercase letters and digits", modValue)
		}
		result.Kind = Modifier
		result.ModName = modName
		result.ModValue = modValue
	}

	return result
}

// checkWords validates word ('-' word)* and returns a reason on failure.
func checkWords(s string) string {
	if s == "" {
		return "empty name"
	}
	for _, word := range strings.Split(s, "-") {
		if word == "" {
			return "empty segment between hyphens"
		}
		if !isWord(word) {
			for _, r := range word {
				if !isWordRune(r) {
					return fmt.Sprintf("invalid character %q", r)
				}
			}
		}
	}
	return ""
}

func isWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}
