package rules

import (
	"fmt"
	"strings"
)

// Band is a named, inclusive z-index range for one stacking context.
type Band struct {
	Name string `koanf:"name" yaml:"name" json:"name"`
	Min  int    `koanf:"min" yaml:"min" json:"min"`
	Max  int    `koanf:"max" yaml:"max" json:"max"`
}

func (b Band) String() string {
	return fmt.Sprintf("%s %d-%d", b.Name, b.Min, b.Max)
}

// Contains reports whether z falls inside the band.
func (b Band) Contains(z int) bool {
	return z >= b.Min && z <= b.Max
}

// DefaultBands returns the stacking bands. Popups on a page are page
// elements too, so the first two bands overlap.
func DefaultBands() []Band {
	return []Band{
		{Name: "page", Min: 1, Max: 300},
		{Name: "popup-on-page", Min: 101, Max: 300},
		{Name: "modal", Min: 301, Max: 600},
		{Name: "popup-in-modal", Min: 601, Max: 900},
	}
}

// Classify returns every band containing z, in band order.
func Classify(bands []Band, z int) []Band {
	var matched []Band
	for _, b := range bands {
		if b.Contains(z) {
			matched = append(matched, b)
		}
	}
	return matched
}

func describeBands(bands []Band) string {
	parts := make([]string, len(bands))
	for i, b := range bands {
		parts[i] = b.String()
	}
	return strings.Join(parts, ", ")
}
