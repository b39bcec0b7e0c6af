package rules

import (
	"fmt"
	"strings"
)

// Severity indicates the importance of a violation. Higher is more severe.
type Severity int

// Severity levels for violations.
const (
	// SeverityWarning marks a convention that should be fixed.
	SeverityWarning Severity = iota + 1
	// SeverityError marks a convention that must be fixed.
	SeverityError
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSeverity converts a severity name to a Severity.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return SeverityError, nil
	case "warning", "warn":
		return SeverityWarning, nil
	default:
		return 0, fmt.Errorf("unknown severity %q (want error or warning)", s)
	}
}

// AtLeast reports whether s meets the threshold.
func (s Severity) AtLeast(threshold Severity) bool {
	return s >= threshold
}
