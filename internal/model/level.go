package model

import (
	"fmt"
	"strings"
)

// Level is a discrete congestion category.
type Level int

const (
	LevelLow Level = iota
	LevelMedium
	LevelHigh
)

// String returns "low", "medium" or "high".
func (l Level) String() string {
	switch l {
	case LevelLow:
		return "low"
	case LevelMedium:
		return "medium"
	case LevelHigh:
		return "high"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Label returns the numeric cluster label (0, 1, 2) used by the JSON API.
func (l Level) Label() int {
	return int(l)
}

// MarshalText encodes the level as its name.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText accepts the names produced by MarshalText.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, ok := ParseLevel(string(text))
	if !ok {
		return fmt.Errorf("unknown level %q", string(text))
	}
	*l = parsed
	return nil
}

// ParseLevel maps a level name (case-insensitive) to a Level.
func ParseLevel(name string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "low":
		return LevelLow, true
	case "medium":
		return LevelMedium, true
	case "high":
		return LevelHigh, true
	}
	return LevelLow, false
}
