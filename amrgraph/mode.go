package amrgraph

import "fmt"

// Mode selects a converter.
type Mode string

const (
	// ModeHeuristic selects Convert.
	ModeHeuristic Mode = "heuristic"
	// ModeNested selects ConvertNested.
	ModeNested Mode = "nested"
)

// Modes lists the supported modes.
var Modes = []Mode{ModeHeuristic, ModeNested}

// ParseMode parses a mode name. The empty string means ModeHeuristic.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeHeuristic:
		return ModeHeuristic, nil
	case ModeNested:
		return ModeNested, nil
	default:
		return "", fmt.Errorf("unknown conversion mode %q (want %q or %q)", s, ModeHeuristic, ModeNested)
	}
}

// Convert runs the converter selected by m. Unknown modes fall back to Convert.
func (m Mode) Convert(text string) *Graph {
	if m == ModeNested {
		return ConvertNested(text)
	}
	return Convert(text)
}

func (m Mode) String() string { return string(m) }
