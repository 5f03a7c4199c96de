// Package tier defines the coarse device performance tiers produced by the
// spectier classifier. Tiers are ordered Low < Middle < High; Unknown is a
// sentinel that sits outside the ordering and means "could not classify".
package tier

import (
	"errors"
	"fmt"
	"strings"
)

// Tier is a device performance estimation.
type Tier uint8

// Tiers from least to most capable. Unknown is not part of the ordering.
const (
	Unknown Tier = iota
	Low
	Middle
	High
)

// Tier name constants.
const (
	nameUnknown = "unknown"
	nameLow     = "low"
	nameMiddle  = "middle"
	nameHigh    = "high"
)

// ErrInvalidTier is returned when a tier name cannot be parsed.
var ErrInvalidTier = errors.New("invalid tier")

// All returns every tier, Unknown first and then in ascending order.
func All() []Tier {
	return []Tier{Unknown, Low, Middle, High}
}

// String returns the lower-case name of the tier.
func (t Tier) String() string {
	switch t {
	case Low:
		return nameLow
	case Middle:
		return nameMiddle
	case High:
		return nameHigh
	default:
		return nameUnknown
	}
}

// Title returns the capitalized tier name used in human-facing output.
func (t Tier) Title() string {
	switch t {
	case Low:
		return "Low"
	case Middle:
		return "Middle"
	case High:
		return "High"
	default:
		return "Unknown"
	}
}

// Parse parses a tier name (case-insensitive). "mid" and "medium" are
// accepted as aliases for Middle.
func Parse(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case nameUnknown:
		return Unknown, nil
	case nameLow:
		return Low, nil
	case nameMiddle, "mid", "medium":
		return Middle, nil
	case nameHigh:
		return High, nil
	default:
		return Unknown, fmt.Errorf("%w: %q", ErrInvalidTier, s)
	}
}

// Known reports whether t is one of the ordered tiers.
func (t Tier) Known() bool {
	return t >= Low && t <= High
}

// Pred returns the next lower tier. The result never drops below Low, so
// Pred of Low is Low. Pred of Unknown is Unknown.
func (t Tier) Pred() Tier {
	if !t.Known() {
		return Unknown
	}
	if t == Low {
		return Low
	}
	return t - 1
}

// Succ returns the next higher tier, saturating at High.
// Succ of Unknown is Unknown.
func (t Tier) Succ() Tier {
	if !t.Known() {
		return Unknown
	}
	if t == High {
		return High
	}
	return t + 1
}

// Clamp limits t to the closed range [lo, hi]. Unknown is returned as-is.
func (t Tier) Clamp(lo, hi Tier) Tier {
	if !t.Known() {
		return t
	}
	if t < lo {
		return lo
	}
	if t > hi {
		return hi
	}
	return t
}

// Compare returns -1, 0 or +1 comparing t to other in tier order.
// Unknown sorts below every known tier.
func (t Tier) Compare(other Tier) int {
	switch {
	case t < other:
		return -1
	case t > other:
		return 1
	default:
		return 0
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tier) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
