package profile

import (
	"errors"
	"fmt"
	"strings"
)

// PlatformFamily is the coarse runtime platform a profile was captured on.
// It decides which classification rule applies.
type PlatformFamily int

const (
	// Other is any platform the classifier has no rule for.
	Other PlatformFamily = iota
	// AndroidLike platforms are scored against GPU vendor thresholds.
	AndroidLike
	// AppleLike platforms are classified from the device model identifier.
	AppleLike
)

// Platform name constants.
const (
	platformOther   = "other"
	platformAndroid = "android"
	platformApple   = "apple"
)

// ErrInvalidPlatform is returned when a platform name cannot be parsed.
var ErrInvalidPlatform = errors.New("invalid platform")

// String returns the canonical platform name.
func (p PlatformFamily) String() string {
	switch p {
	case AndroidLike:
		return platformAndroid
	case AppleLike:
		return platformApple
	default:
		return platformOther
	}
}

// ParsePlatform parses a platform name (case-insensitive).
// Accepted values:
//   - android: "android", "android-like", "androidlike"
//   - apple: "apple", "apple-like", "applelike", "ios", "ipados"
//   - other: "other", "" (empty)
func ParsePlatform(s string) (PlatformFamily, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case platformAndroid, "android-like", "androidlike":
		return AndroidLike, nil
	case platformApple, "apple-like", "applelike", "ios", "ipados":
		return AppleLike, nil
	case platformOther, "":
		return Other, nil
	default:
		return Other, fmt.Errorf("%w: %q", ErrInvalidPlatform, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p PlatformFamily) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *PlatformFamily) UnmarshalText(text []byte) error {
	parsed, err := ParsePlatform(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
