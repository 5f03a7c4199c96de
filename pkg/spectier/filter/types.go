// Package filter provides filtering, sorting, and limiting for classified
// entries. It supports filtering by tier, platform and source patterns, with
// configurable sorting and limits.
package filter

import (
	"errors"
	"fmt"
	"strings"
)

// SortField specifies the field to sort entries by.
type SortField int

const (
	// SortTier sorts entries by tier, with Unknown below Low.
	SortTier SortField = iota
	// SortName sorts entries by name alphabetically.
	SortName
	// SortSource sorts entries by source path alphabetically.
	SortSource
	// SortPlatform sorts entries by platform family name.
	SortPlatform
)

// Sort field string constants.
const (
	sortFieldTier     = "tier"
	sortFieldName     = "name"
	sortFieldSource   = "source"
	sortFieldPlatform = "platform"
)

// String returns the string representation of the sort field.
func (s SortField) String() string {
	switch s {
	case SortName:
		return sortFieldName
	case SortSource:
		return sortFieldSource
	case SortPlatform:
		return sortFieldPlatform
	default:
		return sortFieldTier
	}
}

// ErrInvalidSortField indicates that the sort field string could not be parsed.
var ErrInvalidSortField = errors.New("invalid sort field")

// ParseSortField parses a string into a SortField.
// Valid values are "tier", "name", "source" and "platform" (case-insensitive).
func ParseSortField(s string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case sortFieldTier:
		return SortTier, nil
	case sortFieldName:
		return SortName, nil
	case sortFieldSource, "path":
		return SortSource, nil
	case sortFieldPlatform:
		return SortPlatform, nil
	default:
		return SortTier, fmt.Errorf("%w: %q", ErrInvalidSortField, s)
	}
}

// SortFields returns the accepted sort field names.
func SortFields() []string {
	return []string{sortFieldTier, sortFieldName, sortFieldSource, sortFieldPlatform}
}
