package filter

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/gobwas/glob"

	"github.com/jamesainslie/spectier/pkg/spectier/output"
	"github.com/jamesainslie/spectier/pkg/spectier/profile"
	"github.com/jamesainslie/spectier/pkg/spectier/tier"
)

// Filter defines criteria for filtering, sorting, and limiting entries.
type Filter struct {
	// Tiers restricts entries to these tiers. Empty means any tier.
	Tiers []tier.Tier

	// MinTier excludes entries ranked below it. Unknown disables the check.
	MinTier tier.Tier

	// Platforms restricts entries to these platform families.
	Platforms []profile.PlatformFamily

	// Include contains glob patterns matched against source path and name.
	// If non-empty, entries must match at least one.
	Include []string

	// Exclude contains glob patterns. Matching entries are excluded.
	Exclude []string

	// SkipDuplicates drops entries whose profile repeats an earlier one.
	SkipDuplicates bool

	// SortBy specifies the field to sort results by.
	SortBy SortField

	// SortDescending specifies whether to sort in descending order.
	SortDescending bool

	// Limit is the maximum number of entries to return. 0 means unlimited.
	Limit int
}

// Option is a functional option for configuring a Filter.
type Option func(*Filter)

// New creates a new Filter with the given options.
// Default values:
//   - Limit: 0 (unlimited)
//   - SortBy: SortTier
//   - SortDescending: true
func New(opts ...Option) *Filter {
	f := &Filter{
		SortBy:         SortTier,
		SortDescending: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// WithLimit sets the maximum number of entries to return.
// If limit < 0, it is set to 0 (unlimited).
func WithLimit(limit int) Option {
	return func(f *Filter) {
		if limit < 0 {
			limit = 0
		}
		f.Limit = limit
	}
}

// WithTiers restricts results to the given tiers.
func WithTiers(tiers ...tier.Tier) Option {
	return func(f *Filter) {
		f.Tiers = tiers
	}
}

// WithMinTier excludes entries ranked below t.
func WithMinTier(t tier.Tier) Option {
	return func(f *Filter) {
		f.MinTier = t
	}
}

// WithPlatforms restricts results to the given platform families.
func WithPlatforms(platforms ...profile.PlatformFamily) Option {
	return func(f *Filter) {
		f.Platforms = platforms
	}
}

// WithInclude sets the include glob patterns.
func WithInclude(patterns ...string) Option {
	return func(f *Filter) {
		f.Include = patterns
	}
}

// WithExclude sets the exclude glob patterns.
func WithExclude(patterns ...string) Option {
	return func(f *Filter) {
		f.Exclude = patterns
	}
}

// WithSkipDuplicates drops entries marked as duplicates.
func WithSkipDuplicates(skip bool) Option {
	return func(f *Filter) {
		f.SkipDuplicates = skip
	}
}

// WithSortBy sets the field to sort results by.
func WithSortBy(field SortField) Option {
	return func(f *Filter) {
		f.SortBy = field
	}
}

// WithSortDescending sets whether to sort in descending order.
func WithSortDescending(desc bool) Option {
	return func(f *Filter) {
		f.SortDescending = desc
	}
}

// Validate reports the first include or exclude pattern that does not compile.
func (f *Filter) Validate() error {
	for _, patterns := range [][]string{f.Include, f.Exclude} {
		for _, pattern := range patterns {
			if _, err := glob.Compile(pattern, '/'); err != nil {
				return fmt.Errorf("invalid pattern %q: %w", pattern, err)
			}
		}
	}
	return nil
}

// Match returns true if the entry matches all filter criteria.
func (f *Filter) Match(e output.Entry) bool {
	if f.SkipDuplicates && e.DuplicateOf != "" {
		return false
	}
	if len(f.Tiers) > 0 && !slices.Contains(f.Tiers, e.Decision.Tier) {
		return false
	}
	if f.MinTier != tier.Unknown && e.Decision.Tier.Compare(f.MinTier) < 0 {
		return false
	}
	if len(f.Platforms) > 0 && !slices.Contains(f.Platforms, e.Profile.Platform) {
		return false
	}
	return f.matchPatterns(e)
}

// matchPatterns checks the entry's source path and name against the
// include and exclude patterns.
func (f *Filter) matchPatterns(e output.Entry) bool {
	if f.matchesAnyPattern(e, f.Exclude) {
		return false
	}
	if len(f.Include) > 0 && !f.matchesAnyPattern(e, f.Include) {
		return false
	}
	return true
}

func (f *Filter) matchesAnyPattern(e output.Entry, patterns []string) bool {
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			continue // Skip invalid patterns
		}
		if g.Match(e.Source) || g.Match(e.Name) {
			return true
		}
	}
	return false
}

// Sort returns a sorted copy of entries. Ties are broken by name, then
// source, both ascending. The original slice is not modified.
func (f *Filter) Sort(entries []output.Entry) []output.Entry {
	if len(entries) == 0 {
		return []output.Entry{}
	}

	sorted := make([]output.Entry, len(entries))
	copy(sorted, entries)

	slices.SortStableFunc(sorted, func(a, b output.Entry) int {
		var result int
		switch f.SortBy {
		case SortName:
			result = cmp.Compare(a.Name, b.Name)
		case SortSource:
			result = cmp.Compare(a.Source, b.Source)
		case SortPlatform:
			result = cmp.Compare(a.Profile.Platform.String(), b.Profile.Platform.String())
		default:
			result = a.Decision.Tier.Compare(b.Decision.Tier)
		}

		if f.SortDescending {
			result = -result
		}
		if result != 0 {
			return result
		}
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.Source, b.Source)
	})

	return sorted
}

// Apply runs the complete pipeline: Match, Sort, and Limit.
func (f *Filter) Apply(entries []output.Entry) []output.Entry {
	var matched []output.Entry
	for _, e := range entries {
		if f.Match(e) {
			matched = append(matched, e)
		}
	}

	sorted := f.Sort(matched)

	if f.Limit > 0 && len(sorted) > f.Limit {
		return sorted[:f.Limit]
	}

	return sorted
}
