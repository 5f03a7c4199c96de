package classifier

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Vendor names with built-in threshold profiles.
const (
	VendorQualcomm = "Qualcomm"
	VendorARM      = "ARM"
	VendorApple    = "Apple"
)

// Thresholds is the set of minimums a device must meet to avoid losing a
// tier. Each value below its minimum costs one tier.
type Thresholds struct {
	// MinCores is the minimum logical processor count.
	MinCores int `json:"min_cores" yaml:"min_cores" mapstructure:"min_cores"`

	// MinFrequencyMHz is the minimum processor frequency.
	MinFrequencyMHz int `json:"min_frequency_mhz" yaml:"min_frequency_mhz" mapstructure:"min_frequency_mhz"`

	// MinGPUMemoryMB is the minimum graphics memory.
	MinGPUMemoryMB int `json:"min_gpu_memory_mb" yaml:"min_gpu_memory_mb" mapstructure:"min_gpu_memory_mb"`

	// MinSystemMemoryMB is the minimum system memory.
	MinSystemMemoryMB int `json:"min_system_memory_mb" yaml:"min_system_memory_mb" mapstructure:"min_system_memory_mb"`
}

// Built-in vendor threshold profiles.
var (
	// QualcommThresholds also serves every recognized vendor without a
	// profile of its own.
	QualcommThresholds = Thresholds{
		MinCores:          8,
		MinFrequencyMHz:   2150,
		MinGPUMemoryMB:    1024,
		MinSystemMemoryMB: 3680,
	}

	ARMThresholds = Thresholds{
		MinCores:          8,
		MinFrequencyMHz:   2320,
		MinGPUMemoryMB:    1024,
		MinSystemMemoryMB: 3610,
	}
)

// TabletRule selects how tablet model identifiers map to tiers.
type TabletRule int

const (
	// TabletAlwaysLow classifies every parseable tablet identifier as Low.
	// This is what shipped builds of the estimator have always returned.
	TabletAlwaysLow TabletRule = iota

	// TabletBreakpoint applies the documented breakpoint at identifier 7:
	// below is Low, equal is Middle, above is High.
	TabletBreakpoint
)

// Tablet rule names.
const (
	tabletRuleAlwaysLow  = "always-low"
	tabletRuleBreakpoint = "breakpoint"
)

// ErrInvalidTabletRule is returned when a tablet rule name cannot be parsed.
var ErrInvalidTabletRule = errors.New("invalid tablet rule")

// String returns the tablet rule name.
func (r TabletRule) String() string {
	if r == TabletBreakpoint {
		return tabletRuleBreakpoint
	}
	return tabletRuleAlwaysLow
}

// ParseTabletRule parses "always-low" or "breakpoint". Empty selects
// TabletAlwaysLow.
func ParseTabletRule(s string) (TabletRule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case tabletRuleAlwaysLow, "":
		return TabletAlwaysLow, nil
	case tabletRuleBreakpoint:
		return TabletBreakpoint, nil
	default:
		return TabletAlwaysLow, fmt.Errorf("%w: %q", ErrInvalidTabletRule, s)
	}
}

// Policy holds the static data the classifier decides with. A Policy is
// built once and must not be modified after it is handed to New.
type Policy struct {
	// KnownVendors lists the GPU vendor names scored on Android-like
	// platforms. Any other vendor classifies as Unknown.
	KnownVendors []string

	// Thresholds maps vendor name to its threshold profile.
	Thresholds map[string]Thresholds

	// DefaultVendor names the profile used by known vendors that have no
	// entry in Thresholds.
	DefaultVendor string

	// Tablet selects the tablet model rule.
	Tablet TabletRule
}

// DefaultPolicy returns the built-in policy.
//
// The recognized vendor set is {"Qualcomm", "Apple"}. "ARM" has a threshold
// profile but is not in the recognized set, so ARM devices classify as
// Unknown under the default policy; the set is kept exactly as the
// estimator has always shipped it.
func DefaultPolicy() Policy {
	return Policy{
		KnownVendors: []string{VendorQualcomm, VendorApple},
		Thresholds: map[string]Thresholds{
			VendorQualcomm: QualcommThresholds,
			VendorARM:      ARMThresholds,
		},
		DefaultVendor: VendorQualcomm,
		Tablet:        TabletAlwaysLow,
	}
}

// Known reports whether vendor is in the recognized set. Matching is exact.
func (p Policy) Known(vendor string) bool {
	return slices.Contains(p.KnownVendors, vendor)
}

// ThresholdsFor returns the threshold profile for vendor and the name of
// the profile that was chosen.
func (p Policy) ThresholdsFor(vendor string) (Thresholds, string) {
	if t, ok := p.Thresholds[vendor]; ok {
		return t, vendor
	}
	return p.Thresholds[p.DefaultVendor], p.DefaultVendor
}

// Validate checks that the policy is internally consistent.
func (p Policy) Validate() error {
	if _, ok := p.Thresholds[p.DefaultVendor]; !ok {
		return fmt.Errorf("default vendor %q has no thresholds", p.DefaultVendor)
	}
	for vendor, t := range p.Thresholds {
		if t.MinCores < 0 || t.MinFrequencyMHz < 0 || t.MinGPUMemoryMB < 0 || t.MinSystemMemoryMB < 0 {
			return fmt.Errorf("thresholds for %q must be non-negative", vendor)
		}
	}
	return nil
}

// clone returns a deep copy so the caller's maps and slices can't alias the
// classifier's.
func (p Policy) clone() Policy {
	out := p
	out.KnownVendors = slices.Clone(p.KnownVendors)
	out.Thresholds = make(map[string]Thresholds, len(p.Thresholds))
	for k, v := range p.Thresholds {
		out.Thresholds[k] = v
	}
	return out
}
