package main

import (
	"fmt"
	"strings"

	"github.com/jamesainslie/spectier/pkg/spectier/filter"
	"github.com/jamesainslie/spectier/pkg/spectier/output"
	"github.com/jamesainslie/spectier/pkg/spectier/profile"
	"github.com/jamesainslie/spectier/pkg/spectier/tier"
)

// estimateFlags holds the flags of the estimate command.
type estimateFlags struct {
	name     string
	platform string
	vendor   string
	model    string
	cores    int
	freq     int
	gpuMem   string
	sysMem   string
	profile  string
	explain  bool
}

// batchFlags holds the flags of the batch command.
type batchFlags struct {
	tiers     string
	minTier   string
	platforms string
	include   []string
	exclude   []string
	sortBy    string
	reverse   bool
	limit     int
	unique    bool
	follow    bool
	explain   bool
}

// profileFromFlags builds and validates a device profile from the estimate
// flags. Memory flags accept plain megabytes or sizes like "4G".
func profileFromFlags(f estimateFlags) (profile.DeviceProfile, error) {
	platform, err := profile.ParsePlatform(f.platform)
	if err != nil {
		return profile.DeviceProfile{}, err
	}

	p := profile.DeviceProfile{
		Platform:        platform,
		GPUVendor:       strings.TrimSpace(f.vendor),
		Model:           strings.TrimSpace(f.model),
		CPUCores:        f.cores,
		CPUFrequencyMHz: f.freq,
	}

	if f.gpuMem != "" {
		if p.GPUMemoryMB, err = profile.ParseMegabytes(f.gpuMem); err != nil {
			return profile.DeviceProfile{}, fmt.Errorf("invalid gpu-mem %q: %w", f.gpuMem, err)
		}
	}
	if f.sysMem != "" {
		if p.SystemMemoryMB, err = profile.ParseMegabytes(f.sysMem); err != nil {
			return profile.DeviceProfile{}, fmt.Errorf("invalid sys-mem %q: %w", f.sysMem, err)
		}
	}

	if err := p.Validate(); err != nil {
		return profile.DeviceProfile{}, err
	}
	return p, nil
}

// buildFilter creates a filter.Filter from the batch flags.
func buildFilter(f batchFlags) (*filter.Filter, error) {
	opts := []filter.Option{filter.WithLimit(f.limit)}

	if f.tiers != "" {
		tiers, err := parseTiers(f.tiers)
		if err != nil {
			return nil, err
		}
		opts = append(opts, filter.WithTiers(tiers...))
	}

	if f.minTier != "" {
		t, err := tier.Parse(f.minTier)
		if err != nil {
			return nil, fmt.Errorf("invalid min-tier %q: %w", f.minTier, err)
		}
		opts = append(opts, filter.WithMinTier(t))
	}

	if f.platforms != "" {
		var platforms []profile.PlatformFamily
		for _, name := range parseCommaSeparated(f.platforms) {
			p, err := profile.ParsePlatform(name)
			if err != nil {
				return nil, err
			}
			platforms = append(platforms, p)
		}
		opts = append(opts, filter.WithPlatforms(platforms...))
	}

	if len(f.include) > 0 {
		opts = append(opts, filter.WithInclude(f.include...))
	}
	if len(f.exclude) > 0 {
		opts = append(opts, filter.WithExclude(f.exclude...))
	}
	opts = append(opts, filter.WithSkipDuplicates(f.unique))

	sortByStr := f.sortBy
	if sortByStr == "" {
		sortByStr = filter.SortTier.String()
	}
	sortField, err := filter.ParseSortField(sortByStr)
	if err != nil {
		return nil, err
	}
	opts = append(opts, filter.WithSortBy(sortField))

	// Tier sorts highest first; the text fields sort A-Z. --reverse flips
	// the natural order.
	descending := !f.reverse
	if sortField != filter.SortTier {
		descending = f.reverse
	}
	opts = append(opts, filter.WithSortDescending(descending))

	flt := filter.New(opts...)
	if err := flt.Validate(); err != nil {
		return nil, err
	}
	return flt, nil
}

// parseTiers parses a comma-separated list of tier names.
func parseTiers(s string) ([]tier.Tier, error) {
	var tiers []tier.Tier
	for _, name := range parseCommaSeparated(s) {
		t, err := tier.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("invalid tier %q: %w", name, err)
		}
		tiers = append(tiers, t)
	}
	return tiers, nil
}

// selectFormatter returns the formatter for format. The template format
// requires a template string.
func selectFormatter(format, tmpl string) (output.Formatter, error) {
	if format == "" {
		format = "pretty"
	}

	if format == "template" {
		if tmpl == "" {
			return nil, fmt.Errorf("--template is required when using -o template")
		}
		return output.NewTemplateFormatter(tmpl), nil
	}

	formatter, err := output.Get(format)
	if err != nil {
		return nil, fmt.Errorf("unknown output format %q: available formats are %v", format, output.Available())
	}
	return formatter, nil
}

// parseCommaSeparated splits a comma-separated string and trims whitespace.
func parseCommaSeparated(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
