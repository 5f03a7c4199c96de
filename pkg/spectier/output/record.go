package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/jamesainslie/spectier/pkg/spectier/classifier"
)

// document is the structured (json, yaml, cbor) form of a Result.
type document struct {
	Entries []record `json:"entries" yaml:"entries"`
	Summary Summary  `json:"summary" yaml:"summary"`
	Meta    meta     `json:"meta" yaml:"meta"`
}

// record is one flattened entry in structured output.
type record struct {
	Name             string                 `json:"name" yaml:"name"`
	Source           string                 `json:"source" yaml:"source"`
	Platform         string                 `json:"platform" yaml:"platform"`
	GPUVendor        string                 `json:"gpu_vendor,omitempty" yaml:"gpu_vendor,omitempty"`
	Model            string                 `json:"model,omitempty" yaml:"model,omitempty"`
	CPUCores         int                    `json:"cpu_cores" yaml:"cpu_cores"`
	CPUFrequencyMHz  int                    `json:"cpu_frequency_mhz" yaml:"cpu_frequency_mhz"`
	GPUMemoryMB      int                    `json:"gpu_memory_mb" yaml:"gpu_memory_mb"`
	SystemMemoryMB   int                    `json:"system_memory_mb" yaml:"system_memory_mb"`
	Fingerprint      string                 `json:"fingerprint" yaml:"fingerprint"`
	DuplicateOf      string                 `json:"duplicate_of,omitempty" yaml:"duplicate_of,omitempty"`
	Tier             string                 `json:"tier" yaml:"tier"`
	Route            string                 `json:"route" yaml:"route"`
	ThresholdProfile string                 `json:"threshold_profile,omitempty" yaml:"threshold_profile,omitempty"`
	ModelID          *int                   `json:"model_id,omitempty" yaml:"model_id,omitempty"`
	Deductions       []classifier.Deduction `json:"deductions,omitempty" yaml:"deductions,omitempty"`
}

// meta holds run metadata in structured output.
type meta struct {
	ID       string   `json:"id" yaml:"id"`
	Source   string   `json:"source" yaml:"source"`
	Duration string   `json:"duration,omitempty" yaml:"duration,omitempty"`
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

func toRecord(e Entry) record {
	rec := record{
		Name:             e.Name,
		Source:           e.Source,
		Platform:         e.Profile.Platform.String(),
		GPUVendor:        e.Profile.GPUVendor,
		Model:            e.Profile.Model,
		CPUCores:         e.Profile.CPUCores,
		CPUFrequencyMHz:  e.Profile.CPUFrequencyMHz,
		GPUMemoryMB:      e.Profile.GPUMemoryMB,
		SystemMemoryMB:   e.Profile.SystemMemoryMB,
		Fingerprint:      e.Fingerprint,
		DuplicateOf:      e.DuplicateOf,
		Tier:             e.Decision.Tier.String(),
		Route:            string(e.Decision.Route),
		ThresholdProfile: e.Decision.ThresholdProfile,
		Deductions:       e.Decision.Deductions,
	}
	if e.Decision.ModelParsed {
		id := e.Decision.ModelID
		rec.ModelID = &id
	}
	return rec
}

func buildDocument(r *Result) document {
	records := make([]record, len(r.Entries))
	for i, e := range r.Entries {
		records[i] = toRecord(e)
	}

	return document{
		Entries: records,
		Summary: r.Summary,
		Meta: meta{
			ID:       r.ID,
			Source:   r.Source,
			Duration: formatDurationString(r.Duration),
			Warnings: r.Warnings,
		},
	}
}

// formatDurationString formats a duration for structured output.
func formatDurationString(d time.Duration) string {
	if d == 0 {
		return ""
	}
	return d.String()
}

// describe returns the vendor for android-like profiles and the model
// otherwise.
func describe(e Entry) string {
	if e.Profile.Model != "" && e.Profile.GPUVendor == "" {
		return e.Profile.Model
	}
	if e.Profile.Model != "" {
		return e.Profile.GPUVendor + " / " + e.Profile.Model
	}
	return e.Profile.GPUVendor
}

// deductionString renders deductions as "field value<minimum" pairs.
func deductionString(ds []classifier.Deduction) string {
	if len(ds) == 0 {
		return ""
	}
	parts := make([]string, len(ds))
	for i, d := range ds {
		parts[i] = fmt.Sprintf("%s %d<%d", d.Field, d.Value, d.Minimum)
	}
	return strings.Join(parts, ", ")
}
