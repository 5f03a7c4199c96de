package classifier

import (
	"github.com/jamesainslie/spectier/pkg/spectier/profile"
	"github.com/jamesainslie/spectier/pkg/spectier/tier"
)

// Names of the checked profile fields, in check order.
const (
	FieldCPUCores     = "cpu_cores"
	FieldCPUFrequency = "cpu_frequency_mhz"
	FieldGPUMemory    = "gpu_memory_mb"
	FieldSystemMemory = "system_memory_mb"
)

// Deduction records a failed minimum check.
type Deduction struct {
	Field   string `json:"field" yaml:"field"`
	Value   int    `json:"value" yaml:"value"`
	Minimum int    `json:"minimum" yaml:"minimum"`
}

// checks returns the (field, value, minimum) triples in fixed check order.
func checks(p profile.DeviceProfile, t Thresholds) [4]Deduction {
	return [4]Deduction{
		{Field: FieldCPUCores, Value: p.CPUCores, Minimum: t.MinCores},
		{Field: FieldCPUFrequency, Value: p.CPUFrequencyMHz, Minimum: t.MinFrequencyMHz},
		{Field: FieldGPUMemory, Value: p.GPUMemoryMB, Minimum: t.MinGPUMemoryMB},
		{Field: FieldSystemMemory, Value: p.SystemMemoryMB, Minimum: t.MinSystemMemoryMB},
	}
}

// Score starts at High and drops one tier for every value strictly below
// its minimum. All four checks always run. The result is clamped at Low.
func Score(p profile.DeviceProfile, t Thresholds) (tier.Tier, []Deduction) {
	estimation := tier.High
	var deductions []Deduction

	for _, c := range checks(p, t) {
		if c.Value < c.Minimum {
			estimation = estimation.Pred()
			deductions = append(deductions, c)
		}
	}

	return estimation.Clamp(tier.Low, tier.High), deductions
}
