// Package profile provides the DeviceProfile snapshot consumed by the
// spectier classifier, along with helpers to build profiles from flags and
// decode them from YAML, JSON and JSONC files.
//
// A DeviceProfile is supplied by the caller. Nothing in this package queries
// the host hardware.
package profile

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/zeebo/blake3"
)

// ErrNegativeValue is returned by Validate when a hardware counter is negative.
var ErrNegativeValue = errors.New("value cannot be negative")

// DeviceProfile is an immutable snapshot of the values the classifier uses.
type DeviceProfile struct {
	// Platform selects the classification rule.
	Platform PlatformFamily `json:"platform" yaml:"platform"`

	// GPUVendor is the graphics vendor string reported by the device
	// (e.g. "Qualcomm", "ARM"). Matched exactly.
	GPUVendor string `json:"gpu_vendor,omitempty" yaml:"gpu_vendor,omitempty"`

	// Model is the device model identifier (e.g. "iPhone13,2").
	Model string `json:"model,omitempty" yaml:"model,omitempty"`

	// CPUCores is the number of logical processors.
	CPUCores int `json:"cpu_cores" yaml:"cpu_cores"`

	// CPUFrequencyMHz is the processor frequency in MHz.
	CPUFrequencyMHz int `json:"cpu_frequency_mhz" yaml:"cpu_frequency_mhz"`

	// GPUMemoryMB is the graphics memory size in megabytes.
	GPUMemoryMB int `json:"gpu_memory_mb" yaml:"gpu_memory_mb"`

	// SystemMemoryMB is the system memory size in megabytes.
	SystemMemoryMB int `json:"system_memory_mb" yaml:"system_memory_mb"`
}

// Validate checks that every hardware counter is non-negative.
func (p DeviceProfile) Validate() error {
	fields := []struct {
		name  string
		value int
	}{
		{"cpu_cores", p.CPUCores},
		{"cpu_frequency_mhz", p.CPUFrequencyMHz},
		{"gpu_memory_mb", p.GPUMemoryMB},
		{"system_memory_mb", p.SystemMemoryMB},
	}

	for _, f := range fields {
		if f.value < 0 {
			return fmt.Errorf("%s: %w (got %d)", f.name, ErrNegativeValue, f.value)
		}
	}
	return nil
}

// canonical returns the stable textual form hashed by Fingerprint.
func (p DeviceProfile) canonical() string {
	return strings.Join([]string{
		p.Platform.String(),
		p.GPUVendor,
		p.Model,
		strconv.Itoa(p.CPUCores),
		strconv.Itoa(p.CPUFrequencyMHz),
		strconv.Itoa(p.GPUMemoryMB),
		strconv.Itoa(p.SystemMemoryMB),
	}, "\x00")
}

// Fingerprint returns the hex-encoded BLAKE3 digest of the profile.
// Two profiles have the same fingerprint exactly when every field is equal,
// so equal fingerprints always classify to the same tier.
func (p DeviceProfile) Fingerprint() string {
	sum := blake3.Sum256([]byte(p.canonical()))
	return hex.EncodeToString(sum[:])
}

// ShortFingerprint returns the first 12 hex characters of Fingerprint.
func (p DeviceProfile) ShortFingerprint() string {
	return p.Fingerprint()[:12]
}
