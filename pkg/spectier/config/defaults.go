// Package config provides configuration management for spectier.
package config

import "github.com/jamesainslie/spectier/pkg/spectier/classifier"

// Default configuration values for spectier.
const (
	// AppName names the config, state and log directories.
	AppName = "spectier"

	// EnvPrefix prefixes environment variable overrides (SPECTIER_OUTPUT).
	EnvPrefix = "SPECTIER"

	// DefaultOutput is the default output format.
	DefaultOutput = "pretty"

	// DefaultTabletRule is the default tablet classification rule.
	DefaultTabletRule = "always-low"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultLogMaxSize is the default log rollover size.
	DefaultLogMaxSize = "5MB"

	// DefaultConfigDir is the default configuration directory path.
	DefaultConfigDir = "~/.config/spectier"
)

// DefaultKnownVendors is the default recognized GPU vendor set.
var DefaultKnownVendors = []string{classifier.VendorQualcomm, classifier.VendorApple}

// DefaultThresholds returns the built-in vendor threshold entries.
func DefaultThresholds() []ThresholdConfig {
	return []ThresholdConfig{
		fromThresholds(classifier.VendorQualcomm, classifier.QualcommThresholds),
		fromThresholds(classifier.VendorARM, classifier.ARMThresholds),
	}
}

func fromThresholds(vendor string, t classifier.Thresholds) ThresholdConfig {
	return ThresholdConfig{
		Vendor:            vendor,
		MinCores:          t.MinCores,
		MinFrequencyMHz:   t.MinFrequencyMHz,
		MinGPUMemoryMB:    t.MinGPUMemoryMB,
		MinSystemMemoryMB: t.MinSystemMemoryMB,
	}
}
