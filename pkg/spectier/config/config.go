package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/jamesainslie/spectier/pkg/spectier/classifier"
	"github.com/jamesainslie/spectier/pkg/spectier/profile"
)

// ThresholdConfig overrides or adds one vendor threshold profile.
// Vendor names are matched exactly against the reported GPU vendor.
type ThresholdConfig struct {
	Vendor            string `mapstructure:"vendor" yaml:"vendor"`
	MinCores          int    `mapstructure:"min_cores" yaml:"min_cores"`
	MinFrequencyMHz   int    `mapstructure:"min_frequency_mhz" yaml:"min_frequency_mhz"`
	MinGPUMemoryMB    int    `mapstructure:"min_gpu_memory_mb" yaml:"min_gpu_memory_mb"`
	MinSystemMemoryMB int    `mapstructure:"min_system_memory_mb" yaml:"min_system_memory_mb"`
}

// ClassifierConfig configures the classification policy.
type ClassifierConfig struct {
	TabletRule    string            `mapstructure:"tablet_rule" yaml:"tablet_rule"`
	KnownVendors  []string          `mapstructure:"known_vendors" yaml:"known_vendors"`
	DefaultVendor string            `mapstructure:"default_vendor" yaml:"default_vendor"`
	Thresholds    []ThresholdConfig `mapstructure:"thresholds" yaml:"thresholds"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level" yaml:"level"`
	Path       string            `mapstructure:"path" yaml:"path"`
	MaxSize    string            `mapstructure:"max_size" yaml:"max_size"`
	Components map[string]string `mapstructure:"components" yaml:"components"`
}

// Config represents the application configuration.
type Config struct {
	Output     string           `mapstructure:"output" yaml:"output"`
	Classifier ClassifierConfig `mapstructure:"classifier" yaml:"classifier"`
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging"`
}

// SetDefaults registers every default value on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("output", DefaultOutput)

	v.SetDefault("classifier.tablet_rule", DefaultTabletRule)
	v.SetDefault("classifier.known_vendors", DefaultKnownVendors)
	v.SetDefault("classifier.default_vendor", classifier.VendorQualcomm)

	thresholds := make([]map[string]any, 0, 2)
	for _, t := range DefaultThresholds() {
		thresholds = append(thresholds, map[string]any{
			"vendor":               t.Vendor,
			"min_cores":            t.MinCores,
			"min_frequency_mhz":    t.MinFrequencyMHz,
			"min_gpu_memory_mb":    t.MinGPUMemoryMB,
			"min_system_memory_mb": t.MinSystemMemoryMB,
		})
	}
	v.SetDefault("classifier.thresholds", thresholds)

	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.path", "") // Empty means use DefaultLogPath
	v.SetDefault("logging.max_size", DefaultLogMaxSize)
	v.SetDefault("logging.components", map[string]string{
		"batch":      "info",
		"classifier": "info",
		"output":     "warn",
	})
}

// Load loads configuration from the default file locations and environment
// variables. Config file locations (in order of precedence):
//   - $XDG_CONFIG_HOME/spectier/config.yaml
//   - $HOME/.config/spectier/config.yaml
//
// Environment variables are prefixed with SPECTIER_ (e.g. SPECTIER_OUTPUT,
// SPECTIER_CLASSIFIER_TABLET_RULE).
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile loads configuration from path, or from the default locations
// when path is empty. A missing default config file is not an error; a
// missing explicit path is.
func LoadFile(path string) (*Config, error) {
	return LoadWith(viper.New(), path)
}

// LoadWith loads configuration into v, which may already carry bound
// command-line flags, and returns the merged result.
func LoadWith(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			v.AddConfigPath(filepath.Join(xdgConfigHome, AppName))
		}

		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		v.AddConfigPath(filepath.Join(homeDir, ".config", AppName))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is acceptable; we use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Policy builds the classification policy described by the configuration,
// starting from classifier.DefaultPolicy.
func (c *Config) Policy() (classifier.Policy, error) {
	policy := classifier.DefaultPolicy()

	rule, err := classifier.ParseTabletRule(c.Classifier.TabletRule)
	if err != nil {
		return classifier.Policy{}, err
	}
	policy.Tablet = rule

	if len(c.Classifier.KnownVendors) > 0 {
		policy.KnownVendors = append([]string(nil), c.Classifier.KnownVendors...)
	}
	if c.Classifier.DefaultVendor != "" {
		policy.DefaultVendor = c.Classifier.DefaultVendor
	}

	for _, t := range c.Classifier.Thresholds {
		if t.Vendor == "" {
			return classifier.Policy{}, errors.New("threshold entry is missing a vendor")
		}
		policy.Thresholds[t.Vendor] = classifier.Thresholds{
			MinCores:          t.MinCores,
			MinFrequencyMHz:   t.MinFrequencyMHz,
			MinGPUMemoryMB:    t.MinGPUMemoryMB,
			MinSystemMemoryMB: t.MinSystemMemoryMB,
		}
	}

	if err := policy.Validate(); err != nil {
		return classifier.Policy{}, err
	}
	return policy, nil
}

// ConfigDir returns the configuration directory path, expanding ~ to the user's home directory.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, AppName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", AppName), nil
}

// ConfigPath returns the path of the default config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return nil
}

// WriteDefault writes a default config file if none exists.
// It reports whether a new file was written.
func WriteDefault() (bool, error) {
	if err := EnsureConfigDir(); err != nil {
		return false, err
	}

	configPath, err := ConfigPath()
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(configPath); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to check config file: %w", err)
	}

	var sb strings.Builder
	for _, t := range DefaultThresholds() {
		fmt.Fprintf(&sb, "    - vendor: %s\n", t.Vendor)
		fmt.Fprintf(&sb, "      min_cores: %d\n", t.MinCores)
		fmt.Fprintf(&sb, "      min_frequency_mhz: %d\n", t.MinFrequencyMHz)
		fmt.Fprintf(&sb, "      min_gpu_memory_mb: %d\n", t.MinGPUMemoryMB)
		fmt.Fprintf(&sb, "      min_system_memory_mb: %d\n", t.MinSystemMemoryMB)
	}

	defaultConfig := fmt.Sprintf(`# spectier configuration

# Output format: pretty, plain, json, jsonl, yaml, cbor, tsv, csv, markdown, template
output: %s

classifier:
  # Tablet rule: always-low (shipped behavior) or breakpoint (Low < 7 = Middle < High)
  tablet_rule: %s
  # GPU vendors scored on android-like platforms; others classify as unknown
  known_vendors: [%s]
  # Threshold profile used by known vendors without their own entry
  default_vendor: %s
  thresholds:
%s
# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: %s
  # Log file path (empty means use default: $XDG_STATE_HOME/spectier/spectier.log)
  path: ""
  # Size at which the log file is rolled over to a single .1 backup
  max_size: %s
  # Per-component log levels
  components:
    batch: info
    classifier: info
    output: warn
`, DefaultOutput, DefaultTabletRule, strings.Join(DefaultKnownVendors, ", "),
		classifier.VendorQualcomm, sb.String(), DefaultLogLevel, DefaultLogMaxSize)

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return false, fmt.Errorf("failed to write default config: %w", err)
	}

	return true, nil
}

// LogMaxSizeBytes returns the configured log rollover size in bytes.
// Empty uses DefaultLogMaxSize.
func (c *Config) LogMaxSizeBytes() (int64, error) {
	s := c.Logging.MaxSize
	if s == "" {
		s = DefaultLogMaxSize
	}
	mb, err := profile.ParseMegabytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid logging.max_size %q: %w", s, err)
	}
	return int64(mb) * 1024 * 1024, nil
}

// ExpandPath expands ~ in a path to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, path[1:]), nil
}

// StateDir returns $XDG_STATE_HOME/spectier/ for log files.
func StateDir() string {
	return filepath.Join(xdg.StateHome, AppName)
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(StateDir(), AppName+".log")
}
