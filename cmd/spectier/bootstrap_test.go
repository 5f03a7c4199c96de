package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/jamesainslie/spectier/pkg/spectier/classifier"
	"github.com/jamesainslie/spectier/pkg/spectier/config"
	"github.com/jamesainslie/spectier/pkg/spectier/logging"
)

// useConfigFile points the CLI at a config file with the given content and
// restores the global viper state afterwards.
func useConfigFile(t *testing.T, content string) string {
	t.Helper()
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")

	path := filepath.Join(tempDir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	viper.Reset()
	cfgFile = path
	t.Cleanup(func() {
		_ = logging.Close()
		cfgFile = ""
		cfg = nil
		clf = nil
		viper.Reset()
		bindRootFlags()
	})
	return tempDir
}

func TestInitializeLogging(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "logs", "spectier.log")

	useConfigFile(t, `
classifier:
  tablet_rule: breakpoint
  known_vendors: [Qualcomm, Apple, ARM]
logging:
  level: debug
  path: `+logPath+`
  max_size: 1MB
`)

	if err := initializeLogging(nil, nil); err != nil {
		t.Fatalf("initializeLogging() returned error: %v", err)
	}

	if cfg == nil || clf == nil {
		t.Fatal("initializeLogging() should set the config and classifier")
	}

	policy := clf.Policy()
	if policy.Tablet != classifier.TabletBreakpoint {
		t.Errorf("Tablet = %v, want %v", policy.Tablet, classifier.TabletBreakpoint)
	}
	if !policy.Known(classifier.VendorARM) {
		t.Error("ARM should be known from the config file")
	}

	logging.Get("cli").Info("bootstrap test")
	if err := shutdownLogging(nil, nil); err != nil {
		t.Fatalf("shutdownLogging() error = %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("log file not created at %s: %v", logPath, err)
	}
	if len(data) == 0 {
		t.Error("log file is empty")
	}
}

func TestInitializeLogging_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "bad tablet rule",
			content: "classifier:\n  tablet_rule: sometimes\nlogging:\n  path: LOG\n",
		},
		{
			name:    "bad log level",
			content: "logging:\n  level: loud\n  path: LOG\n",
		},
		{
			name:    "bad max size",
			content: "logging:\n  max_size: huge\n  path: LOG\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logPath := filepath.Join(t.TempDir(), "spectier.log")
			useConfigFile(t, strings.ReplaceAll(tt.content, "LOG", logPath))

			if err := initializeLogging(nil, nil); err == nil {
				t.Error("initializeLogging() expected error")
			}
		})
	}
}

func TestLoggingConfig(t *testing.T) {
	c := &config.Config{
		Logging: config.LoggingConfig{
			Level:      "warn",
			Path:       "~/logs/spectier.log",
			MaxSize:    "2MB",
			Components: map[string]string{"batch": "error"},
		},
	}
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := loggingConfig(c, false)
	if err != nil {
		t.Fatalf("loggingConfig() error = %v", err)
	}
	if got.Path != filepath.Join(home, "logs", "spectier.log") {
		t.Errorf("Path = %q, want ~ expanded", got.Path)
	}
	if got.MaxSize != 2*1024*1024 {
		t.Errorf("MaxSize = %d, want %d", got.MaxSize, 2*1024*1024)
	}
	if got.Level != "warn" || got.ConsoleLevel != "" || got.Components["batch"] != "error" {
		t.Errorf("loggingConfig() = %+v, want config values unchanged", got)
	}

	verbose, err := loggingConfig(c, true)
	if err != nil {
		t.Fatalf("loggingConfig() error = %v", err)
	}
	if verbose.Level != "debug" || verbose.ConsoleLevel != "debug" || verbose.Components != nil {
		t.Errorf("verbose loggingConfig() = %+v, want debug everywhere", verbose)
	}

	c.Logging.Path = ""
	defaults, err := loggingConfig(c, false)
	if err != nil {
		t.Fatalf("loggingConfig() error = %v", err)
	}
	if defaults.Path != logging.DefaultLogPath() {
		t.Errorf("Path = %q, want %q", defaults.Path, logging.DefaultLogPath())
	}
}
