package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/spectier/pkg/spectier/classifier"
	"github.com/jamesainslie/spectier/pkg/spectier/config"
	"github.com/jamesainslie/spectier/pkg/spectier/logging"
)

var (
	// cfg is the configuration loaded for the running command.
	cfg *config.Config

	// clf classifies profiles with the configured policy.
	clf *classifier.Classifier

	cliLogger = logging.Get("cli")
)

// initializeLogging loads the configuration, starts file logging and builds
// the classifier. It runs before every command.
func initializeLogging(_ *cobra.Command, _ []string) error {
	loaded, err := config.LoadWith(viper.GetViper(), cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded

	logCfg, err := loggingConfig(cfg, getVerbose())
	if err != nil {
		return err
	}
	if err := logging.Init(logCfg); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	policy, err := cfg.Policy()
	if err != nil {
		return fmt.Errorf("invalid classifier configuration: %w", err)
	}
	clf, err = classifier.New(policy)
	if err != nil {
		return fmt.Errorf("invalid classifier configuration: %w", err)
	}

	cliLogger.Debug("configuration loaded",
		"file", viper.ConfigFileUsed(),
		"tablet_rule", policy.Tablet,
		"known_vendors", policy.KnownVendors)
	printVerbose("Log file: %s", logCfg.Path)

	return nil
}

// shutdownLogging flushes and closes the log file.
func shutdownLogging(_ *cobra.Command, _ []string) error {
	return logging.Close()
}

// loggingConfig converts the logging section of c. Verbose mode logs
// everything at debug level and mirrors it to stderr.
func loggingConfig(c *config.Config, verbose bool) (logging.Config, error) {
	maxSize, err := c.LogMaxSizeBytes()
	if err != nil {
		return logging.Config{}, err
	}

	path := c.Logging.Path
	if path == "" {
		path = logging.DefaultLogPath()
	} else if path, err = config.ExpandPath(path); err != nil {
		return logging.Config{}, fmt.Errorf("invalid logging.path: %w", err)
	}

	logCfg := logging.Config{
		Level:      c.Logging.Level,
		Path:       path,
		MaxSize:    maxSize,
		Components: c.Logging.Components,
	}
	if verbose {
		logCfg.Level = "debug"
		logCfg.Components = nil
		logCfg.ConsoleLevel = "debug"
	}
	return logCfg, nil
}
