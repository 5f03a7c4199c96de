package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/jamesainslie/spectier/pkg/spectier/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage spectier configuration settings.

Configuration is loaded from:
  1. $XDG_CONFIG_HOME/spectier/config.yaml (if set)
  2. ~/.config/spectier/config.yaml

Environment variables can override config file settings using the SPECTIER_ prefix:
  SPECTIER_OUTPUT=json
  SPECTIER_CLASSIFIER_TABLET_RULE=breakpoint
  SPECTIER_LOGGING_LEVEL=debug`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration after merging defaults, the config file, environment and flags.`,
	RunE:  runConfigShow,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long: `Open the configuration file in your default editor.

The editor is determined by:
  1. $VISUAL environment variable
  2. $EDITOR environment variable
  3. Falls back to 'vi'

If the config file doesn't exist, a default one will be created first.`,
	RunE: runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	Long:  `Create a default configuration file if one doesn't exist.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	Long:  `Display the path to the configuration file.`,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// runConfigShow displays the current configuration.
func runConfigShow(cmd *cobra.Command, _ []string) error {
	return showConfig(cmd.OutOrStdout(), cfg, viper.ConfigFileUsed(), os.Environ())
}

// showConfig writes the effective configuration as YAML followed by any
// SPECTIER_ environment overrides found in environ.
func showConfig(w io.Writer, c *config.Config, configFile string, environ []string) error {
	var b strings.Builder

	if configFile != "" {
		fmt.Fprintf(&b, "Config file: %s\n\n", configFile)
	} else {
		b.WriteString("Config file: (using defaults, no file found)\n\n")
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}
	b.WriteString("Current Configuration:\n")
	b.WriteString("----------------------\n")
	b.Write(data)

	b.WriteString("\nEnvironment Overrides:\n")
	b.WriteString("----------------------\n")
	var overrides []string
	for _, kv := range environ {
		if strings.HasPrefix(kv, config.EnvPrefix+"_") {
			overrides = append(overrides, kv)
		}
	}
	slices.Sort(overrides)
	if len(overrides) == 0 {
		b.WriteString("(none)\n")
	}
	for _, kv := range overrides {
		b.WriteString(kv)
		b.WriteByte('\n')
	}

	_, err = io.WriteString(w, b.String())
	return err
}

// runConfigEdit opens the config file in an editor.
func runConfigEdit(_ *cobra.Command, _ []string) error {
	if _, err := config.WriteDefault(); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	configPath, err := config.ConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}

	printVerbose("Opening %s with %s", configPath, editor)

	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("editor command failed: %w", err)
	}

	return nil
}

// runConfigInit creates a default config file.
func runConfigInit(_ *cobra.Command, _ []string) error {
	configPath, err := config.ConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	written, err := config.WriteDefault()
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	if !written {
		printInfo("Config file already exists: %s", configPath)
		printInfo("Use 'spectier config edit' to modify it.")
		return nil
	}

	printInfo("Created default config file: %s", configPath)
	return nil
}

// runConfigPath shows the config file path.
func runConfigPath(cmd *cobra.Command, _ []string) error {
	configPath, err := config.ConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), configPath)

	if _, err := os.Stat(configPath); err == nil {
		printVerbose("File exists")
	} else if os.IsNotExist(err) {
		printVerbose("File does not exist (will use defaults)")
	}
	printVerbose("Log file: %s", config.DefaultLogPath())

	return nil
}
