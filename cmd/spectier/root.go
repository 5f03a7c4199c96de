package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "spectier",
		Short: "Classify devices into performance tiers",
		Long: `Spectier estimates a device's performance tier (unknown, low, middle, high)
from its hardware profile.

Android-like devices are scored against GPU vendor thresholds (CPU cores,
CPU frequency, GPU memory, system memory). Apple-like devices are classified
from their model identifier (iPhone13,2, iPad8,1, iPod9,1).

Examples:
  spectier estimate --platform android --vendor Qualcomm \
      --cores 8 --freq 2840 --gpu-mem 2G --sys-mem 8G
  spectier estimate --platform apple --model iPhone14,2
  spectier estimate --profile device.yaml --explain
  spectier batch ./profiles -o markdown
  spectier batch ./profiles --min-tier middle --sort name -o json
  spectier thresholds                  # Show the active policy
  spectier config show                 # Show configuration`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  initializeLogging,
		PersistentPostRunE: shutdownLogging,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/spectier/config.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format (pretty, plain, json, jsonl, yaml, cbor, csv, tsv, markdown, template)")
	rootCmd.PersistentFlags().String("template", "", "Go template used with -o template")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output")
	rootCmd.PersistentFlags().String("tablet-rule", "", "tablet model rule (always-low, breakpoint)")
	rootCmd.PersistentFlags().StringSlice("known-vendors", nil, "GPU vendors scored on android-like platforms")

	bindRootFlags()
}

// bindRootFlags binds the persistent flags to their viper keys.
func bindRootFlags() {
	flags := rootCmd.PersistentFlags()
	_ = viper.BindPFlag("output", flags.Lookup("output"))
	_ = viper.BindPFlag("template", flags.Lookup("template"))
	_ = viper.BindPFlag("quiet", flags.Lookup("quiet"))
	_ = viper.BindPFlag("verbose", flags.Lookup("verbose"))
	_ = viper.BindPFlag("classifier.tablet_rule", flags.Lookup("tablet-rule"))
	_ = viper.BindPFlag("classifier.known_vendors", flags.Lookup("known-vendors"))
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command's
// context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		printError("%v", err)
		return err
	}
	return nil
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if getVerbose() && !getQuiet() {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a message to stderr if quiet mode is not enabled.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
