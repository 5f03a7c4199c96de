package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/spectier/pkg/spectier/batch"
	"github.com/jamesainslie/spectier/pkg/spectier/classifier"
	"github.com/jamesainslie/spectier/pkg/spectier/output"
)

// flagsSource is the source recorded for profiles built from flags.
const flagsSource = "flags"

var estimateOpts estimateFlags

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate the performance tier of one device",
	Long: `Estimate the performance tier of a single device.

The profile is described with flags, or read from a YAML/JSON/JSONC file
with --profile. Memory sizes accept plain megabytes or suffixed values
such as 512M, 4G or 3.5GiB.

Examples:
  spectier estimate --platform android --vendor Qualcomm \
      --cores 8 --freq 2840 --gpu-mem 2G --sys-mem 8G
  spectier estimate --platform apple --model iPad8,1 --tablet-rule breakpoint
  spectier estimate --profile pixel.yaml --explain
  spectier estimate -q --platform apple --model iPhone12,1`,
	Args: cobra.NoArgs,
	RunE: runEstimate,
}

func init() {
	flags := estimateCmd.Flags()
	flags.StringVar(&estimateOpts.name, "name", "device", "profile name shown in the output")
	flags.StringVar(&estimateOpts.platform, "platform", "", "platform family (android, apple, other)")
	flags.StringVar(&estimateOpts.vendor, "vendor", "", "GPU vendor (e.g. Qualcomm, ARM)")
	flags.StringVar(&estimateOpts.model, "model", "", "device model identifier (e.g. iPhone13,2)")
	flags.IntVar(&estimateOpts.cores, "cores", 0, "CPU core count")
	flags.IntVar(&estimateOpts.freq, "freq", 0, "CPU frequency in MHz")
	flags.StringVar(&estimateOpts.gpuMem, "gpu-mem", "", "GPU memory (e.g. 1024, 2G)")
	flags.StringVar(&estimateOpts.sysMem, "sys-mem", "", "system memory (e.g. 3680, 8G)")
	flags.StringVar(&estimateOpts.profile, "profile", "", "read the profile from a YAML/JSON/JSONC file")
	flags.BoolVar(&estimateOpts.explain, "explain", false, "include threshold deductions in text output")

	estimateCmd.MarkFlagsMutuallyExclusive("profile", "platform")
	rootCmd.AddCommand(estimateCmd)
}

// runEstimate classifies one profile and prints the result.
func runEstimate(cmd *cobra.Command, _ []string) error {
	result, err := estimate(cmd.Context(), clf, estimateOpts)
	if err != nil {
		return err
	}

	if getQuiet() {
		return writeTiers(cmd.OutOrStdout(), result)
	}
	return writeResult(cmd.OutOrStdout(), result, viper.GetString("output"), viper.GetString("template"))
}

// estimate builds the result for the estimate command: every profile in
// the --profile file, or the single profile described by the flags.
func estimate(ctx context.Context, c *classifier.Classifier, f estimateFlags) (*output.Result, error) {
	if f.profile != "" {
		result, err := batch.Collect(ctx, []string{f.profile}, batch.Options{Classifier: c})
		if err != nil {
			return nil, err
		}
		if len(result.Entries) == 0 {
			if len(result.Warnings) > 0 {
				return nil, errors.New(result.Warnings[0])
			}
			return nil, fmt.Errorf("%s: no profiles found", f.profile)
		}
		result.Explain = f.explain
		return result, nil
	}

	start := time.Now()
	p, err := profileFromFlags(f)
	if err != nil {
		return nil, err
	}

	decision := c.Classify(p)
	cliLogger.Debug("estimated from flags",
		"platform", p.Platform,
		"route", decision.Route,
		"tier", decision.Tier)

	result := output.NewResult(flagsSource)
	result.Entries = []output.Entry{{
		Name:        f.name,
		Source:      flagsSource,
		Profile:     p,
		Fingerprint: p.ShortFingerprint(),
		Decision:    decision,
	}}
	result.Explain = f.explain
	result.Duration = time.Since(start)
	result.Tally()
	return result, nil
}

// writeTiers prints only the tier of each entry, one per line.
func writeTiers(w io.Writer, r *output.Result) error {
	var b strings.Builder
	for _, e := range r.Entries {
		b.WriteString(e.Decision.Tier.String())
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// writeResult renders r in the requested format.
func writeResult(w io.Writer, r *output.Result, format, tmpl string) error {
	formatter, err := selectFormatter(format, tmpl)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, r); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	_, err = w.Write(buf.Bytes())
	return err
}
