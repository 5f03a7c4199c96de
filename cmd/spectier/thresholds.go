package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/jamesainslie/spectier/pkg/spectier/classifier"
	"github.com/jamesainslie/spectier/pkg/spectier/profile"
)

var thresholdsCmd = &cobra.Command{
	Use:   "thresholds",
	Short: "Show the active classification policy",
	Long: `Show the vendor threshold profiles and rules the classifier is using,
after applying the config file, environment and flags.

Known vendors are scored on android-like platforms; every other vendor
classifies as unknown. A known vendor without a profile of its own uses
the default vendor's thresholds.`,
	Args: cobra.NoArgs,
	RunE: runThresholds,
}

func init() {
	rootCmd.AddCommand(thresholdsCmd)
}

// thresholdRow is one vendor in the thresholds listing.
type thresholdRow struct {
	Vendor            string `json:"vendor" yaml:"vendor"`
	Known             bool   `json:"known" yaml:"known"`
	Profile           string `json:"profile" yaml:"profile"`
	MinCores          int    `json:"min_cores" yaml:"min_cores"`
	MinFrequencyMHz   int    `json:"min_frequency_mhz" yaml:"min_frequency_mhz"`
	MinGPUMemoryMB    int    `json:"min_gpu_memory_mb" yaml:"min_gpu_memory_mb"`
	MinSystemMemoryMB int    `json:"min_system_memory_mb" yaml:"min_system_memory_mb"`
}

// policyView is the serializable form of a classifier.Policy.
type policyView struct {
	TabletRule    string         `json:"tablet_rule" yaml:"tablet_rule"`
	DefaultVendor string         `json:"default_vendor" yaml:"default_vendor"`
	KnownVendors  []string       `json:"known_vendors" yaml:"known_vendors"`
	Vendors       []thresholdRow `json:"vendors" yaml:"vendors"`
}

func runThresholds(cmd *cobra.Command, _ []string) error {
	return writePolicy(cmd.OutOrStdout(), clf.Policy(), viper.GetString("output"))
}

// newPolicyView lists every vendor with a profile or in the known set,
// sorted by name.
func newPolicyView(p classifier.Policy) policyView {
	names := slices.Collect(maps.Keys(p.Thresholds))
	for _, v := range p.KnownVendors {
		if !slices.Contains(names, v) {
			names = append(names, v)
		}
	}
	slices.Sort(names)

	rows := make([]thresholdRow, 0, len(names))
	for _, name := range names {
		t, used := p.ThresholdsFor(name)
		rows = append(rows, thresholdRow{
			Vendor:            name,
			Known:             p.Known(name),
			Profile:           used,
			MinCores:          t.MinCores,
			MinFrequencyMHz:   t.MinFrequencyMHz,
			MinGPUMemoryMB:    t.MinGPUMemoryMB,
			MinSystemMemoryMB: t.MinSystemMemoryMB,
		})
	}

	return policyView{
		TabletRule:    p.Tablet.String(),
		DefaultVendor: p.DefaultVendor,
		KnownVendors:  slices.Clone(p.KnownVendors),
		Vendors:       rows,
	}
}

// writePolicy renders p as JSON, YAML or an aligned text table.
func writePolicy(w io.Writer, p classifier.Policy, format string) error {
	view := newPolicyView(p)

	switch format {
	case "json":
		data, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	case "yaml":
		data, err := yaml.Marshal(view)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Tablet rule:    %s\n", view.TabletRule)
	fmt.Fprintf(&buf, "Default vendor: %s\n", view.DefaultVendor)
	fmt.Fprintf(&buf, "Known vendors:  %s\n\n", strings.Join(view.KnownVendors, ", "))

	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VENDOR\tKNOWN\tPROFILE\tCORES\tFREQUENCY\tGPU MEMORY\tSYSTEM MEMORY")
	for _, r := range view.Vendors {
		known := "no"
		if r.Known {
			known = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s MHz\t%s\t%s\n",
			r.Vendor,
			known,
			r.Profile,
			r.MinCores,
			humanize.Comma(int64(r.MinFrequencyMHz)),
			profile.FormatMegabytes(r.MinGPUMemoryMB),
			profile.FormatMegabytes(r.MinSystemMemoryMB))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := w.Write(buf.Bytes())
	return err
}
