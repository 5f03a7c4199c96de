package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/jamesainslie/spectier/pkg/spectier/classifier"
	"github.com/jamesainslie/spectier/pkg/spectier/config"
	"github.com/jamesainslie/spectier/pkg/spectier/tier"
)

const fleetYAML = `profiles:
  - name: flagship
    platform: android
    gpu_vendor: Qualcomm
    cpu_cores: 8
    cpu_frequency_mhz: 2840
    gpu_memory_mb: 2G
    system_memory_mb: 8G
  - name: budget
    platform: android
    gpu_vendor: Qualcomm
    cpu_cores: 4
    cpu_frequency_mhz: 1800
    gpu_memory_mb: 512
    system_memory_mb: 2048
  - name: tablet
    platform: apple
    model: iPad8,1
`

func writeFleet(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "fleet.yaml"), []byte(fleetYAML), 0o644); err != nil {
		t.Fatalf("failed to write fleet: %v", err)
	}
	return dir
}

func TestEstimate_FromFlags(t *testing.T) {
	result, err := estimate(context.Background(), classifier.Default(), estimateFlags{
		name:     "pixel",
		platform: "android",
		vendor:   "Qualcomm",
		cores:    8,
		freq:     2000,
		gpuMem:   "1G",
		sysMem:   "4G",
		explain:  true,
	})
	if err != nil {
		t.Fatalf("estimate() error = %v", err)
	}

	if len(result.Entries) != 1 {
		t.Fatalf("len(Entries) = %d, want 1", len(result.Entries))
	}
	e := result.Entries[0]
	if e.Name != "pixel" || e.Source != flagsSource {
		t.Errorf("entry = %s from %s, want pixel from %s", e.Name, e.Source, flagsSource)
	}
	// Only the frequency is below the Qualcomm minimum.
	if e.Decision.Tier != tier.Middle {
		t.Errorf("Tier = %v, want %v", e.Decision.Tier, tier.Middle)
	}
	if !result.Explain {
		t.Error("Explain should be carried into the result")
	}
	if result.Summary.Middle != 1 {
		t.Errorf("Summary.Middle = %d, want 1", result.Summary.Middle)
	}
}

func TestEstimate_FromProfileFile(t *testing.T) {
	dir := writeFleet(t)

	result, err := estimate(context.Background(), classifier.Default(), estimateFlags{
		profile: filepath.Join(dir, "fleet.yaml"),
	})
	if err != nil {
		t.Fatalf("estimate() error = %v", err)
	}
	if len(result.Entries) != 3 {
		t.Fatalf("len(Entries) = %d, want 3", len(result.Entries))
	}

	var buf bytes.Buffer
	if err := writeTiers(&buf, result); err != nil {
		t.Fatalf("writeTiers() error = %v", err)
	}
	if got, want := buf.String(), "high\nlow\nlow\n"; got != want {
		t.Errorf("writeTiers() = %q, want %q", got, want)
	}
}

func TestEstimate_BadProfileFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatalf("failed to write profile: %v", err)
	}

	_, err := estimate(context.Background(), classifier.Default(), estimateFlags{profile: path})
	if err == nil {
		t.Fatal("estimate() expected error for a file without profiles")
	}
	if !strings.Contains(err.Error(), "empty.json") {
		t.Errorf("error = %v, want it to name the file", err)
	}
}

func TestClassifyBatch(t *testing.T) {
	dir := writeFleet(t)

	result, err := classifyBatch(context.Background(), classifier.Default(), []string{dir}, batchFlags{
		minTier: "low",
		sortBy:  "name",
	})
	if err != nil {
		t.Fatalf("classifyBatch() error = %v", err)
	}

	var names []string
	for _, e := range result.Entries {
		names = append(names, e.Name)
	}
	if got, want := strings.Join(names, ","), "budget,flagship,tablet"; got != want {
		t.Errorf("names = %s, want %s", got, want)
	}

	result, err = classifyBatch(context.Background(), classifier.Default(), []string{dir}, batchFlags{
		tiers: "low",
		limit: 1,
	})
	if err != nil {
		t.Fatalf("classifyBatch() error = %v", err)
	}
	if len(result.Entries) != 1 {
		t.Fatalf("len(Entries) = %d, want 1", len(result.Entries))
	}
	if result.Summary.Total != 1 || result.Summary.Low != 1 {
		t.Errorf("Summary = %+v, want the filtered counts", result.Summary)
	}
}

func TestClassifyBatch_Errors(t *testing.T) {
	if _, err := classifyBatch(context.Background(), classifier.Default(), []string{t.TempDir()}, batchFlags{sortBy: "speed"}); err == nil {
		t.Error("classifyBatch() expected error for an invalid sort field")
	}

	missing := filepath.Join(t.TempDir(), "missing")
	if _, err := classifyBatch(context.Background(), classifier.Default(), []string{missing}, batchFlags{}); err == nil {
		t.Error("classifyBatch() expected error for a missing path")
	}
}

func TestWriteResult(t *testing.T) {
	result, err := estimate(context.Background(), classifier.Default(), estimateFlags{
		name:     "phone",
		platform: "apple",
		model:    "iPhone13,2",
	})
	if err != nil {
		t.Fatalf("estimate() error = %v", err)
	}

	var buf bytes.Buffer
	if err := writeResult(&buf, result, "template", "{{range .Entries}}{{.Name}}={{.Decision.Tier}}{{end}}"); err != nil {
		t.Fatalf("writeResult() error = %v", err)
	}
	if got := buf.String(); got != "phone=middle" {
		t.Errorf("writeResult() = %q, want %q", got, "phone=middle")
	}

	if err := writeResult(&buf, result, "xml", ""); err == nil {
		t.Error("writeResult() expected error for an unknown format")
	}
}

func TestWritePolicy(t *testing.T) {
	policy := classifier.DefaultPolicy()

	var buf bytes.Buffer
	if err := writePolicy(&buf, policy, "json"); err != nil {
		t.Fatalf("writePolicy(json) error = %v", err)
	}

	var view policyView
	if err := json.Unmarshal(buf.Bytes(), &view); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if view.TabletRule != "always-low" {
		t.Errorf("TabletRule = %q, want always-low", view.TabletRule)
	}

	rows := make(map[string]thresholdRow)
	for _, r := range view.Vendors {
		rows[r.Vendor] = r
	}
	if len(rows) != 3 {
		t.Fatalf("vendors = %v, want Apple, ARM and Qualcomm", view.Vendors)
	}
	if rows["ARM"].Known {
		t.Error("ARM should be listed as not known")
	}
	if rows["ARM"].MinFrequencyMHz != 2320 {
		t.Errorf("ARM frequency = %d, want 2320", rows["ARM"].MinFrequencyMHz)
	}
	if rows["Apple"].Profile != classifier.VendorQualcomm {
		t.Errorf("Apple profile = %q, want the default vendor", rows["Apple"].Profile)
	}

	buf.Reset()
	if err := writePolicy(&buf, policy, "yaml"); err != nil {
		t.Fatalf("writePolicy(yaml) error = %v", err)
	}
	var fromYAML policyView
	if err := yaml.Unmarshal(buf.Bytes(), &fromYAML); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if fromYAML.DefaultVendor != classifier.VendorQualcomm {
		t.Errorf("DefaultVendor = %q, want %q", fromYAML.DefaultVendor, classifier.VendorQualcomm)
	}

	buf.Reset()
	if err := writePolicy(&buf, policy, "pretty"); err != nil {
		t.Fatalf("writePolicy(pretty) error = %v", err)
	}
	text := buf.String()
	for _, want := range []string{"Tablet rule:    always-low", "VENDOR", "2,150 MHz", "3.6 GiB"} {
		if !strings.Contains(text, want) {
			t.Errorf("text output missing %q:\n%s", want, text)
		}
	}
}

func TestShowConfig(t *testing.T) {
	c := &config.Config{
		Output: "json",
		Classifier: config.ClassifierConfig{
			TabletRule:   "breakpoint",
			KnownVendors: []string{"Qualcomm"},
		},
	}

	var buf bytes.Buffer
	env := []string{"HOME=/home/x", "SPECTIER_OUTPUT=json", "SPECTIER_CLASSIFIER_TABLET_RULE=breakpoint"}
	if err := showConfig(&buf, c, "", env); err != nil {
		t.Fatalf("showConfig() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"(using defaults, no file found)",
		"tablet_rule: breakpoint",
		"SPECTIER_CLASSIFIER_TABLET_RULE=breakpoint\nSPECTIER_OUTPUT=json",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("showConfig() missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "HOME=") {
		t.Error("showConfig() should only list SPECTIER_ variables")
	}

	buf.Reset()
	if err := showConfig(&buf, c, "/etc/spectier.yaml", nil); err != nil {
		t.Fatalf("showConfig() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Config file: /etc/spectier.yaml") || !strings.Contains(buf.String(), "(none)") {
		t.Errorf("showConfig() = %s", buf.String())
	}
}
