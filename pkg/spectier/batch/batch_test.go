package batch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/spectier/pkg/spectier/classifier"
	"github.com/jamesainslie/spectier/pkg/spectier/output"
	"github.com/jamesainslie/spectier/pkg/spectier/tier"
)

const fleetYAML = `profiles:
  - name: flagship
    platform: android
    gpu_vendor: Qualcomm
    cpu_cores: 8
    cpu_frequency_mhz: 2840
    gpu_memory_mb: 2GB
    system_memory_mb: 8GB
  - name: budget
    platform: android
    gpu_vendor: Qualcomm
    cpu_cores: 4
    cpu_frequency_mhz: 1800
    gpu_memory_mb: 512
    system_memory_mb: 2048
`

const phoneJSONC = `{
  // single profile, named after the file
  "platform": "apple",
  "model": "iPhone14,2",
}`

const armYAML = `platform: android
gpu_vendor: ARM
cpu_cores: 8
cpu_frequency_mhz: 2400
gpu_memory_mb: 1024
system_memory_mb: 4096
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func fleetDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "android", "fleet.yaml"), fleetYAML)
	writeFile(t, filepath.Join(dir, "apple", "phone.jsonc"), phoneJSONC)
	writeFile(t, filepath.Join(dir, "android", "arm.yml"), armYAML)
	writeFile(t, filepath.Join(dir, "README.md"), "# not a profile\n")
	return dir
}

func byName(entries []output.Entry) map[string]output.Entry {
	m := make(map[string]output.Entry, len(entries))
	for _, e := range entries {
		m[e.Name] = e
	}
	return m
}

func TestCollect_Directory(t *testing.T) {
	dir := fleetDir(t)

	result, err := Collect(context.Background(), []string{dir}, Options{})
	require.NoError(t, err)

	require.Len(t, result.Entries, 4)
	assert.Empty(t, result.Warnings)
	assert.NotEmpty(t, result.ID)
	assert.Equal(t, dir, result.Source)

	entries := byName(result.Entries)
	assert.Equal(t, tier.High, entries["flagship"].Decision.Tier)
	assert.Equal(t, tier.Low, entries["budget"].Decision.Tier)
	assert.Equal(t, tier.High, entries["phone"].Decision.Tier)
	assert.Equal(t, tier.Unknown, entries["arm"].Decision.Tier, "ARM is not a recognized vendor by default")

	assert.Equal(t, 2048, entries["flagship"].Profile.GPUMemoryMB)
	assert.Equal(t, 8192, entries["flagship"].Profile.SystemMemoryMB)
	assert.Len(t, entries["flagship"].Fingerprint, 12)

	assert.Equal(t, output.Summary{Total: 4, Unknown: 1, Low: 1, High: 2}, result.Summary)
}

func TestCollect_DeterministicOrder(t *testing.T) {
	dir := fleetDir(t)

	first, err := Collect(context.Background(), []string{dir}, Options{})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := Collect(context.Background(), []string{dir}, Options{})
		require.NoError(t, err)

		var a, b []string
		for _, e := range first.Entries {
			a = append(a, e.Source+"|"+e.Name)
		}
		for _, e := range again.Entries {
			b = append(b, e.Source+"|"+e.Name)
		}
		assert.Equal(t, a, b)
	}

	// Entries from the same file keep their file order.
	var fleet []string
	for _, e := range first.Entries {
		if strings.HasSuffix(e.Source, "fleet.yaml") {
			fleet = append(fleet, e.Name)
		}
	}
	assert.Equal(t, []string{"flagship", "budget"}, fleet)
}

func TestCollect_WithPolicy(t *testing.T) {
	dir := fleetDir(t)

	policy := classifier.DefaultPolicy()
	policy.KnownVendors = append(policy.KnownVendors, classifier.VendorARM)
	c, err := classifier.New(policy)
	require.NoError(t, err)

	result, err := Collect(context.Background(), []string{dir}, Options{Classifier: c})
	require.NoError(t, err)

	arm := byName(result.Entries)["arm"]
	assert.Equal(t, tier.High, arm.Decision.Tier)
	assert.Equal(t, classifier.VendorARM, arm.Decision.ThresholdProfile)
}

func TestCollect_Warnings(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "good.yaml"), armYAML)
	writeFile(t, filepath.Join(dir, "broken.yaml"), "profiles: [\n")
	writeFile(t, filepath.Join(dir, "empty.json"), "{}")
	writeFile(t, filepath.Join(dir, "negative.yaml"), "platform: android\ncpu_cores: -2\n")
	notes := filepath.Join(dir, "notes.txt")
	writeFile(t, notes, "hello")

	result, err := Collect(context.Background(), []string{dir, notes}, Options{})
	require.NoError(t, err)

	require.Len(t, result.Entries, 1)
	assert.Equal(t, "good", result.Entries[0].Name)

	require.Len(t, result.Warnings, 4)
	joined := strings.Join(result.Warnings, "\n")
	assert.Contains(t, joined, "broken.yaml")
	assert.Contains(t, joined, "empty.json")
	assert.Contains(t, joined, "negative.yaml")
	assert.Contains(t, joined, "notes.txt")
}

func TestCollect_Duplicates(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.yaml"), armYAML)
	writeFile(t, filepath.Join(dir, "b.yaml"), armYAML)

	result, err := Collect(context.Background(), []string{dir}, Options{})
	require.NoError(t, err)

	require.Len(t, result.Entries, 2)
	assert.Empty(t, result.Entries[0].DuplicateOf)
	assert.Equal(t, "a", result.Entries[1].DuplicateOf)
	assert.Equal(t, result.Entries[0].Fingerprint, result.Entries[1].Fingerprint)
	assert.Equal(t, 1, result.Summary.Duplicates)
}

func TestCollect_Exclude(t *testing.T) {
	dir := fleetDir(t)

	result, err := Collect(context.Background(), []string{dir}, Options{Exclude: []string{"android"}})
	require.NoError(t, err)

	require.Len(t, result.Entries, 1)
	assert.Equal(t, "phone", result.Entries[0].Name)

	result, err = Collect(context.Background(), []string{dir}, Options{Exclude: []string{"*.jsonc"}})
	require.NoError(t, err)
	assert.Len(t, result.Entries, 3)
}

func TestNew_InvalidExclude(t *testing.T) {
	_, err := New(Options{Exclude: []string{"["}})
	assert.Error(t, err)
}

func TestCollect_SingleFile(t *testing.T) {
	dir := fleetDir(t)
	path := filepath.Join(dir, "apple", "phone.jsonc")

	result, err := Collect(context.Background(), []string{path}, Options{})
	require.NoError(t, err)

	require.Len(t, result.Entries, 1)
	assert.Equal(t, path, result.Entries[0].Source)
	assert.Equal(t, classifier.RouteApplePhone, result.Entries[0].Decision.Route)
	assert.Equal(t, 14, result.Entries[0].Decision.ModelID)
}

func TestCollect_MissingPath(t *testing.T) {
	_, err := Collect(context.Background(), []string{filepath.Join(t.TempDir(), "missing")}, Options{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCollect_Canceled(t *testing.T) {
	dir := fleetDir(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Collect(ctx, []string{dir}, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}
