package profile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_YAMLSingle(t *testing.T) {
	data := []byte(`
platform: android
gpu_vendor: Qualcomm
model: SM-S918B
cpu_cores: 8
cpu_frequency_mhz: 3360
gpu_memory_mb: 2GB
system_memory_mb: 8192
`)

	got, err := Decode(data, FormatYAML, "galaxy")
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "galaxy", got[0].Name)
	assert.Equal(t, DeviceProfile{
		Platform:        AndroidLike,
		GPUVendor:       "Qualcomm",
		Model:           "SM-S918B",
		CPUCores:        8,
		CPUFrequencyMHz: 3360,
		GPUMemoryMB:     2048,
		SystemMemoryMB:  8192,
	}, got[0].Profile)
}

func TestDecode_YAMLList(t *testing.T) {
	data := []byte(`
profiles:
  - name: old-phone
    platform: ios
    model: iPhone12,1
  - platform: apple
    model: iPad8,1
`)

	got, err := Decode(data, FormatYAML, "fleet")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "old-phone", got[0].Name)
	assert.Equal(t, AppleLike, got[0].Profile.Platform)
	assert.Equal(t, "iPhone12,1", got[0].Profile.Model)

	assert.Equal(t, "fleet#2", got[1].Name)
	assert.Equal(t, "iPad8,1", got[1].Profile.Model)
}

func TestDecode_JSONC(t *testing.T) {
	data := []byte(`{
  // Mid-range ARM handset.
  "platform": "android",
  "gpu_vendor": "ARM",
  "cpu_cores": 8,
  "cpu_frequency_mhz": 2000,
  "gpu_memory_mb": "1GiB",
  "system_memory_mb": 4096, /* trailing comma below */
}`)

	got, err := Decode(data, FormatJSON, "handset")
	require.NoError(t, err)
	require.Len(t, got, 1)

	p := got[0].Profile
	assert.Equal(t, AndroidLike, p.Platform)
	assert.Equal(t, "ARM", p.GPUVendor)
	assert.Equal(t, 1024, p.GPUMemoryMB)
	assert.Equal(t, 4096, p.SystemMemoryMB)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		format  Format
		wantErr error
	}{
		{
			name:    "empty document",
			data:    "",
			format:  FormatYAML,
			wantErr: ErrNoProfiles,
		},
		{
			name:    "bad platform",
			data:    "platform: symbian\nmodel: N95\n",
			format:  FormatYAML,
			wantErr: ErrInvalidPlatform,
		},
		{
			name:    "negative counter",
			data:    `{"platform":"android","cpu_cores":-2}`,
			format:  FormatJSON,
			wantErr: ErrNegativeValue,
		},
		{
			name:    "bad memory size",
			data:    "platform: android\nsystem_memory_mb: plenty\n",
			format:  FormatYAML,
			wantErr: ErrInvalidSize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data), tt.format, "x")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}

	t.Run("malformed json", func(t *testing.T) {
		_, err := Decode([]byte(`{"platform":`), FormatJSON, "x")
		assert.Error(t, err)
	})
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "pixel-8.yml")
	content := "platform: android\ngpu_vendor: ARM\ncpu_cores: 9\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "pixel-8", got[0].Name)
	assert.Equal(t, 9, got[0].Profile.CPUCores)

	t.Run("unsupported extension", func(t *testing.T) {
		txt := filepath.Join(dir, "notes.txt")
		require.NoError(t, os.WriteFile(txt, []byte("hi"), 0o644))
		_, err := ReadFile(txt)
		assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadFile(filepath.Join(dir, "missing.json"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path   string
		want   Format
		wantOK bool
	}{
		{"a.yaml", FormatYAML, true},
		{"a.YML", FormatYAML, true},
		{"a.json", FormatJSON, true},
		{"a.jsonc", FormatJSON, true},
		{"a.toml", FormatYAML, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := DetectFormat(tt.path)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNameFromPath(t *testing.T) {
	assert.Equal(t, "pixel-8", NameFromPath("profiles/pixel-8.yaml"))
	assert.Equal(t, "fleet", NameFromPath("/tmp/fleet.jsonc"))
}
