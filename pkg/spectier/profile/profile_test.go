package profile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		input   string
		want    PlatformFamily
		wantErr bool
	}{
		{"android", AndroidLike, false},
		{"Android-Like", AndroidLike, false},
		{"apple", AppleLike, false},
		{"iOS", AppleLike, false},
		{"ipados", AppleLike, false},
		{"other", Other, false},
		{"", Other, false},
		{"windows", Other, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePlatform(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidPlatform))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlatformFamily_String(t *testing.T) {
	assert.Equal(t, "android", AndroidLike.String())
	assert.Equal(t, "apple", AppleLike.String())
	assert.Equal(t, "other", Other.String())
	assert.Equal(t, "other", PlatformFamily(99).String())
}

func TestDeviceProfile_Validate(t *testing.T) {
	valid := DeviceProfile{
		Platform:        AndroidLike,
		GPUVendor:       "ARM",
		CPUCores:        8,
		CPUFrequencyMHz: 2320,
		GPUMemoryMB:     1024,
		SystemMemoryMB:  3610,
	}
	assert.NoError(t, valid.Validate())
	assert.NoError(t, DeviceProfile{}.Validate(), "zero values are valid")

	negative := valid
	negative.GPUMemoryMB = -1
	err := negative.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNegativeValue))
	assert.Contains(t, err.Error(), "gpu_memory_mb")
}

func TestDeviceProfile_Fingerprint(t *testing.T) {
	a := DeviceProfile{Platform: AppleLike, Model: "iPhone13,2"}
	b := DeviceProfile{Platform: AppleLike, Model: "iPhone13,2"}
	c := DeviceProfile{Platform: AppleLike, Model: "iPhone13,3"}

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
	assert.Len(t, a.Fingerprint(), 64)
	assert.Len(t, a.ShortFingerprint(), 12)
	assert.Equal(t, a.Fingerprint()[:12], a.ShortFingerprint())
}

func TestDeviceProfile_FingerprintFieldBoundaries(t *testing.T) {
	// Concatenated fields must not collide when text moves between fields.
	a := DeviceProfile{GPUVendor: "AR", Model: "Mx"}
	b := DeviceProfile{GPUVendor: "ARM", Model: "x"}
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestParseMegabytes(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr error
	}{
		{"3680", 3680, nil},
		{" 1024 ", 1024, nil},
		{"512M", 512, nil},
		{"512MB", 512, nil},
		{"4G", 4096, nil},
		{"4GB", 4096, nil},
		{"3.5GiB", 3584, nil},
		{"2048K", 2, nil},
		{"1T", 1024 * 1024, nil},
		{"", 0, ErrInvalidSize},
		{"lots", 0, ErrInvalidSize},
		{"-5", 0, ErrNegativeValue},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMegabytes(tt.input)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatMegabytes(t *testing.T) {
	assert.Equal(t, "1.0 GiB", FormatMegabytes(1024))
	assert.Equal(t, "512 MiB", FormatMegabytes(512))
	assert.Equal(t, "0 B", FormatMegabytes(0))
	assert.Equal(t, "0 B", FormatMegabytes(-10))
}
