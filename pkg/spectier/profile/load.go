package profile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Format is a profile file encoding.
type Format int

const (
	// FormatYAML is YAML (".yaml", ".yml").
	FormatYAML Format = iota
	// FormatJSON is JSON, optionally with comments and trailing commas
	// (".json", ".jsonc").
	FormatJSON
)

// ErrUnsupportedFormat is returned for files whose extension is not a
// known profile encoding.
var ErrUnsupportedFormat = errors.New("unsupported profile format")

// ErrNoProfiles is returned when a document decodes to zero profiles.
var ErrNoProfiles = errors.New("no profiles found")

// Named is a decoded profile together with its display name.
type Named struct {
	Name    string
	Profile DeviceProfile
}

// DetectFormat returns the profile format for a file path based on its
// extension. The boolean is false for unsupported extensions.
func DetectFormat(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".json", ".jsonc":
		return FormatJSON, true
	default:
		return FormatYAML, false
	}
}

// megabytes decodes a memory field given either as a number of megabytes or
// as a size string accepted by ParseMegabytes.
type megabytes int

// UnmarshalJSON implements json.Unmarshaler.
func (m *megabytes) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		return m.set(s)
	}
	return m.set(string(data))
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *megabytes) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!null" {
		return nil
	}
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return m.set(s)
}

func (m *megabytes) set(s string) error {
	mb, err := ParseMegabytes(s)
	if err != nil {
		return err
	}
	*m = megabytes(mb)
	return nil
}

// record is the on-disk shape of a single profile.
type record struct {
	Name            string    `json:"name" yaml:"name"`
	Platform        string    `json:"platform" yaml:"platform"`
	GPUVendor       string    `json:"gpu_vendor" yaml:"gpu_vendor"`
	Model           string    `json:"model" yaml:"model"`
	CPUCores        int       `json:"cpu_cores" yaml:"cpu_cores"`
	CPUFrequencyMHz int       `json:"cpu_frequency_mhz" yaml:"cpu_frequency_mhz"`
	GPUMemoryMB     megabytes `json:"gpu_memory_mb" yaml:"gpu_memory_mb"`
	SystemMemoryMB  megabytes `json:"system_memory_mb" yaml:"system_memory_mb"`
}

// document is a profile file holding a list of profiles.
type document struct {
	Profiles []record `json:"profiles" yaml:"profiles"`
}

func (r record) toProfile() (DeviceProfile, error) {
	platform, err := ParsePlatform(r.Platform)
	if err != nil {
		return DeviceProfile{}, err
	}

	p := DeviceProfile{
		Platform:        platform,
		GPUVendor:       r.GPUVendor,
		Model:           r.Model,
		CPUCores:        r.CPUCores,
		CPUFrequencyMHz: r.CPUFrequencyMHz,
		GPUMemoryMB:     int(r.GPUMemoryMB),
		SystemMemoryMB:  int(r.SystemMemoryMB),
	}
	if err := p.Validate(); err != nil {
		return DeviceProfile{}, err
	}
	return p, nil
}

// Decode parses a profile document. The document is either a single profile
// or an object with a "profiles" list. Unnamed profiles are named after
// defaultName (suffixed with their position when the document holds a list).
func Decode(data []byte, format Format, defaultName string) ([]Named, error) {
	unmarshal := yaml.Unmarshal
	if format == FormatJSON {
		data = jsonc.ToJSON(data)
		unmarshal = json.Unmarshal
	}

	var doc document
	if err := unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing profiles: %w", err)
	}

	if len(doc.Profiles) == 0 {
		var single record
		if err := unmarshal(data, &single); err != nil {
			return nil, fmt.Errorf("parsing profile: %w", err)
		}
		if single == (record{}) {
			return nil, ErrNoProfiles
		}
		p, err := single.toProfile()
		if err != nil {
			return nil, fmt.Errorf("profile %q: %w", nameOr(single.Name, defaultName), err)
		}
		return []Named{{Name: nameOr(single.Name, defaultName), Profile: p}}, nil
	}

	named := make([]Named, 0, len(doc.Profiles))
	for i, r := range doc.Profiles {
		name := nameOr(r.Name, fmt.Sprintf("%s#%d", defaultName, i+1))
		p, err := r.toProfile()
		if err != nil {
			return nil, fmt.Errorf("profile %q: %w", name, err)
		}
		named = append(named, Named{Name: name, Profile: p})
	}
	return named, nil
}

// ReadFile reads and decodes a profile file, choosing the format from the
// file extension.
func ReadFile(path string) ([]Named, error) {
	format, ok := DetectFormat(path)
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	profiles, err := Decode(data, format, NameFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return profiles, nil
}

// NameFromPath derives a profile name from a file path by stripping the
// directory and extension ("profiles/pixel-8.yaml" -> "pixel-8").
func NameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func nameOr(name, fallback string) string {
	if name != "" {
		return name
	}
	return fallback
}
