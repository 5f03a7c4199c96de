// Package output provides formatters for displaying spectier classification
// reports in various output formats (pretty, plain, json, yaml, cbor, etc.).
//
// The package uses a registry pattern to allow registration of multiple
// formatter implementations that can be selected at runtime.
//
// Basic usage:
//
//	formatter, err := output.Get("pretty")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	var buf bytes.Buffer
//	if err := formatter.Format(&buf, result); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(buf.String())
package output

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jamesainslie/spectier/pkg/spectier/classifier"
	"github.com/jamesainslie/spectier/pkg/spectier/logging"
	"github.com/jamesainslie/spectier/pkg/spectier/profile"
	"github.com/jamesainslie/spectier/pkg/spectier/tier"
)

// logger is the package-level logger for output operations.
var logger = logging.Get("output")

// Entry is one classified profile.
type Entry struct {
	// Name identifies the profile within its source.
	Name string `json:"name" yaml:"name"`

	// Source is the file the profile was read from, or "flags".
	Source string `json:"source" yaml:"source"`

	// Profile is the classified device profile.
	Profile profile.DeviceProfile `json:"profile" yaml:"profile"`

	// Fingerprint is the short BLAKE3 fingerprint of Profile.
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`

	// DuplicateOf names an earlier entry with the same fingerprint.
	DuplicateOf string `json:"duplicate_of,omitempty" yaml:"duplicate_of,omitempty"`

	// Decision is the classification outcome.
	Decision classifier.Decision `json:"decision" yaml:"decision"`
}

// Summary counts entries per tier.
type Summary struct {
	Total      int `json:"total" yaml:"total"`
	Unknown    int `json:"unknown" yaml:"unknown"`
	Low        int `json:"low" yaml:"low"`
	Middle     int `json:"middle" yaml:"middle"`
	High       int `json:"high" yaml:"high"`
	Duplicates int `json:"duplicates" yaml:"duplicates"`
}

// Count returns the number of entries in t.
func (s Summary) Count(t tier.Tier) int {
	switch t {
	case tier.Low:
		return s.Low
	case tier.Middle:
		return s.Middle
	case tier.High:
		return s.High
	default:
		return s.Unknown
	}
}

// Result contains the complete report data for formatting.
type Result struct {
	// ID uniquely identifies this classification run.
	ID string `json:"id" yaml:"id"`

	// Source describes what was classified (paths or "flags").
	Source string `json:"source" yaml:"source"`

	// Entries holds the classified profiles in report order.
	Entries []Entry `json:"entries" yaml:"entries"`

	// Summary is computed by Tally.
	Summary Summary `json:"summary" yaml:"summary"`

	// Warnings contains messages for inputs that could not be classified.
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	// Duration is the wall time spent collecting and classifying.
	Duration time.Duration `json:"duration" yaml:"duration"`

	// Explain makes text formatters include deductions.
	Explain bool `json:"-" yaml:"-"`
}

// NewResult returns an empty result with a fresh run ID.
func NewResult(source string) *Result {
	return &Result{
		ID:     uuid.NewString(),
		Source: source,
	}
}

// Tally recomputes Summary from Entries.
func (r *Result) Tally() {
	s := Summary{Total: len(r.Entries)}
	for _, e := range r.Entries {
		switch e.Decision.Tier {
		case tier.Low:
			s.Low++
		case tier.Middle:
			s.Middle++
		case tier.High:
			s.High++
		default:
			s.Unknown++
		}
		if e.DuplicateOf != "" {
			s.Duplicates++
		}
	}
	r.Summary = s
}

// Formatter is the interface that all output formatters must implement.
type Formatter interface {
	// Format writes the formatted output to the buffer.
	// It returns an error if formatting fails.
	Format(w *bytes.Buffer, r *Result) error
}

// FormatterFactory is a function that creates a new Formatter instance.
type FormatterFactory func() Formatter

// Registry manages formatter registration and lookup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewRegistry creates a new formatter registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]FormatterFactory),
	}
}

// Register adds a formatter factory to the registry.
// It will replace any existing formatter with the same name.
func (r *Registry) Register(name string, factory FormatterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get returns a new formatter instance by name.
// It returns an error if the formatter is not found.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		logger.Debug("unknown formatter requested", "name", name)
		return nil, fmt.Errorf("unknown formatter: %s (available: %s)", name, strings.Join(r.availableLocked(), ", "))
	}
	return factory(), nil
}

// Available returns a sorted list of all registered formatter names.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.availableLocked()
}

func (r *Registry) availableLocked() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()

// Register adds a formatter factory to the default registry.
func Register(name string, factory FormatterFactory) {
	DefaultRegistry.Register(name, factory)
}

// Get returns a new formatter instance from the default registry.
func Get(name string) (Formatter, error) {
	return DefaultRegistry.Get(name)
}

// Available returns all formatter names from the default registry.
func Available() []string {
	return DefaultRegistry.Available()
}
