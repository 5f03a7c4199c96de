// Package batch collects device profiles from files and directories and
// classifies them. Directories are walked in parallel with fastwalk; every
// ".yaml", ".yml", ".json" and ".jsonc" file found is decoded and each
// profile in it is classified.
//
// Files that cannot be read, decoded or validated become report warnings;
// they never abort the collection.
package batch

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charlievieth/fastwalk"
	"github.com/gobwas/glob"

	"github.com/jamesainslie/spectier/pkg/spectier/classifier"
	"github.com/jamesainslie/spectier/pkg/spectier/logging"
	"github.com/jamesainslie/spectier/pkg/spectier/output"
	"github.com/jamesainslie/spectier/pkg/spectier/profile"
)

var logger = logging.Get("batch")

// Options configures a Collector.
type Options struct {
	// Classifier classifies each profile. Nil uses classifier.Default().
	Classifier *classifier.Classifier

	// Exclude contains glob patterns for paths to skip while walking
	// directories. Excluded directories are not descended into.
	Exclude []string

	// Follow follows symbolic links while walking.
	Follow bool
}

// Collector gathers and classifies profiles. A Collector is used for a
// single Collect call.
type Collector struct {
	opts    Options
	exclude []glob.Glob

	mu       sync.Mutex
	found    []found
	warnings []string
}

// found is a classified entry with its position in the source file.
type found struct {
	entry output.Entry
	index int
}

// New returns a Collector for opts. It fails if an exclude pattern does not
// compile.
func New(opts Options) (*Collector, error) {
	if opts.Classifier == nil {
		opts.Classifier = classifier.Default()
	}

	c := &Collector{opts: opts}
	for _, pattern := range opts.Exclude {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		c.exclude = append(c.exclude, g)
	}
	return c, nil
}

// Collect classifies every profile found under paths. A path that does not
// exist is an error; unreadable or malformed profile files are reported as
// warnings in the result. Entries are ordered by source path and then by
// position within the file. Entries whose profile fingerprint repeats an
// earlier entry are marked with DuplicateOf.
func (c *Collector) Collect(ctx context.Context, paths []string) (*output.Result, error) {
	start := time.Now()
	result := output.NewResult(strings.Join(paths, ", "))

	logger.Info("collect started", "paths", len(paths), "run", result.ID)

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}

		if !info.IsDir() {
			if _, ok := profile.DetectFormat(path); !ok {
				c.warn(path, profile.ErrUnsupportedFormat)
				continue
			}
			c.processFile(path)
			continue
		}

		if err := c.walk(ctx, path); err != nil {
			return nil, err
		}
	}

	result.Entries = c.entries()
	result.Warnings = c.sortedWarnings()
	result.Duration = time.Since(start)
	result.Tally()

	logger.Info("collect finished",
		"profiles", result.Summary.Total,
		"warnings", len(result.Warnings),
		"duplicates", result.Summary.Duplicates,
		"elapsed", result.Duration)

	return result, nil
}

// Collect classifies every profile under paths with a default Collector.
func Collect(ctx context.Context, paths []string, opts Options) (*output.Result, error) {
	c, err := New(opts)
	if err != nil {
		return nil, err
	}
	return c.Collect(ctx, paths)
}

func (c *Collector) walk(ctx context.Context, root string) error {
	conf := fastwalk.Config{
		Follow: c.opts.Follow,
	}

	err := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			c.warn(path, err)
			return nil
		}

		if c.isExcluded(path) {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if _, ok := profile.DetectFormat(path); !ok {
			return nil
		}

		if d.Type().IsRegular() || (c.opts.Follow && d.Type()&fs.ModeSymlink != 0) {
			c.processFile(path)
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("walking %s: %w", root, err)
	}
	return nil
}

func (c *Collector) isExcluded(path string) bool {
	slashed := filepath.ToSlash(path)
	for _, g := range c.exclude {
		if g.Match(slashed) || g.Match(filepath.Base(path)) {
			return true
		}
	}
	return false
}

func (c *Collector) processFile(path string) {
	named, err := profile.ReadFile(path)
	if err != nil {
		c.warn(path, err)
		return
	}

	logger.Debug("profile file decoded", "path", path, "profiles", len(named))

	results := make([]found, 0, len(named))
	for i, n := range named {
		decision := c.opts.Classifier.Classify(n.Profile)
		results = append(results, found{
			entry: output.Entry{
				Name:        n.Name,
				Source:      path,
				Profile:     n.Profile,
				Fingerprint: n.Profile.ShortFingerprint(),
				Decision:    decision,
			},
			index: i,
		})
	}

	c.mu.Lock()
	c.found = append(c.found, results...)
	c.mu.Unlock()
}

func (c *Collector) warn(path string, err error) {
	logger.Warn("skipping input", "path", path, "err", err)

	c.mu.Lock()
	c.warnings = append(c.warnings, fmt.Sprintf("%s: %v", path, err))
	c.mu.Unlock()
}

// entries returns the collected entries in deterministic order with
// duplicates marked.
func (c *Collector) entries() []output.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	slices.SortFunc(c.found, func(a, b found) int {
		if r := cmp.Compare(a.entry.Source, b.entry.Source); r != 0 {
			return r
		}
		return cmp.Compare(a.index, b.index)
	})

	seen := make(map[string]string, len(c.found))
	entries := make([]output.Entry, len(c.found))
	for i, f := range c.found {
		e := f.entry
		key := e.Profile.Fingerprint()
		if first, ok := seen[key]; ok {
			e.DuplicateOf = first
		} else {
			seen[key] = e.Name
		}
		entries[i] = e
	}
	return entries
}

func (c *Collector) sortedWarnings() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	warnings := slices.Clone(c.warnings)
	slices.Sort(warnings)
	return warnings
}
