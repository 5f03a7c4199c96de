package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/spectier/pkg/spectier/batch"
	"github.com/jamesainslie/spectier/pkg/spectier/classifier"
	"github.com/jamesainslie/spectier/pkg/spectier/filter"
	"github.com/jamesainslie/spectier/pkg/spectier/output"
)

var batchOpts batchFlags

var batchCmd = &cobra.Command{
	Use:   "batch [path...]",
	Short: "Classify every profile in files and directories",
	Long: `Classify every device profile found in the given files and directories.

Directories are walked recursively; files ending in .yaml, .yml, .json or
.jsonc are read. A file may hold one profile or a "profiles" list.
Unreadable or invalid files are reported as warnings and skipped.

Examples:
  spectier batch ./profiles
  spectier batch ./profiles --tier high,middle -o csv
  spectier batch ./profiles --platform apple --sort name
  spectier batch a.yaml b.json --unique --limit 20
  spectier batch ./profiles --exclude 'legacy/*' -o json`,
	RunE: runBatch,
}

func init() {
	flags := batchCmd.Flags()
	flags.StringVar(&batchOpts.tiers, "tier", "", "only show these tiers (comma-separated)")
	flags.StringVar(&batchOpts.minTier, "min-tier", "", "only show tiers at or above this one")
	flags.StringVar(&batchOpts.platforms, "platform", "", "only show these platforms (comma-separated)")
	flags.StringSliceVar(&batchOpts.include, "include", nil, "only show entries whose source or name matches a glob")
	flags.StringSliceVarP(&batchOpts.exclude, "exclude", "e", nil, "skip paths and entries matching a glob")
	flags.StringVar(&batchOpts.sortBy, "sort", "tier", "sort by tier, name, source or platform")
	flags.BoolVarP(&batchOpts.reverse, "reverse", "r", false, "reverse the sort order")
	flags.IntVarP(&batchOpts.limit, "limit", "n", 0, "maximum entries to show (0 = all)")
	flags.BoolVar(&batchOpts.unique, "unique", false, "hide entries that duplicate an earlier profile")
	flags.BoolVar(&batchOpts.follow, "follow", false, "follow symbolic links")
	flags.BoolVar(&batchOpts.explain, "explain", false, "include threshold deductions in text output")

	rootCmd.AddCommand(batchCmd)
}

// runBatch collects, filters and prints the classified profiles.
func runBatch(cmd *cobra.Command, args []string) error {
	result, err := classifyBatch(cmd.Context(), clf, args, batchOpts)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			printInfo("Interrupted")
			return nil
		}
		return err
	}

	for _, w := range result.Warnings {
		printVerbose("warning: %s", w)
	}

	if getQuiet() {
		return writeTiers(cmd.OutOrStdout(), result)
	}
	return writeResult(cmd.OutOrStdout(), result, viper.GetString("output"), viper.GetString("template"))
}

// classifyBatch runs the collector over paths (the current directory when
// empty) and applies the batch filter. The summary counts the entries that
// pass the filter.
func classifyBatch(ctx context.Context, c *classifier.Classifier, paths []string, f batchFlags) (*output.Result, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	flt, err := buildFilter(f)
	if err != nil {
		return nil, err
	}

	result, err := batch.Collect(ctx, paths, batch.Options{
		Classifier: c,
		Exclude:    f.exclude,
		Follow:     f.follow,
	})
	if err != nil {
		return nil, err
	}

	collected := len(result.Entries)
	result.Entries = flt.Apply(result.Entries)
	result.Explain = f.explain
	result.Tally()

	cliLogger.Info("batch complete",
		"collected", collected,
		"shown", len(result.Entries),
		"sort", filterDescription(flt))

	return result, nil
}

func filterDescription(f *filter.Filter) string {
	if f.SortDescending {
		return f.SortBy.String() + " desc"
	}
	return f.SortBy.String() + " asc"
}
