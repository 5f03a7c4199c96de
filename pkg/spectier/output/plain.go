package output

import (
	"bytes"
	"strings"
	"text/tabwriter"
)

// PlainFormatter formats output as an aligned text table without colors,
// suitable for scripting and piping.
type PlainFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PlainFormatter) Format(w *bytes.Buffer, r *Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)

	header := []string{"TIER", "NAME", "PLATFORM", "DEVICE", "ROUTE"}
	if r.Explain {
		header = append(header, "DEDUCTIONS")
	}
	if _, err := tw.Write([]byte(strings.Join(header, "\t") + "\n")); err != nil {
		return err
	}

	for _, e := range r.Entries {
		row := textRow(e, r.Explain)
		if _, err := tw.Write([]byte(strings.Join(row, "\t") + "\n")); err != nil {
			return err
		}
	}

	return tw.Flush()
}

// textRow returns the text-table cells for e.
func textRow(e Entry, explain bool) []string {
	row := []string{
		e.Decision.Tier.String(),
		e.Name,
		e.Profile.Platform.String(),
		describe(e),
		string(e.Decision.Route),
	}
	if explain {
		row = append(row, deductionString(e.Decision.Deductions))
	}
	return row
}

func init() {
	Register("plain", func() Formatter {
		return &PlainFormatter{}
	})
}

// Ensure PlainFormatter implements Formatter.
var _ Formatter = (*PlainFormatter)(nil)
