package output

import (
	"bytes"
	"encoding/csv"
	"strings"
)

// tableHeader is the column set shared by tsv, csv and markdown.
var tableHeader = []string{"TIER", "NAME", "PLATFORM", "DEVICE", "ROUTE", "SOURCE"}

func tableRow(e Entry) []string {
	return []string{
		e.Decision.Tier.String(),
		e.Name,
		e.Profile.Platform.String(),
		describe(e),
		string(e.Decision.Route),
		e.Source,
	}
}

// TSVFormatter formats output as tab-separated values.
type TSVFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *TSVFormatter) Format(w *bytes.Buffer, r *Result) error {
	w.WriteString(strings.Join(tableHeader, "\t"))
	w.WriteByte('\n')

	for _, e := range r.Entries {
		row := tableRow(e)
		for i := range row {
			row[i] = strings.NewReplacer("\t", " ", "\n", " ").Replace(row[i])
		}
		w.WriteString(strings.Join(row, "\t"))
		w.WriteByte('\n')
	}

	return nil
}

func init() {
	Register("tsv", func() Formatter {
		return &TSVFormatter{}
	})
}

// Ensure TSVFormatter implements Formatter.
var _ Formatter = (*TSVFormatter)(nil)

// CSVFormatter formats output as RFC 4180 comma-separated values.
type CSVFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *CSVFormatter) Format(w *bytes.Buffer, r *Result) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(tableHeader); err != nil {
		return err
	}

	for _, e := range r.Entries {
		if err := writer.Write(tableRow(e)); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func init() {
	Register("csv", func() Formatter {
		return &CSVFormatter{}
	})
}

// Ensure CSVFormatter implements Formatter.
var _ Formatter = (*CSVFormatter)(nil)

// MarkdownFormatter formats output as a GitHub-flavored Markdown table.
type MarkdownFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *MarkdownFormatter) Format(w *bytes.Buffer, r *Result) error {
	w.WriteString("| " + strings.Join(tableHeader, " | ") + " |\n")

	w.WriteString("|")
	for range tableHeader {
		w.WriteString("------|")
	}
	w.WriteByte('\n')

	for _, e := range r.Entries {
		row := tableRow(e)
		for i := range row {
			row[i] = escapeMarkdownPipe(row[i])
		}
		w.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}

	return nil
}

// escapeMarkdownPipe escapes pipe characters in a string for Markdown tables.
func escapeMarkdownPipe(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func init() {
	Register("markdown", func() Formatter {
		return &MarkdownFormatter{}
	})
}

// Ensure MarkdownFormatter implements Formatter.
var _ Formatter = (*MarkdownFormatter)(nil)
