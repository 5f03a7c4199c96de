package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jamesainslie/spectier/pkg/spectier/tier"
)

// PrettyFormatter formats output with colors and styling using lipgloss.
type PrettyFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *Result) error {
	w.WriteString(f.formatHeader(r))
	w.WriteString("\n")

	w.WriteString(f.formatTable(r))

	w.WriteString(f.formatFooter(r))

	if len(r.Warnings) > 0 {
		w.WriteString("\n")
		w.WriteString(f.formatWarnings(r.Warnings))
	}

	return nil
}

func (f *PrettyFormatter) formatHeader(r *Result) string {
	lines := []string{
		fmt.Sprintf("%s %s", LabelStyle.Render("Source:"), ValueStyle.Render(r.Source)),
	}

	info := fmt.Sprintf("%s %s", LabelStyle.Render("Classified:"),
		ValueStyle.Render(fmt.Sprintf("%d profiles in %s", r.Summary.Total, formatDuration(r.Duration))))
	if r.ID != "" {
		info += "  " + MutedStyle.Render("run "+shortID(r.ID))
	}
	lines = append(lines, info)

	return HeaderBox.Render(strings.Join(lines, "\n"))
}

func (f *PrettyFormatter) formatTable(r *Result) string {
	if len(r.Entries) == 0 {
		return MutedStyle.Render("  No profiles classified\n")
	}

	headers := []string{"TIER", "NAME", "DEVICE", "ROUTE"}
	if r.Explain {
		headers = append(headers, "DEDUCTIONS")
	}

	rows := make([][]string, len(r.Entries))
	for i, e := range r.Entries {
		rows[i] = []string{e.Decision.Tier.String(), e.Name, describe(e), string(e.Decision.Route)}
		if r.Explain {
			rows[i] = append(rows[i], deductionString(e.Decision.Deductions))
		}
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var sb strings.Builder

	sb.WriteString(" ")
	for i, h := range headers {
		sb.WriteString(" ")
		sb.WriteString(TableHeaderStyle.Render(padRight(h, widths[i])))
		sb.WriteString(" ")
	}
	sb.WriteString("\n")

	for i, row := range rows {
		t := r.Entries[i].Decision.Tier
		sb.WriteString(" ")
		for j, cell := range row {
			sb.WriteString(" ")
			padded := padRight(cell, widths[j])
			if j == 0 {
				sb.WriteString(TierStyle(t).Render(padded))
			} else if r.Entries[i].DuplicateOf != "" {
				sb.WriteString(MutedStyle.Render(padded))
			} else {
				sb.WriteString(ValueStyle.Render(padded))
			}
			sb.WriteString(" ")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func (f *PrettyFormatter) formatFooter(r *Result) string {
	parts := make([]string, 0, 6)
	for _, t := range []tier.Tier{tier.High, tier.Middle, tier.Low, tier.Unknown} {
		parts = append(parts, fmt.Sprintf("%s %s",
			TierStyle(t).Render(t.Title()+":"),
			ValueStyle.Render(fmt.Sprintf("%d", r.Summary.Count(t)))))
	}

	if r.Summary.Duplicates > 0 {
		parts = append(parts, MutedStyle.Render(fmt.Sprintf("%d duplicate", r.Summary.Duplicates)))
	}

	parts = append(parts, MutedStyle.Render("Use -o plain for unformatted output"))

	return FooterBox.Render(strings.Join(parts, "  "))
}

func (f *PrettyFormatter) formatWarnings(warnings []string) string {
	var sb strings.Builder

	sb.WriteString(WarningStyle.Bold(true).Render("Warnings:"))
	sb.WriteString("\n")

	for _, warning := range warnings {
		sb.WriteString(WarningStyle.Render("  " + warning))
		sb.WriteString("\n")
	}

	return sb.String()
}

// padRight pads s with spaces on the right to width.
func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// shortID returns the first segment of a UUID.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

// formatDuration formats a duration in a human-friendly way.
func formatDuration(d interface{ Seconds() float64 }) string {
	sec := d.Seconds()
	if sec < 1 {
		return fmt.Sprintf("%.0fms", sec*1000)
	}
	if sec < 60 {
		return fmt.Sprintf("%.1fs", sec)
	}
	minutes := int(sec) / 60
	seconds := int(sec) % 60
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
}

// Ensure PrettyFormatter implements Formatter.
var _ Formatter = (*PrettyFormatter)(nil)
