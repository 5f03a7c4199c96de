package output

import (
	"bytes"
	"sync"
	"text/template"

	"github.com/dustin/go-humanize"

	"github.com/jamesainslie/spectier/pkg/spectier/classifier"
	"github.com/jamesainslie/spectier/pkg/spectier/profile"
)

// TemplateFormatter formats output using a custom Go text/template.
// The template receives the *Result; Entries, Summary, Warnings and ID are
// available directly.
type TemplateFormatter struct {
	templateStr string
	template    *template.Template
	mu          sync.Mutex
}

// NewTemplateFormatter creates a new template formatter with the given template string.
func NewTemplateFormatter(templateStr string) *TemplateFormatter {
	return &TemplateFormatter{
		templateStr: templateStr,
	}
}

// SetTemplate sets or updates the template string.
func (f *TemplateFormatter) SetTemplate(templateStr string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.templateStr = templateStr
	f.template = nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		// mb formats a megabyte count as a human-readable size.
		// Usage: {{mb .Profile.SystemMemoryMB}}
		"mb": profile.FormatMegabytes,

		// comma formats an integer with thousands separators.
		// Usage: {{comma .Profile.CPUFrequencyMHz}}
		"comma": func(n int) string {
			return humanize.Comma(int64(n))
		},

		// deductions renders a deduction list on one line.
		// Usage: {{deductions .Decision.Deductions}}
		"deductions": func(ds []classifier.Deduction) string {
			return deductionString(ds)
		},
	}
}

// Format writes the formatted output to the buffer.
func (f *TemplateFormatter) Format(w *bytes.Buffer, r *Result) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.template == nil {
		tmpl, err := template.New("output").Funcs(templateFuncs()).Parse(f.templateStr)
		if err != nil {
			return err
		}
		f.template = tmpl
	}

	return f.template.Execute(w, r)
}

// DefaultTemplate is the template used when no custom template is provided.
const DefaultTemplate = `{{range .Entries}}{{.Decision.Tier}}	{{.Name}}
{{end}}`

func init() {
	Register("template", func() Formatter {
		return NewTemplateFormatter(DefaultTemplate)
	})
}

// Ensure TemplateFormatter implements Formatter.
var _ Formatter = (*TemplateFormatter)(nil)
