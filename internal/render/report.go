// Package render turns an aggregation report into markdown, builds the LLM
// prompt, and composes the final digest body with its metadata footer. It is
// a thin collaborator of the engine: no windowing or classification logic
// lives here.
package render

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"
	"time"
	"unicode/utf8"

	"github.com/mkallio/repodigest/internal/domain/model"
)

//go:embed templates/report.md.tmpl
var reportTemplateText string

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"date":     func(t time.Time) string { return t.Format(time.DateOnly) },
	"datetime": func(t time.Time) string { return t.Format("2006-01-02 15:04") },
	"excerpt":  excerpt,
}).Parse(reportTemplateText))

// reportData is the template context for the activity report.
type reportData struct {
	ProjectName string
	StartDate   time.Time
	EndDate     time.Time
	Items       []model.ClassifiedItem
}

// Report renders the classified items into the markdown activity report fed
// to the LLM and optionally written out for inspection.
func Report(projectName string, r *model.Report) (string, error) {
	var sb strings.Builder
	err := reportTemplate.Execute(&sb, reportData{
		ProjectName: projectName,
		StartDate:   r.Window.Start,
		EndDate:     r.Window.DisplayEnd(),
		Items:       r.Items,
	})
	if err != nil {
		return "", fmt.Errorf("rendering activity report: %w", err)
	}
	return sb.String(), nil
}

// excerpt trims a body to a bounded single-paragraph excerpt so one long PR
// description cannot dominate the prompt.
func excerpt(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if i := strings.Index(s, "\n\n"); i >= 0 {
		s = s[:i]
	}
	const maxLen = 500
	if len(s) > maxLen {
		// Back off to a rune boundary so the cut never splits a
		// multi-byte character.
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut] + "…"
	}
	return s
}
