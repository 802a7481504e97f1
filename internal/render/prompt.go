package render

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"text/template"
	"time"
)

//go:embed templates/prompt.tmpl
var promptTemplateText string

var promptTemplate = template.Must(template.New("prompt").Funcs(template.FuncMap{
	"date": func(t time.Time) string { return t.Format(time.DateOnly) },
}).Parse(promptTemplateText))

// footerTailRe matches the horizontal rule plus details block appended to
// every published digest. Prior summaries are stripped of it before being
// fed back to the LLM.
var footerTailRe = regexp.MustCompile(`(?s)---\n\n<details>.*$`)

// StripFooterTail removes the metadata tail from a published digest body.
func StripFooterTail(body string) string {
	return strings.TrimSpace(footerTailRe.ReplaceAllString(body, ""))
}

// promptData is the template context for the LLM prompt.
type promptData struct {
	ProjectName       string
	StartDate         time.Time
	EndDate           time.Time
	ActivityReport    string
	PreviousSummaries []string
}

// Prompt builds the LLM prompt from the rendered activity report and the
// recovered prior summaries. previousSummaries should already carry their
// titles and be stripped of footer tails.
func Prompt(projectName string, startDate, endDate time.Time, activityReport string, previousSummaries []string) (string, error) {
	var sb strings.Builder
	err := promptTemplate.Execute(&sb, promptData{
		ProjectName:       projectName,
		StartDate:         startDate,
		EndDate:           endDate,
		ActivityReport:    activityReport,
		PreviousSummaries: previousSummaries,
	})
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return sb.String(), nil
}
