package render

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mkallio/repodigest/internal/application"
	"github.com/mkallio/repodigest/internal/domain/model"
)

// PoweredByURL identifies the generator in every digest footer. The
// continuation resolver keys on the marker it contains.
const PoweredByURL = "https://github.com/mkallio/" + application.PoweredByMarker

// SplitTitle splits an LLM response into its first line (the digest title)
// and the remaining body.
func SplitTitle(response string) (title, body string) {
	response = strings.TrimSpace(response)
	title, body, found := strings.Cut(response, "\n")
	if !found {
		return strings.TrimSpace(title), ""
	}
	return strings.TrimSpace(strings.TrimPrefix(title, "#")), strings.TrimSpace(body)
}

// ComposeSummaryBody appends the metadata footer to the AI summary. The
// footer's end_date is the display end date (the last day covered), and the
// fenced JSON block is what the continuation resolver re-parses on the next
// run.
func ComposeSummaryBody(aiSummary string, window model.Window, llmModel string) (string, error) {
	footer := application.Footer{
		StartDate: window.Start.Format(time.DateOnly),
		EndDate:   window.DisplayEnd().Format(time.DateOnly),
		PoweredBy: PoweredByURL,
		LLM:       llmModel,
	}
	meta, err := json.MarshalIndent(footer, "", "    ")
	if err != nil {
		return "", fmt.Errorf("marshaling digest footer: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(aiSummary))
	sb.WriteString("\n\n---\n\n<details><summary></summary>\n\n```json\n")
	sb.Write(meta)
	sb.WriteString("\n```\n</details>\n")
	return sb.String(), nil
}
