package application

import (
	"context"
	"encoding/json"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/mkallio/repodigest/internal/domain/model"
	"github.com/mkallio/repodigest/internal/domain/port/driven"
)

// PoweredByMarker is the stable identifying string every digest post carries
// in its footer's powered_by field. Continuation resolution keys on it.
const PoweredByMarker = "repodigest"

// footerRe matches the fenced JSON block embedded at the end of every
// published digest.
var footerRe = regexp.MustCompile("(?s)```json\n(.*?)\n```")

// Footer is the structured metadata embedded in a published digest post.
// Dates use the ISO yyyy-mm-dd form; EndDate is the last day the digest
// covered (the display end date, not the exclusive window bound).
type Footer struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	PoweredBy string `json:"powered_by"`
	LLM       string `json:"llm"`
}

// parseFooter extracts and validates the digest footer from a post body.
// It returns false for bodies without a fenced JSON block, with malformed
// JSON, without the identifying marker, or with an unparsable end date.
func parseFooter(body string) (Footer, time.Time, bool) {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	m := footerRe.FindStringSubmatch(body)
	if m == nil {
		return Footer{}, time.Time{}, false
	}

	var f Footer
	if err := json.Unmarshal([]byte(m[1]), &f); err != nil {
		return Footer{}, time.Time{}, false
	}
	if !strings.Contains(f.PoweredBy, PoweredByMarker) || f.EndDate == "" {
		return Footer{}, time.Time{}, false
	}

	end, err := time.ParseInLocation(time.DateOnly, f.EndDate, time.UTC)
	if err != nil {
		return Footer{}, time.Time{}, false
	}
	return f, end, true
}

// isDigestPost reports whether a discussion body is a previously published
// digest. Used to keep our own posts out of the activity stream.
func isDigestPost(body string) bool {
	_, _, ok := parseFooter(body)
	return ok
}

// ContinuationResolver recovers the engine's continuation point from
// previously published digests in the target discussion category.
type ContinuationResolver struct {
	gh   driven.GitHubClient
	keep int
}

// NewContinuationResolver creates a resolver that keeps up to keep prior
// summaries, newest first.
func NewContinuationResolver(gh driven.GitHubClient, keep int) *ContinuationResolver {
	return &ContinuationResolver{gh: gh, keep: keep}
}

// Resolve fetches the most recent posts in the named category and returns
// the ones carrying a valid digest footer, sorted descending by end date.
// A missing category means no prior summaries, not a failure. A post with a
// malformed or missing footer is skipped individually.
func (r *ContinuationResolver) Resolve(ctx context.Context, repo model.RepoRef, category string) ([]model.ContinuationRecord, error) {
	categoryID, err := r.gh.FindDiscussionCategory(ctx, repo, category)
	if err != nil {
		return nil, err
	}
	if categoryID == "" {
		slog.Warn("discussion category not found, assuming no prior digests", "category", category)
		return nil, nil
	}

	posts, err := r.gh.FetchRecentDiscussions(ctx, repo, categoryID, r.keep)
	if err != nil {
		return nil, err
	}

	var records []model.ContinuationRecord
	for _, post := range posts {
		_, end, ok := parseFooter(post.Body)
		if !ok {
			slog.Warn("skipping post without a valid digest footer", "title", post.Title)
			continue
		}
		records = append(records, model.ContinuationRecord{
			EndDate: end,
			Title:   post.Title,
			Body:    strings.ReplaceAll(post.Body, "\r\n", "\n"),
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].EndDate.After(records[j].EndDate)
	})
	if len(records) > r.keep {
		records = records[:r.keep]
	}
	return records, nil
}

// NextStart returns the day after the newest record's end date, which is
// where the next digest window begins. ok is false when no records exist.
func NextStart(records []model.ContinuationRecord) (time.Time, bool) {
	if len(records) == 0 {
		return time.Time{}, false
	}
	return records[0].EndDate.AddDate(0, 0, 1), true
}
