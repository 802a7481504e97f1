package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mkallio/repodigest/internal/domain/model"
	"github.com/mkallio/repodigest/internal/domain/port/driven"
)

// ErrInsufficientContent signals that the window reached the present day
// without meeting the content threshold. It is a normal "nothing to do"
// outcome, not a failure: callers skip summarization and posting.
var ErrInsufficientContent = errors.New("not enough activity to build a digest")

// DefaultKeepSummaries is how many prior digests the resolver recovers for
// use as LLM context.
const DefaultKeepSummaries = 3

// ReportService orchestrates one aggregation run: continuation resolution,
// adaptive window expansion, and assembly of the final report.
type ReportService struct {
	gh       driven.GitHubClient
	policy   Policy
	keep     int
	now      func() time.Time
	category string
}

// NewReportService creates a ReportService. category names the discussion
// category previous digests were posted to; it may be empty, in which case
// no continuation is attempted and the window starts at the repository
// creation date.
func NewReportService(gh driven.GitHubClient, policy Policy, category string) *ReportService {
	return &ReportService{
		gh:       gh,
		policy:   policy,
		keep:     DefaultKeepSummaries,
		now:      time.Now,
		category: category,
	}
}

// WithClock overrides the time source. Intended for tests.
func (s *ReportService) WithClock(now func() time.Time) *ReportService {
	s.now = now
	return s
}

// BuildReport runs the engine once. startOverride, when non-zero, pins the
// window start instead of deriving it from prior digests.
//
// Repository identity resolution and continuation resolution are both fatal
// on query failure: falling back to the repository creation date on a
// transient error would produce a digest overlapping everything already
// published. A missing category or malformed footer still degrades to no
// priors inside the resolver. A run without enough content returns the
// partial report together with ErrInsufficientContent.
func (s *ReportService) BuildReport(ctx context.Context, repo model.RepoRef, startOverride time.Time) (*model.Report, error) {
	info, err := s.gh.FetchRepoInfo(ctx, repo)
	if err != nil {
		return nil, fmt.Errorf("resolving repository %s: %w", repo, err)
	}

	var priors []model.ContinuationRecord
	if s.category != "" {
		priors, err = NewContinuationResolver(s.gh, s.keep).Resolve(ctx, repo, s.category)
		if err != nil {
			return nil, fmt.Errorf("resolving continuation state: %w", err)
		}
	}

	start := startOverride
	if start.IsZero() {
		if next, ok := NextStart(priors); ok {
			start = next
			slog.Info("continuing after previous digest", "start", start.Format(time.DateOnly))
		} else {
			start = model.Midnight(info.CreatedAt)
			slog.Info("starting at repository creation day", "start", start.Format(time.DateOnly))
		}
	}

	items, window, satisfied, err := NewAggregator(NewFetcher(s.gh), s.policy, s.now).Aggregate(ctx, repo, start)
	if err != nil {
		return nil, err
	}

	report := &model.Report{
		Repo:           repo,
		Window:         window,
		Items:          items,
		PriorSummaries: priors,
	}

	slog.Info("aggregation finished",
		"start", window.Start.Format(time.DateOnly),
		"end", window.End.Format(time.DateOnly),
		"items", report.ItemCount(),
		"engagements", report.EngagementCount(),
		"satisfied", satisfied,
	)

	if !satisfied {
		return report, ErrInsufficientContent
	}
	return report, nil
}
