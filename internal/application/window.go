package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/mkallio/repodigest/internal/domain/model"
)

// Policy holds the tunable knobs of the adaptive window. The defaults mirror
// long-standing behavior but carry no deeper rationale; they are
// configuration, not invariants.
type Policy struct {
	// WindowStep is how far the window end advances per expansion round.
	WindowStep time.Duration
	// MinItems is the minimum number of classified items for a window to
	// count as having enough content.
	MinItems int
	// MinEngagements is the minimum number of comment-or-commit activities.
	MinEngagements int
}

// DefaultPolicy returns the standard expansion policy: grow a week at a
// time until at least 2 items and 2 comment-or-commit activities exist.
func DefaultPolicy() Policy {
	return Policy{
		WindowStep:     7 * 24 * time.Hour,
		MinItems:       2,
		MinEngagements: 2,
	}
}

// satisfied reports whether the aggregate meets the content threshold.
func (p Policy) satisfied(items []model.ClassifiedItem) bool {
	if len(items) < p.MinItems {
		return false
	}
	engagements := 0
	for _, it := range items {
		for _, a := range it.Activities {
			if a.IsEngagement() {
				engagements++
			}
		}
	}
	return engagements >= p.MinEngagements
}

// Aggregator runs repeated fetch+classify+decompose cycles over a growing
// window until the policy is satisfied or the present day is reached.
type Aggregator struct {
	fetcher *Fetcher
	policy  Policy
	now     func() time.Time
}

// NewAggregator creates an Aggregator. now is injectable for tests; pass
// time.Now in production.
func NewAggregator(fetcher *Fetcher, policy Policy, now func() time.Time) *Aggregator {
	return &Aggregator{fetcher: fetcher, policy: policy, now: now}
}

// Aggregate expands the window from start until enough content exists.
// start must be a UTC midnight. Each iteration advances the end bound by the
// policy step, capped at today's midnight, and re-fetches and re-classifies
// the full range from scratch: merged/closed state can change retroactively
// inside an already-fetched range, so incremental accumulation would go
// stale.
//
// The returned satisfied flag is false when the window reached today without
// meeting the threshold; the caller must then skip summarization.
func (a *Aggregator) Aggregate(ctx context.Context, repo model.RepoRef, start time.Time) (items []model.ClassifiedItem, window model.Window, satisfied bool, err error) {
	today := model.Midnight(a.now())
	window = model.Window{Start: start, End: start}

	for window.End.Before(today) {
		end := window.End.Add(a.policy.WindowStep)
		if end.After(today) {
			end = today
		}
		window.End = end

		fetched, ferr := a.fetcher.FetchSince(ctx, repo, window.Start)
		if ferr != nil {
			return nil, window, false, ferr
		}

		items = classifyAndDecompose(fetched, window)

		slog.Debug("window expanded",
			"start", window.Start.Format(time.DateOnly),
			"end", window.End.Format(time.DateOnly),
			"items", len(items),
		)

		if a.policy.satisfied(items) {
			return items, window, true, nil
		}
	}

	return items, window, false, nil
}

// classifyAndDecompose filters fetched items against the window and expands
// each included one into its dated activities.
func classifyAndDecompose(fetched []model.Item, window model.Window) []model.ClassifiedItem {
	var items []model.ClassifiedItem
	for i := range fetched {
		item := &fetched[i]
		if !ShouldInclude(item, window) {
			continue
		}
		items = append(items, model.ClassifiedItem{
			Item:       *item,
			Activities: Decompose(item, window),
		})
	}
	return items
}
