package application

import "github.com/mkallio/repodigest/internal/domain/model"

// ShouldInclude decides whether an item belongs in the given window. The
// rules run in order and the first match wins; an item can be alive in a
// window through its creation, a state transition, or any nested event even
// when its API-reported update time predates the window (comment activity
// does not always bump updatedAt).
//
// All comparisons use the half-open interval [window.Start, window.End).
func ShouldInclude(item *model.Item, window model.Window) bool {
	// Releases are judged on creation date alone; they have no nested
	// events and never reopen.
	if item.Kind == model.KindRelease {
		return window.Contains(item.CreatedAt)
	}

	if !item.CreatedAt.Before(window.End) {
		return false // created entirely after the period
	}

	if window.Contains(item.UpdatedAt) {
		return true // some activity touched the period
	}

	if window.Contains(item.CreatedAt) {
		return true // freshly created, no other activity yet
	}

	if closedAt := item.ClosedAt(); closedAt != nil {
		if closedAt.Before(window.Start) {
			return false // closed before the period
		}
		if closedAt.Before(window.End) {
			return true // closed within the period
		}
	}

	if item.PullRequest != nil && item.PullRequest.MergedAt != nil {
		mergedAt := *item.PullRequest.MergedAt
		if mergedAt.Before(window.Start) {
			return false // merged before the period
		}
		if mergedAt.Before(window.End) {
			return true // merged within the period
		}
	}

	for _, c := range item.Comments() {
		if window.Contains(c.CreatedAt) {
			return true
		}
	}

	if item.PullRequest != nil {
		for _, c := range item.PullRequest.Commits {
			if window.Contains(c.CommittedDate) {
				return true
			}
		}
	}

	return false
}
