package application

import (
	"sort"
	"strings"

	"github.com/mkallio/repodigest/internal/domain/model"
)

// Decompose flattens an included item's nested events into a chronological
// activity list, keeping only events inside the window: one activity per
// in-window comment, one per in-window commit (pull requests only), and a
// merge activity if the merge fell in the window, otherwise a close activity
// if the close did. The two are mutually exclusive.
//
// A classifier-included item may legally decompose to an empty list, e.g.
// when it was included on creation alone.
func Decompose(item *model.Item, window model.Window) []model.Activity {
	var activities []model.Activity

	for _, c := range item.Comments() {
		if window.Contains(c.CreatedAt) {
			activities = append(activities, model.Activity{
				Kind:    model.ActivityComment,
				Date:    c.CreatedAt,
				Author:  c.Author,
				Message: strings.TrimSpace(c.Body),
			})
		}
	}

	if item.PullRequest != nil {
		for _, c := range item.PullRequest.Commits {
			if window.Contains(c.CommittedDate) {
				activities = append(activities, model.Activity{
					Kind:    model.ActivityCommit,
					Date:    c.CommittedDate,
					Author:  c.AuthorName,
					Message: strings.TrimSpace(c.Message),
				})
			}
		}
	}

	switch {
	case item.PullRequest != nil && item.PullRequest.MergedAt != nil:
		if window.Contains(*item.PullRequest.MergedAt) {
			activities = append(activities, model.Activity{
				Kind: model.ActivityMerge,
				Date: *item.PullRequest.MergedAt,
			})
		}
	case item.ClosedAt() != nil:
		if window.Contains(*item.ClosedAt()) {
			activities = append(activities, model.Activity{
				Kind: model.ActivityClose,
				Date: *item.ClosedAt(),
			})
		}
	}

	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].Date.Before(activities[j].Date)
	})
	return activities
}
