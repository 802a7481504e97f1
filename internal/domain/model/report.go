package model

import "time"

// ClassifiedItem is an Item that passed window classification, annotated
// with its window-scoped activities sorted ascending by date. Activities may
// be empty for items included on creation alone.
type ClassifiedItem struct {
	Item       Item
	Activities []Activity
}

// Report is the output of one aggregation run: the classified items in
// update-time-descending order, the resolved window, and the previously
// published summaries recovered by the continuation resolver.
type Report struct {
	Repo           RepoRef
	Window         Window
	Items          []ClassifiedItem
	PriorSummaries []ContinuationRecord
}

// ItemCount returns the number of classified items.
func (r *Report) ItemCount() int { return len(r.Items) }

// EngagementCount returns the number of comment and commit activities across
// all items. This is the count the adaptive window threshold is judged on.
func (r *Report) EngagementCount() int {
	n := 0
	for _, it := range r.Items {
		for _, a := range it.Activities {
			if a.IsEngagement() {
				n++
			}
		}
	}
	return n
}

// RepoRef identifies a GitHub repository.
type RepoRef struct {
	Owner string
	Name  string
}

// String returns the owner/name form.
func (r RepoRef) String() string { return r.Owner + "/" + r.Name }

// RepoInfo is the repository identity resolved at the start of a run.
// CreatedAt seeds the window start when no prior digest exists.
type RepoInfo struct {
	NodeID    string
	CreatedAt time.Time
}

// ItemPage is one page of a single category's item stream, fetched in
// update-time-descending order.
type ItemPage struct {
	Items       []Item
	EndCursor   string
	HasNextPage bool
}

// DiscussionPost is a raw previously published discussion in the digest
// category, before footer parsing.
type DiscussionPost struct {
	Title     string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
