// Package model contains the domain types for repository activity digests.
package model

import (
	"strings"
	"time"
)

// ItemKind identifies the variant of an Item.
type ItemKind int

const (
	KindPullRequest ItemKind = iota
	KindIssue
	KindRelease
	KindDiscussion
)

// String returns the snake_case name used in rendered reports and logs.
func (k ItemKind) String() string {
	switch k {
	case KindPullRequest:
		return "pull_request"
	case KindIssue:
		return "issue"
	case KindRelease:
		return "release"
	case KindDiscussion:
		return "discussion"
	default:
		return "unknown"
	}
}

// Item is a single unit of repository activity: a pull request, issue,
// release, or discussion. Exactly one of the variant payload pointers is
// non-nil, matching Kind. Number is zero for releases (GitHub does not
// number them) and unique only within a kind, not globally.
type Item struct {
	Kind      ItemKind
	Number    int
	Title     string
	URL       string
	Body      string
	CreatedAt time.Time
	// UpdatedAt is the API-reported update time. For releases it is set to
	// CreatedAt because the API reports no update time for them.
	UpdatedAt time.Time

	PullRequest *PullRequestDetails
	Issue       *IssueDetails
	Release     *ReleaseDetails
	Discussion  *DiscussionDetails
}

// PullRequestDetails holds the pull-request-specific payload.
type PullRequestDetails struct {
	State    string // "OPEN", "CLOSED", or "MERGED" as reported by the API.
	Merged   bool
	MergedAt *time.Time
	ClosedAt *time.Time
	Comments []Comment
	Commits  []Commit
}

// IssueDetails holds the issue-specific payload.
type IssueDetails struct {
	State    string
	ClosedAt *time.Time
	Comments []Comment
}

// ReleaseDetails holds the release-specific payload. The release notes are
// carried in the Item's Body field.
type ReleaseDetails struct {
	Name    string
	TagName string
}

// DiscussionDetails holds the discussion-specific payload.
type DiscussionDetails struct {
	Category string
	ClosedAt *time.Time
	Comments []Comment
}

// Comments returns the nested comments for kinds that have them.
func (i *Item) Comments() []Comment {
	switch {
	case i.PullRequest != nil:
		return i.PullRequest.Comments
	case i.Issue != nil:
		return i.Issue.Comments
	case i.Discussion != nil:
		return i.Discussion.Comments
	default:
		return nil
	}
}

// ClosedAt returns the close timestamp for kinds that can close, or nil.
func (i *Item) ClosedAt() *time.Time {
	switch {
	case i.PullRequest != nil:
		return i.PullRequest.ClosedAt
	case i.Issue != nil:
		return i.Issue.ClosedAt
	case i.Discussion != nil:
		return i.Discussion.ClosedAt
	default:
		return nil
	}
}

// Status returns the lifecycle status string shown in reports: "merged" for
// merged PRs, otherwise the lowercased API state. Empty for releases.
func (i *Item) Status() string {
	switch {
	case i.PullRequest != nil:
		if i.PullRequest.Merged {
			return "merged"
		}
		return strings.ToLower(i.PullRequest.State)
	case i.Issue != nil:
		return strings.ToLower(i.Issue.State)
	default:
		return ""
	}
}

// Comment is a comment on a PR, issue, or discussion. It has no lifecycle of
// its own; it belongs to exactly one Item.
type Comment struct {
	Author    string
	Body      string
	CreatedAt time.Time
}

// Commit is a commit attached to a pull request.
type Commit struct {
	AuthorName    string
	Message       string
	CommittedDate time.Time
}
