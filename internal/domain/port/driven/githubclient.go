// Package driven defines the driven ports: interfaces the application core
// depends on and adapters implement.
package driven

import (
	"context"

	"github.com/mkallio/repodigest/internal/domain/model"
)

// GitHubClient defines the driven port for the GitHub API.
// Read methods fetch activity data; write methods create the digest post.
type GitHubClient interface {
	// Read methods

	// FetchRepoInfo resolves the repository identity. A failure here is the
	// only fatal remote error in a run.
	FetchRepoInfo(ctx context.Context, repo model.RepoRef) (*model.RepoInfo, error)
	// FetchItemPage retrieves one page of the given category's item stream,
	// ordered descending by update time (creation time for releases).
	// An empty cursor requests the first page.
	FetchItemPage(ctx context.Context, repo model.RepoRef, kind model.ItemKind, cursor string) (*model.ItemPage, error)
	// FindDiscussionCategory returns the ID of the named discussion category,
	// or "" if the category does not exist. The lookup is case-insensitive.
	FindDiscussionCategory(ctx context.Context, repo model.RepoRef, name string) (string, error)
	// FetchRecentDiscussions returns up to count most recently updated
	// discussions in the given category.
	FetchRecentDiscussions(ctx context.Context, repo model.RepoRef, categoryID string, count int) ([]model.DiscussionPost, error)

	// Write methods

	// CreateDiscussionCategory creates a discussion category and returns its ID.
	CreateDiscussionCategory(ctx context.Context, repo model.RepoRef, name string) (string, error)
	// CreateDiscussion posts a new discussion and returns its URL.
	CreateDiscussion(ctx context.Context, repo model.RepoRef, categoryID, title, body string) (string, error)
}
