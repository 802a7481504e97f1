package github

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mkallio/repodigest/internal/domain/model"
)

// FindDiscussionCategory returns the ID of the named discussion category, or
// "" when no category matches. Matching is case-insensitive.
func (c *Client) FindDiscussionCategory(ctx context.Context, repo model.RepoRef, name string) (string, error) {
	var out struct {
		Repository struct {
			DiscussionCategories struct {
				Nodes []struct {
					ID   string `json:"id"`
					Name string `json:"name"`
				} `json:"nodes"`
			} `json:"discussionCategories"`
		} `json:"repository"`
	}

	variables := map[string]any{"owner": repo.Owner, "name": repo.Name}
	if err := c.execute(ctx, "discussionCategories", discussionCategoriesQuery, variables, &out); err != nil {
		return "", err
	}

	for _, cat := range out.Repository.DiscussionCategories.Nodes {
		if strings.EqualFold(cat.Name, name) {
			return cat.ID, nil
		}
	}
	return "", nil
}

// FetchRecentDiscussions returns up to count most recently updated
// discussions in the given category. Posts with malformed timestamps are
// skipped with a warning.
func (c *Client) FetchRecentDiscussions(ctx context.Context, repo model.RepoRef, categoryID string, count int) ([]model.DiscussionPost, error) {
	var out struct {
		Repository struct {
			Discussions struct {
				Nodes []struct {
					Title     string `json:"title"`
					Body      string `json:"body"`
					CreatedAt string `json:"createdAt"`
					UpdatedAt string `json:"updatedAt"`
				} `json:"nodes"`
			} `json:"discussions"`
		} `json:"repository"`
	}

	variables := map[string]any{
		"owner":      repo.Owner,
		"name":       repo.Name,
		"categoryId": categoryID,
		"count":      count,
	}
	if err := c.executeFresh(ctx, "recentDiscussions", recentDiscussionsQuery, variables, &out); err != nil {
		return nil, err
	}

	posts := make([]model.DiscussionPost, 0, len(out.Repository.Discussions.Nodes))
	for _, n := range out.Repository.Discussions.Nodes {
		createdAt, err := parseTime(n.CreatedAt)
		if err != nil {
			slog.Warn("skipping discussion post with malformed createdAt", "title", n.Title, "error", err)
			continue
		}
		updatedAt, err := parseTime(n.UpdatedAt)
		if err != nil {
			slog.Warn("skipping discussion post with malformed updatedAt", "title", n.Title, "error", err)
			continue
		}
		posts = append(posts, model.DiscussionPost{
			Title:     n.Title,
			Body:      n.Body,
			CreatedAt: createdAt,
			UpdatedAt: updatedAt,
		})
	}
	return posts, nil
}

// CreateDiscussionCategory creates a discussion category and returns its ID.
func (c *Client) CreateDiscussionCategory(ctx context.Context, repo model.RepoRef, name string) (string, error) {
	info, err := c.FetchRepoInfo(ctx, repo)
	if err != nil {
		return "", err
	}

	var out struct {
		CreateDiscussionCategory struct {
			Category struct {
				ID string `json:"id"`
			} `json:"category"`
		} `json:"createDiscussionCategory"`
	}

	variables := map[string]any{
		"input": map[string]any{
			"repositoryId": info.NodeID,
			"name":         name,
			"description":  fmt.Sprintf("Category for %s", name),
			"emoji":        ":speech_balloon:",
		},
	}
	if err := c.mutate(ctx, "createDiscussionCategory", createDiscussionCategoryMutation, variables, &out); err != nil {
		return "", err
	}
	return out.CreateDiscussionCategory.Category.ID, nil
}

// CreateDiscussion posts a new discussion and returns its URL.
func (c *Client) CreateDiscussion(ctx context.Context, repo model.RepoRef, categoryID, title, body string) (string, error) {
	info, err := c.FetchRepoInfo(ctx, repo)
	if err != nil {
		return "", err
	}

	var out struct {
		CreateDiscussion struct {
			Discussion struct {
				ID  string `json:"id"`
				URL string `json:"url"`
			} `json:"discussion"`
		} `json:"createDiscussion"`
	}

	variables := map[string]any{
		"input": map[string]any{
			"repositoryId": info.NodeID,
			"categoryId":   categoryID,
			"title":        title,
			"body":         body,
		},
	}

	start := time.Now()
	if err := c.mutate(ctx, "createDiscussion", createDiscussionMutation, variables, &out); err != nil {
		return "", err
	}
	slog.Info("discussion created",
		"url", out.CreateDiscussion.Discussion.URL,
		"title", title,
		"took", time.Since(start).Round(time.Millisecond),
	)
	return out.CreateDiscussion.Discussion.URL, nil
}
