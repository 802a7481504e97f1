package github

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mkallio/repodigest/internal/domain/model"
)

// Wire types for the paginated item queries. Timestamps are decoded as
// strings and parsed per item so one malformed record is skipped with a
// warning instead of failing the whole page.

type wirePageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

type wireComment struct {
	CreatedAt string `json:"createdAt"`
	Body      string `json:"body"`
	Author    struct {
		Login string `json:"login"`
	} `json:"author"`
}

type wireCommit struct {
	Commit struct {
		Message       string `json:"message"`
		CommittedDate string `json:"committedDate"`
		Author        struct {
			Name string `json:"name"`
		} `json:"author"`
	} `json:"commit"`
}

type wirePullRequest struct {
	Number    int     `json:"number"`
	Title     string  `json:"title"`
	URL       string  `json:"url"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
	State     string  `json:"state"`
	Merged    bool    `json:"merged"`
	MergedAt  *string `json:"mergedAt"`
	ClosedAt  *string `json:"closedAt"`
	Body      string  `json:"body"`
	Comments  struct {
		Nodes []wireComment `json:"nodes"`
	} `json:"comments"`
	Commits struct {
		Nodes []wireCommit `json:"nodes"`
	} `json:"commits"`
}

type wireIssue struct {
	Number    int     `json:"number"`
	Title     string  `json:"title"`
	URL       string  `json:"url"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
	State     string  `json:"state"`
	ClosedAt  *string `json:"closedAt"`
	Body      string  `json:"body"`
	Comments  struct {
		Nodes []wireComment `json:"nodes"`
	} `json:"comments"`
}

type wireRelease struct {
	Name        string `json:"name"`
	TagName     string `json:"tagName"`
	CreatedAt   string `json:"createdAt"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

type wireDiscussion struct {
	Number    int     `json:"number"`
	Title     string  `json:"title"`
	URL       string  `json:"url"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
	ClosedAt  *string `json:"closedAt"`
	Body      string  `json:"body"`
	Category  struct {
		Name string `json:"name"`
	} `json:"category"`
	Comments struct {
		Nodes []wireComment `json:"nodes"`
	} `json:"comments"`
}

// FetchItemPage retrieves one page of a single category's item stream.
func (c *Client) FetchItemPage(ctx context.Context, repo model.RepoRef, kind model.ItemKind, cursor string) (*model.ItemPage, error) {
	variables := map[string]any{
		"owner": repo.Owner,
		"name":  repo.Name,
	}
	if cursor != "" {
		variables["after"] = cursor
	} else {
		variables["after"] = nil
	}

	switch kind {
	case model.KindPullRequest:
		return c.fetchPullRequestPage(ctx, variables)
	case model.KindIssue:
		return c.fetchIssuePage(ctx, variables)
	case model.KindRelease:
		return c.fetchReleasePage(ctx, variables)
	case model.KindDiscussion:
		return c.fetchDiscussionPage(ctx, variables)
	default:
		return nil, fmt.Errorf("unknown item kind %d", kind)
	}
}

func (c *Client) fetchPullRequestPage(ctx context.Context, variables map[string]any) (*model.ItemPage, error) {
	var out struct {
		Repository struct {
			PullRequests struct {
				PageInfo wirePageInfo      `json:"pageInfo"`
				Nodes    []wirePullRequest `json:"nodes"`
			} `json:"pullRequests"`
		} `json:"repository"`
	}
	if err := c.execute(ctx, "pullRequests", pullRequestsQuery, variables, &out); err != nil {
		return nil, err
	}

	conn := out.Repository.PullRequests
	page := &model.ItemPage{
		EndCursor:   conn.PageInfo.EndCursor,
		HasNextPage: conn.PageInfo.HasNextPage,
	}
	for _, pr := range conn.Nodes {
		item, err := mapPullRequest(pr)
		if err != nil {
			slog.Warn("skipping pull request with malformed timestamps", "number", pr.Number, "error", err)
			continue
		}
		page.Items = append(page.Items, item)
	}
	return page, nil
}

func (c *Client) fetchIssuePage(ctx context.Context, variables map[string]any) (*model.ItemPage, error) {
	var out struct {
		Repository struct {
			Issues struct {
				PageInfo wirePageInfo `json:"pageInfo"`
				Nodes    []wireIssue  `json:"nodes"`
			} `json:"issues"`
		} `json:"repository"`
	}
	if err := c.execute(ctx, "issues", issuesQuery, variables, &out); err != nil {
		return nil, err
	}

	conn := out.Repository.Issues
	page := &model.ItemPage{
		EndCursor:   conn.PageInfo.EndCursor,
		HasNextPage: conn.PageInfo.HasNextPage,
	}
	for _, issue := range conn.Nodes {
		item, err := mapIssue(issue)
		if err != nil {
			slog.Warn("skipping issue with malformed timestamps", "number", issue.Number, "error", err)
			continue
		}
		page.Items = append(page.Items, item)
	}
	return page, nil
}

func (c *Client) fetchReleasePage(ctx context.Context, variables map[string]any) (*model.ItemPage, error) {
	var out struct {
		Repository struct {
			Releases struct {
				PageInfo wirePageInfo  `json:"pageInfo"`
				Nodes    []wireRelease `json:"nodes"`
			} `json:"releases"`
		} `json:"repository"`
	}
	if err := c.execute(ctx, "releases", releasesQuery, variables, &out); err != nil {
		return nil, err
	}

	conn := out.Repository.Releases
	page := &model.ItemPage{
		EndCursor:   conn.PageInfo.EndCursor,
		HasNextPage: conn.PageInfo.HasNextPage,
	}
	for _, rel := range conn.Nodes {
		item, err := mapRelease(rel)
		if err != nil {
			slog.Warn("skipping release with malformed timestamps", "tag", rel.TagName, "error", err)
			continue
		}
		page.Items = append(page.Items, item)
	}
	return page, nil
}

func (c *Client) fetchDiscussionPage(ctx context.Context, variables map[string]any) (*model.ItemPage, error) {
	var out struct {
		Repository struct {
			Discussions struct {
				PageInfo wirePageInfo     `json:"pageInfo"`
				Nodes    []wireDiscussion `json:"nodes"`
			} `json:"discussions"`
		} `json:"repository"`
	}
	if err := c.execute(ctx, "discussions", discussionsQuery, variables, &out); err != nil {
		return nil, err
	}

	conn := out.Repository.Discussions
	page := &model.ItemPage{
		EndCursor:   conn.PageInfo.EndCursor,
		HasNextPage: conn.PageInfo.HasNextPage,
	}
	for _, d := range conn.Nodes {
		item, err := mapDiscussion(d)
		if err != nil {
			slog.Warn("skipping discussion with malformed timestamps", "number", d.Number, "error", err)
			continue
		}
		page.Items = append(page.Items, item)
	}
	return page, nil
}

// parseTime parses an ISO 8601 timestamp as returned by the GraphQL API.
func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// parseOptionalTime parses a nullable timestamp field.
func parseOptionalTime(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := parseTime(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func mapComments(nodes []wireComment) ([]model.Comment, error) {
	comments := make([]model.Comment, 0, len(nodes))
	for _, n := range nodes {
		createdAt, err := parseTime(n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("comment createdAt: %w", err)
		}
		comments = append(comments, model.Comment{
			Author:    n.Author.Login,
			Body:      n.Body,
			CreatedAt: createdAt,
		})
	}
	return comments, nil
}

func mapPullRequest(pr wirePullRequest) (model.Item, error) {
	createdAt, err := parseTime(pr.CreatedAt)
	if err != nil {
		return model.Item{}, fmt.Errorf("createdAt: %w", err)
	}
	updatedAt, err := parseTime(pr.UpdatedAt)
	if err != nil {
		return model.Item{}, fmt.Errorf("updatedAt: %w", err)
	}
	mergedAt, err := parseOptionalTime(pr.MergedAt)
	if err != nil {
		return model.Item{}, fmt.Errorf("mergedAt: %w", err)
	}
	closedAt, err := parseOptionalTime(pr.ClosedAt)
	if err != nil {
		return model.Item{}, fmt.Errorf("closedAt: %w", err)
	}
	comments, err := mapComments(pr.Comments.Nodes)
	if err != nil {
		return model.Item{}, err
	}

	commits := make([]model.Commit, 0, len(pr.Commits.Nodes))
	for _, n := range pr.Commits.Nodes {
		committedDate, err := parseTime(n.Commit.CommittedDate)
		if err != nil {
			return model.Item{}, fmt.Errorf("committedDate: %w", err)
		}
		commits = append(commits, model.Commit{
			AuthorName:    n.Commit.Author.Name,
			Message:       n.Commit.Message,
			CommittedDate: committedDate,
		})
	}

	return model.Item{
		Kind:      model.KindPullRequest,
		Number:    pr.Number,
		Title:     pr.Title,
		URL:       pr.URL,
		Body:      pr.Body,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
		PullRequest: &model.PullRequestDetails{
			State:    pr.State,
			Merged:   pr.Merged,
			MergedAt: mergedAt,
			ClosedAt: closedAt,
			Comments: comments,
			Commits:  commits,
		},
	}, nil
}

func mapIssue(issue wireIssue) (model.Item, error) {
	createdAt, err := parseTime(issue.CreatedAt)
	if err != nil {
		return model.Item{}, fmt.Errorf("createdAt: %w", err)
	}
	updatedAt, err := parseTime(issue.UpdatedAt)
	if err != nil {
		return model.Item{}, fmt.Errorf("updatedAt: %w", err)
	}
	closedAt, err := parseOptionalTime(issue.ClosedAt)
	if err != nil {
		return model.Item{}, fmt.Errorf("closedAt: %w", err)
	}
	comments, err := mapComments(issue.Comments.Nodes)
	if err != nil {
		return model.Item{}, err
	}

	return model.Item{
		Kind:      model.KindIssue,
		Number:    issue.Number,
		Title:     issue.Title,
		URL:       issue.URL,
		Body:      issue.Body,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
		Issue: &model.IssueDetails{
			State:    issue.State,
			ClosedAt: closedAt,
			Comments: comments,
		},
	}, nil
}

func mapRelease(rel wireRelease) (model.Item, error) {
	createdAt, err := parseTime(rel.CreatedAt)
	if err != nil {
		return model.Item{}, fmt.Errorf("createdAt: %w", err)
	}

	return model.Item{
		Kind:      model.KindRelease,
		Title:     rel.Name,
		URL:       rel.URL,
		Body:      rel.Description,
		CreatedAt: createdAt,
		// Releases report no update time; creation stands in so the merged
		// descending sort and the horizon check treat them uniformly.
		UpdatedAt: createdAt,
		Release: &model.ReleaseDetails{
			Name:    rel.Name,
			TagName: rel.TagName,
		},
	}, nil
}

func mapDiscussion(d wireDiscussion) (model.Item, error) {
	createdAt, err := parseTime(d.CreatedAt)
	if err != nil {
		return model.Item{}, fmt.Errorf("createdAt: %w", err)
	}
	updatedAt, err := parseTime(d.UpdatedAt)
	if err != nil {
		return model.Item{}, fmt.Errorf("updatedAt: %w", err)
	}
	closedAt, err := parseOptionalTime(d.ClosedAt)
	if err != nil {
		return model.Item{}, fmt.Errorf("closedAt: %w", err)
	}
	comments, err := mapComments(d.Comments.Nodes)
	if err != nil {
		return model.Item{}, err
	}

	return model.Item{
		Kind:      model.KindDiscussion,
		Number:    d.Number,
		Title:     d.Title,
		URL:       d.URL,
		Body:      d.Body,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
		Discussion: &model.DiscussionDetails{
			Category: d.Category.Name,
			ClosedAt: closedAt,
			Comments: comments,
		},
	}, nil
}
