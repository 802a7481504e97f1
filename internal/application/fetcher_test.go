package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkallio/repodigest/internal/domain/model"
)

var testRepo = model.RepoRef{Owner: "acme", Name: "widgets"}

// pitem builds a minimal item of the given kind for pagination tests.
func pitem(kind model.ItemKind, number int, updatedAt time.Time) model.Item {
	item := model.Item{
		Kind:      kind,
		Number:    number,
		Title:     "item",
		CreatedAt: updatedAt.Add(-48 * time.Hour),
		UpdatedAt: updatedAt,
	}
	switch kind {
	case model.KindPullRequest:
		item.PullRequest = &model.PullRequestDetails{State: "OPEN"}
	case model.KindIssue:
		item.Issue = &model.IssueDetails{State: "OPEN"}
	case model.KindRelease:
		item.CreatedAt = updatedAt
		item.Release = &model.ReleaseDetails{TagName: "v1.0.0"}
	case model.KindDiscussion:
		item.Discussion = &model.DiscussionDetails{Category: "General"}
	}
	return item
}

func TestFetchSince_MergesCategoriesDescending(t *testing.T) {
	gh := newFakeGitHub()
	gh.addPages(model.KindPullRequest, &model.ItemPage{Items: []model.Item{
		pitem(model.KindPullRequest, 1, dt(2024, 1, 6, 12)),
		pitem(model.KindPullRequest, 2, dt(2024, 1, 3, 12)),
	}})
	gh.addPages(model.KindIssue, &model.ItemPage{Items: []model.Item{
		pitem(model.KindIssue, 3, dt(2024, 1, 5, 12)),
	}})
	gh.addPages(model.KindRelease, &model.ItemPage{Items: []model.Item{
		pitem(model.KindRelease, 0, dt(2024, 1, 4, 12)),
	}})

	items, err := NewFetcher(gh).FetchSince(context.Background(), testRepo, d(2024, 1, 1))
	require.NoError(t, err)
	require.Len(t, items, 4)

	for i := 1; i < len(items); i++ {
		assert.False(t, items[i].UpdatedAt.After(items[i-1].UpdatedAt),
			"items not descending at index %d", i)
	}
}

func TestFetchSince_StopsPastHorizon(t *testing.T) {
	gh := newFakeGitHub()
	gh.addPages(model.KindIssue,
		&model.ItemPage{Items: []model.Item{
			pitem(model.KindIssue, 1, dt(2024, 1, 6, 12)),
			// Older than the horizon: pagination must stop here and not
			// request the second page.
			pitem(model.KindIssue, 2, dt(2023, 12, 1, 12)),
		}},
		&model.ItemPage{Items: []model.Item{
			pitem(model.KindIssue, 3, dt(2023, 11, 1, 12)),
		}},
	)

	items, err := NewFetcher(gh).FetchSince(context.Background(), testRepo, d(2024, 1, 1))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Number)
	assert.Equal(t, 1, gh.pageCalls[model.KindIssue])
}

func TestFetchSince_PaginatesUntilExhausted(t *testing.T) {
	gh := newFakeGitHub()
	gh.addPages(model.KindPullRequest,
		&model.ItemPage{Items: []model.Item{pitem(model.KindPullRequest, 1, dt(2024, 1, 7, 12))}},
		&model.ItemPage{Items: []model.Item{pitem(model.KindPullRequest, 2, dt(2024, 1, 6, 12))}},
		&model.ItemPage{Items: []model.Item{pitem(model.KindPullRequest, 3, dt(2024, 1, 5, 12))}},
	)

	items, err := NewFetcher(gh).FetchSince(context.Background(), testRepo, d(2024, 1, 1))
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, 3, gh.pageCalls[model.KindPullRequest])
}

func TestFetchSince_CategoryFailureDisablesOnlyThatCategory(t *testing.T) {
	gh := newFakeGitHub()
	gh.pageErrs[model.KindDiscussion] = errors.New("502 bad gateway")
	gh.addPages(model.KindIssue, &model.ItemPage{Items: []model.Item{
		pitem(model.KindIssue, 1, dt(2024, 1, 5, 12)),
	}})

	items, err := NewFetcher(gh).FetchSince(context.Background(), testRepo, d(2024, 1, 1))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, model.KindIssue, items[0].Kind)
	// The failing category is queried once, then left alone.
	assert.Equal(t, 1, gh.pageCalls[model.KindDiscussion])
}

func TestFetchSince_FiltersOutOwnDigestPosts(t *testing.T) {
	digestBody := "Last week in widgets\n\n---\n\n<details><summary></summary>\n\n```json\n" +
		`{"start_date": "2024-01-01", "end_date": "2024-01-07", "powered_by": "https://github.com/mkallio/repodigest", "llm": "test"}` +
		"\n```\n</details>\n"

	digest := pitem(model.KindDiscussion, 10, dt(2024, 1, 6, 12))
	digest.Body = digestBody
	ordinary := pitem(model.KindDiscussion, 11, dt(2024, 1, 5, 12))
	ordinary.Body = "how do I configure widgets?"

	gh := newFakeGitHub()
	gh.addPages(model.KindDiscussion, &model.ItemPage{Items: []model.Item{digest, ordinary}})

	items, err := NewFetcher(gh).FetchSince(context.Background(), testRepo, d(2024, 1, 1))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 11, items[0].Number)
}

func TestFetchSince_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gh := newFakeGitHub()
	gh.addPages(model.KindIssue, &model.ItemPage{Items: []model.Item{
		pitem(model.KindIssue, 1, dt(2024, 1, 5, 12)),
	}})

	_, err := NewFetcher(gh).FetchSince(ctx, testRepo, d(2024, 1, 1))
	assert.ErrorIs(t, err, context.Canceled)
}
