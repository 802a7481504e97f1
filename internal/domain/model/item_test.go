package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestItemStatus(t *testing.T) {
	tests := []struct {
		name string
		item Item
		want string
	}{
		{"merged PR", Item{PullRequest: &PullRequestDetails{State: "MERGED", Merged: true}}, "merged"},
		{"open PR", Item{PullRequest: &PullRequestDetails{State: "OPEN"}}, "open"},
		{"closed issue", Item{Issue: &IssueDetails{State: "CLOSED"}}, "closed"},
		{"release has no status", Item{Release: &ReleaseDetails{TagName: "v1"}}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.item.Status())
		})
	}
}

func TestItemAccessors(t *testing.T) {
	closedAt := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	comments := []Comment{{Author: "alice"}}

	t.Run("discussion comments and close", func(t *testing.T) {
		item := Item{Discussion: &DiscussionDetails{Comments: comments, ClosedAt: &closedAt}}
		assert.Equal(t, comments, item.Comments())
		assert.Equal(t, &closedAt, item.ClosedAt())
	})

	t.Run("release has neither", func(t *testing.T) {
		item := Item{Release: &ReleaseDetails{}}
		assert.Nil(t, item.Comments())
		assert.Nil(t, item.ClosedAt())
	})
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "pull_request", KindPullRequest.String())
	assert.Equal(t, "issue", KindIssue.String())
	assert.Equal(t, "release", KindRelease.String())
	assert.Equal(t, "discussion", KindDiscussion.String())
}
