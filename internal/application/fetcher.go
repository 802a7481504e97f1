// Package application contains the digest engine: paginated fetching,
// window classification, activity decomposition, adaptive window expansion,
// and continuation resolution.
package application

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/mkallio/repodigest/internal/domain/model"
	"github.com/mkallio/repodigest/internal/domain/port/driven"
)

// fetchKinds is the set of item categories paginated per run, in the stable
// order used when merging equal timestamps.
var fetchKinds = []model.ItemKind{
	model.KindPullRequest,
	model.KindIssue,
	model.KindRelease,
	model.KindDiscussion,
}

// categoryStream tracks one category's pagination state across rounds.
// Cursor values are copied forward each round rather than mutated in place.
type categoryStream struct {
	kind   model.ItemKind
	cursor string
	active bool
}

// Fetcher drives cursor-based pagination independently for each item
// category until every category signals completion or pages past the
// horizon date.
type Fetcher struct {
	gh driven.GitHubClient
}

// NewFetcher creates a Fetcher over the given GitHub port.
func NewFetcher(gh driven.GitHubClient) *Fetcher {
	return &Fetcher{gh: gh}
}

// FetchSince retrieves all items whose relevant timestamp (update time, or
// creation time for releases) is on or after horizon. Categories are
// advanced together in rounds, one page per still-active category per round,
// so a deeply paginated category cannot starve the others. A query failure
// disables only the failing category; the remaining streams continue.
//
// The merged result is sorted descending by update time. Equal timestamps
// keep their per-category relative order.
func (f *Fetcher) FetchSince(ctx context.Context, repo model.RepoRef, horizon time.Time) ([]model.Item, error) {
	streams := make([]*categoryStream, len(fetchKinds))
	for i, kind := range fetchKinds {
		streams[i] = &categoryStream{kind: kind, active: true}
	}

	var items []model.Item
	round := 0

	for anyActive(streams) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		round++

		for _, s := range streams {
			if !s.active {
				continue
			}

			page, err := f.gh.FetchItemPage(ctx, repo, s.kind, s.cursor)
			if err != nil {
				slog.Warn("category query failed, disabling stream",
					"kind", s.kind.String(),
					"round", round,
					"error", err,
				)
				s.active = false
				continue
			}

			kept := 0
			for _, item := range page.Items {
				// Streams arrive newest first: the first item before the
				// horizon means everything after it is older still.
				if item.UpdatedAt.Before(horizon) {
					s.active = false
					break
				}
				if item.Kind == model.KindDiscussion && isDigestPost(item.Body) {
					continue
				}
				items = append(items, item)
				kept++
			}

			slog.Debug("fetched page",
				"kind", s.kind.String(),
				"round", round,
				"kept", kept,
				"has_next", page.HasNextPage,
			)

			s.active = s.active && page.HasNextPage
			s.cursor = page.EndCursor
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].UpdatedAt.After(items[j].UpdatedAt)
	})
	return items, nil
}

func anyActive(streams []*categoryStream) bool {
	for _, s := range streams {
		if s.active {
			return true
		}
	}
	return false
}
