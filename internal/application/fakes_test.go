package application

import (
	"context"
	"fmt"

	"github.com/mkallio/repodigest/internal/domain/model"
	"github.com/mkallio/repodigest/internal/domain/port/driven"
)

// fakeGitHub is an in-memory GitHubClient. Pages are keyed by cursor, with
// "" meaning the first page, so repeated pagination passes behave like the
// real API.
type fakeGitHub struct {
	info    *model.RepoInfo
	infoErr error

	pages     map[model.ItemKind]map[string]*model.ItemPage
	pageErrs  map[model.ItemKind]error
	pageCalls map[model.ItemKind]int

	categoryID  string
	categoryErr error
	posts       []model.DiscussionPost
	postsErr    error

	createdTitles []string
	createdBodies []string
}

var _ driven.GitHubClient = (*fakeGitHub)(nil)

func newFakeGitHub() *fakeGitHub {
	return &fakeGitHub{
		info:      &model.RepoInfo{NodeID: "R_node", CreatedAt: d(2024, 1, 1)},
		pages:     map[model.ItemKind]map[string]*model.ItemPage{},
		pageErrs:  map[model.ItemKind]error{},
		pageCalls: map[model.ItemKind]int{},
	}
}

// addPages wires a category's page chain: each page's EndCursor points at
// the next page's key.
func (f *fakeGitHub) addPages(kind model.ItemKind, pages ...*model.ItemPage) {
	byCursor := map[string]*model.ItemPage{}
	cursor := ""
	for i, p := range pages {
		p.HasNextPage = i < len(pages)-1
		if p.HasNextPage {
			p.EndCursor = fmt.Sprintf("%s-cursor-%d", kind, i+1)
		}
		byCursor[cursor] = p
		cursor = p.EndCursor
	}
	f.pages[kind] = byCursor
}

func (f *fakeGitHub) FetchRepoInfo(_ context.Context, _ model.RepoRef) (*model.RepoInfo, error) {
	if f.infoErr != nil {
		return nil, f.infoErr
	}
	return f.info, nil
}

func (f *fakeGitHub) FetchItemPage(_ context.Context, _ model.RepoRef, kind model.ItemKind, cursor string) (*model.ItemPage, error) {
	f.pageCalls[kind]++
	if err := f.pageErrs[kind]; err != nil {
		return nil, err
	}
	if page, ok := f.pages[kind][cursor]; ok {
		return page, nil
	}
	return &model.ItemPage{}, nil
}

func (f *fakeGitHub) FindDiscussionCategory(_ context.Context, _ model.RepoRef, _ string) (string, error) {
	if f.categoryErr != nil {
		return "", f.categoryErr
	}
	return f.categoryID, nil
}

func (f *fakeGitHub) FetchRecentDiscussions(_ context.Context, _ model.RepoRef, _ string, count int) ([]model.DiscussionPost, error) {
	if f.postsErr != nil {
		return nil, f.postsErr
	}
	if len(f.posts) > count {
		return f.posts[:count], nil
	}
	return f.posts, nil
}

func (f *fakeGitHub) CreateDiscussionCategory(_ context.Context, _ model.RepoRef, _ string) (string, error) {
	return "DIC_created", nil
}

func (f *fakeGitHub) CreateDiscussion(_ context.Context, _ model.RepoRef, _, title, body string) (string, error) {
	f.createdTitles = append(f.createdTitles, title)
	f.createdBodies = append(f.createdBodies, body)
	return "https://github.com/acme/widgets/discussions/1", nil
}
