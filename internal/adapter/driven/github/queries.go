package github

// Per-category page queries. Each category paginates independently with its
// own cursor; nested comments and commits are resolved inline so items
// arrive fully populated.

const pullRequestsQuery = `query($owner: String!, $name: String!, $after: String) {
	repository(owner: $owner, name: $name) {
		pullRequests(first: 100, orderBy: {field: UPDATED_AT, direction: DESC}, after: $after) {
			pageInfo {
				hasNextPage
				endCursor
			}
			nodes {
				number
				title
				url
				createdAt
				updatedAt
				state
				merged
				mergedAt
				closedAt
				body
				comments(first: 100) {
					nodes {
						createdAt
						body
						author {
							login
						}
					}
				}
				commits(last: 100) {
					nodes {
						commit {
							message
							committedDate
							author {
								name
							}
						}
					}
				}
			}
		}
	}
}`

const issuesQuery = `query($owner: String!, $name: String!, $after: String) {
	repository(owner: $owner, name: $name) {
		issues(first: 100, orderBy: {field: UPDATED_AT, direction: DESC}, after: $after) {
			pageInfo {
				hasNextPage
				endCursor
			}
			nodes {
				number
				title
				url
				createdAt
				updatedAt
				state
				closedAt
				body
				comments(first: 100) {
					nodes {
						createdAt
						body
						author {
							login
						}
					}
				}
			}
		}
	}
}`

const releasesQuery = `query($owner: String!, $name: String!, $after: String) {
	repository(owner: $owner, name: $name) {
		releases(first: 100, orderBy: {field: CREATED_AT, direction: DESC}, after: $after) {
			pageInfo {
				hasNextPage
				endCursor
			}
			nodes {
				name
				tagName
				createdAt
				description
				url
			}
		}
	}
}`

const discussionsQuery = `query($owner: String!, $name: String!, $after: String) {
	repository(owner: $owner, name: $name) {
		discussions(first: 100, orderBy: {field: UPDATED_AT, direction: DESC}, after: $after) {
			pageInfo {
				hasNextPage
				endCursor
			}
			nodes {
				number
				title
				url
				createdAt
				updatedAt
				closedAt
				body
				category {
					name
				}
				comments(first: 100) {
					nodes {
						createdAt
						body
						author {
							login
						}
					}
				}
			}
		}
	}
}`

const discussionCategoriesQuery = `query($owner: String!, $name: String!) {
	repository(owner: $owner, name: $name) {
		discussionCategories(first: 100) {
			nodes {
				id
				name
			}
		}
	}
}`

const recentDiscussionsQuery = `query($owner: String!, $name: String!, $categoryId: ID!, $count: Int!) {
	repository(owner: $owner, name: $name) {
		discussions(first: $count, categoryId: $categoryId, orderBy: {field: UPDATED_AT, direction: DESC}) {
			nodes {
				title
				body
				createdAt
				updatedAt
			}
		}
	}
}`

const createDiscussionMutation = `mutation($input: CreateDiscussionInput!) {
	createDiscussion(input: $input) {
		discussion {
			id
			url
		}
	}
}`

const createDiscussionCategoryMutation = `mutation($input: CreateDiscussionCategoryInput!) {
	createDiscussionCategory(input: $input) {
		category {
			id
		}
	}
}`
