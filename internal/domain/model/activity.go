package model

import "time"

// ActivityKind identifies a dated sub-event of an Item.
type ActivityKind int

const (
	ActivityComment ActivityKind = iota
	ActivityCommit
	ActivityMerge
	ActivityClose
)

// String returns the name used in rendered reports.
func (k ActivityKind) String() string {
	switch k {
	case ActivityComment:
		return "comment"
	case ActivityCommit:
		return "commit"
	case ActivityMerge:
		return "merge"
	case ActivityClose:
		return "close"
	default:
		return "unknown"
	}
}

// Activity is a dated sub-event of an Item, scoped to one report window.
// Activities are derived during decomposition and never persisted.
// Author and Message are empty for merge and close activities.
type Activity struct {
	Kind    ActivityKind
	Date    time.Time
	Author  string
	Message string
}

// IsEngagement reports whether the activity counts toward the adaptive
// window's content threshold (comments and commits do; merges and closes
// do not).
func (a Activity) IsEngagement() bool {
	return a.Kind == ActivityComment || a.Kind == ActivityCommit
}
