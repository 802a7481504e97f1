package model

import "time"

// ContinuationRecord is the metadata recovered from a previously published
// digest post. EndDate is the last day the post covered; the next run starts
// the day after. Records are rebuilt from the remote discussion history on
// every run so that externally deleted or edited posts take effect
// immediately.
type ContinuationRecord struct {
	EndDate time.Time
	Title   string
	Body    string
}
