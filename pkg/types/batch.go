package types

// ItemError reports a single failed item inside a batch pass. Batch
// operations collect these instead of aborting; the next scheduled pass is
// the retry mechanism. Reason must stay coarse enough to return to the
// batch-trigger caller without leaking internals.
type ItemError struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}
