package domain

// MaxResults caps how many orders a single search may return.
const MaxResults = 1000

// DefaultBatchFetchSize is the number of parent ids sent per IN-list when
// order lines are fetched in batches.
const DefaultBatchFetchSize = 100
