package mediascraper

import "time"

// PageState tracks a PageNode through its lifecycle.
// Valid transitions: Discovered → Fetching → Extracted → Completed,
// with Fetching → FetchFailed on a render failure.
type PageState int

// Page states. Completed and FetchFailed are terminal.
const (
	PageDiscovered PageState = iota
	PageFetching
	PageExtracted
	PageCompleted
	PageFetchFailed
)

// String returns the state name for diagnostics.
func (s PageState) String() string {
	switch s {
	case PageDiscovered:
		return "discovered"
	case PageFetching:
		return "fetching"
	case PageExtracted:
		return "extracted"
	case PageCompleted:
		return "completed"
	case PageFetchFailed:
		return "fetch_failed"
	}
	return "unknown"
}

// PageNode represents one visited or pending page. Nodes are created when a
// link is first seen and retained for the run's visited-set and final
// report; they are never deleted within a run.
type PageNode struct {
	// URL is the canonical, normalized page URL.
	URL string

	// Depth is the traversal depth, 0 for seeds.
	Depth int

	// State is the node's position in the lifecycle state machine.
	State PageState

	// ParentURL records where this node was discovered. Diagnostics only.
	ParentURL string

	// DiscoveredAt is when the link was first seen.
	DiscoveredAt time.Time

	// Err holds the failure that moved the node to FetchFailed.
	Err error
}
