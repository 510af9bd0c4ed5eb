package feed

import "context"

// Sentinel is the visibility-triggered signal that drives infinite scroll:
// each Visible call asks the feed for its next page. The gate is the cursor's
// in-flight flag, so a trigger that fires while a request is pending is a
// no-op rather than a queued request, and an exhausted feed stops issuing
// requests entirely.
type Sentinel struct {
	feed *Feed
}

// NewSentinel creates a sentinel bound to one feed.
func NewSentinel(f *Feed) *Sentinel {
	return &Sentinel{feed: f}
}

// Visible signals that the sentinel came into view. Returns the number of
// posts added, or zero when the trigger was dropped.
func (s *Sentinel) Visible(ctx context.Context) (int, error) {
	if s.feed.cursor.State() == StateExhausted {
		return 0, nil
	}
	return s.feed.LoadNext(ctx)
}

// Exhausted reports whether the feed has no further pages under its current
// filter identity.
func (s *Sentinel) Exhausted() bool {
	return s.feed.cursor.State() == StateExhausted
}
