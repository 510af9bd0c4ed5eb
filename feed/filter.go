package feed

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"sync"
)

// Filter holds the explore view's two filter dimensions: an ordered set of
// selected tag ids and a free-text query. Selected tags take precedence over
// the text query; with neither set the feed is unfiltered.
type Filter struct {
	mu     sync.Mutex
	tagIDs []int64
	query  string
}

// NewFilter creates an empty filter.
func NewFilter() *Filter {
	return &Filter{}
}

// ToggleTag is a symmetric set operation: a selected tag is removed, an
// unselected one is added. Insertion order is preserved so the selector is
// deterministic.
func (f *Filter) ToggleTag(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, existing := range f.tagIDs {
		if existing == id {
			f.tagIDs = append(f.tagIDs[:i], f.tagIDs[i+1:]...)
			return
		}
	}
	f.tagIDs = append(f.tagIDs, id)
}

// SetQuery replaces the free-text query. Returns whether the value changed.
func (f *Filter) SetQuery(q string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.query == q {
		return false
	}
	f.query = q
	return true
}

// Clear removes both dimensions.
func (f *Filter) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tagIDs = nil
	f.query = ""
}

// TagIDs returns the selected tag ids in selection order.
func (f *Filter) TagIDs() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int64, len(f.tagIDs))
	copy(out, f.tagIDs)
	return out
}

// Query returns the current free-text query.
func (f *Filter) Query() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.query
}

// Selector renders the filter as the by-tags path segment: comma-joined tag
// ids when any tags are selected (OR semantics, text query ignored), else the
// URL-escaped text query, else "" meaning the unfiltered full feed.
func (f *Filter) Selector() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.tagIDs) > 0 {
		parts := make([]string, len(f.tagIDs))
		for i, id := range f.tagIDs {
			parts[i] = strconv.FormatInt(id, 10)
		}
		return strings.Join(parts, ",")
	}
	if f.query != "" {
		return url.PathEscape(f.query)
	}
	return ""
}

// Controller applies filter changes to a feed. Any change to either
// dimension replaces the feed's contents and resets its cursor; it is never
// an additive pagination step.
type Controller struct {
	filter *Filter
	feed   *Feed
}

// NewController creates a controller over an existing filter and feed. The
// feed's PageFunc is expected to consult the same filter's Selector.
func NewController(filter *Filter, f *Feed) *Controller {
	return &Controller{filter: filter, feed: f}
}

// Filter returns the underlying filter state.
func (c *Controller) Filter() *Filter {
	return c.filter
}

// Feed returns the controlled feed.
func (c *Controller) Feed() *Feed {
	return c.feed
}

// ToggleTag flips one tag selection and refetches under the new identity.
func (c *Controller) ToggleTag(ctx context.Context, id int64) error {
	c.filter.ToggleTag(id)
	_, err := c.feed.Refresh(ctx)
	return err
}

// SetQuery updates the text query; an unchanged value does not refetch.
func (c *Controller) SetQuery(ctx context.Context, q string) error {
	if !c.filter.SetQuery(q) {
		return nil
	}
	_, err := c.feed.Refresh(ctx)
	return err
}

// Clear drops both dimensions and returns to the unfiltered feed.
func (c *Controller) Clear(ctx context.Context) error {
	c.filter.Clear()
	_, err := c.feed.Refresh(ctx)
	return err
}
