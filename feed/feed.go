package feed

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/photoshare/photoshare-cli/model"
)

// PageFunc fetches one page of posts for a feed. Implementations close over
// the endpoint that backs the view (gallery, profile, explore), so every view
// reuses the same cursor/store machinery instead of its own pagination copy.
type PageFunc func(ctx context.Context, page int) ([]model.Post, error)

// Feed ties a Store, a Cursor and a page fetcher together for one view.
//
// Every outgoing request is tagged with the generation counter current at
// send time; when the filter identity changes (Invalidate or Refresh bumps
// the generation) a response arriving for an older generation is discarded
// rather than applied.
type Feed struct {
	store  *Store
	cursor *Cursor
	fetch  PageFunc
	gen    atomic.Uint64
	log    zerolog.Logger
}

// FeedOption configures a Feed.
type FeedOption func(*Feed)

// WithStore makes the feed materialize into an existing store, so several
// independently-triggered views share one source of truth.
func WithStore(s *Store) FeedOption {
	return func(f *Feed) { f.store = s }
}

// WithFeedLogger sets the structured logger.
func WithFeedLogger(log zerolog.Logger) FeedOption {
	return func(f *Feed) { f.log = log }
}

// New creates a Feed over the given page fetcher.
func New(fetch PageFunc, opts ...FeedOption) *Feed {
	f := &Feed{
		store:  NewStore(),
		cursor: NewCursor(),
		fetch:  fetch,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Store returns the feed's backing store.
func (f *Feed) Store() *Store {
	return f.store
}

// Cursor returns the feed's pagination cursor.
func (f *Feed) Cursor() *Cursor {
	return f.cursor
}

// LoadNext requests the next page and appends it to the store. When a request
// is already in flight, or the cursor is exhausted, the call is a no-op (the
// trigger is dropped, not queued). Returns the number of new posts added.
//
// A failure leaves the cursor idle so a later trigger retries the same page.
func (f *Feed) LoadNext(ctx context.Context) (int, error) {
	page, ok := f.cursor.Begin()
	if !ok {
		return 0, nil
	}

	gen := f.gen.Load()
	posts, err := f.fetch(ctx, page)

	if f.gen.Load() != gen {
		// Filter identity changed while the request was in flight; the
		// response belongs to a feed that no longer exists.
		f.log.Debug().Int("page", page).Msg("dropping stale page response")
		return 0, nil
	}

	if err != nil {
		f.cursor.Fail()
		return 0, err
	}

	added := f.store.Append(posts)
	f.cursor.Complete(len(posts))
	f.log.Debug().Int("page", page).Int("fetched", len(posts)).Int("added", added).Msg("page loaded")
	return added, nil
}

// Refresh discards the current contents and refetches from the first page
// under a new generation. Used after a filter change and after mutations
// (post delete) that require refetching rather than local splicing.
func (f *Feed) Refresh(ctx context.Context) (int, error) {
	gen := f.gen.Add(1)
	f.cursor.Reset()

	page, ok := f.cursor.Begin()
	if !ok {
		// Another trigger won the race after the reset; it is already
		// fetching under the new generation.
		return 0, nil
	}

	posts, err := f.fetch(ctx, page)

	if f.gen.Load() != gen {
		f.log.Debug().Msg("dropping stale refresh response")
		return 0, nil
	}

	if err != nil {
		f.cursor.Fail()
		return 0, err
	}

	f.store.Replace(posts)
	f.cursor.Complete(len(posts))
	return len(posts), nil
}

// Invalidate bumps the generation and resets the cursor without fetching.
// Any in-flight response is discarded when it arrives.
func (f *Feed) Invalidate() {
	f.gen.Add(1)
	f.cursor.Reset()
}
