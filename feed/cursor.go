package feed

import "sync"

// State is the cursor's position in its pagination state machine.
type State int

const (
	// StateIdle is the initial state and the only one from which a new page
	// request may start.
	StateIdle State = iota
	// StateLoading means a page request is in flight; further requests are
	// dropped, not queued.
	StateLoading
	// StateExhausted means a page came back empty; no further requests are
	// made until Reset.
	StateExhausted
)

// String returns the state name for logs.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Cursor tracks pagination progress for one logical feed: the next page
// number and whether the feed is exhausted. The in-flight flag lives here and
// is the single source of truth for the single-flight guarantee.
type Cursor struct {
	mu    sync.Mutex
	state State
	page  int
}

// NewCursor creates a cursor positioned at the first page.
func NewCursor() *Cursor {
	return &Cursor{page: 1}
}

// Begin attempts to start a page request. It succeeds only from StateIdle and
// returns the page number to fetch; from any other state it reports false and
// the caller must not issue a request.
func (c *Cursor) Begin() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateIdle {
		return 0, false
	}
	c.state = StateLoading
	return c.page, true
}

// Complete records the outcome of a successful fetch. An empty page makes the
// cursor exhausted, terminal until Reset; otherwise the page counter advances
// and the cursor returns to idle.
func (c *Cursor) Complete(fetched int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateLoading {
		// A reset happened while the request was in flight; the outcome
		// belongs to a dead filter identity.
		return
	}
	if fetched == 0 {
		c.state = StateExhausted
		return
	}
	c.page++
	c.state = StateIdle
}

// Fail records a fetch failure. The cursor returns to idle, not exhausted,
// so a later trigger can retry the same page.
func (c *Cursor) Fail() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateLoading {
		return
	}
	c.state = StateIdle
}

// Reset returns the cursor to its initial state with the page counter back at
// the start. Called whenever the feed's filter identity changes.
func (c *Cursor) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = StateIdle
	c.page = 1
}

// State returns the current state.
func (c *Cursor) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Page returns the next page number to request.
func (c *Cursor) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}
