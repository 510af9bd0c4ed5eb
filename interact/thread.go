// Package interact performs the mutation flows: comments, tags, post edit
// and delete. Every mutation validates locally, calls the gateway, and on
// success writes the server's representation back into local state; nothing
// is applied before the network call completes.
package interact

import (
	"context"
	"sync"

	"github.com/photoshare/photoshare-cli/model"
)

// Thread is the comment list for one post, scoped to the open modal. Create,
// edit and delete all operate on this list, and the value written into it is
// always the server's response, never the locally-entered draft.
type Thread struct {
	postID   int64
	mu       sync.Mutex
	comments []model.Comment
}

// NewThread creates an empty thread for one post.
func NewThread(postID int64) *Thread {
	return &Thread{postID: postID}
}

// PostID returns the post this thread belongs to.
func (t *Thread) PostID() int64 {
	return t.postID
}

// Load fetches the thread's comments from the server, replacing any prior
// contents.
func (t *Thread) Load(ctx context.Context, gw Gateway) error {
	comments, err := gw.ListComments(ctx, t.postID)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.comments = comments
	t.mu.Unlock()
	return nil
}

// Comments returns a copy of the current comment list.
func (t *Thread) Comments() []model.Comment {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]model.Comment, len(t.comments))
	copy(out, t.comments)
	return out
}

// Len returns the number of comments.
func (t *Thread) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.comments)
}

// append adds a confirmed comment to the end of the list.
func (t *Thread) append(c model.Comment) {
	t.mu.Lock()
	t.comments = append(t.comments, c)
	t.mu.Unlock()
}

// replace swaps the comment with the same id for the confirmed one. Updates
// from fired-and-forgotten mutations land in response-arrival order, last
// write wins.
func (t *Thread) replace(c model.Comment) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.comments {
		if t.comments[i].ID == c.ID {
			t.comments[i] = c
			return true
		}
	}
	return false
}

// remove deletes the comment with the given id from the list.
func (t *Thread) remove(id int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.comments {
		if t.comments[i].ID == id {
			t.comments = append(t.comments[:i], t.comments[i+1:]...)
			return true
		}
	}
	return false
}
