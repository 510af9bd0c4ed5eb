package interact

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/photoshare/photoshare-cli/api"
	"github.com/photoshare/photoshare-cli/feed"
	"github.com/photoshare/photoshare-cli/model"
)

// Gateway is the slice of the API the mutator needs.
type Gateway interface {
	ListComments(ctx context.Context, postID int64) ([]model.Comment, error)
	CreateComment(ctx context.Context, postID int64, content string) (*model.Comment, error)
	UpdateComment(ctx context.Context, id int64, content string) (*model.Comment, error)
	DeleteComment(ctx context.Context, id int64) error
	AddTagToPost(ctx context.Context, postID int64, name string) (*model.Post, error)
	UpdatePost(ctx context.Context, id int64, description string) (*model.Post, error)
	DeletePost(ctx context.Context, id int64) error
}

// Refresher is a feed that can refetch itself from the server. Post deletion
// asks the owning feed to refresh instead of splicing locally, so the store
// cannot diverge from the server's ordering.
type Refresher interface {
	Refresh(ctx context.Context) (int, error)
}

// Mutator performs remote mutations and reconciles the shared feed store
// with the server's response. It never holds its own copy of a post: writes
// go through the store by id so all views observe them.
type Mutator struct {
	gw    Gateway
	store *feed.Store
	log   zerolog.Logger
}

// NewMutator creates a mutator over the shared store.
func NewMutator(gw Gateway, store *feed.Store, log zerolog.Logger) *Mutator {
	return &Mutator{gw: gw, store: store, log: log}
}

// AddComment submits a comment to the thread's post. The comment appended to
// the thread is the server's representation; the local draft is discarded.
func (m *Mutator) AddComment(ctx context.Context, t *Thread, content string) (*model.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, &api.ValidationError{Message: "comment content must not be empty"}
	}

	confirmed, err := m.gw.CreateComment(ctx, t.PostID(), content)
	if err != nil {
		return nil, err
	}
	t.append(*confirmed)
	m.log.Debug().Int64("post_id", t.PostID()).Int64("comment_id", confirmed.ID).Msg("comment created")
	return confirmed, nil
}

// EditComment replaces a comment's content with whatever the server returns,
// which may differ from the submitted draft (normalized timestamps, ids).
func (m *Mutator) EditComment(ctx context.Context, t *Thread, id int64, content string) (*model.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, &api.ValidationError{Message: "comment content must not be empty"}
	}

	confirmed, err := m.gw.UpdateComment(ctx, id, content)
	if err != nil {
		return nil, err
	}
	t.replace(*confirmed)
	return confirmed, nil
}

// DeleteComment removes a comment, locally only after the server confirms.
func (m *Mutator) DeleteComment(ctx context.Context, t *Thread, id int64) error {
	if err := m.gw.DeleteComment(ctx, id); err != nil {
		return err
	}
	t.remove(id)
	return nil
}

// AddTag attaches a tag to a post and applies the server's updated post to
// the shared store.
func (m *Mutator) AddTag(ctx context.Context, postID int64, name string) (*model.Post, error) {
	confirmed, err := m.gw.AddTagToPost(ctx, postID, name)
	if err != nil {
		return nil, err
	}
	m.store.MutateByID(postID, func(p *model.Post) {
		p.Tags = confirmed.Tags
		p.UpdatedAt = confirmed.UpdatedAt
	})
	return confirmed, nil
}

// EditPost updates a post's description and applies the server's
// representation to the shared store.
func (m *Mutator) EditPost(ctx context.Context, id int64, description string) (*model.Post, error) {
	confirmed, err := m.gw.UpdatePost(ctx, id, description)
	if err != nil {
		return nil, err
	}
	m.store.MutateByID(id, func(p *model.Post) {
		p.Description = confirmed.Description
		p.UpdatedAt = confirmed.UpdatedAt
		if len(confirmed.Tags) > 0 {
			p.Tags = confirmed.Tags
		}
	})
	return confirmed, nil
}

// DeletePost removes a post, then asks the calling view's feed to refetch
// from the server rather than splicing the store locally.
func (m *Mutator) DeletePost(ctx context.Context, id int64, view Refresher) error {
	if err := m.gw.DeletePost(ctx, id); err != nil {
		return err
	}
	m.log.Debug().Int64("post_id", id).Msg("post deleted, refreshing view")
	if view != nil {
		if _, err := view.Refresh(ctx); err != nil {
			return err
		}
	}
	return nil
}

// CanEditComment is the UX-level authorization check: only the author edits.
// The server remains the security authority.
func CanEditComment(user *model.UserProfile, c *model.Comment) bool {
	return user.Owns(c.AuthorID())
}

// CanDeleteComment allows the author plus admins and moderators.
func CanDeleteComment(user *model.UserProfile, c *model.Comment) bool {
	if user == nil {
		return false
	}
	return user.Owns(c.AuthorID()) || user.Role.CanModerate()
}

// CanEditPost allows the owner plus admins and moderators.
func CanEditPost(user *model.UserProfile, p *model.Post) bool {
	if user == nil {
		return false
	}
	return user.Owns(p.UserID) || user.Role.CanModerate()
}
