package interact

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photoshare/photoshare-cli/api"
	"github.com/photoshare/photoshare-cli/feed"
	"github.com/photoshare/photoshare-cli/model"
)

// fakeGateway is a scripted Gateway for mutation tests.
type fakeGateway struct {
	comments      []model.Comment
	createResult  *model.Comment
	updateResult  *model.Comment
	tagResult     *model.Post
	postResult    *model.Post
	err           error
	deletedIDs    []int64
	deletedPosts  []int64
	createdDrafts []string
}

func (f *fakeGateway) ListComments(ctx context.Context, postID int64) ([]model.Comment, error) {
	return f.comments, f.err
}

func (f *fakeGateway) CreateComment(ctx context.Context, postID int64, content string) (*model.Comment, error) {
	f.createdDrafts = append(f.createdDrafts, content)
	if f.err != nil {
		return nil, f.err
	}
	return f.createResult, nil
}

func (f *fakeGateway) UpdateComment(ctx context.Context, id int64, content string) (*model.Comment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.updateResult, nil
}

func (f *fakeGateway) DeleteComment(ctx context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

func (f *fakeGateway) AddTagToPost(ctx context.Context, postID int64, name string) (*model.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.tagResult, nil
}

func (f *fakeGateway) UpdatePost(ctx context.Context, id int64, description string) (*model.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.postResult, nil
}

func (f *fakeGateway) DeletePost(ctx context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	f.deletedPosts = append(f.deletedPosts, id)
	return nil
}

// countingRefresher records refresh requests from post deletion.
type countingRefresher struct {
	calls int
}

func (c *countingRefresher) Refresh(ctx context.Context) (int, error) {
	c.calls++
	return 0, nil
}

func newMutator(gw Gateway, store *feed.Store) *Mutator {
	return NewMutator(gw, store, zerolog.Nop())
}

func TestMutator_AddCommentUsesServerRepresentation(t *testing.T) {
	// The server normalizes the submitted draft
	gw := &fakeGateway{
		createResult: &model.Comment{ID: 10, PostID: 7, Content: "normalized by server"},
	}
	m := newMutator(gw, feed.NewStore())
	thread := NewThread(7)

	confirmed, err := m.AddComment(context.Background(), thread, "local draft  ")
	require.NoError(t, err)

	assert.Equal(t, "normalized by server", confirmed.Content)
	comments := thread.Comments()
	require.Len(t, comments, 1)
	assert.Equal(t, "normalized by server", comments[0].Content,
		"the thread must hold the server's value, not the draft")
}

func TestMutator_AddCommentRejectsEmpty(t *testing.T) {
	gw := &fakeGateway{}
	m := newMutator(gw, feed.NewStore())
	thread := NewThread(7)

	_, err := m.AddComment(context.Background(), thread, "   ")

	var validationErr *api.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Empty(t, gw.createdDrafts, "no request may be sent for an empty comment")
	assert.Zero(t, thread.Len())
}

func TestMutator_AddCommentFailureLeavesThreadUntouched(t *testing.T) {
	gw := &fakeGateway{err: &api.HTTPError{Status: 500, Body: "boom"}}
	m := newMutator(gw, feed.NewStore())
	thread := NewThread(7)

	_, err := m.AddComment(context.Background(), thread, "hello")
	require.Error(t, err)
	assert.Zero(t, thread.Len())
}

func TestMutator_EditCommentAppliesServerValue(t *testing.T) {
	gw := &fakeGateway{
		comments:     []model.Comment{{ID: 10, PostID: 7, Content: "before"}},
		updateResult: &model.Comment{ID: 10, PostID: 7, Content: "after (normalized)"},
	}
	m := newMutator(gw, feed.NewStore())
	thread := NewThread(7)
	require.NoError(t, thread.Load(context.Background(), gw))

	confirmed, err := m.EditComment(context.Background(), thread, 10, "after")
	require.NoError(t, err)
	assert.Equal(t, "after (normalized)", confirmed.Content)

	comments := thread.Comments()
	require.Len(t, comments, 1)
	assert.Equal(t, "after (normalized)", comments[0].Content)
}

func TestMutator_DeleteCommentRemovesAfterConfirm(t *testing.T) {
	gw := &fakeGateway{
		comments: []model.Comment{{ID: 10, PostID: 7}, {ID: 11, PostID: 7}},
	}
	m := newMutator(gw, feed.NewStore())
	thread := NewThread(7)
	require.NoError(t, thread.Load(context.Background(), gw))

	require.NoError(t, m.DeleteComment(context.Background(), thread, 10))

	assert.Equal(t, []int64{10}, gw.deletedIDs)
	comments := thread.Comments()
	require.Len(t, comments, 1)
	assert.Equal(t, int64(11), comments[0].ID)
}

func TestMutator_DeleteCommentFailureKeepsComment(t *testing.T) {
	gw := &fakeGateway{
		comments: []model.Comment{{ID: 10, PostID: 7}},
	}
	m := newMutator(gw, feed.NewStore())
	thread := NewThread(7)
	require.NoError(t, thread.Load(context.Background(), gw))

	gw.err = &api.HTTPError{Status: 403, Body: "forbidden"}
	err := m.DeleteComment(context.Background(), thread, 10)
	require.Error(t, err)
	assert.Equal(t, 1, thread.Len())
}

func TestMutator_AddTagUpdatesSharedStore(t *testing.T) {
	store := feed.NewStore()
	store.Append([]model.Post{{ID: 5, Description: "sunset"}})

	updated := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	gw := &fakeGateway{
		tagResult: &model.Post{
			ID:        5,
			Tags:      []model.Tag{{ID: 1, Name: "nature"}},
			UpdatedAt: updated,
		},
	}
	m := newMutator(gw, store)

	_, err := m.AddTag(context.Background(), 5, "nature")
	require.NoError(t, err)

	got, ok := store.Get(5)
	require.True(t, ok)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "nature", got.Tags[0].Name)
	assert.Equal(t, updated, got.UpdatedAt)
}

func TestMutator_EditPostAppliesServerRepresentation(t *testing.T) {
	store := feed.NewStore()
	store.Append([]model.Post{{ID: 5, Description: "old"}})

	gw := &fakeGateway{
		postResult: &model.Post{ID: 5, Description: "new description"},
	}
	m := newMutator(gw, store)

	confirmed, err := m.EditPost(context.Background(), 5, "new description")
	require.NoError(t, err)
	assert.Equal(t, "new description", confirmed.Description)

	got, _ := store.Get(5)
	assert.Equal(t, "new description", got.Description)
}

func TestMutator_EditPostFailureLeavesStore(t *testing.T) {
	store := feed.NewStore()
	store.Append([]model.Post{{ID: 5, Description: "old"}})

	gw := &fakeGateway{err: errors.New("boom")}
	m := newMutator(gw, store)

	_, err := m.EditPost(context.Background(), 5, "new")
	require.Error(t, err)

	got, _ := store.Get(5)
	assert.Equal(t, "old", got.Description)
}

func TestMutator_DeletePostRefreshesView(t *testing.T) {
	gw := &fakeGateway{}
	m := newMutator(gw, feed.NewStore())
	view := &countingRefresher{}

	require.NoError(t, m.DeletePost(context.Background(), 5, view))

	assert.Equal(t, []int64{5}, gw.deletedPosts)
	assert.Equal(t, 1, view.calls, "the view refetches rather than splicing locally")
}

func TestMutator_DeletePostFailureSkipsRefresh(t *testing.T) {
	gw := &fakeGateway{err: &api.HTTPError{Status: 403, Body: "forbidden"}}
	m := newMutator(gw, feed.NewStore())
	view := &countingRefresher{}

	err := m.DeletePost(context.Background(), 5, view)
	require.Error(t, err)
	assert.Zero(t, view.calls)
}

func TestAuthorizationHelpers(t *testing.T) {
	owner := &model.UserProfile{ID: 1, Role: model.RoleUser}
	stranger := &model.UserProfile{ID: 2, Role: model.RoleUser}
	moderator := &model.UserProfile{ID: 3, Role: model.RoleModerator}
	admin := &model.UserProfile{ID: 4, Role: model.RoleAdmin}

	comment := &model.Comment{ID: 10, User: &model.CommentUser{ID: 1}}
	post := &model.Post{ID: 5, UserID: 1}

	// Editing a comment is author-only
	assert.True(t, CanEditComment(owner, comment))
	assert.False(t, CanEditComment(stranger, comment))
	assert.False(t, CanEditComment(moderator, comment))
	assert.False(t, CanEditComment(nil, comment))

	// Deleting allows author plus moderators and admins
	assert.True(t, CanDeleteComment(owner, comment))
	assert.False(t, CanDeleteComment(stranger, comment))
	assert.True(t, CanDeleteComment(moderator, comment))
	assert.True(t, CanDeleteComment(admin, comment))

	// Post edit/delete allows owner plus moderators and admins
	assert.True(t, CanEditPost(owner, post))
	assert.False(t, CanEditPost(stranger, post))
	assert.True(t, CanEditPost(admin, post))
	assert.False(t, CanEditPost(nil, post))
}
