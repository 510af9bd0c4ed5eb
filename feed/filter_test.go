package feed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photoshare/photoshare-cli/model"
)

func TestFilter_SelectorPolicy(t *testing.T) {
	f := NewFilter()

	// Nothing selected: unfiltered feed
	assert.Equal(t, "", f.Selector())

	// Text query alone: URL-escaped free text
	f.SetQuery("summer vibes")
	assert.Equal(t, "summer%20vibes", f.Selector())

	// Selected tags win over the text query
	f.ToggleTag(5)
	assert.Equal(t, "5", f.Selector())
	f.ToggleTag(7)
	assert.Equal(t, "5,7", f.Selector())

	// Deselecting all tags falls back to the query
	f.ToggleTag(5)
	f.ToggleTag(7)
	assert.Equal(t, "summer%20vibes", f.Selector())

	f.SetQuery("")
	assert.Equal(t, "", f.Selector())
}

func TestFilter_ToggleIsSymmetric(t *testing.T) {
	f := NewFilter()

	f.ToggleTag(3)
	assert.Equal(t, []int64{3}, f.TagIDs())

	f.ToggleTag(3)
	assert.Empty(t, f.TagIDs())
}

func TestFilter_SetQueryReportsChange(t *testing.T) {
	f := NewFilter()

	assert.True(t, f.SetQuery("cats"))
	assert.False(t, f.SetQuery("cats"))
	assert.True(t, f.SetQuery(""))
}

// selectorServer routes selectors to canned post sets the way the API does.
func selectorFeed(filter *Filter, byTags map[string][]model.Post, unfiltered []model.Post, selectors *[]string) *Feed {
	return New(func(ctx context.Context, page int) ([]model.Post, error) {
		selector := filter.Selector()
		*selectors = append(*selectors, selector)
		if selector == "" {
			return unfiltered, nil
		}
		return byTags[selector], nil
	})
}

func TestController_TagToggleReplacesStore(t *testing.T) {
	filter := NewFilter()
	var selectors []string
	f := selectorFeed(filter, map[string][]model.Post{
		"5":   makePosts(10, 11),
		"5,7": makePosts(10, 12),
	}, makePosts(1, 2, 3), &selectors)
	controller := NewController(filter, f)

	ctx := context.Background()

	// Unfiltered baseline
	_, err := f.Refresh(ctx)
	require.NoError(t, err)
	baseline := f.Store().IDs()

	// Selecting [5] then [5,7] requests by-tags/5,7 and replaces the store
	require.NoError(t, controller.ToggleTag(ctx, 5))
	assert.Equal(t, []int64{10, 11}, f.Store().IDs())

	require.NoError(t, controller.ToggleTag(ctx, 7))
	assert.Equal(t, []int64{10, 12}, f.Store().IDs())
	assert.Contains(t, selectors, "5,7")

	// Deselecting both returns to the unfiltered feed
	require.NoError(t, controller.ToggleTag(ctx, 5))
	require.NoError(t, controller.ToggleTag(ctx, 7))
	assert.Equal(t, "", selectors[len(selectors)-1])
	assert.ElementsMatch(t, baseline, f.Store().IDs())
}

func TestController_ToggleRoundTripRestoresSet(t *testing.T) {
	filter := NewFilter()
	var selectors []string
	f := selectorFeed(filter, map[string][]model.Post{
		"9": makePosts(20),
	}, makePosts(1, 2, 3), &selectors)
	controller := NewController(filter, f)

	ctx := context.Background()
	_, err := f.Refresh(ctx)
	require.NoError(t, err)
	before := f.Store().IDs()

	require.NoError(t, controller.ToggleTag(ctx, 9))
	require.NoError(t, controller.ToggleTag(ctx, 9))

	// Toggling a tag and toggling it back restores the same set of post ids
	assert.ElementsMatch(t, before, f.Store().IDs())
}

func TestController_QueryChangeResetsCursor(t *testing.T) {
	filter := NewFilter()
	var selectors []string
	f := selectorFeed(filter, map[string][]model.Post{
		"sunset": makePosts(30, 31),
	}, makePosts(1, 2, 3), &selectors)
	controller := NewController(filter, f)

	ctx := context.Background()
	_, err := f.Refresh(ctx)
	require.NoError(t, err)

	require.NoError(t, controller.SetQuery(ctx, "sunset"))
	assert.Equal(t, []int64{30, 31}, f.Store().IDs())
	assert.Equal(t, 2, f.Cursor().Page())

	// Unchanged query does not refetch
	requests := len(selectors)
	require.NoError(t, controller.SetQuery(ctx, "sunset"))
	assert.Len(t, selectors, requests)
}

func TestController_ClearReturnsToUnfiltered(t *testing.T) {
	filter := NewFilter()
	var selectors []string
	f := selectorFeed(filter, map[string][]model.Post{
		"4": makePosts(40),
	}, makePosts(1, 2), &selectors)
	controller := NewController(filter, f)

	ctx := context.Background()
	require.NoError(t, controller.ToggleTag(ctx, 4))
	require.NoError(t, controller.Clear(ctx))

	assert.Empty(t, filter.TagIDs())
	assert.Equal(t, "", filter.Query())
	assert.Equal(t, []int64{1, 2}, f.Store().IDs())
}
