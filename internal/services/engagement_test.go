package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/emilythestrangee/bugai/backend/internal/errors"
	"github.com/emilythestrangee/bugai/backend/internal/models"
)

func TestCreateCommentIncrementsCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "commenter")
	c := f.createCase(t, models.Anonymous(""))

	comment, err := f.svc.Cases.CreateComment(ctx, c.ID, models.Registered(user.ID), "this is wrong")
	require.NoError(t, err)
	assert.Equal(t, c.ID, comment.CaseID)
	require.NotNil(t, comment.User)
	assert.Equal(t, "commenter", comment.User.Username)

	anon, err := f.svc.Cases.CreateComment(ctx, c.ID, models.Anonymous("tab-1"), "agreed")
	require.NoError(t, err)
	assert.Nil(t, anon.UserID)

	got, err := f.svc.Cases.GetCase(ctx, c.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.CommentCount)
	assert.Len(t, got.Comments, 2)
}

func TestCreateCommentRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.createCase(t, models.Anonymous(""))

	_, err := f.svc.Cases.CreateComment(ctx, c.ID, models.Anonymous(""), " \t\n")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.svc.Cases.CreateComment(ctx, c.ID, models.Registered(missingID), "hello")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	got, err := f.svc.Cases.GetCase(ctx, c.ID)
	require.NoError(t, err)
	assert.Zero(t, got.CommentCount, "failed comments leave the count alone")
}

func TestListCommentsNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.createCase(t, models.Anonymous(""))

	for _, text := range []string{"one", "two", "three"} {
		_, err := f.svc.Cases.CreateComment(ctx, c.ID, models.Anonymous(""), text)
		require.NoError(t, err)
	}

	comments, err := f.svc.Cases.ListComments(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "three", comments[0].Content)
	assert.Equal(t, "one", comments[2].Content)
}

func TestToggleLikeTwiceRestoresCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "liker")
	c := f.createCase(t, models.Anonymous(""))

	for name, actor := range map[string]models.Identity{
		"registered": models.Registered(user.ID),
		"anonymous":  models.Anonymous(""),
	} {
		t.Run(name, func(t *testing.T) {
			before, err := f.svc.Cases.GetCase(ctx, c.ID)
			require.NoError(t, err)

			liked, err := f.svc.Cases.ToggleLike(ctx, c.ID, actor)
			require.NoError(t, err)
			assert.True(t, liked.IsLiked)
			assert.Equal(t, before.LikeCount+1, liked.LikeCount)
			require.NotNil(t, liked.Like)
			assert.Equal(t, actor.Key(), liked.Like.Identity)

			unliked, err := f.svc.Cases.ToggleLike(ctx, c.ID, actor)
			require.NoError(t, err)
			assert.False(t, unliked.IsLiked)
			assert.Equal(t, before.LikeCount, unliked.LikeCount)
			require.NotNil(t, unliked.Like)
			assert.Equal(t, liked.Like.ID, unliked.Like.ID, "un-like returns the removed row")
		})
	}
}

func TestLikeIdentitiesAreIndependent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	c := f.createCase(t, models.Anonymous(""))

	actors := []models.Identity{
		models.Registered(alice.ID),
		models.Anonymous("tab-1"),
		models.Anonymous("tab-2"),
		models.Anonymous(""),
	}
	for _, actor := range actors {
		res, err := f.svc.Cases.ToggleLike(ctx, c.ID, actor)
		require.NoError(t, err)
		assert.True(t, res.IsLiked, actor.Key())
	}

	got, err := f.svc.Cases.GetCase(ctx, c.ID)
	require.NoError(t, err)
	assert.EqualValues(t, len(actors), got.LikeCount)

	var rows int64
	require.NoError(t, f.deps.DB.Model(&models.Like{}).Where("case_id = ?", c.ID).Count(&rows).Error)
	assert.Equal(t, got.LikeCount, rows)
}

func TestToggleLikeUnknownUser(t *testing.T) {
	f := newFixture(t)
	c := f.createCase(t, models.Anonymous(""))

	_, err := f.svc.Cases.ToggleLike(context.Background(), c.ID, models.Registered(missingID))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// An even number of concurrent toggles from one identity ends un-liked with
// the count back where it started.
func TestConcurrentTogglesStayConsistent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.createCase(t, models.Anonymous(""))
	actor := models.Anonymous("same-tab")

	const n = 10
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Cases.ToggleLike(ctx, c.ID, actor)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := f.svc.Cases.GetCase(ctx, c.ID)
	require.NoError(t, err)
	assert.Zero(t, got.LikeCount)

	var rows int64
	require.NoError(t, f.deps.DB.Model(&models.Like{}).Where("case_id = ?", c.ID).Count(&rows).Error)
	assert.Zero(t, rows)
}
