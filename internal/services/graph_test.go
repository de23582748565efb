package services

import (
	"context"
	"sync"
	"testing"

	"github.com/anonto42/collexa/backend/internal/models"
	apperrors "github.com/anonto42/collexa/backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestToggleFollow_FollowThenUnfollow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b := f.user(t, "anna"), f.user(t, "bob")

	res, err := f.graph.ToggleFollow(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, &FollowResult{Following: true, FollowersCount: 1}, res)
	assert.Equal(t, models.IDSet{b.ID}, f.reload(t, a.ID).Following)
	assert.Equal(t, models.IDSet{a.ID}, f.reload(t, b.ID).Followers)

	res, err = f.graph.ToggleFollow(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, &FollowResult{Following: false, FollowersCount: 0}, res)
	assert.Empty(t, f.reload(t, a.ID).Following)
	assert.Empty(t, f.reload(t, b.ID).Followers)
}

func TestToggleFollow_SelfFollowRejected(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "anna")

	_, err := f.graph.ToggleFollow(context.Background(), a.ID, a.ID)
	requireType(t, err, apperrors.ErrorTypeInvalidRequest)
	assert.Equal(t, "You cannot follow yourself", apperrors.MessageOf(err))
	assert.Empty(t, f.reload(t, a.ID).Following)
	assert.Empty(t, f.reload(t, a.ID).Followers)
}

func TestToggleFollow_MissingParties(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.user(t, "anna")

	_, err := f.graph.ToggleFollow(ctx, a.ID, 999)
	requireType(t, err, apperrors.ErrorTypeNotFound)
	assert.Equal(t, "User not found", apperrors.MessageOf(err))

	_, err = f.graph.ToggleFollow(ctx, 999, a.ID)
	requireType(t, err, apperrors.ErrorTypeUnauthorized)
}

func TestToggleFollow_RepairsHalfWrittenEdge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b := f.user(t, "anna"), f.user(t, "bob")

	// only the followee side of the edge exists
	require.NoError(t, f.users.UpdatePair(ctx, a.ID, b.ID, func(_, second *models.User) error {
		second.Followers = second.Followers.Add(a.ID)
		return nil
	}))

	res, err := f.graph.ToggleFollow(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, res.Following)
	assert.Equal(t, 1, res.FollowersCount)
	assert.Equal(t, models.IDSet{b.ID}, f.reload(t, a.ID).Following)
	assert.Equal(t, models.IDSet{a.ID}, f.reload(t, b.ID).Followers)
}

func TestToggleFollow_StoreFailureIsInternal(t *testing.T) {
	f := newFixture(t)
	a, b := f.user(t, "anna"), f.user(t, "bob")
	graph := NewGraphService(failingUsers{f.users}, zap.NewNop())

	_, err := graph.ToggleFollow(context.Background(), a.ID, b.ID)
	requireType(t, err, apperrors.ErrorTypeInternal)
	assert.Empty(t, f.reload(t, a.ID).Following)
}

func TestToggleFollow_ConcurrentTogglesStaySymmetric(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	users := []*models.User{f.user(t, "a"), f.user(t, "b"), f.user(t, "c"), f.user(t, "d")}

	var wg sync.WaitGroup
	for round := 0; round < 5; round++ {
		for _, from := range users {
			for _, to := range users {
				if from.ID == to.ID {
					continue
				}
				wg.Add(1)
				go func(from, to uint) {
					defer wg.Done()
					_, err := f.graph.ToggleFollow(ctx, from, to)
					assert.NoError(t, err)
				}(from.ID, to.ID)
			}
		}
	}
	wg.Wait()

	// five toggles per ordered pair leaves every edge present
	for _, u := range users {
		got := f.reload(t, u.ID)
		assert.Equal(t, 3, got.FollowingCount())
		assert.Equal(t, 3, got.FollowersCount())
		for _, id := range got.Following {
			assert.True(t, f.reload(t, id).Followers.Contains(u.ID))
		}
	}
}

func TestProfileAndFollowLists(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b, c := f.user(t, "anna"), f.user(t, "bob"), f.user(t, "cara")

	for _, pair := range [][2]uint{{b.ID, a.ID}, {c.ID, a.ID}, {a.ID, c.ID}} {
		_, err := f.graph.ToggleFollow(ctx, pair[0], pair[1])
		require.NoError(t, err)
	}

	profile, err := f.graph.Profile(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, profile.FollowersCount)
	assert.Equal(t, 1, profile.FollowingCount)
	assert.Equal(t, []models.UserSummary{b.ToSummary(), c.ToSummary()}, profile.Followers)
	assert.Equal(t, []models.UserSummary{c.ToSummary()}, profile.Following)

	followers, err := f.graph.Followers(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, followers, 2)
	assert.Equal(t, "bob", followers[0].Name)
	assert.Equal(t, 1, followers[0].FollowingCount)

	following, err := f.graph.Following(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, a.ID, following[0].ID)
	assert.Equal(t, 2, following[0].FollowersCount)

	_, err = f.graph.Profile(ctx, 999)
	requireType(t, err, apperrors.ErrorTypeNotFound)
	_, err = f.graph.Followers(ctx, 999)
	requireType(t, err, apperrors.ErrorTypeNotFound)
}
