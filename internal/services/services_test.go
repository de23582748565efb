package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anonto42/collexa/backend/internal/models"
	"github.com/anonto42/collexa/backend/internal/repositories"
	apperrors "github.com/anonto42/collexa/backend/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	users    *repositories.MemoryUserRepository
	posts    *repositories.MemoryPostRepository
	graph    *GraphService
	likes    *LikeService
	feed     *FeedService
	accounts *AccountService
}

type stubTokens struct{}

func (stubTokens) Issue(user *models.User) (string, error) { return "token-for-" + user.Email, nil }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	// posts get strictly increasing timestamps so ordering is deterministic
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return newFixtureWith(repositories.NewMemoryUserRepository(), repositories.NewMemoryPostRepositoryWithClock(now))
}

func newFixtureWith(users *repositories.MemoryUserRepository, posts *repositories.MemoryPostRepository) *fixture {
	log := zap.NewNop()
	return &fixture{
		users:    users,
		posts:    posts,
		graph:    NewGraphService(users, log),
		likes:    NewLikeService(posts, log),
		feed:     NewFeedService(posts, users, log),
		accounts: NewAccountService(users, stubTokens{}, log),
	}
}

func (f *fixture) user(t *testing.T, name string) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: name + "@x.com"}
	require.NoError(t, f.users.CreateUser(context.Background(), u))
	return u
}

func (f *fixture) reload(t *testing.T, id uint) *models.User {
	t.Helper()
	u, err := f.users.GetUserByID(context.Background(), id)
	require.NoError(t, err)
	return u
}

func (f *fixture) post(t *testing.T, author uint, content string) *models.PostView {
	t.Helper()
	v, err := f.feed.CreatePost(context.Background(), author, content, "")
	require.NoError(t, err)
	return v
}

func requireType(t *testing.T, err error, want apperrors.ErrorType) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, want, apperrors.TypeOf(err), "error: %v", err)
}

// failingUsers fails every pair update
type failingUsers struct {
	*repositories.MemoryUserRepository
}

func (failingUsers) UpdatePair(context.Context, uint, uint, repositories.PairUpdate) error {
	return errors.New("connection reset")
}

// failingPosts fails feed listing and like toggles
type failingPosts struct {
	*repositories.MemoryPostRepository
}

func (failingPosts) ListPosts(context.Context) ([]models.Post, error) {
	return nil, errors.New("connection reset")
}

func (failingPosts) ToggleLike(context.Context, string, uint) (bool, int, error) {
	return false, 0, errors.New("connection reset")
}
