package repositories

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/anonto42/collexa/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// These tests need a MongoDB instance (4.2+); set MONGO_TEST_URI to run them.
func newTestMongo(t *testing.T) *MongoPostRepository {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)

	db := client.Database("collexa_test_" + time.Now().Format("20060102150405"))
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	repo := NewMongoPostRepository(db)
	require.NoError(t, repo.EnsureIndexes(ctx))
	return repo
}

func TestMongoPostRepository_ToggleLike(t *testing.T) {
	repo := newTestMongo(t)
	ctx := context.Background()

	post := &models.Post{Author: 1, Content: "hello"}
	require.NoError(t, repo.CreatePost(ctx, post))

	steps := []struct {
		user      uint
		wantLiked bool
		wantCount int
	}{
		{2, true, 1},
		{3, true, 2},
		{2, false, 1},
	}
	for _, s := range steps {
		liked, count, err := repo.ToggleLike(ctx, post.ID.Hex(), s.user)
		require.NoError(t, err)
		assert.Equal(t, s.wantLiked, liked)
		assert.Equal(t, s.wantCount, count)
	}

	got, err := repo.GetPostByID(ctx, post.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.IDSet{3}, got.Likes)

	_, _, err = repo.ToggleLike(ctx, "65a000000000000000000000", 2)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestMongoPostRepository_ConcurrentLikes(t *testing.T) {
	repo := newTestMongo(t)
	ctx := context.Background()
	post := &models.Post{Author: 1, Content: "busy"}
	require.NoError(t, repo.CreatePost(ctx, post))

	var wg sync.WaitGroup
	for u := uint(10); u < 30; u++ {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			_, _, err := repo.ToggleLike(ctx, post.ID.Hex(), id)
			assert.NoError(t, err)
		}(u)
	}
	wg.Wait()

	got, err := repo.GetPostByID(ctx, post.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 20, got.LikesCount())
}

func TestMongoPostRepository_ListAndDelete(t *testing.T) {
	repo := newTestMongo(t)
	ctx := context.Background()

	var ids []string
	for _, author := range []uint{1, 2, 1} {
		p := &models.Post{Author: author, Content: "p"}
		require.NoError(t, repo.CreatePost(ctx, p))
		ids = append(ids, p.ID.Hex())
		time.Sleep(2 * time.Millisecond)
	}

	all, err := repo.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, ids[2], all[0].ID.Hex())
	assert.Equal(t, ids[0], all[2].ID.Hex())

	byAuthors, err := repo.ListPostsByAuthors(ctx, []uint{2})
	require.NoError(t, err)
	require.Len(t, byAuthors, 1)
	assert.Equal(t, ids[1], byAuthors[0].ID.Hex())

	require.NoError(t, repo.DeletePost(ctx, ids[1]))
	assert.ErrorIs(t, repo.DeletePost(ctx, ids[1]), ErrPostNotFound)
	_, err = repo.GetPostByID(ctx, "garbage")
	assert.ErrorIs(t, err, ErrPostNotFound)
}
