package repositories

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/anonto42/collexa/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// These tests need a PostgreSQL instance; set POSTGRES_TEST_URL to run them.
func newTestPostgres(t *testing.T) *PostgresUserRepository {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	dsn := os.Getenv("POSTGRES_TEST_URL")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return NewPostgresUserRepository(db)
}

func createPgUser(t *testing.T, repo *PostgresUserRepository, name string) *models.User {
	t.Helper()
	u := &models.User{
		Name:  name,
		Email: fmt.Sprintf("%s-%d@test.local", name, time.Now().UnixNano()),
	}
	require.NoError(t, repo.CreateUser(context.Background(), u))
	t.Cleanup(func() { repo.db.Delete(&models.User{}, u.ID) })
	return u
}

func TestPostgresUserRepository_UpdatePair(t *testing.T) {
	repo := newTestPostgres(t)
	ctx := context.Background()
	a := createPgUser(t, repo, "anna")
	b := createPgUser(t, repo, "bob")

	err := repo.UpdatePair(ctx, a.ID, b.ID, func(first, second *models.User) error {
		first.Following = first.Following.Add(second.ID)
		second.Followers = second.Followers.Add(first.ID)
		return nil
	})
	require.NoError(t, err)

	gotA, err := repo.GetUserByID(ctx, a.ID)
	require.NoError(t, err)
	gotB, err := repo.GetUserByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.IDSet{b.ID}, gotA.Following)
	assert.Equal(t, models.IDSet{a.ID}, gotB.Followers)

	err = repo.UpdatePair(ctx, a.ID, b.ID, func(first, second *models.User) error {
		first.Following = models.IDSet{}
		return fmt.Errorf("abort")
	})
	require.Error(t, err)
	gotA, _ = repo.GetUserByID(ctx, a.ID)
	assert.Equal(t, models.IDSet{b.ID}, gotA.Following, "aborted transaction must not persist")
}

func TestPostgresUserRepository_ConcurrentPairUpdates(t *testing.T) {
	repo := newTestPostgres(t)
	ctx := context.Background()
	target := createPgUser(t, repo, "target")
	followers := make([]*models.User, 8)
	for i := range followers {
		followers[i] = createPgUser(t, repo, fmt.Sprintf("f%d", i))
	}

	var wg sync.WaitGroup
	for _, f := range followers {
		wg.Add(1)
		go func(f *models.User) {
			defer wg.Done()
			assert.NoError(t, repo.UpdatePair(ctx, f.ID, target.ID, func(first, second *models.User) error {
				first.Following = first.Following.Add(second.ID)
				second.Followers = second.Followers.Add(first.ID)
				return nil
			}))
		}(f)
	}
	wg.Wait()

	got, err := repo.GetUserByID(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, len(followers), got.FollowersCount())
}

func TestPostgresUserRepository_SearchEscapesWildcards(t *testing.T) {
	repo := newTestPostgres(t)
	ctx := context.Background()
	u := createPgUser(t, repo, "percent_sign")

	found, err := repo.SearchUsers(ctx, "PERCENT_", 20)
	require.NoError(t, err)
	ids := make([]uint, 0, len(found))
	for _, f := range found {
		ids = append(ids, f.ID)
	}
	assert.Contains(t, ids, u.ID)

	none, err := repo.SearchUsers(ctx, "%%%nomatch", 20)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPostgresUserRepository_DuplicateEmail(t *testing.T) {
	repo := newTestPostgres(t)
	u := createPgUser(t, repo, "dup")

	err := repo.CreateUser(context.Background(), &models.User{Name: "dup2", Email: u.Email})
	assert.ErrorIs(t, err, ErrUserExists)
}
