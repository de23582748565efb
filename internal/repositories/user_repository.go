package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/anonto42/collexa/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PairUpdate mutates two freshly loaded users. Returning an error aborts the update.
type PairUpdate func(first, second *models.User) error

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error)
	// GetUsersByIDs returns the users that exist among ids, ordered by id
	GetUsersByIDs(ctx context.Context, ids []uint) ([]models.User, error)
	// UpdateProfile writes name, bio and profile picture only
	UpdateProfile(ctx context.Context, user *models.User) error
	LinkFirebaseUID(ctx context.Context, id uint, firebaseUID string) error
	SearchUsers(ctx context.Context, query string, limit int) ([]models.User, error)
	// TopByFollowers ranks by follower set cardinality, ties by id
	TopByFollowers(ctx context.Context, limit int) ([]models.User, error)
	// UpdatePair loads both users, applies fn and persists both follow sets atomically
	UpdatePair(ctx context.Context, firstID, secondID uint, fn PairUpdate) error
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser creates a new user in PostgreSQL
func (r *PostgresUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	if user.Followers == nil {
		user.Followers = models.IDSet{}
	}
	if user.Following == nil {
		user.Following = models.IDSet{}
	}
	err := r.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrUserExists
	}
	return err
}

// GetUserByID retrieves a user by ID from PostgreSQL
func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// GetUserByFirebaseUID retrieves a user by Firebase UID from PostgreSQL
func (r *PostgresUserRepository) GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("firebase_uid = ?", firebaseUID).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetUsersByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	users := []models.User{}
	if len(ids) == 0 {
		return users, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateProfile never touches followers/following so it cannot undo a concurrent follow
func (r *PostgresUserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	res := r.db.WithContext(ctx).Model(&models.User{ID: user.ID}).
		Select("name", "bio", "profile_picture").
		Updates(user)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *PostgresUserRepository) LinkFirebaseUID(ctx context.Context, id uint, firebaseUID string) error {
	res := r.db.WithContext(ctx).Model(&models.User{ID: id}).Update("firebase_uid", firebaseUID)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return ErrUserExists
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SearchUsers matches name or email, case-insensitive, treating the query literally
func (r *PostgresUserRepository) SearchUsers(ctx context.Context, query string, limit int) ([]models.User, error) {
	users := []models.User{}
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	if err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern).
		Order("id").
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *PostgresUserRepository) TopByFollowers(ctx context.Context, limit int) ([]models.User, error) {
	users := []models.User{}
	if err := r.db.WithContext(ctx).
		Order("cardinality(followers) DESC").
		Order("id ASC").
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdatePair locks both rows in id order inside one transaction, so concurrent
// pair updates serialize and neither side of an edge can be written alone.
func (r *PostgresUserRepository) UpdatePair(ctx context.Context, firstID, secondID uint, fn PairUpdate) error {
	if firstID == secondID {
		return ErrSameUser
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var users []models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id IN ?", []uint{firstID, secondID}).
			Order("id").
			Find(&users).Error; err != nil {
			return err
		}

		byID := make(map[uint]*models.User, len(users))
		for i := range users {
			byID[users[i].ID] = &users[i]
		}
		first, second := byID[firstID], byID[secondID]
		if first == nil || second == nil {
			return ErrUserNotFound
		}

		if err := fn(first, second); err != nil {
			return err
		}

		for _, u := range []*models.User{first, second} {
			if err := tx.Model(&models.User{ID: u.ID}).Updates(map[string]any{
				"followers": u.Followers.Clone(),
				"following": u.Following.Clone(),
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	return err
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
