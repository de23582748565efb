package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/anonto42/collexa/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryUserRepository keeps users in process. Callers only ever see copies,
// so every read-modify-write starts from the stored value.
type MemoryUserRepository struct {
	mu     sync.RWMutex
	users  map[uint]*models.User
	nextID uint
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[uint]*models.User)}
}

func copyUser(u *models.User) *models.User {
	c := *u
	c.Followers = u.Followers.Clone()
	c.Following = u.Following.Clone()
	if u.FirebaseUID != nil {
		uid := *u.FirebaseUID
		c.FirebaseUID = &uid
	}
	return &c
}

func (r *MemoryUserRepository) CreateUser(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return ErrUserExists
		}
		if user.FirebaseUID != nil && u.FirebaseUID != nil && *u.FirebaseUID == *user.FirebaseUID {
			return ErrUserExists
		}
	}

	r.nextID++
	now := time.Now().UTC()
	user.ID = r.nextID
	user.CreatedAt = now
	user.UpdatedAt = now
	user.Followers = user.Followers.Clone()
	user.Following = user.Following.Clone()
	r.users[user.ID] = copyUser(user)
	return nil
}

func (r *MemoryUserRepository) GetUserByID(_ context.Context, id uint) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return copyUser(u), nil
}

func (r *MemoryUserRepository) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	return r.findOne(func(u *models.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *MemoryUserRepository) GetUserByFirebaseUID(_ context.Context, firebaseUID string) (*models.User, error) {
	return r.findOne(func(u *models.User) bool { return u.FirebaseUID != nil && *u.FirebaseUID == firebaseUID })
}

func (r *MemoryUserRepository) findOne(match func(u *models.User) bool) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if match(u) {
			return copyUser(u), nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *MemoryUserRepository) GetUsersByIDs(_ context.Context, ids []uint) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := []models.User{}
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if u, ok := r.users[id]; ok {
			users = append(users, *copyUser(u))
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *MemoryUserRepository) UpdateProfile(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[user.ID]
	if !ok {
		return ErrUserNotFound
	}
	stored.Name = user.Name
	stored.Bio = user.Bio
	stored.ProfilePicture = user.ProfilePicture
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *MemoryUserRepository) LinkFirebaseUID(_ context.Context, id uint, firebaseUID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	for _, u := range r.users {
		if u.ID != id && u.FirebaseUID != nil && *u.FirebaseUID == firebaseUID {
			return ErrUserExists
		}
	}
	stored.FirebaseUID = &firebaseUID
	return nil
}

func (r *MemoryUserRepository) SearchUsers(_ context.Context, query string, limit int) ([]models.User, error) {
	q := strings.ToLower(query)
	users := r.sorted(func(a, b *models.User) bool { return a.ID < b.ID })

	out := []models.User{}
	for _, u := range users {
		if len(out) == limit {
			break
		}
		if strings.Contains(strings.ToLower(u.Name), q) || strings.Contains(strings.ToLower(u.Email), q) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *MemoryUserRepository) TopByFollowers(_ context.Context, limit int) ([]models.User, error) {
	users := r.sorted(func(a, b *models.User) bool {
		if a.Followers.Len() != b.Followers.Len() {
			return a.Followers.Len() > b.Followers.Len()
		}
		return a.ID < b.ID
	})
	if len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (r *MemoryUserRepository) sorted(less func(a, b *models.User) bool) []models.User {
	r.mu.RLock()
	users := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, *copyUser(u))
	}
	r.mu.RUnlock()

	sort.Slice(users, func(i, j int) bool { return less(&users[i], &users[j]) })
	return users
}

// UpdatePair runs fn on copies under the write lock and stores both only if fn succeeds
func (r *MemoryUserRepository) UpdatePair(_ context.Context, firstID, secondID uint, fn PairUpdate) error {
	if firstID == secondID {
		return ErrSameUser
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a, okA := r.users[firstID]
	b, okB := r.users[secondID]
	if !okA || !okB {
		return ErrUserNotFound
	}

	first, second := copyUser(a), copyUser(b)
	if err := fn(first, second); err != nil {
		return err
	}

	now := time.Now().UTC()
	a.Followers, a.Following, a.UpdatedAt = first.Followers.Clone(), first.Following.Clone(), now
	b.Followers, b.Following, b.UpdatedAt = second.Followers.Clone(), second.Following.Clone(), now
	return nil
}

// MemoryPostRepository keeps posts in process
type MemoryPostRepository struct {
	mu    sync.RWMutex
	posts map[primitive.ObjectID]*models.Post
	now   func() time.Time
}

func NewMemoryPostRepository() *MemoryPostRepository {
	return NewMemoryPostRepositoryWithClock(func() time.Time { return time.Now().UTC() })
}

// NewMemoryPostRepositoryWithClock stamps created_at/updated_at from now
func NewMemoryPostRepositoryWithClock(now func() time.Time) *MemoryPostRepository {
	return &MemoryPostRepository{
		posts: make(map[primitive.ObjectID]*models.Post),
		now:   now,
	}
}

func copyPost(p *models.Post) models.Post {
	c := *p
	c.Likes = p.Likes.Clone()
	return c
}

func (r *MemoryPostRepository) CreatePost(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = now
	post.UpdatedAt = now
	post.Likes = post.Likes.Clone()
	stored := copyPost(post)
	r.posts[post.ID] = &stored
	return nil
}

func (r *MemoryPostRepository) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrPostNotFound
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.posts[objID]
	if !ok {
		return nil, ErrPostNotFound
	}
	post := copyPost(p)
	return &post, nil
}

func (r *MemoryPostRepository) ListPosts(_ context.Context) ([]models.Post, error) {
	return r.list(func(*models.Post) bool { return true }), nil
}

func (r *MemoryPostRepository) ListPostsByAuthor(_ context.Context, authorID uint) ([]models.Post, error) {
	return r.list(func(p *models.Post) bool { return p.Author == authorID }), nil
}

func (r *MemoryPostRepository) ListPostsByAuthors(_ context.Context, authorIDs []uint) ([]models.Post, error) {
	authors := models.IDSet(authorIDs)
	return r.list(func(p *models.Post) bool { return authors.Contains(p.Author) }), nil
}

func (r *MemoryPostRepository) list(match func(p *models.Post) bool) []models.Post {
	r.mu.RLock()
	posts := []models.Post{}
	for _, p := range r.posts {
		if match(p) {
			posts = append(posts, copyPost(p))
		}
	}
	r.mu.RUnlock()

	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID.Hex() > posts[j].ID.Hex()
	})
	return posts
}

func (r *MemoryPostRepository) DeletePost(_ context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrPostNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[objID]; !ok {
		return ErrPostNotFound
	}
	delete(r.posts, objID)
	return nil
}

func (r *MemoryPostRepository) ToggleLike(_ context.Context, postID string, userID uint) (bool, int, error) {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return false, 0, ErrPostNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[objID]
	if !ok {
		return false, 0, ErrPostNotFound
	}

	liked := !p.Likes.Contains(userID)
	if liked {
		p.Likes = p.Likes.Add(userID)
	} else {
		p.Likes = p.Likes.Remove(userID)
	}
	p.UpdatedAt = r.now()
	return liked, p.LikesCount(), nil
}
