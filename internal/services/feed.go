package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/anonto42/collexa/backend/internal/models"
	"github.com/anonto42/collexa/backend/internal/repositories"
	apperrors "github.com/anonto42/collexa/backend/pkg/errors"
	"go.uber.org/zap"
)

const MaxPostLength = 500

// FeedService creates posts and assembles them into views joined with
// their author and likers
type FeedService struct {
	posts repositories.PostRepository
	users repositories.UserRepository
	log   *zap.Logger
}

func NewFeedService(posts repositories.PostRepository, users repositories.UserRepository, log *zap.Logger) *FeedService {
	return &FeedService{posts: posts, users: users, log: log}
}

func (s *FeedService) CreatePost(ctx context.Context, callerID uint, content, image string) (*models.PostView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewInvalidRequest("Post content is required")
	}
	if utf8.RuneCountInString(content) > MaxPostLength {
		return nil, apperrors.NewInvalidRequest("Post content cannot exceed 500 characters")
	}

	post := &models.Post{
		Author:  callerID,
		Content: content,
		Image:   strings.TrimSpace(image),
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		s.log.Error("create post failed", zap.Uint("author_id", callerID), zap.Error(err))
		return nil, apperrors.NewInternal("Failed to create post", err)
	}
	s.log.Debug("post created", zap.String("post_id", post.ID.Hex()), zap.Uint("author_id", callerID))

	views, err := s.assemble(ctx, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// GlobalFeed returns every post, newest first
func (s *FeedService) GlobalFeed(ctx context.Context) ([]models.PostView, error) {
	posts, err := s.posts.ListPosts(ctx)
	if err != nil {
		return nil, apperrors.NewInternal("Failed to load posts", err)
	}
	return s.assemble(ctx, posts)
}

// FollowingFeed returns posts authored by the accounts the caller follows
func (s *FeedService) FollowingFeed(ctx context.Context, callerID uint) ([]models.PostView, error) {
	caller, err := s.users.GetUserByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewUnauthorized("User not found")
		}
		return nil, apperrors.NewInternal("Failed to load user", err)
	}
	if caller.FollowingCount() == 0 {
		return []models.PostView{}, nil
	}

	posts, err := s.posts.ListPostsByAuthors(ctx, caller.Following)
	if err != nil {
		return nil, apperrors.NewInternal("Failed to load posts", err)
	}
	return s.assemble(ctx, posts)
}

func (s *FeedService) UserPosts(ctx context.Context, authorID uint) ([]models.PostView, error) {
	posts, err := s.posts.ListPostsByAuthor(ctx, authorID)
	if err != nil {
		return nil, apperrors.NewInternal("Failed to load posts", err)
	}
	return s.assemble(ctx, posts)
}

func (s *FeedService) Post(ctx context.Context, postID string) (*models.PostView, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	views, err := s.assemble(ctx, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// DeletePost removes postID if the caller authored it
func (s *FeedService) DeletePost(ctx context.Context, callerID uint, postID string) error {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return err
	}
	if post.Author != callerID {
		return apperrors.NewForbidden("You can only delete your own posts")
	}

	if err := s.posts.DeletePost(ctx, postID); err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return apperrors.NewNotFound("Post not found")
		}
		s.log.Error("delete post failed", zap.String("post_id", postID), zap.Error(err))
		return apperrors.NewInternal("Failed to delete post", err)
	}
	s.log.Debug("post deleted", zap.String("post_id", postID), zap.Uint("author_id", callerID))
	return nil
}

func (s *FeedService) getPost(ctx context.Context, postID string) (*models.Post, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return nil, apperrors.NewNotFound("Post not found")
		}
		return nil, apperrors.NewInternal("Failed to load post", err)
	}
	return post, nil
}

// assemble joins posts with authors and likers using a single batch load,
// and returns them newest first
func (s *FeedService) assemble(ctx context.Context, posts []models.Post) ([]models.PostView, error) {
	var ids models.IDSet
	for i := range posts {
		ids = ids.Add(posts[i].Author)
		for _, id := range posts[i].Likes {
			ids = ids.Add(id)
		}
	}

	users, err := s.users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.NewInternal("Failed to load users", err)
	}
	byID := indexUsers(users)

	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID.Hex() > posts[j].ID.Hex()
	})

	views := make([]models.PostView, 0, len(posts))
	for i := range posts {
		p := &posts[i]
		view := models.PostView{
			ID:         p.ID.Hex(),
			Author:     models.UserSummary{ID: p.Author},
			Content:    p.Content,
			Image:      p.Image,
			Likes:      make([]models.Liker, 0, p.LikesCount()),
			LikesCount: p.LikesCount(),
			CreatedAt:  p.CreatedAt,
			UpdatedAt:  p.UpdatedAt,
		}
		if author, ok := byID[p.Author]; ok {
			view.Author = author.ToSummary()
		}
		for _, id := range p.Likes {
			if u, ok := byID[id]; ok {
				view.Likes = append(view.Likes, models.Liker{ID: u.ID, Name: u.Name})
			}
		}
		views = append(views, view)
	}
	return views, nil
}
