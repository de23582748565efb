package services

import (
	"context"
	"errors"

	"github.com/anonto42/collexa/backend/internal/repositories"
	apperrors "github.com/anonto42/collexa/backend/pkg/errors"
	"go.uber.org/zap"
)

type LikeResult struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likesCount"`
}

// LikeService toggles a user's membership in a post's likes
type LikeService struct {
	posts repositories.PostRepository
	log   *zap.Logger
}

func NewLikeService(posts repositories.PostRepository, log *zap.Logger) *LikeService {
	return &LikeService{posts: posts, log: log}
}

func (s *LikeService) ToggleLike(ctx context.Context, callerID uint, postID string) (*LikeResult, error) {
	liked, count, err := s.posts.ToggleLike(ctx, postID, callerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return nil, apperrors.NewNotFound("Post not found")
		}
		s.log.Error("like toggle failed", zap.String("post_id", postID), zap.Uint("user_id", callerID), zap.Error(err))
		return nil, apperrors.NewInternal("Failed to update like", err)
	}
	return &LikeResult{Liked: liked, LikesCount: count}, nil
}
