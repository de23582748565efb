package services

import (
	"context"
	"errors"

	"github.com/anonto42/collexa/backend/internal/models"
	"github.com/anonto42/collexa/backend/internal/repositories"
	apperrors "github.com/anonto42/collexa/backend/pkg/errors"
	"go.uber.org/zap"
)

// FollowResult is the state of the caller→target edge after a toggle
type FollowResult struct {
	Following      bool `json:"following"`
	FollowersCount int  `json:"followersCount"`
}

// GraphService owns the follow graph. Both views of an edge (the follower's
// Following and the followee's Followers) are written in one pair update.
type GraphService struct {
	users repositories.UserRepository
	log   *zap.Logger
}

func NewGraphService(users repositories.UserRepository, log *zap.Logger) *GraphService {
	return &GraphService{users: users, log: log}
}

// ToggleFollow follows targetID if the caller does not follow it yet, and unfollows otherwise
func (s *GraphService) ToggleFollow(ctx context.Context, callerID, targetID uint) (*FollowResult, error) {
	if callerID == targetID {
		return nil, apperrors.NewInvalidRequest("You cannot follow yourself")
	}

	var result FollowResult
	err := s.users.UpdatePair(ctx, callerID, targetID, func(caller, target *models.User) error {
		result = toggleEdge(caller, target)
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, s.missingParty(ctx, callerID)
		}
		s.log.Error("follow toggle failed",
			zap.Uint("caller_id", callerID), zap.Uint("target_id", targetID), zap.Error(err))
		return nil, apperrors.NewInternal("Failed to update follow", err)
	}

	s.log.Debug("follow toggled",
		zap.Uint("caller_id", callerID),
		zap.Uint("target_id", targetID),
		zap.Bool("following", result.Following),
		zap.Int("followers_count", result.FollowersCount))
	return &result, nil
}

// toggleEdge decides from caller.Following and then brings both views to the
// same state, which also repairs a half-written edge.
func toggleEdge(caller, target *models.User) FollowResult {
	if caller.Following.Contains(target.ID) {
		caller.Following = caller.Following.Remove(target.ID)
		target.Followers = target.Followers.Remove(caller.ID)
		return FollowResult{Following: false, FollowersCount: target.FollowersCount()}
	}
	caller.Following = caller.Following.Add(target.ID)
	target.Followers = target.Followers.Add(caller.ID)
	return FollowResult{Following: true, FollowersCount: target.FollowersCount()}
}

func (s *GraphService) missingParty(ctx context.Context, callerID uint) error {
	if _, err := s.users.GetUserByID(ctx, callerID); errors.Is(err, repositories.ErrUserNotFound) {
		return apperrors.NewUnauthorized("User not found")
	}
	return apperrors.NewNotFound("User not found")
}

// Profile returns a user with both follow lists resolved to summaries
func (s *GraphService) Profile(ctx context.Context, userID uint) (*models.Profile, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	related, err := s.users.GetUsersByIDs(ctx, append(user.Followers.Clone(), user.Following...))
	if err != nil {
		return nil, apperrors.NewInternal("Failed to load profile", err)
	}
	byID := indexUsers(related)

	profile := &models.Profile{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		Bio:            user.Bio,
		ProfilePicture: user.ProfilePicture,
		FollowersCount: user.FollowersCount(),
		FollowingCount: user.FollowingCount(),
		Followers:      []models.UserSummary{},
		Following:      []models.UserSummary{},
	}
	for _, id := range user.Followers {
		if u, ok := byID[id]; ok {
			profile.Followers = append(profile.Followers, u.ToSummary())
		}
	}
	for _, id := range user.Following {
		if u, ok := byID[id]; ok {
			profile.Following = append(profile.Following, u.ToSummary())
		}
	}
	return profile, nil
}

// Followers lists the users following userID, in follow order
func (s *GraphService) Followers(ctx context.Context, userID uint) ([]models.UserCard, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.cards(ctx, user.Followers)
}

// Following lists the users userID follows, in follow order
func (s *GraphService) Following(ctx context.Context, userID uint) ([]models.UserCard, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.cards(ctx, user.Following)
}

func (s *GraphService) cards(ctx context.Context, ids models.IDSet) ([]models.UserCard, error) {
	users, err := s.users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.NewInternal("Failed to load users", err)
	}
	byID := indexUsers(users)

	cards := make([]models.UserCard, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			cards = append(cards, u.ToCard())
		}
	}
	return cards, nil
}

func (s *GraphService) getUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewNotFound("User not found")
		}
		return nil, apperrors.NewInternal("Failed to load user", err)
	}
	return user, nil
}

func indexUsers(users []models.User) map[uint]*models.User {
	byID := make(map[uint]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	return byID
}
