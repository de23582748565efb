package services

import (
	"context"
	"errors"
	"strings"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/anonto42/collexa/backend/internal/models"
	"github.com/anonto42/collexa/backend/internal/repositories"
	apperrors "github.com/anonto42/collexa/backend/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	SearchLimit      = 20
	LeaderboardLimit = 10
)

// TokenIssuer signs access tokens for authenticated users
type TokenIssuer interface {
	Issue(user *models.User) (string, error)
}

// IDTokenVerifier is satisfied by *firebaseauth.Client
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*firebaseauth.Token, error)
}

// AuthResult is returned by every login flow
type AuthResult struct {
	Token string
	User  *models.User
}

type AccountService struct {
	users    repositories.UserRepository
	tokens   TokenIssuer
	firebase IDTokenVerifier
	log      *zap.Logger
}

func NewAccountService(users repositories.UserRepository, tokens TokenIssuer, log *zap.Logger) *AccountService {
	return &AccountService{users: users, tokens: tokens, log: log}
}

// WithFirebase enables FirebaseLogin
func (s *AccountService) WithFirebase(verifier IDTokenVerifier) *AccountService {
	s.firebase = verifier
	return s
}

func (s *AccountService) FirebaseEnabled() bool { return s.firebase != nil }

func (s *AccountService) Register(ctx context.Context, req models.RegisterRequest) (*AuthResult, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, apperrors.NewInvalidRequest("Password cannot exceed 72 bytes")
		}
		return nil, apperrors.NewInternal("Failed to hash password", err)
	}

	user := &models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: string(hashed),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserExists) {
			return nil, apperrors.NewInvalidRequest("User already exists")
		}
		s.log.Error("create user failed", zap.String("email", user.Email), zap.Error(err))
		return nil, apperrors.NewInternal("Failed to create user", err)
	}
	s.log.Info("user registered", zap.Uint("user_id", user.ID))

	return s.issue(user)
}

func (s *AccountService) Login(ctx context.Context, req models.LoginRequest) (*AuthResult, error) {
	user, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewUnauthorized("Invalid email or password")
		}
		return nil, apperrors.NewInternal("Failed to load user", err)
	}
	if user.Password == "" {
		return nil, apperrors.NewUnauthorized("Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperrors.NewUnauthorized("Invalid email or password")
	}
	return s.issue(user)
}

// FirebaseLogin exchanges a Firebase ID token for a local token. The user is
// found by firebase UID, then by email (linking the UID), or created.
func (s *AccountService) FirebaseLogin(ctx context.Context, idToken string) (*AuthResult, error) {
	if s.firebase == nil {
		return nil, apperrors.NewNotFound("Firebase login is not enabled")
	}

	token, err := s.firebase.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, apperrors.NewUnauthorized("Invalid Firebase ID token")
	}
	email, _ := token.Claims["email"].(string)
	email = strings.ToLower(strings.TrimSpace(email))
	name, _ := token.Claims["name"].(string)

	user, err := s.users.GetUserByFirebaseUID(ctx, token.UID)
	if err == nil {
		return s.issue(user)
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, apperrors.NewInternal("Failed to load user", err)
	}
	if email == "" {
		return nil, apperrors.NewUnauthorized("Firebase account has no email")
	}
	// linking or creating by email needs a verified address
	if verified, _ := token.Claims["email_verified"].(bool); !verified {
		return nil, apperrors.NewUnauthorized("Firebase email is not verified")
	}

	user, err = s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if err := s.users.LinkFirebaseUID(ctx, user.ID, token.UID); err != nil {
			return nil, apperrors.NewInternal("Failed to link Firebase account", err)
		}
		s.log.Info("firebase account linked", zap.Uint("user_id", user.ID))
	case errors.Is(err, repositories.ErrUserNotFound):
		if name == "" {
			name = strings.Split(email, "@")[0]
		}
		uid := token.UID
		user = &models.User{Name: name, Email: email, FirebaseUID: &uid}
		if err := s.users.CreateUser(ctx, user); err != nil {
			if errors.Is(err, repositories.ErrUserExists) {
				return nil, apperrors.NewInvalidRequest("User already exists")
			}
			return nil, apperrors.NewInternal("Failed to create user", err)
		}
		s.log.Info("user registered via firebase", zap.Uint("user_id", user.ID))
	default:
		return nil, apperrors.NewInternal("Failed to load user", err)
	}
	return s.issue(user)
}

func (s *AccountService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, apperrors.NewInternal("Failed to generate token", err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (s *AccountService) Me(ctx context.Context, callerID uint) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewUnauthorized("User not found")
		}
		return nil, apperrors.NewInternal("Failed to load user", err)
	}
	return user, nil
}

// UpdateProfile changes only the fields that are non-empty in req
func (s *AccountService) UpdateProfile(ctx context.Context, callerID uint, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.Me(ctx, callerID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = name
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}
	if req.ProfilePicture != "" {
		user.ProfilePicture = req.ProfilePicture
	}

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewUnauthorized("User not found")
		}
		return nil, apperrors.NewInternal("Failed to update profile", err)
	}
	return user, nil
}

// Search matches query against name or email, case-insensitively
func (s *AccountService) Search(ctx context.Context, query string) ([]models.UserCard, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.NewInvalidRequest("Search query is required")
	}

	users, err := s.users.SearchUsers(ctx, query, SearchLimit)
	if err != nil {
		return nil, apperrors.NewInternal("Failed to search users", err)
	}
	cards := make([]models.UserCard, 0, len(users))
	for i := range users {
		cards = append(cards, users[i].ToCard())
	}
	return cards, nil
}

// Leaderboard ranks users by follower count, ties broken by lower id
func (s *AccountService) Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	users, err := s.users.TopByFollowers(ctx, LeaderboardLimit)
	if err != nil {
		return nil, apperrors.NewInternal("Failed to load leaderboard", err)
	}
	entries := make([]models.LeaderboardEntry, 0, len(users))
	for i := range users {
		entries = append(entries, models.LeaderboardEntry{Rank: i + 1, UserCard: users[i].ToCard()})
	}
	return entries, nil
}
