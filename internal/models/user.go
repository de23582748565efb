package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User is an account with its two follow views. Followers and Following are
// denormalized halves of the same edges: B ∈ A.Following ⇔ A ∈ B.Followers.
type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name" gorm:"size:50;not null"`
	Email          string    `json:"email" gorm:"uniqueIndex;not null"`
	Password       string    `json:"-"`
	Bio            string    `json:"bio"`
	ProfilePicture string    `json:"profilePic"`
	FirebaseUID    *string   `json:"-" gorm:"uniqueIndex"`
	Followers      IDSet     `json:"-" gorm:"not null;default:'{}'"`
	Following      IDSet     `json:"-" gorm:"not null;default:'{}'"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// FollowersCount is derived from the set, never stored
func (u *User) FollowersCount() int { return u.Followers.Len() }

// FollowingCount is derived from the set, never stored
func (u *User) FollowingCount() int { return u.Following.Len() }

// ToSummary is the author shape embedded in posts and follow lists
func (u *User) ToSummary() UserSummary {
	return UserSummary{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
	}
}

// ToCard is the shape used by search, follow lists and the leaderboard
func (u *User) ToCard() UserCard {
	return UserCard{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
		Bio:            u.Bio,
		FollowersCount: u.FollowersCount(),
		FollowingCount: u.FollowingCount(),
	}
}

type UserSummary struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profilePic"`
}

type UserCard struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profilePic"`
	Bio            string `json:"bio"`
	FollowersCount int    `json:"followersCount"`
	FollowingCount int    `json:"followingCount"`
}

// LeaderboardEntry is a UserCard with its 1-based rank
type LeaderboardEntry struct {
	Rank int `json:"rank"`
	UserCard
}

// Profile is the public view of an account with both follow lists resolved
type Profile struct {
	ID             uint          `json:"id"`
	Name           string        `json:"name"`
	Email          string        `json:"email"`
	Bio            string        `json:"bio"`
	ProfilePicture string        `json:"profilePic"`
	FollowersCount int           `json:"followersCount"`
	FollowingCount int           `json:"followingCount"`
	Followers      []UserSummary `json:"followers"`
	Following      []UserSummary `json:"following"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

type UpdateProfileRequest struct {
	Name           string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Bio            string `json:"bio,omitempty" validate:"omitempty,max=300"`
	ProfilePicture string `json:"profilePic,omitempty" validate:"omitempty,url"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
