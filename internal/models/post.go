package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is stored in MongoDB. Likes holds the IDs of users who liked it.
type Post struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Author    uint               `json:"author" bson:"author"`
	Content   string             `json:"content" bson:"content"`
	Image     string             `json:"image" bson:"image"`
	Likes     IDSet              `json:"likes" bson:"likes"`
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updated_at"`
}

// LikesCount is derived from the set, never stored
func (p *Post) LikesCount() int { return p.Likes.Len() }

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
	Image   string `json:"image,omitempty" validate:"omitempty,url"`
}

// Liker is the minimal user shape listed under a post's likes
type Liker struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// PostView is a post joined with its author and likers
type PostView struct {
	ID         string      `json:"id"`
	Author     UserSummary `json:"author"`
	Content    string      `json:"content"`
	Image      string      `json:"image"`
	Likes      []Liker     `json:"likes"`
	LikesCount int         `json:"likesCount"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}
