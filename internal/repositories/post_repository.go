package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/anonto42/collexa/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepository defines the interface for post data operations.
// Every list is newest first, ties broken by id descending.
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	ListPosts(ctx context.Context) ([]models.Post, error)
	ListPostsByAuthor(ctx context.Context, authorID uint) ([]models.Post, error)
	ListPostsByAuthors(ctx context.Context, authorIDs []uint) ([]models.Post, error)
	DeletePost(ctx context.Context, id string) error
	// ToggleLike flips userID's membership in the post's likes in one write
	ToggleLike(ctx context.Context, postID string, userID uint) (liked bool, likesCount int, err error)
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// EnsureIndexes creates the indexes the feed queries sort and filter on
func (r *MongoPostRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
		{Keys: bson.D{{Key: "author", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	return err
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	post.ID = primitive.NewObjectID()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Likes == nil {
		post.Likes = models.IDSet{}
	}
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrPostNotFound
	}

	var post models.Post
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *MongoPostRepository) ListPosts(ctx context.Context) ([]models.Post, error) {
	return r.find(ctx, bson.D{})
}

func (r *MongoPostRepository) ListPostsByAuthor(ctx context.Context, authorID uint) ([]models.Post, error) {
	return r.find(ctx, bson.M{"author": authorID})
}

func (r *MongoPostRepository) ListPostsByAuthors(ctx context.Context, authorIDs []uint) ([]models.Post, error) {
	if len(authorIDs) == 0 {
		return []models.Post{}, nil
	}
	return r.find(ctx, bson.M{"author": bson.M{"$in": authorIDs}})
}

func (r *MongoPostRepository) find(ctx context.Context, filter any) ([]models.Post, error) {
	posts := []models.Post{}
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// DeletePost deletes a post by ID from MongoDB
func (r *MongoPostRepository) DeletePost(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrPostNotFound
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

// ToggleLike uses a pipeline update so membership is tested and flipped on the
// stored array in the same single-document write.
func (r *MongoPostRepository) ToggleLike(ctx context.Context, postID string, userID uint) (bool, int, error) {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return false, 0, ErrPostNotFound
	}

	likes := bson.D{{Key: "$ifNull", Value: bson.A{"$likes", bson.A{}}}}
	toggled := bson.D{{Key: "$cond", Value: bson.A{
		bson.D{{Key: "$in", Value: bson.A{userID, likes}}},
		bson.D{{Key: "$filter", Value: bson.D{
			{Key: "input", Value: likes},
			{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$this", userID}}}},
		}}},
		bson.D{{Key: "$concatArrays", Value: bson.A{likes, bson.A{userID}}}},
	}}}
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "likes", Value: toggled},
			{Key: "updated_at", Value: time.Now().UTC()},
		}}},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var post models.Post
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, update, opts).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, 0, ErrPostNotFound
		}
		return false, 0, err
	}
	return post.Likes.Contains(userID), post.LikesCount(), nil
}
