package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linkboard/linkboard-api/internal/core/domain"
)

const articlesCollection = "articles"

// ArticleRepository is the Mongo-backed article store and the ownership
// source of truth for authorization checks.
type ArticleRepository struct {
	coll *mongo.Collection
}

func NewArticleRepository(db *mongo.Database) *ArticleRepository {
	return &ArticleRepository{coll: db.Collection(articlesCollection)}
}

type mongoArticle struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	URL           string             `bson:"url"`
	OwnerID       string             `bson:"owner_id"`
	OwnerUsername string             `bson:"owner_username"`
	CreatedAt     time.Time          `bson:"created_at"`
}

func (r *ArticleRepository) Create(ctx context.Context, article *domain.Article) (*domain.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoArticle{
		URL:           article.URL,
		OwnerID:       article.OwnerID,
		OwnerUsername: article.OwnerUsername,
		CreatedAt:     article.CreatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert article: %w", err)
	}

	created := *article
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *ArticleRepository) FindByID(ctx context.Context, id string) (*domain.Article, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// Not a valid object id, so it cannot name an existing article.
		return nil, domain.ErrArticleNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ma mongoArticle
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&ma); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrArticleNotFound
		}
		return nil, fmt.Errorf("find article: %w", err)
	}
	return toDomainArticle(&ma), nil
}

// List returns all articles sorted newest first.
func (r *ArticleRepository) List(ctx context.Context) ([]*domain.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer cur.Close(ctx)

	articles := make([]*domain.Article, 0)
	for cur.Next(ctx) {
		var ma mongoArticle
		if err := cur.Decode(&ma); err != nil {
			return nil, fmt.Errorf("decode article: %w", err)
		}
		articles = append(articles, toDomainArticle(&ma))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return articles, nil
}

func (r *ArticleRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrArticleNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrArticleNotFound
	}
	return nil
}

// EnsureIndexes creates the owner and recency indexes used by authorization
// lookups and the listing sort.
func (r *ArticleRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

func toDomainArticle(ma *mongoArticle) *domain.Article {
	return &domain.Article{
		ID:            ma.ID.Hex(),
		URL:           ma.URL,
		OwnerID:       ma.OwnerID,
		OwnerUsername: ma.OwnerUsername,
		CreatedAt:     ma.CreatedAt,
	}
}
