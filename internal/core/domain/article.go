package domain

import (
	"errors"
	"time"
)

var ErrArticleNotFound = errors.New("article not found")
var ErrForbidden = errors.New("access forbidden")
var ErrInvalidURL = errors.New("invalid article url")

// Article is a shared web link. OwnerID is immutable after creation;
// OwnerUsername is denormalized so listings and deletions never need a user
// lookup (usernames are immutable, so it cannot go stale).
type Article struct {
	ID            string    `json:"id" bson:"_id,omitempty"`
	URL           string    `json:"url" bson:"url"`
	OwnerID       string    `json:"owner_id" bson:"owner_id"`
	OwnerUsername string    `json:"owner_username" bson:"owner_username"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}
