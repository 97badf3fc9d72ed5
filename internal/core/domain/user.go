package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrWeakCredentials = errors.New("username or password does not meet minimum requirements")
var ErrUserExists = errors.New("username already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrInvalidAssertion = errors.New("invalid or expired credentials")
var ErrRateLimited = errors.New("too many login attempts")

// User models a registered account. PasswordHash never leaves the service
// boundary (json:"-").
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Principal is the identity attached to a request after the resolver
// middleware validated its assertion. It is derived per request and never
// persisted.
type Principal struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// CanDelete reports whether the principal may delete a resource owned by
// ownerID: admins may delete anything, users only their own resources.
func (p Principal) CanDelete(ownerID string) bool {
	return p.Role == RoleAdmin || p.ID == ownerID
}
