package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/linkboard/linkboard-api/internal/core/domain"
	"github.com/linkboard/linkboard-api/internal/core/ports"
)

const (
	defaultMinUsernameLen = 3
	defaultMinPasswordLen = 4
)

// dummyHash is a well-formed bcrypt digest compared against when the username
// does not exist, so lookup misses cost the same as password mismatches.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Policy bundles the tunable credential rules applied at registration and the
// behaviour of the register flow. Zero values fall back to sane defaults.
type Policy struct {
	BcryptCost     int
	MinUsernameLen int
	MinPasswordLen int
	// IssueOnRegister makes Register return a ready-to-use assertion so the
	// caller is logged in immediately (session deployments). Token
	// deployments leave it false and require an explicit login.
	IssueOnRegister bool
}

// AuthService implements registration, login, and logout.
type AuthService struct {
	repo    ports.UserRepository
	issuer  ports.IdentityIssuer
	limiter ports.LoginRateLimiter
	policy  Policy
	log     zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, issuer ports.IdentityIssuer, limiter ports.LoginRateLimiter, policy Policy, log zerolog.Logger) *AuthService {
	if policy.BcryptCost <= 0 {
		policy.BcryptCost = bcrypt.DefaultCost
	}
	if policy.MinUsernameLen <= 0 {
		policy.MinUsernameLen = defaultMinUsernameLen
	}
	if policy.MinPasswordLen <= 0 {
		policy.MinPasswordLen = defaultMinPasswordLen
	}
	return &AuthService{repo: repo, issuer: issuer, limiter: limiter, policy: policy, log: log}
}

// Register creates a new account with the default user role. The returned
// assertion is non-empty only when the policy issues one at registration.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, string, error) {
	if len(username) < s.policy.MinUsernameLen || len(password) < s.policy.MinPasswordLen {
		return nil, "", domain.ErrWeakCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.policy.BcryptCost)
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, "", err
	}

	s.log.Info().Str("username", created.Username).Str("user_id", created.ID).Msg("user registered")

	var assertion string
	if s.policy.IssueOnRegister {
		assertion, err = s.issuer.Issue(ctx, created)
		if err != nil {
			return nil, "", err
		}
	}
	return created, assertion, nil
}

// Login verifies the credentials and returns a fresh identity assertion.
// Unknown usernames and wrong passwords both yield ErrInvalidCredentials; a
// tripped rate limiter yields the distinct ErrRateLimited before any
// credential work happens.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	allowed, err := s.limiter.Allow(ctx, username)
	if err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("rate limiter check failed, allowing attempt")
	} else if !allowed {
		return "", nil, domain.ErrRateLimited
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Burn a compare anyway to keep the miss indistinguishable.
			_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	assertion, err := s.issuer.Issue(ctx, user)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("username", user.Username).Str("role", user.Role).Msg("login succeeded")
	return assertion, user, nil
}

// Logout revokes the assertion. For stateless tokens revocation is a no-op
// and logout amounts to the client discarding its token.
func (s *AuthService) Logout(ctx context.Context, assertion string) error {
	return s.issuer.Revoke(ctx, assertion)
}

// SeedAdmin creates the bootstrap admin account unless it already exists.
// Called once at startup.
func SeedAdmin(ctx context.Context, repo ports.UserRepository, password string, cost int, log zerolog.Logger) error {
	if _, err := repo.FindByUsername(ctx, "admin"); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return err
	}

	_, err = repo.Create(ctx, &domain.User{
		Username:     "admin",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	})
	if errors.Is(err, domain.ErrUserExists) {
		// Lost a race against another instance booting; fine.
		return nil
	}
	if err != nil {
		return err
	}
	log.Info().Msg("admin account created")
	return nil
}
