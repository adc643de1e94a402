// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login, bearer-token validation and
// invalidation, and profile reads/edits.
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ledovskis/taskkeeper/internal/common"
	"github.com/ledovskis/taskkeeper/internal/dbx"
	"github.com/ledovskis/taskkeeper/internal/server/auth"
	"github.com/ledovskis/taskkeeper/internal/server/config"
	"github.com/ledovskis/taskkeeper/internal/server/models"
	"github.com/ledovskis/taskkeeper/internal/server/repositories/repomanager"
)

// UserService provides authentication-related operations:
//   - Register: create a user and issue its first token
//   - Login: verify credentials and mint a fresh token
//   - CheckToken: resolve a bearer token to its user
//   - Logout: invalidate the current token early
//   - Profile / EditProfile: read and update the public profile
//
// Token freshness is decided against the stored token and expiry on the user
// record, never against the token's own embedded expiry; that is what makes
// early invalidation possible without a revocation list.
type UserService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	jwtSecret     []byte
	tokenValidity time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:            db,
		repomanager:   m,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
	}
}

// Register creates a new user and returns its first bearer token. The email
// must not be registered yet; the duplicate check and the insert commit in
// one transaction so no partial user record can persist. The token is issued
// against the public profile only.
func (s *UserService) Register(ctx context.Context, name, email, password string) (string, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", common.ErrorInternal
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}

	token, err := auth.GenerateToken(user.ID, user.Name, user.Email, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return "", common.ErrorInternal
	}
	user.Token = token
	user.TokenExpireAt = time.Now().Add(s.tokenValidity)

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		if _, err := repo.FindByEmail(ctx, email); err == nil {
			return common.ErrDuplicateEmail
		} else if !errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return repo.Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return "", common.ErrDuplicateEmail
		}
		return "", common.ErrorInternal
	}

	return token, nil
}

// Login verifies the email/password pair and, on success, mints a fresh token
// and persists it with a refreshed expiry, superseding any previously issued
// token. Unknown email and wrong password produce the same error.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrInvalidCredentials
		}
		return "", common.ErrorInternal
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return "", common.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Name, user.Email, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return "", common.ErrorInternal
	}

	n, err := repo.Update(ctx, user.ID, map[string]any{
		"token":           token,
		"token_expire_at": time.Now().Add(s.tokenValidity),
	})
	if err != nil || n == 0 {
		return "", common.ErrorInternal
	}

	return token, nil
}

// CheckToken resolves a bearer token to its user. Both checks must pass: the
// signature verifies and the token equals the user's stored token with a
// stored expiry in the future.
func (s *UserService) CheckToken(ctx context.Context, token string) (*models.User, error) {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, common.ErrorInternal
	}

	if user.ID != claims.UserID {
		return nil, common.ErrInvalidToken
	}
	if !user.TokenExpireAt.After(time.Now()) {
		return nil, common.ErrInvalidToken
	}

	return user, nil
}

// Logout invalidates the token by moving the stored expiry strictly into the
// past. The token's signature stays technically valid; CheckToken fails it
// from now on because freshness comes from the store.
func (s *UserService) Logout(ctx context.Context, token string) error {
	user, err := s.CheckToken(ctx, token)
	if err != nil {
		return err
	}

	repo := s.repomanager.Users(s.db)
	n, err := repo.Update(ctx, user.ID, map[string]any{
		"token_expire_at": time.Now().Add(-10 * time.Second),
	})
	if err != nil || n == 0 {
		return common.ErrorInternal
	}
	return nil
}

// Profile returns the user owning the token. Callers expose only the public
// fields (id, name, email).
func (s *UserService) Profile(ctx context.Context, token string) (*models.User, error) {
	return s.CheckToken(ctx, token)
}

// EditProfile updates the provided profile fields. At least one of name/email
// is required. The current token stays valid; no reissue happens.
func (s *UserService) EditProfile(ctx context.Context, token string, name, email *string) (*models.User, error) {
	if name == nil && email == nil {
		return nil, common.ErrNoFieldsProvided
	}

	user, err := s.CheckToken(ctx, token)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if name != nil {
		fields["name"] = *name
		user.Name = *name
	}
	if email != nil {
		fields["email"] = *email
		user.Email = *email
	}

	repo := s.repomanager.Users(s.db)
	n, err := repo.Update(ctx, user.ID, fields)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return nil, common.ErrDuplicateEmail
		}
		return nil, common.ErrorInternal
	}
	if n == 0 {
		return nil, common.ErrorInternal
	}

	return user, nil
}
