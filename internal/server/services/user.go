// Package services contains server-side business logic. This file implements
// UserService, which handles registration and login and mints access tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/stockkeeper/internal/common"
	"github.com/dmitrijs2005/stockkeeper/internal/dbx"
	"github.com/dmitrijs2005/stockkeeper/internal/server/auth"
	"github.com/dmitrijs2005/stockkeeper/internal/server/config"
	"github.com/dmitrijs2005/stockkeeper/internal/server/models"
	"github.com/dmitrijs2005/stockkeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// TokenIssuer mints signed access tokens.
type TokenIssuer interface {
	Issue(subject string, now time.Time, ttl time.Duration) (string, error)
}

// UserService provides authentication-related operations:
//   - Register: validate and store new credentials
//   - Login: verify credentials and mint an access token
//
// It holds no per-request state and is safe for concurrent use.
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	tokens                      TokenIssuer
	hasher                      auth.PasswordHasher
	accessTokenValidityDuration time.Duration
	storeTimeout                time.Duration
	now                         func() time.Time

	decoyOnce sync.Once
	decoy     string
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, tokens TokenIssuer, hasher auth.PasswordHasher, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		tokens:                      tokens,
		hasher:                      hasher,
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		storeTimeout:                cfg.StoreTimeout,
		now:                         time.Now,
	}
}

// Login verifies username and password and returns a signed access token.
//
// Every failure, including store errors, is reported as
// common.ErrInvalidCredentials; the underlying cause stays wrapped so it
// can be logged but never changes what the client is told.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", fmt.Errorf("%w: %w", common.ErrInvalidCredentials, common.ErrUsernameRequired)
	}

	user, err := s.findUser(ctx, username)
	if err != nil {
		// keep timing close to the known-user path
		s.hasher.Verify(password, s.decoyHash())
		return "", fmt.Errorf("%w: %w", common.ErrInvalidCredentials, err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", fmt.Errorf("%w: %w", common.ErrInvalidCredentials, common.ErrPasswordMismatch)
	}

	token, err := s.tokens.Issue(user.UserName, s.now(), s.accessTokenValidityDuration)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	return token, nil
}

// Register validates and stores a new credential record.
//
// Errors: common.ErrUsernameRequired, common.ErrPasswordRequired,
// common.ErrPasswordTooLong (all wrap common.ErrValidation),
// common.ErrDuplicateUsername, common.ErrStorage.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, common.ErrUsernameRequired
	}
	if strings.TrimSpace(password) == "" {
		return nil, common.ErrPasswordRequired
	}
	if len(password) > auth.MaxPasswordBytes {
		return nil, common.ErrPasswordTooLong
	}

	exists, err := s.usernameTaken(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStorage, err)
	}
	if exists {
		return nil, common.ErrDuplicateUsername
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	user, err := s.createUser(ctx, &models.User{UserName: username, PasswordHash: hash})
	if err != nil {
		// a concurrent registration won the unique index
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("%w: %w", common.ErrStorage, err)
	}
	return user, nil
}

// --- helpers below ---

func (s *UserService) findUser(ctx context.Context, username string) (*models.User, error) {
	ctx, cancel := dbx.Bounded(ctx, s.storeTimeout)
	defer cancel()
	return s.repomanager.Users(s.db).FindByUsername(ctx, username)
}

func (s *UserService) usernameTaken(ctx context.Context, username string) (bool, error) {
	ctx, cancel := dbx.Bounded(ctx, s.storeTimeout)
	defer cancel()
	return s.repomanager.Users(s.db).ExistsByUsername(ctx, username)
}

func (s *UserService) createUser(ctx context.Context, u *models.User) (*models.User, error) {
	ctx, cancel := dbx.Bounded(ctx, s.storeTimeout)
	defer cancel()
	return s.repomanager.Users(s.db).Create(ctx, u)
}

func (s *UserService) decoyHash() string {
	s.decoyOnce.Do(func() {
		s.decoy, _ = s.hasher.Hash(uuid.NewString())
	})
	return s.decoy
}
