// Package services contains the server-side business logic behind the gRPC
// handlers: operator accounts, collection records and document links.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/civicops/drconsole/internal/common"
	"github.com/civicops/drconsole/internal/dbx"
	"github.com/civicops/drconsole/internal/logging"
	"github.com/civicops/drconsole/internal/server/auth"
	"github.com/civicops/drconsole/internal/server/config"
	"github.com/civicops/drconsole/internal/server/models"
	"github.com/civicops/drconsole/internal/server/repositories/repomanager"
	"github.com/civicops/drconsole/internal/timex"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password Register accepts.
const MinPasswordLength = 8

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserService registers operators, checks their passwords and issues
// tokens. Refresh tokens are single use: RefreshToken deletes the presented
// token and stores its replacement in one transaction.
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	clock                        timex.Clock
	logger                       logging.Logger
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	bcryptCost                   int
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *UserService {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &UserService{
		db:                           db,
		repomanager:                  m,
		clock:                        timex.SystemClock{},
		logger:                       logger.With("module", "user_service"),
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		bcryptCost:                   bcrypt.DefaultCost,
	}
}

// Register creates an operator account.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	fields := map[string]string{}
	if username == "" {
		fields["username"] = "is required"
	}
	if len(password) < MinPasswordLength {
		fields["password"] = fmt.Sprintf("must be at least %d characters", MinPasswordLength)
	}
	if len(fields) > 0 {
		return nil, newFieldError(fields)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, &models.User{UserName: username, PasswordHash: hash})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	s.logger.Info(ctx, "user registered", "user_id", u.ID)
	return u, nil
}

// Login checks the password and, on success, returns a new TokenPair. An
// unknown username and a wrong password both yield common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetUserByLogin(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, common.ErrorUnauthorized
	}

	s.purgeExpired(ctx)
	return s.generateTokenPair(ctx, user.ID, user.UserName, s.db)
}

// RefreshToken exchanges a stored refresh token for a new pair. Expired
// tokens yield common.ErrRefreshTokenExpired, unknown ones
// common.ErrInvalidToken.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(s.clock.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, token.UserID, token.Username, tx)
		return genErr
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

// purgeExpired drops stale refresh tokens. Failures are logged only.
func (s *UserService) purgeExpired(ctx context.Context) {
	n, err := s.repomanager.RefreshTokens(s.db).DeleteExpired(ctx, s.clock.Now())
	if err != nil {
		s.logger.Warn(ctx, "purging expired refresh tokens failed", "error", err)
		return
	}
	if n > 0 {
		s.logger.Debug(ctx, "purged expired refresh tokens", "count", n)
	}
}

func (s *UserService) generateTokenPair(ctx context.Context, userID, username string, tx dbx.DBTX) (*TokenPair, error) {
	access, err := auth.GenerateToken(userID, username, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}
	expires := s.clock.Now().Add(s.refreshTokenValidityDuration)
	if err := s.repomanager.RefreshTokens(tx).Create(ctx, userID, refresh, expires); err != nil {
		s.logger.Error(ctx, "storing refresh token failed", "error", err)
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
