package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 8

type Registration struct {
	Username  string
	Email     string
	Password  string
	Password2 string
}

// AuthService registers users and manages their token-based sessions.
type AuthService struct {
	log    *slog.Logger
	db     DB
	tokens Tokens
}

func NewAuthService(log *slog.Logger, db DB, tokens Tokens) *AuthService {
	return &AuthService{log: log, db: db, tokens: tokens}
}

func (a *AuthService) Register(ctx context.Context, in Registration) (User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	switch {
	case username == "":
		return User{}, invalid(ErrUserInvalidArgs, "username is required")
	case !strings.Contains(email, "@"):
		return User{}, invalid(ErrUserInvalidArgs, "email is invalid")
	case len(in.Password) < minPasswordLen:
		return User{}, invalid(ErrUserInvalidArgs, "password must be at least 8 characters")
	case in.Password != in.Password2:
		return User{}, invalid(ErrUserInvalidArgs, "passwords do not match")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := a.db.CreateUser(ctx, username, email, string(hash))
	if err != nil {
		return User{}, err
	}
	a.log.Info("user registered", "user_id", u.ID, "username", u.Username)
	return u, nil
}

// Login checks the credentials and issues a fresh access/refresh pair.
func (a *AuthService) Login(ctx context.Context, username, password string) (TokenPair, error) {
	u, err := a.db.GetUserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, ErrUserNotFound) {
		return TokenPair{}, ErrUnauthorized
	}
	if err != nil {
		return TokenPair{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return TokenPair{}, ErrUnauthorized
	}

	return a.tokens.Issue(u)
}

// Refresh exchanges a valid, unrevoked refresh token for a new access token.
func (a *AuthService) Refresh(ctx context.Context, refresh string) (string, error) {
	claims, err := a.liveRefreshClaims(ctx, refresh)
	if err != nil {
		return "", err
	}

	u, err := a.db.GetUser(ctx, claims.UserID)
	if errors.Is(err, ErrUserNotFound) {
		return "", ErrInvalidToken
	}
	if err != nil {
		return "", err
	}
	return a.tokens.IssueAccess(u.ID, u.Username)
}

// Logout revokes the caller's refresh token until it would have expired anyway.
func (a *AuthService) Logout(ctx context.Context, userID int64, refresh string) error {
	claims, err := a.liveRefreshClaims(ctx, refresh)
	if err != nil {
		return err
	}
	if claims.UserID != userID {
		return ErrInvalidToken
	}

	if err := a.db.RevokeToken(ctx, claims.ID, claims.ExpiresAt); err != nil {
		return err
	}
	a.log.Info("refresh token revoked", "user_id", userID, "jti", claims.ID)
	return nil
}

// Authenticate resolves the user behind an access token.
func (a *AuthService) Authenticate(ctx context.Context, access string) (User, error) {
	claims, err := a.tokens.ParseAccess(access)
	if err != nil {
		return User{}, ErrInvalidToken
	}

	u, err := a.db.GetUser(ctx, claims.UserID)
	if errors.Is(err, ErrUserNotFound) {
		return User{}, ErrInvalidToken
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

// PurgeExpiredTokens forgets revoked tokens that have expired on their own.
func (a *AuthService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	n, err := a.db.PurgeRevokedTokens(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		a.log.Info("expired revoked tokens purged", "count", n)
	}
	return n, nil
}

func (a *AuthService) liveRefreshClaims(ctx context.Context, refresh string) (Claims, error) {
	claims, err := a.tokens.ParseRefresh(strings.TrimSpace(refresh))
	if err != nil {
		return Claims{}, ErrInvalidToken
	}

	revoked, err := a.db.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		return Claims{}, err
	}
	if revoked {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}
