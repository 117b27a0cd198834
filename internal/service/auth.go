package service

import (
	"context"
	"errors"
	"net/mail"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Skotchmaster/web_store/internal/apperr"
	"github.com/Skotchmaster/web_store/internal/hash"
	"github.com/Skotchmaster/web_store/internal/logging"
	"github.com/Skotchmaster/web_store/internal/models"
	"github.com/Skotchmaster/web_store/internal/repo"
	"github.com/Skotchmaster/web_store/internal/tokens"
)

const minPasswordLen = 6

type AuthService struct {
	Users         *repo.Users
	RefreshTokens *repo.RefreshTokens

	JWTSecret     []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type LoginResult struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
	RefreshExp   time.Time
}

func (s *AuthService) accessTTL() time.Duration {
	if s.AccessTTL > 0 {
		return s.AccessTTL
	}
	return time.Hour
}

func (s *AuthService) refreshTTL() time.Duration {
	if s.RefreshTTL > 0 {
		return s.RefreshTTL
	}
	return 7 * 24 * time.Hour
}

func (s *AuthService) Register(ctx context.Context, email, username, password string, role models.Role) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperr.Validation("invalid email")
	}
	if username == "" {
		return nil, apperr.Validation("username is required")
	}
	if len(password) < minPasswordLen {
		return nil, apperr.Validation("password must be at least 6 characters")
	}
	if !role.Valid() {
		return nil, apperr.Validation("invalid role")
	}

	// Fast path only; the unique constraint on insert is the authority,
	// since another request can win the race between check and insert.
	taken, err := s.Users.Taken(ctx, email, username)
	if err != nil {
		l.Error("register failed", "reason", "duplicate check", "error", err)
		return nil, apperr.Storage(err)
	}
	if taken {
		return nil, apperr.Conflict("email or username already exists")
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register failed", "reason", "cannot hash password", "error", err)
		return nil, apperr.Storage(err)
	}

	user := models.User{
		Email:        email,
		Username:     username,
		PasswordHash: pwHash,
		Role:         role,
	}
	if err := s.Users.Create(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, apperr.Conflict("email or username already exists")
		}
		l.Error("register failed", "reason", "insert", "error", err)
		return nil, apperr.Storage(err)
	}

	l.Info("user registered", "user_id", user.ID, "role", user.Role)
	return &user, nil
}

// Login deliberately reports one message for unknown email and for a wrong
// password, so callers cannot enumerate accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if email == "" || password == "" {
		return nil, apperr.Validation("email and password are required")
	}

	user, err := s.Users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperr.Authentication("invalid email or password")
		}
		l.Error("login failed", "reason", "lookup", "error", err)
		return nil, apperr.Storage(err)
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, apperr.Authentication("invalid email or password")
	}

	accessToken, _, err := tokens.SignAccess(user.ID, user.Email, string(user.Role), s.JWTSecret, s.accessTTL())
	if err != nil {
		l.Error("login failed", "reason", "sign access token", "error", err)
		return nil, apperr.Storage(err)
	}
	refreshToken, refreshExp, err := tokens.SignRefresh(user.ID, s.RefreshSecret, s.refreshTTL())
	if err != nil {
		l.Error("login failed", "reason", "sign refresh token", "error", err)
		return nil, apperr.Storage(err)
	}

	if err := s.RefreshTokens.Upsert(ctx, user.ID, refreshToken, refreshExp); err != nil {
		l.Error("login failed", "reason", "persist refresh token", "error", err)
		return nil, apperr.Storage(err)
	}

	l.Info("login successful", "user_id", user.ID)
	return &LoginResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		RefreshExp:   refreshExp,
	}, nil
}

// Refresh checks the store before the signature: a token deleted by logout
// or overwritten by a newer login is rejected even while cryptographically
// valid. The refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, rawToken string) (string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	if _, err := s.RefreshTokens.ByToken(ctx, rawToken); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", apperr.Forbidden("refresh token not found")
		}
		l.Error("refresh failed", "reason", "lookup", "error", err)
		return "", apperr.Storage(err)
	}

	claims, err := tokens.ParseRefresh(rawToken, s.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", apperr.Forbidden("refresh token expired")
		}
		return "", apperr.Forbidden("invalid refresh token")
	}

	userID, err := claims.UserID()
	if err != nil {
		return "", apperr.Forbidden("invalid refresh token")
	}

	user, err := s.Users.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", apperr.NotFound("user not found")
		}
		l.Error("refresh failed", "reason", "user lookup", "error", err)
		return "", apperr.Storage(err)
	}

	accessToken, _, err := tokens.SignAccess(user.ID, user.Email, string(user.Role), s.JWTSecret, s.accessTTL())
	if err != nil {
		l.Error("refresh failed", "reason", "sign access token", "error", err)
		return "", apperr.Storage(err)
	}
	return accessToken, nil
}

func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	if err := s.RefreshTokens.DeleteByToken(ctx, rawToken); err != nil {
		logging.FromContext(ctx).Error("logout failed", "reason", "delete refresh token", "error", err)
		return apperr.Storage(err)
	}
	return nil
}
