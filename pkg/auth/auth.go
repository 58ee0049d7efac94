package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"wineraise.dev/WineRaise/configs"
	"wineraise.dev/WineRaise/pkg/model"
)

const (
	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 5

	accessTokenType  = "access"
	refreshTokenType = "refresh"
)

var (
	ErrInvalidCredentials = errors.New("unable to log in with provided credentials")
	ErrWeakPassword       = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrInvalidToken       = errors.New("invalid token")
	ErrMissingToken       = errors.New("authorization header not found")
)

type UserKey struct{}

// Claims carries the authenticated user's email plus the token class,
// so refresh tokens can never pass as access tokens.
type Claims struct {
	Email     string `json:"email"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair is the access/refresh pair handed out on login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type userRepository interface {
	GetUserFromEmail(ctx context.Context, email string) (*model.User, error)
}

type Manager struct {
	conf   *configs.Config
	repo   userRepository
	logger *zap.Logger
}

func NewAuthManager(conf *configs.Config, repo userRepository, logger *zap.Logger) *Manager {
	return &Manager{conf: conf, repo: repo, logger: logger}
}

func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

// Authenticate resolves email+password to an active user, or
// ErrInvalidCredentials. Inactive users fail the same way as unknown
// ones.
func (a *Manager) Authenticate(ctx context.Context, email string, password string) (*model.User, error) {
	user, err := a.repo.GetUserFromEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.Active {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (a *Manager) IssueTokens(user *model.User) (*TokenPair, error) {
	access, err := a.signToken(user, accessTokenType, a.conf.Auth.AccessLifetime)
	if err != nil {
		return nil, err
	}

	refresh, err := a.signToken(user, refreshTokenType, a.conf.Auth.RefreshLifetime)
	if err != nil {
		return nil, err
	}

	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a valid refresh token for a fresh access token.
func (a *Manager) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := a.parseToken(refreshToken)
	if err != nil {
		return "", err
	}

	if claims.TokenType != refreshTokenType {
		return "", ErrInvalidToken
	}

	user, err := a.repo.GetUserFromEmail(ctx, claims.Email)
	if err != nil {
		return "", ErrInvalidToken
	}

	return a.signToken(user, accessTokenType, a.conf.Auth.AccessLifetime)
}

func (a *Manager) signToken(user *model.User, tokenType string, lifetime time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email:     user.Email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   user.UUID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(a.conf.Auth.SecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

func (a *Manager) parseToken(tokenString string) (*Claims, error) {
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		_, ok := token.Method.(*jwt.SigningMethodHMAC)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected signing method %v", ErrInvalidToken, token.Header["alg"])
		}

		return []byte(a.conf.Auth.SecretKey), nil
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, keyFunc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err) //nolint:errorlint // jwt parse detail is informational only
	}

	claims, found := token.Claims.(*Claims)
	if !found || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Middleware authenticates every request with a Bearer access token
// and stores the resolved user in the request context.
func (a *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		accessToken, err := a.extractTokenFromHeader(request.Header)
		if err != nil {
			a.unauthorized(writer, err)

			return
		}

		claims, err := a.parseToken(*accessToken)
		if err != nil {
			a.logger.Error("error parsing token", zap.Error(err))
			a.unauthorized(writer, err)

			return
		}

		if claims.TokenType != accessTokenType {
			a.unauthorized(writer, ErrInvalidToken)

			return
		}

		user, err := a.repo.GetUserFromEmail(request.Context(), claims.Email)
		if err != nil {
			a.logger.Error("error authenticating user", zap.String("email", claims.Email), zap.Error(err))
			a.unauthorized(writer, ErrInvalidToken)

			return
		}

		if !user.Active {
			a.unauthorized(writer, ErrInvalidCredentials)

			return
		}

		ctx := context.WithValue(request.Context(), UserKey{}, user)

		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// CurrentUser returns the user stored by Middleware, if any.
func CurrentUser(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(UserKey{}).(*model.User)

	return user, ok
}

func (a *Manager) extractTokenFromHeader(header http.Header) (*string, error) {
	authorization := header.Get("Authorization")
	if len(authorization) == 0 {
		a.logger.Error("No authorization header found")

		return nil, ErrMissingToken
	}

	prefix := "Bearer "
	if !strings.HasPrefix(authorization, prefix) {
		prefix = "bearer "
	}

	token, found := strings.CutPrefix(authorization, prefix)
	if !found {
		return nil, fmt.Errorf("%w: authorization format must be Bearer {token}", ErrInvalidToken)
	}

	return &token, nil
}

func (a *Manager) unauthorized(writer http.ResponseWriter, err error) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(http.StatusUnauthorized)

	_ = json.NewEncoder(writer).Encode(map[string]string{"detail": err.Error()})
}
