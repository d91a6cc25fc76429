package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sosmed/internal/apperror"
	"sosmed/internal/config"
	"sosmed/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims is the payload of both access and refresh tokens.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Type     string `json:"type"`
	jwt.StandardClaims
}

// TokenPair is what a successful registration or login hands back.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenEngine issues and verifies the session tokens.
type TokenEngine struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	cookie        config.CookiePolicy
	revoked       repositories.RevocationStore
	now           func() time.Time
}

// NewTokenEngine creates a TokenEngine from the resolved configuration.
func NewTokenEngine(cfg *config.Config, revoked repositories.RevocationStore) *TokenEngine {
	return &TokenEngine{
		accessSecret:  []byte(cfg.AccessTokenSecret),
		refreshSecret: []byte(cfg.RefreshTokenSecret),
		accessTTL:     cfg.AccessTokenTTL,
		refreshTTL:    cfg.RefreshTokenTTL,
		cookie:        cfg.Cookie,
		revoked:       revoked,
		now:           time.Now,
	}
}

// CookiePolicy returns the attributes the refresh cookie must be set with.
func (e *TokenEngine) CookiePolicy() config.CookiePolicy {
	return e.cookie
}

// Issue signs a fresh access and refresh token for the user.
func (e *TokenEngine) Issue(userID, username string) (TokenPair, error) {
	access, err := e.IssueAccess(userID, username)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := e.sign(userID, username, TokenTypeRefresh, e.refreshTTL, e.refreshSecret)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// IssueAccess signs an access token only.
func (e *TokenEngine) IssueAccess(userID, username string) (string, error) {
	return e.sign(userID, username, TokenTypeAccess, e.accessTTL, e.accessSecret)
}

func (e *TokenEngine) sign(userID, username, tokenType string, ttl time.Duration, secret []byte) (string, error) {
	now := e.now()
	claims := Claims{
		UserID:   userID,
		Username: username,
		Type:     tokenType,
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.New().String(),
			Subject:   userID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

// ValidateAccessToken verifies an access token and returns its claims.
func (e *TokenEngine) ValidateAccessToken(tokenString string) (*Claims, error) {
	return e.parse(tokenString, TokenTypeAccess, e.accessSecret)
}

// VerifyRefreshToken verifies a refresh token: signature, type, expiry and
// revocation.
func (e *TokenEngine) VerifyRefreshToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := e.parse(tokenString, TokenTypeRefresh, e.refreshSecret)
	if err != nil {
		return nil, err
	}
	revoked, err := e.revoked.IsRevoked(ctx, claims.Id)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindDependencyUnavailable, err, "Unable to verify session")
	}
	if revoked {
		return nil, apperror.Unauthorized("Refresh token has been revoked")
	}
	return claims, nil
}

// Revoke invalidates a verified refresh token until its natural expiry.
func (e *TokenEngine) Revoke(ctx context.Context, claims *Claims) error {
	ttl := time.Unix(claims.ExpiresAt, 0).Sub(e.now())
	if ttl <= 0 {
		return nil
	}
	if err := e.revoked.Revoke(ctx, claims.Id, ttl); err != nil {
		return apperror.Wrap(apperror.KindDependencyUnavailable, err, "Unable to end session")
	}
	return nil
}

func (e *TokenEngine) parse(tokenString, tokenType string, secret []byte) (*Claims, error) {
	if tokenString == "" {
		return nil, apperror.Unauthorized("Unauthorized: %s token is missing", tokenType)
	}

	parser := &jwt.Parser{}
	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, apperror.Wrap(apperror.KindAuthorizationFailed, err, "Unauthorized: %s token has expired", tokenType)
		}
		return nil, apperror.Wrap(apperror.KindAuthorizationFailed, err, "Unauthorized: invalid %s token", tokenType)
	}
	if !token.Valid || claims.Type != tokenType || claims.UserID == "" {
		return nil, apperror.Unauthorized("Unauthorized: invalid %s token", tokenType)
	}
	return claims, nil
}
