// Package identity resolves the authenticated user for a request. Session
// tokens are minted by the hosted identity provider; this package only
// verifies them and exposes the claims the application cares about.
package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/qm1997qm/home-away-clone/pkg/errors"
	"github.com/qm1997qm/home-away-clone/pkg/middleware"
)

// TokenClaims represents the session token claims issued by the identity
// provider. HasProfile is public metadata flipped to true once the user
// completes profile onboarding.
type TokenClaims struct {
	Email      string `json:"email"`
	ImageURL   string `json:"image_url"`
	HasProfile bool   `json:"has_profile"`
	jwt.RegisteredClaims
}

// AuthUser is the resolved authenticated user handed to services.
type AuthUser struct {
	ID         string
	Email      string
	ImageURL   string
	HasProfile bool
}

// JWTManager verifies session tokens.
type JWTManager struct {
	secret []byte
	issuer string
}

// NewJWTManager creates a new JWT manager with the given shared secret.
func NewJWTManager(secret, issuer string) *JWTManager {
	return &JWTManager{secret: []byte(secret), issuer: issuer}
}

// ValidateToken parses and validates a session token, returning the claims.
func (m *JWTManager) ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer))
	if err != nil {
		return nil, fmt.Errorf("parse session token: %w", err)
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid session token claims")
	}

	return claims, nil
}

// GenerateToken signs a session token. Production tokens come from the
// identity provider; this exists for local development and tests.
func (m *JWTManager) GenerateToken(userID, email, imageURL string, hasProfile bool, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := &TokenClaims{
		Email:      email,
		ImageURL:   imageURL,
		HasProfile: hasProfile,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    m.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	return signedToken, nil
}

// Validator adapts the manager to the auth middleware's TokenValidator.
func (m *JWTManager) Validator() middleware.TokenValidator {
	return func(token string) (*middleware.Claims, error) {
		claims, err := m.ValidateToken(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			UserID:     claims.Subject,
			Email:      claims.Email,
			ImageURL:   claims.ImageURL,
			HasProfile: claims.HasProfile,
		}, nil
	}
}

// ResolveUser extracts the authenticated user from the request context.
// It returns ErrUnauthorized when the request carried no valid session, and
// ErrProfileRequired when the user is signed in but has not completed
// onboarding. The caller decides what either outcome means for the route;
// resolution itself never writes a response.
func ResolveUser(ctx context.Context) (*AuthUser, error) {
	claims := middleware.ClaimsFromContext(ctx)
	if claims == nil {
		return nil, apperrors.Unauthorized("you must be logged in to access this route")
	}
	if !claims.HasProfile {
		return nil, apperrors.ProfileRequired()
	}
	return &AuthUser{
		ID:         claims.UserID,
		Email:      claims.Email,
		ImageURL:   claims.ImageURL,
		HasProfile: claims.HasProfile,
	}, nil
}

// ResolveIdentity is like ResolveUser but does not require a completed
// profile. Profile creation itself uses this.
func ResolveIdentity(ctx context.Context) (*AuthUser, error) {
	claims := middleware.ClaimsFromContext(ctx)
	if claims == nil {
		return nil, apperrors.Unauthorized("you must be logged in to access this route")
	}
	return &AuthUser{
		ID:         claims.UserID,
		Email:      claims.Email,
		ImageURL:   claims.ImageURL,
		HasProfile: claims.HasProfile,
	}, nil
}
