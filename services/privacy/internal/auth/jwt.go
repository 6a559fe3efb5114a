package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/doltnamn-se/doltnamn/pkg/errors"
	"github.com/doltnamn-se/doltnamn/pkg/middleware"
	"github.com/doltnamn-se/doltnamn/services/privacy/internal/domain"
)

// Claims are the access token claims issued by the identity service.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Validator checks access tokens signed with a shared HS256 secret.
type Validator struct {
	secret []byte
	issuer string
	leeway time.Duration
}

// NewValidator creates a validator. An empty issuer accepts any issuer.
func NewValidator(secret, issuer string, leeway time.Duration) *Validator {
	return &Validator{
		secret: []byte(secret),
		issuer: issuer,
		leeway: leeway,
	}
}

// Validate parses tokenString and returns its claims. Tokens without an
// expiry, with an unknown role or without a UUID user are rejected.
func (v *Validator) Validate(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid access token claims")
	}
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	if claims.UserID == "" {
		return nil, errors.New("access token has no user")
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("access token user %q is not a customer id: %w", claims.UserID, err)
	}
	claims.UserID = id.String()
	if claims.Role == "" {
		claims.Role = domain.RoleCustomer
	}
	if !domain.IsValidRole(claims.Role) {
		return nil, fmt.Errorf("access token role %q is not allowed", claims.Role)
	}

	return claims, nil
}

// TokenValidator adapts the validator to the auth middleware.
func (v *Validator) TokenValidator() middleware.TokenValidator {
	return func(token string) (*middleware.Claims, error) {
		claims, err := v.Validate(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{UserID: claims.UserID, Role: claims.Role}, nil
	}
}

// ContextSession reads the customer placed in the request context by the
// auth middleware.
type ContextSession struct{}

// CustomerID returns the authenticated customer, or a NoSession error when
// the request carries no customer id.
func (ContextSession) CustomerID(ctx context.Context) (string, error) {
	id, err := uuid.Parse(middleware.UserIDFromContext(ctx))
	if err != nil {
		return "", apperrors.NoSession()
	}
	return id.String(), nil
}
