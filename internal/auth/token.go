package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"bookshelf/internal/entities"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Claims is the JWT claim set carried by every access token. The subject
// holds the user ID.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Identity is the request-scoped identity decoded from a valid token.
type Identity struct {
	UserID uint
	Email  string
}

// TokenIssuer mints and verifies HMAC-signed bearer tokens. Validation is
// a pure function of (token, secret, now); Now is injectable for tests.
type TokenIssuer struct {
	secret []byte
	expiry time.Duration
	Now    func() time.Time
}

// NewTokenIssuer creates a token issuer with the given signing secret and
// token lifetime.
func NewTokenIssuer(secret string, expiry time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	return &TokenIssuer{
		secret: []byte(secret),
		expiry: expiry,
		Now:    time.Now,
	}, nil
}

// Issue signs a new token carrying the user's ID and email.
func (t *TokenIssuer) Issue(user *entities.User) (string, error) {
	now := t.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.expiry)),
		},
		Email: user.Email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate verifies a token's signature and expiry and decodes its identity.
func (t *TokenIssuer) Validate(tokenString string) (*Identity, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(t.Now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 32)
	if err != nil || userID == 0 {
		return nil, ErrInvalidToken
	}

	return &Identity{
		UserID: uint(userID),
		Email:  claims.Email,
	}, nil
}
