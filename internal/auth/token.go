package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultTokenTTL = 24 * time.Hour
	MinSecretLen    = 32
)

var (
	ErrSecretTooShort = fmt.Errorf("jwt secret must be at least %d characters", MinSecretLen)

	// Verification failures. Callers report all of them the same way.
	ErrTokenExpired    = errors.New("token has expired")
	ErrTokenMalformed  = errors.New("token is malformed")
	ErrTokenInvalidSig = errors.New("token signature is invalid")
)

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// IssuedToken is a signed token and its expiry.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

// TokenService issues and verifies stateless HS256 bearer tokens.
// There is no server-side session state, so tokens cannot be revoked before they expire.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < MinSecretLen {
		return nil, ErrSecretTooShort
	}

	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

func (s *TokenService) GenerateToken(userID uuid.UUID, email string) (IssuedToken, error) {
	const op = "auth.GenerateToken"

	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.ttl)

	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return IssuedToken{}, fmt.Errorf("%s: %w", op, err)
	}

	return IssuedToken{Token: signed, ExpiresAt: expiresAt.Truncate(time.Second)}, nil
}

// ParseToken verifies signature and expiry and returns the owner id carried in the subject.
func (s *TokenService) ParseToken(tokenStr string) (uuid.UUID, *Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalidSig
		}
		return s.secret, nil
	},
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return uuid.Nil, nil, mapJWTError(err)
	}

	if !token.Valid {
		return uuid.Nil, nil, ErrTokenMalformed
	}

	userID, err := uuid.FromString(claims.Subject)
	if err != nil {
		return uuid.Nil, nil, ErrTokenMalformed
	}

	return userID, claims, nil
}

func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, ErrTokenInvalidSig):
		return ErrTokenInvalidSig
	default:
		return ErrTokenMalformed
	}
}
