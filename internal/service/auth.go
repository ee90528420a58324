package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"leads_service/internal/apperr"
	"leads_service/internal/auth"
	"leads_service/internal/models"
	"leads_service/internal/storage"

	"github.com/gofrs/uuid"
)

const (
	msgCredentialsRequired = "Email and password are required"
	msgInvalidEmail        = "Invalid email format"
	msgPasswordTooShort    = "Password must be at least 6 characters"
	msgEmailTaken          = "Email already registered"
	msgInvalidCredentials  = "Invalid credentials"
	msgNoToken             = "Unauthorized: No token provided"
	msgInvalidToken        = "Unauthorized: Invalid token"
)

var (
	errUnknownUser   = errors.New("no user with that email")
	errWrongPassword = errors.New("password does not match")

	bearerPattern = regexp.MustCompile(`(?i)^\s*Bearer\s+(\S+)\s*$`)
)

type AuthResponse struct {
	Token     string      `json:"token"`
	ExpiresAt int64       `json:"expires_at"`
	User      models.User `json:"user"`
}

type AuthService interface {
	Register(ctx context.Context, email, password string) (AuthResponse, error)
	Login(ctx context.Context, email, password string) (AuthResponse, error)
	// Authenticate resolves the owner id from an Authorization header value.
	Authenticate(ctx context.Context, authorization string) (uuid.UUID, error)
}

type authService struct {
	storage storage.Storage
	tokens  *auth.TokenService
}

func NewAuthService(st storage.Storage, tokens *auth.TokenService) AuthService {
	return &authService{
		storage: st,
		tokens:  tokens,
	}
}

func (s *authService) Register(ctx context.Context, email, password string) (AuthResponse, error) {
	const op = "service.Register"

	email = auth.NormalizeEmail(email)
	if email == "" || password == "" {
		return AuthResponse{}, apperr.InvalidInput(msgCredentialsRequired)
	}

	if !auth.IsValidEmail(email) {
		return AuthResponse{}, apperr.InvalidInput(msgInvalidEmail)
	}

	if len(password) < auth.MinPasswordLen {
		return AuthResponse{}, apperr.InvalidInput(msgPasswordTooShort)
	}

	exists, err := s.storage.UserExistsByEmail(ctx, email)
	if err != nil {
		return AuthResponse{}, apperr.Internal(fmt.Errorf("%s: %w", op, err))
	}
	if exists {
		return AuthResponse{}, apperr.Conflict(msgEmailTaken)
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return AuthResponse{}, apperr.Internal(fmt.Errorf("%s: %w", op, err))
	}

	user, err := s.storage.CreateUser(ctx, email, passwordHash)
	if err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, storage.ErrUserExists) {
			return AuthResponse{}, apperr.Conflict(msgEmailTaken)
		}
		return AuthResponse{}, apperr.Internal(fmt.Errorf("%s: %w", op, err))
	}

	return s.issue(op, user)
}

func (s *authService) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	const op = "service.Login"

	if email == "" || password == "" {
		return AuthResponse{}, apperr.InvalidInput(msgCredentialsRequired)
	}

	email = auth.NormalizeEmail(email)

	cred, err := s.storage.GetCredentialsByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return AuthResponse{}, apperr.Unauthorized(msgInvalidCredentials, errUnknownUser)
		}
		return AuthResponse{}, apperr.Internal(fmt.Errorf("%s: %w", op, err))
	}

	if ok := auth.CheckPasswordHash(cred.PasswordHash, password); !ok {
		return AuthResponse{}, apperr.Unauthorized(msgInvalidCredentials, errWrongPassword)
	}

	return s.issue(op, models.User{ID: cred.UserID, Email: cred.Email})
}

func (s *authService) issue(op string, user models.User) (AuthResponse, error) {
	token, err := s.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return AuthResponse{}, apperr.Internal(fmt.Errorf("%s: %w", op, err))
	}

	return AuthResponse{
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt.Unix(),
		User:      user,
	}, nil
}

func (s *authService) Authenticate(ctx context.Context, authorization string) (uuid.UUID, error) {
	matches := bearerPattern.FindStringSubmatch(authorization)
	if matches == nil {
		return uuid.Nil, apperr.Unauthorized(msgNoToken, nil)
	}

	userID, _, err := s.tokens.ParseToken(matches[1])
	if err != nil {
		return uuid.Nil, apperr.Unauthorized(msgInvalidToken, err)
	}

	return userID, nil
}
