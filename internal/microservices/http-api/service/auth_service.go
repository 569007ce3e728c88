package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"campusmess/internal/apperrors"
	"campusmess/internal/middleware/auth"
	"campusmess/internal/microservices/http-api/dto"
	"campusmess/internal/microservices/http-api/models"
	"campusmess/internal/microservices/http-api/repository"
)

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (string, *models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	hasher   *auth.PasswordHasher
	tokens   *auth.TokenService

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(userRepo repository.UserRepository, hasher *auth.PasswordHasher, tokens *auth.TokenService) AuthService {
	return &authService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
	}
}

// NormalizeEmail is the canonical form used for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (string, *models.User, error) {
	email := NormalizeEmail(req.Email)

	// check if email already exists
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return "", nil, apperrors.NewConflictError(MsgEmailRegistered)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return "", nil, apperrors.NewInternalError("lookup email", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return "", nil, apperrors.NewInternalError("hash password", err)
	}

	user := &models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: hash,
		College:  strings.TrimSpace(req.College),
	}
	// the unique index still catches a concurrent register of the same email
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return "", nil, apperrors.NewConflictError(MsgEmailRegistered)
		}
		return "", nil, apperrors.NewInternalError("create user", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, apperrors.NewInternalError("issue token", err)
	}
	return token, user.WithoutPassword(), nil
}

// Login answers unknown email and wrong password with the same error, and
// runs a bcrypt compare in both cases.
func (s *authService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return "", nil, apperrors.NewInternalError("lookup email", err)
		}
		s.hasher.Verify(password, s.dummy())
		return "", nil, apperrors.NewValidationError(MsgInvalidCredentials)
	}

	if !s.hasher.Verify(password, user.Password) {
		return "", nil, apperrors.NewValidationError(MsgInvalidCredentials)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, apperrors.NewInternalError("issue token", err)
	}
	return token, user.WithoutPassword(), nil
}

func (s *authService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("campusmess-timing-placeholder")
	})
	return s.dummyHash
}
