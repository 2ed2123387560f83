package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"drafthub/internal/auth/model"
	"drafthub/internal/auth/repository"
	"drafthub/pkg/apperrors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	Repo      *repository.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthService(repo *repository.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{Repo: repo, jwtSecret: []byte(jwtSecret), tokenTTL: tokenTTL}
}

func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	if !strings.Contains(req.Email, "@") {
		return nil, apperrors.NewBadRequestError("invalid email")
	}
	if len(req.Password) < 8 {
		return nil, apperrors.NewBadRequestError("password must be at least 8 characters")
	}

	if _, err := s.Repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.NewBadRequestError("user already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewUnavailableError("could not look up user")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.NewUnavailableError("could not hash password")
	}
	hashStr := string(hash)

	user := &model.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: &hashStr,
	}
	if req.Name != "" {
		user.Name = &req.Name
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return nil, apperrors.NewUnavailableError("could not create user")
	}

	return s.issueToken(user)
}

func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	user, err := s.Repo.GetByEmail(ctx, req.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewUnauthorizedError("invalid credentials")
	}
	if err != nil {
		return nil, apperrors.NewUnavailableError("could not look up user")
	}

	// Accounts created through an external identity provider carry no hash.
	if user.PasswordHash == nil {
		return nil, apperrors.NewUnauthorizedError("password login is not available for this account")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.NewUnauthorizedError("invalid credentials")
	}

	return s.issueToken(user)
}

func (s *AuthService) issueToken(user *model.User) (*model.AuthResponse, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, apperrors.NewUnavailableError("could not sign token")
	}
	return &model.AuthResponse{User: *user, AccessToken: signed}, nil
}
