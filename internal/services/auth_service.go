package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/SPMS-2025/progress-service/internal/models"
	"github.com/SPMS-2025/progress-service/internal/repositories"
	"github.com/SPMS-2025/progress-service/internal/validator"
)

type SignupRequest = validator.SignupRequest
type SigninRequest = validator.SigninRequest

type AuthResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	ID       string `json:"id"`
}

// AuthConfig carries the token secret and lifetimes, injected at startup.
type AuthConfig struct {
	Secret           string
	SignupTokenHours int
	SigninTokenHours int
}

type AuthService interface {
	Signup(ctx context.Context, req *SignupRequest) (*AuthResponse, error)
	Signin(ctx context.Context, req *SigninRequest) (*AuthResponse, error)
	// VerifyToken parses a token and returns the user id it was issued for.
	VerifyToken(token string) (string, error)
}

type authService struct {
	repo      repositories.Repository
	validator *validator.Validator
	logger    *slog.Logger
	cfg       AuthConfig
}

func NewAuthService(repo repositories.Repository, v *validator.Validator, logger *slog.Logger, cfg AuthConfig) AuthService {
	return &authService{
		repo:      repo,
		validator: v,
		logger:    logger,
		cfg:       cfg,
	}
}

func (s *authService) Signup(ctx context.Context, req *SignupRequest) (*AuthResponse, error) {
	if errs := s.validator.Validate(req); errs.HasErrors() {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	exists, err := s.repo.User().ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:       uuid.New().String(),
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashed),
	}
	if err := s.repo.User().Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.issueToken(user.ID, time.Duration(s.cfg.SignupTokenHours)*time.Hour)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user signed up", "user_id", user.ID)
	return &AuthResponse{Token: token, Username: user.Username, ID: user.ID}, nil
}

func (s *authService) Signin(ctx context.Context, req *SigninRequest) (*AuthResponse, error) {
	if errs := s.validator.Validate(req); errs.HasErrors() {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	user, err := s.repo.User().GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(user.ID, time.Duration(s.cfg.SigninTokenHours)*time.Hour)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Token: token, Username: user.Username, ID: user.ID}, nil
}

func (s *authService) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidCredentials
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidCredentials
	}
	id, ok := claims["id"].(string)
	if !ok || id == "" {
		return "", ErrInvalidCredentials
	}
	return id, nil
}

func (s *authService) issueToken(userID string, lifetime time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"id":  userID,
		"exp": time.Now().Add(lifetime).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
