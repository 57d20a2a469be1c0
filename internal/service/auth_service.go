package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/gema-quiz-api/internal/dto"
)

// RoleAdmin is the only role that may reach the admin and dashboard routes.
const RoleAdmin = "admin"

// ErrInvalidCredentials indicates the username or password did not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService verifies the admin credentials and issues bearer tokens.
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
}

// AuthConfig holds the admin account and token settings.
type AuthConfig struct {
	Username     string
	PasswordHash []byte
	JWTSecret    string
	TokenTTL     time.Duration
}

type authService struct {
	cfg       AuthConfig
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAuthService constructs the admin auth service.
func NewAuthService(cfg AuthConfig, validate *validator.Validate, logger zerolog.Logger) AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 12 * time.Hour
	}
	return &authService{
		cfg:       cfg,
		validator: validate,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
	}
}

// HashPassword returns the bcrypt hash of a plaintext admin password.
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	userMatch := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.cfg.Username)) == 1
	passErr := bcrypt.CompareHashAndPassword(s.cfg.PasswordHash, []byte(req.Password))
	if !userMatch || passErr != nil {
		s.logger.Warn().Str("username", req.Username).Msg("admin login rejected")
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.cfg.TokenTTL)
	claims := jwt.MapClaims{
		"sub":  s.cfg.Username,
		"role": RoleAdmin,
		"iat":  issuedAt.Unix(),
		"exp":  expiresAt.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return dto.LoginResponse{}, err
	}

	s.logger.Info().Str("username", s.cfg.Username).Msg("admin logged in")
	return dto.LoginResponse{Success: true, Token: token, ExpiresAt: expiresAt.UTC()}, nil
}
