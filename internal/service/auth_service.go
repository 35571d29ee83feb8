package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/support-kit/helpdesk-ingest/internal/auth"
	"github.com/support-kit/helpdesk-ingest/internal/config"
	"github.com/support-kit/helpdesk-ingest/internal/domain"
	"github.com/support-kit/helpdesk-ingest/internal/repository"
	apperrors "github.com/support-kit/helpdesk-ingest/pkg/util"
)

// AuthService authenticates dashboard operators.
type AuthService struct {
	operators  repository.OperatorRepository
	tokens     *auth.TokenManager
	bcryptCost int
}

// NewAuthService creates the service.
func NewAuthService(cfg config.AuthConfig, operators repository.OperatorRepository) *AuthService {
	return &AuthService{
		operators:  operators,
		tokens:     auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		bcryptCost: cfg.BcryptCost,
	}
}

// TokenManager exposes the JWT manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// Login verifies credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Operator, string, time.Time, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("email and password required", nil)
	}

	operator, err := s.operators.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if err := auth.VerifyOperatorPassword(operator.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokens.GenerateToken(operator)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return operator, token, expiresAt, nil
}

// RegisterOperator stores a new operator with a hashed password.
func (s *AuthService) RegisterOperator(ctx context.Context, name, email, password string, role domain.OperatorRole, tenantID *string) (*domain.Operator, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || password == "" {
		return nil, apperrors.NewValidationError("name, email and password required", nil)
	}
	hash, err := auth.HashOperatorPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	operator := &domain.Operator{
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
		Role:         role,
		TenantID:     tenantID,
	}
	if err := s.operators.Create(ctx, operator); err != nil {
		return nil, apperrors.MapError(err)
	}
	return operator, nil
}
