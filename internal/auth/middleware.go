package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/support-kit/helpdesk-ingest/internal/domain"
	"github.com/support-kit/helpdesk-ingest/internal/repository"
	apperrors "github.com/support-kit/helpdesk-ingest/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated operator.
type Principal struct {
	Operator *domain.Operator
}

// TenantScope returns the tenant the principal is restricted to; super-admins
// are unscoped.
func (p *Principal) TenantScope() *string {
	if p == nil || p.Operator == nil || p.Operator.Role == domain.OperatorRoleSuperAdmin {
		return nil
	}
	return p.Operator.TenantID
}

// Middleware validates bearer tokens and loads operator principals.
type Middleware struct {
	tokens    *TokenManager
	operators repository.OperatorRepository
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, operators repository.OperatorRepository) *Middleware {
	return &Middleware{tokens: tokens, operators: operators}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	operator, err := m.operators.GetByID(c.Context(), claims.OperatorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("operator not found")
		}
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, &Principal{Operator: operator})
	return c.Next()
}

// RequireSuperAdmin restricts a route to super-admin operators.
func RequireSuperAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.Operator == nil {
			return apperrors.NewUnauthorized("operator required")
		}
		if principal.Operator.Role != domain.OperatorRoleSuperAdmin {
			return apperrors.NewForbidden("super admin role required")
		}
		return c.Next()
	}
}

// PrincipalFromContext retrieves the authenticated operator.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
