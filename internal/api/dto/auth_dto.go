package dto

import (
	"time"

	"github.com/support-kit/helpdesk-ingest/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expiresAt"`
	Operator  OperatorResponse `json:"operator"`
}

// OperatorResponse representation.
type OperatorResponse struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Email    string              `json:"email"`
	Role     domain.OperatorRole `json:"role"`
	TenantID *string             `json:"tenantId"`
}

// OperatorFromDomain converts a domain operator.
func OperatorFromDomain(o *domain.Operator) OperatorResponse {
	return OperatorResponse{
		ID:       o.ID,
		Name:     o.Name,
		Email:    o.Email,
		Role:     o.Role,
		TenantID: o.TenantID,
	}
}
