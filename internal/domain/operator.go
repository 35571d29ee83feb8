package domain

import "time"

// OperatorRole enumerates dashboard operator roles.
type OperatorRole string

const (
	OperatorRoleSuperAdmin  OperatorRole = "SUPER_ADMIN"
	OperatorRoleTenantAdmin OperatorRole = "TENANT_ADMIN"
)

// Operator is a dashboard user allowed to provision tenants and read tickets.
type Operator struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         OperatorRole
	TenantID     *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
