package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/support-kit/helpdesk-ingest/internal/domain"
)

// TenantRepository encapsulates tenant persistence.
type TenantRepository interface {
	Create(ctx context.Context, tenant *domain.Tenant) error
	GetByID(ctx context.Context, id string) (*domain.Tenant, error)
	GetByToken(ctx context.Context, token string) (*domain.Tenant, error)
	ListWithChannel(ctx context.Context, kind domain.ChannelKind) ([]domain.Tenant, error)
}

type tenantRepository struct {
	pool *pgxpool.Pool
}

// NewTenantRepository instantiates repository.
func NewTenantRepository(pool *pgxpool.Pool) TenantRepository {
	return &tenantRepository{pool: pool}
}

const tenantColumns = `id, name, email, webhook_token, whatsapp_number, telegram_handle, contact_email, phone_number, created_at, updated_at`

func (r *tenantRepository) Create(ctx context.Context, tenant *domain.Tenant) error {
	const query = `
        INSERT INTO tenants (name, email, webhook_token, whatsapp_number, telegram_handle, contact_email, phone_number)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		tenant.Name,
		tenant.Email,
		tenant.WebhookToken,
		nullable(tenant.Channels.WhatsApp),
		nullable(tenant.Channels.Telegram),
		nullable(tenant.Channels.Email),
		nullable(tenant.Channels.Phone),
	).Scan(&tenant.ID, &tenant.CreatedAt, &tenant.UpdatedAt)
}

func (r *tenantRepository) GetByID(ctx context.Context, id string) (*domain.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *tenantRepository) GetByToken(ctx context.Context, token string) (*domain.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE webhook_token=$1`
	return r.fetchSingle(ctx, query, token)
}

func (r *tenantRepository) ListWithChannel(ctx context.Context, kind domain.ChannelKind) ([]domain.Tenant, error) {
	column, ok := channelColumn(kind)
	if !ok {
		return nil, nil
	}
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE ` + column + ` IS NOT NULL ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTenants(rows)
}

func (r *tenantRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Tenant, error) {
	var (
		tenant   domain.Tenant
		whatsapp *string
		telegram *string
		email    *string
		phone    *string
	)
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&tenant.ID,
		&tenant.Name,
		&tenant.Email,
		&tenant.WebhookToken,
		&whatsapp,
		&telegram,
		&email,
		&phone,
		&tenant.CreatedAt,
		&tenant.UpdatedAt,
	); err != nil {
		return nil, err
	}
	tenant.Channels = channelIdentifiers(whatsapp, telegram, email, phone)
	return &tenant, nil
}

func scanTenants(rows pgx.Rows) ([]domain.Tenant, error) {
	var result []domain.Tenant
	for rows.Next() {
		var (
			tenant   domain.Tenant
			whatsapp *string
			telegram *string
			email    *string
			phone    *string
		)
		if err := rows.Scan(
			&tenant.ID,
			&tenant.Name,
			&tenant.Email,
			&tenant.WebhookToken,
			&whatsapp,
			&telegram,
			&email,
			&phone,
			&tenant.CreatedAt,
			&tenant.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tenant.Channels = channelIdentifiers(whatsapp, telegram, email, phone)
		result = append(result, tenant)
	}
	return result, rows.Err()
}

func channelColumn(kind domain.ChannelKind) (string, bool) {
	switch kind {
	case domain.ChannelWhatsApp:
		return "whatsapp_number", true
	case domain.ChannelTelegram:
		return "telegram_handle", true
	case domain.ChannelEmail:
		return "contact_email", true
	case domain.ChannelPhone:
		return "phone_number", true
	default:
		return "", false
	}
}

func channelIdentifiers(whatsapp, telegram, email, phone *string) domain.ChannelIdentifiers {
	return domain.ChannelIdentifiers{
		WhatsApp: deref(whatsapp),
		Telegram: deref(telegram),
		Email:    deref(email),
		Phone:    deref(phone),
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
