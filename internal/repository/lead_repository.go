package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/support-kit/helpdesk-ingest/internal/domain"
)

// LeadRepository encapsulates lead persistence.
type LeadRepository interface {
	Create(ctx context.Context, lead *domain.Lead) error
	GetByID(ctx context.Context, id string) (*domain.Lead, error)
	Update(ctx context.Context, lead *domain.Lead) error
	ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]domain.Lead, error)
}

type leadRepository struct {
	pool *pgxpool.Pool
}

// NewLeadRepository instantiates repository.
func NewLeadRepository(pool *pgxpool.Pool) LeadRepository {
	return &leadRepository{pool: pool}
}

const leadColumns = `id, tenant_id, caller_name, phone, transcript, interest, status, ticket_id, metadata, created_at, updated_at`

func (r *leadRepository) Create(ctx context.Context, lead *domain.Lead) error {
	const query = `
        INSERT INTO leads (tenant_id, caller_name, phone, transcript, interest, status, metadata)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		lead.TenantID,
		lead.CallerName,
		lead.Phone,
		lead.Transcript,
		lead.Interest,
		lead.Status,
		lead.Metadata,
	).Scan(&lead.ID, &lead.CreatedAt, &lead.UpdatedAt)
}

func (r *leadRepository) GetByID(ctx context.Context, id string) (*domain.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id=$1`
	var lead domain.Lead
	if err := r.pool.QueryRow(ctx, query, id).Scan(leadScanTargets(&lead)...); err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *leadRepository) Update(ctx context.Context, lead *domain.Lead) error {
	const query = `
        UPDATE leads SET caller_name=$1, transcript=$2, interest=$3, status=$4, ticket_id=$5, metadata=$6, updated_at=NOW()
        WHERE id=$7`
	cmd, err := r.pool.Exec(ctx, query,
		lead.CallerName,
		lead.Transcript,
		lead.Interest,
		lead.Status,
		lead.TicketID,
		lead.Metadata,
		lead.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *leadRepository) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]domain.Lead, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + leadColumns + ` FROM leads WHERE tenant_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Lead
	for rows.Next() {
		var lead domain.Lead
		if err := rows.Scan(leadScanTargets(&lead)...); err != nil {
			return nil, err
		}
		result = append(result, lead)
	}
	return result, rows.Err()
}

func leadScanTargets(lead *domain.Lead) []any {
	return []any{
		&lead.ID,
		&lead.TenantID,
		&lead.CallerName,
		&lead.Phone,
		&lead.Transcript,
		&lead.Interest,
		&lead.Status,
		&lead.TicketID,
		&lead.Metadata,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	}
}
