package leads

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// PgxPool is the subset of pgxpool.Pool the repository needs. pgxmock
// satisfies it in tests.
type PgxPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresRepository stores leads in the relational database.
type PostgresRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

// NewPostgresRepository initializes a repo backed by pgx.
func NewPostgresRepository(pool PgxPool) *PostgresRepository {
	if pool == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresRepository{
		pool:   pool,
		tracer: otel.Tracer("leads.internal.repository"),
	}
}

// Create inserts one immutable lead row and returns its generated id.
// Failures surface as ErrPersistence so the endpoint maps them to a single
// machine code.
func (r *PostgresRepository) Create(ctx context.Context, lead *Lead) (string, error) {
	ctx, span := r.tracer.Start(ctx, "leads.create")
	defer span.End()

	id := uuid.New()
	query := `
		INSERT INTO leads (
			id, nombre, email, telefono, mensaje, status, source,
			utm_source, utm_medium, utm_campaign, utm_content, utm_term, utm_referrer, utm_page,
			ip_hash, user_agent, recaptcha_score
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.pool.QueryRow(ctx, query,
		id,
		lead.Nombre,
		lead.Email,
		lead.Telefono,
		lead.Mensaje,
		lead.Status,
		lead.Source,
		lead.UTM.Source,
		lead.UTM.Medium,
		lead.UTM.Campaign,
		lead.UTM.Content,
		lead.UTM.Term,
		lead.UTM.Referrer,
		lead.UTM.Page,
		lead.Meta.IPHash,
		lead.Meta.UserAgent,
		lead.Meta.RecaptchaScore,
	).Scan(&createdAt); err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("%w: insert: %v", ErrPersistence, err)
	}

	lead.ID = id.String()
	lead.CreatedAt = createdAt
	return lead.ID, nil
}

// GetByID fetches one lead.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	ctx, span := r.tracer.Start(ctx, "leads.get_by_id")
	defer span.End()

	row := r.pool.QueryRow(ctx, selectColumns+` WHERE id = $1`, id)
	lead, err := scanLead(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrLeadNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("leads: select failed: %w", err)
	}
	return lead, nil
}

// List returns leads newest first.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]*Lead, error) {
	ctx, span := r.tracer.Start(ctx, "leads.list")
	defer span.End()

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := r.pool.Query(ctx, selectColumns+` ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	defer rows.Close()

	out := []*Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("leads: scan failed: %w", err)
		}
		out = append(out, lead)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	return out, nil
}

const selectColumns = `
	SELECT id, nombre, email, telefono, mensaje, status, source,
	       utm_source, utm_medium, utm_campaign, utm_content, utm_term, utm_referrer, utm_page,
	       ip_hash, user_agent, recaptcha_score, created_at
	FROM leads`

func scanLead(row pgx.Row) (*Lead, error) {
	var lead Lead
	if err := row.Scan(
		&lead.ID,
		&lead.Nombre,
		&lead.Email,
		&lead.Telefono,
		&lead.Mensaje,
		&lead.Status,
		&lead.Source,
		&lead.UTM.Source,
		&lead.UTM.Medium,
		&lead.UTM.Campaign,
		&lead.UTM.Content,
		&lead.UTM.Term,
		&lead.UTM.Referrer,
		&lead.UTM.Page,
		&lead.Meta.IPHash,
		&lead.Meta.UserAgent,
		&lead.Meta.RecaptchaScore,
		&lead.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &lead, nil
}
