package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")

// Lead statuses written by the call surfaces.
const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
	StatusFailed     = "Failed"
)

// Repository is the PostgreSQL lead store. Lead ids are UUIDs, so a webhook
// contact id only matches when it is the lead id calls/service sent as contactId.
type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Lead struct {
	ID           string
	Name         string
	PhoneNumber  string
	PhoneID      string
	Status       string
	Disposition  *string
	Duration     *float64
	Cost         *float64
	RecordingURL *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UpdateLeadParams is a partial update; nil fields are left untouched.
type UpdateLeadParams struct {
	Status       *string
	Disposition  *string
	Duration     *float64
	Cost         *float64
	RecordingURL *string
}

const leadColumns = `id, COALESCE(name, ''), COALESCE(phone_number, ''), COALESCE(phone_id, ''), status,
	disposition, duration, cost, recording_url, created_at, updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var (
		lead Lead
		id   uuid.UUID
	)
	err := row.Scan(
		&id, &lead.Name, &lead.PhoneNumber, &lead.PhoneID, &lead.Status,
		&lead.Disposition, &lead.Duration, &lead.Cost, &lead.RecordingURL, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return Lead{}, err
	}
	lead.ID = id.String()
	return lead, nil
}

func collectLeads(rows pgx.Rows) ([]Lead, error) {
	defer rows.Close()

	items := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, lead)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return items, nil
}

// parseID maps non-UUID identifiers to ErrNotFound: no row can carry them.
func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return uuid.UUID{}, ErrNotFound
	}
	return parsed, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (Lead, error) {
	leadID, err := parseID(id)
	if err != nil {
		return Lead{}, err
	}

	lead, err := scanLead(r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, leadID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

// GetByExactPhone returns the newest lead whose stored phone number equals phone.
func (r *Repository) GetByExactPhone(ctx context.Context, phone string) (Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads WHERE phone_number = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, phone))
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

// ListByPhoneSuffix returns leads whose digit-only phone number contains suffix.
func (r *Repository) ListByPhoneSuffix(ctx context.Context, suffix string, limit int) ([]Lead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE regexp_replace(COALESCE(phone_number, ''), '[^0-9]', '', 'g') LIKE '%' || $1 || '%'
		ORDER BY created_at DESC
		LIMIT $2
	`, suffix, limit)
	if err != nil {
		return nil, err
	}
	return collectLeads(rows)
}

// ListRecent returns the newest leads.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]Lead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	return collectLeads(rows)
}

// ListByNameLike returns leads whose name contains pattern, case-insensitively.
func (r *Repository) ListByNameLike(ctx context.Context, pattern string, limit int) ([]Lead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY created_at DESC
		LIMIT $2
	`, escapeLike(pattern), limit)
	if err != nil {
		return nil, err
	}
	return collectLeads(rows)
}

// Update applies a partial update and returns the affected rows.
func (r *Repository) Update(ctx context.Context, id string, params UpdateLeadParams) ([]Lead, error) {
	leadID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	setClauses := []string{}
	args := []interface{}{}
	argIdx := 1

	fields := []struct {
		enabled bool
		column  string
		value   interface{}
	}{
		{params.Status != nil, "status", derefString(params.Status)},
		{params.Disposition != nil, "disposition", derefString(params.Disposition)},
		{params.Duration != nil, "duration", derefFloat(params.Duration)},
		{params.Cost != nil, "cost", derefFloat(params.Cost)},
		{params.RecordingURL != nil, "recording_url", derefString(params.RecordingURL)},
	}

	for _, field := range fields {
		if !field.enabled {
			continue
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", field.column, argIdx))
		args = append(args, field.value)
		argIdx++
	}

	if len(setClauses) == 0 {
		lead, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return []Lead{lead}, nil
	}

	setClauses = append(setClauses, "updated_at = now()")
	args = append(args, leadID)

	query := fmt.Sprintf(`
		UPDATE leads SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), argIdx, leadColumns)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	leads, err := collectLeads(rows)
	if err != nil {
		return nil, err
	}
	if len(leads) == 0 {
		return nil, ErrNotFound
	}
	return leads, nil
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func derefFloat(value *float64) float64 {
	if value == nil {
		return 0
	}
	return *value
}

func escapeLike(value string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(value)
}
