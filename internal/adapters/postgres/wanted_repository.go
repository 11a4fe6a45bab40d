package postgres_adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
)

const wantedColumns = `id, user_email, title, description, criterion_json, status, created_at`

// PostgresWantedRepository stores buyer requests. The criterion lives in
// criterion_json; category and locations are copied out for list filters.
type PostgresWantedRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresWantedRepository(pool *pgxpool.Pool) (*PostgresWantedRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresWantedRepository{pool: pool}, nil
}

var _ port.WantedStoragePort = (*PostgresWantedRepository)(nil)

func (r *PostgresWantedRepository) Create(ctx context.Context, w domain.WantedRequest) (int64, error) {
	criterion, err := json.Marshal(w.Criterion)
	if err != nil {
		return 0, fmt.Errorf("failed to encode wanted criterion: %w", err)
	}

	query := `INSERT INTO wanted_requests (user_email, title, description, main_category, locations, criterion_json, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	var id int64
	err = r.pool.QueryRow(ctx, query,
		w.UserEmail, w.Title, w.Description, string(w.Criterion.Category),
		strings.Join(w.Criterion.Locations, ", "), criterion, string(w.Status), w.CreatedAt,
	).Scan(&id)
	if err != nil {
		contextkeys.LoggerFromContext(ctx).Error("Failed to insert wanted request", err, port.Fields{
			"component": "PostgresWantedRepository",
			"method":    "Create",
			"user":      w.UserEmail,
		})
		return 0, fmt.Errorf("failed to insert wanted request: %w", err)
	}
	return id, nil
}

func (r *PostgresWantedRepository) GetByID(ctx context.Context, id int64) (*domain.WantedRequest, error) {
	query := `SELECT ` + wantedColumns + ` FROM wanted_requests WHERE id = $1`
	w, err := scanWanted(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query wanted request %d: %w", id, err)
	}
	return w, nil
}

func (r *PostgresWantedRepository) ListOpen(ctx context.Context, filter domain.WantedFilter) ([]domain.WantedRequest, error) {
	query, args := buildWantedQuery(filter)
	return r.queryWanted(ctx, "ListOpen", query, args...)
}

func (r *PostgresWantedRepository) ListAllOpen(ctx context.Context) ([]domain.WantedRequest, error) {
	query := `SELECT ` + wantedColumns + ` FROM wanted_requests WHERE status = $1 ORDER BY created_at DESC`
	return r.queryWanted(ctx, "ListAllOpen", query, string(domain.WantedOpen))
}

func (r *PostgresWantedRepository) ListByUser(ctx context.Context, userEmail string, limit int) ([]domain.WantedRequest, error) {
	query := `SELECT ` + wantedColumns + ` FROM wanted_requests WHERE user_email = $1 ORDER BY created_at DESC LIMIT $2`
	return r.queryWanted(ctx, "ListByUser", query, userEmail, limit)
}

func (r *PostgresWantedRepository) Close(ctx context.Context, id int64, userEmail string) error {
	query := `UPDATE wanted_requests SET status = $1 WHERE id = $2 AND user_email = $3 AND status = $4`
	cmdTag, err := r.pool.Exec(ctx, query, string(domain.WantedClosed), id, userEmail, string(domain.WantedOpen))
	if err != nil {
		return fmt.Errorf("failed to close wanted request %d: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresWantedRepository) queryWanted(ctx context.Context, method, query string, args ...any) ([]domain.WantedRequest, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PostgresWantedRepository",
		"method":    method,
	})

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		repoLogger.Error("Failed to query wanted requests", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to query wanted requests: %w", err)
	}
	defer rows.Close()

	requests := make([]domain.WantedRequest, 0)
	for rows.Next() {
		w, err := scanWanted(rows)
		if err != nil {
			repoLogger.Error("Failed to scan wanted row", err, nil)
			return nil, fmt.Errorf("failed to scan wanted request: %w", err)
		}
		requests = append(requests, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during wanted requests iteration: %w", err)
	}

	repoLogger.Debug("Wanted requests loaded", port.Fields{"count": len(requests)})
	return requests, nil
}

func scanWanted(row pgx.Row) (*domain.WantedRequest, error) {
	var (
		w         domain.WantedRequest
		status    string
		criterion []byte
	)
	if err := row.Scan(&w.ID, &w.UserEmail, &w.Title, &w.Description, &criterion, &status, &w.CreatedAt); err != nil {
		return nil, err
	}
	w.Status = domain.WantedStatus(status)
	if err := json.Unmarshal(criterion, &w.Criterion); err != nil {
		return nil, fmt.Errorf("failed to decode criterion of wanted request %d: %w", w.ID, err)
	}
	return &w, nil
}

func buildWantedQuery(f domain.WantedFilter) (string, []any) {
	w := &whereBuilder{}
	w.add("status = ?", string(domain.WantedOpen))
	if q := strings.TrimSpace(f.Query); q != "" {
		w.add("(title ILIKE ? OR description ILIKE ?)", containsPattern(q), containsPattern(q))
	}
	if f.Category != "" {
		w.add("main_category = ?", string(f.Category))
	}
	if loc := strings.TrimSpace(f.Location); loc != "" {
		w.add("locations ILIKE ?", containsPattern(loc))
	}
	w.args = append(w.args, f.Limit)
	query := fmt.Sprintf("SELECT %s FROM wanted_requests%s ORDER BY created_at DESC LIMIT $%d", wantedColumns, w.sql(), len(w.args))
	return query, w.args
}
