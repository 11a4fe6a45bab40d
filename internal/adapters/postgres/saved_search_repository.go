package postgres_adapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
)

type PostgresSavedSearchRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresSavedSearchRepository(pool *pgxpool.Pool) (*PostgresSavedSearchRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresSavedSearchRepository{pool: pool}, nil
}

var _ port.SavedSearchStoragePort = (*PostgresSavedSearchRepository)(nil)

func (r *PostgresSavedSearchRepository) Create(ctx context.Context, s domain.SavedSearch) (int64, error) {
	criterion, err := json.Marshal(s.Criterion)
	if err != nil {
		return 0, fmt.Errorf("failed to encode saved search criterion: %w", err)
	}

	query := `INSERT INTO saved_searches (user_email, name, criterion_json, created_at)
		VALUES ($1, $2, $3, $4) RETURNING id`
	var id int64
	if err := r.pool.QueryRow(ctx, query, s.UserEmail, s.Name, criterion, s.CreatedAt).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert saved search: %w", err)
	}
	return id, nil
}

func (r *PostgresSavedSearchRepository) ListByUser(ctx context.Context, userEmail string) ([]domain.SavedSearch, error) {
	query := `SELECT id, user_email, name, criterion_json, created_at FROM saved_searches
		WHERE user_email = $1 ORDER BY created_at DESC`
	return r.querySearches(ctx, "ListByUser", query, userEmail)
}

func (r *PostgresSavedSearchRepository) ListAll(ctx context.Context) ([]domain.SavedSearch, error) {
	query := `SELECT id, user_email, name, criterion_json, created_at FROM saved_searches ORDER BY id`
	return r.querySearches(ctx, "ListAll", query)
}

func (r *PostgresSavedSearchRepository) Delete(ctx context.Context, id int64, userEmail string) error {
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM saved_searches WHERE id = $1 AND user_email = $2`, id, userEmail)
	if err != nil {
		return fmt.Errorf("failed to delete saved search %d: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresSavedSearchRepository) querySearches(ctx context.Context, method, query string, args ...any) ([]domain.SavedSearch, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PostgresSavedSearchRepository",
		"method":    method,
	})

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		repoLogger.Error("Failed to query saved searches", err, nil)
		return nil, fmt.Errorf("failed to query saved searches: %w", err)
	}
	defer rows.Close()

	searches := make([]domain.SavedSearch, 0)
	for rows.Next() {
		var (
			s         domain.SavedSearch
			criterion []byte
		)
		if err := rows.Scan(&s.ID, &s.UserEmail, &s.Name, &criterion, &s.CreatedAt); err != nil {
			repoLogger.Error("Failed to scan saved search row", err, nil)
			return nil, fmt.Errorf("failed to scan saved search: %w", err)
		}
		if err := json.Unmarshal(criterion, &s.Criterion); err != nil {
			return nil, fmt.Errorf("failed to decode criterion of saved search %d: %w", s.ID, err)
		}
		searches = append(searches, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during saved searches iteration: %w", err)
	}
	return searches, nil
}
