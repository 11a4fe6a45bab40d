package postgres_adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
)

// PostgresDraftRepository keeps listing drafts in listing_drafts.
type PostgresDraftRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresDraftRepository(pool *pgxpool.Pool) (*PostgresDraftRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresDraftRepository{pool: pool}, nil
}

var _ port.DraftStoragePort = (*PostgresDraftRepository)(nil)

func (r *PostgresDraftRepository) Create(ctx context.Context, draft domain.Draft) error {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PostgresDraftRepository",
		"method":    "Create",
		"draft_id":  draft.ID,
	})

	record, err := json.Marshal(draft.Record)
	if err != nil {
		return fmt.Errorf("failed to encode draft record: %w", err)
	}

	query := `INSERT INTO listing_drafts (id, owner_email, main_category, title, description, structured_json, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = r.pool.Exec(ctx, query, draft.ID, draft.OwnerEmail, string(draft.Category), draft.Title, draft.Description, record, draft.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			repoLogger.Warn("Draft already exists", nil)
			return fmt.Errorf("draft %s already exists: %w", draft.ID, err)
		}
		repoLogger.Error("Failed to insert draft", err, port.Fields{"query": query})
		return fmt.Errorf("failed to insert draft: %w", err)
	}

	repoLogger.Debug("Draft stored", nil)
	return nil
}

func (r *PostgresDraftRepository) Get(ctx context.Context, id uuid.UUID, ownerEmail string) (*domain.Draft, error) {
	query := `SELECT id, owner_email, main_category, title, description, structured_json, created_at
		FROM listing_drafts WHERE id = $1 AND owner_email = $2`

	var (
		draft    domain.Draft
		category string
		record   []byte
	)
	err := r.pool.QueryRow(ctx, query, id, ownerEmail).Scan(
		&draft.ID, &draft.OwnerEmail, &category, &draft.Title, &draft.Description, &record, &draft.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		contextkeys.LoggerFromContext(ctx).Error("Failed to query draft", err, port.Fields{
			"component": "PostgresDraftRepository",
			"method":    "Get",
			"draft_id":  id,
		})
		return nil, fmt.Errorf("failed to query draft %s: %w", id, err)
	}

	draft.Category = domain.Category(category)
	if err := json.Unmarshal(record, &draft.Record); err != nil {
		return nil, fmt.Errorf("failed to decode draft %s record: %w", id, err)
	}
	return &draft, nil
}

func (r *PostgresDraftRepository) Delete(ctx context.Context, id uuid.UUID, ownerEmail string) error {
	query := `DELETE FROM listing_drafts WHERE id = $1 AND owner_email = $2`
	cmdTag, err := r.pool.Exec(ctx, query, id, ownerEmail)
	if err != nil {
		return fmt.Errorf("failed to delete draft %s: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
