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

// PostgresNotificationRepository relies on the unique dedupe_key index to
// make notification delivery idempotent.
type PostgresNotificationRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresNotificationRepository(pool *pgxpool.Pool) (*PostgresNotificationRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresNotificationRepository{pool: pool}, nil
}

var _ port.NotificationStoragePort = (*PostgresNotificationRepository)(nil)

func (r *PostgresNotificationRepository) Insert(ctx context.Context, n domain.Notification) (bool, error) {
	meta := n.Meta
	if meta == nil {
		meta = map[string]any{}
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return false, fmt.Errorf("failed to encode notification meta: %w", err)
	}

	query := `INSERT INTO notifications (type, title, message, target_email, listing_id, meta_json, dedupe_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (dedupe_key) DO NOTHING`
	cmdTag, err := r.pool.Exec(ctx, query,
		string(n.Type), n.Title, n.Message, n.TargetEmail, n.ListingID, metaJSON, n.DedupeKey, n.CreatedAt,
	)
	if err != nil {
		contextkeys.LoggerFromContext(ctx).Error("Failed to insert notification", err, port.Fields{
			"component":  "PostgresNotificationRepository",
			"method":     "Insert",
			"dedupe_key": n.DedupeKey,
		})
		return false, fmt.Errorf("failed to insert notification: %w", err)
	}
	return cmdTag.RowsAffected() == 1, nil
}

func (r *PostgresNotificationRepository) ListByUser(ctx context.Context, userEmail string, limit int) ([]domain.Notification, error) {
	query := `SELECT id, type, title, message, target_email, listing_id, meta_json, dedupe_key, created_at
		FROM notifications WHERE target_email = $1 ORDER BY created_at DESC, id DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, userEmail, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	notifications := make([]domain.Notification, 0)
	for rows.Next() {
		var (
			n    domain.Notification
			typ  string
			meta []byte
		)
		if err := rows.Scan(&n.ID, &typ, &n.Title, &n.Message, &n.TargetEmail, &n.ListingID, &meta, &n.DedupeKey, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		n.Type = domain.NotificationType(typ)
		if err := json.Unmarshal(meta, &n.Meta); err != nil {
			return nil, fmt.Errorf("failed to decode meta of notification %d: %w", n.ID, err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during notifications iteration: %w", err)
	}
	return notifications, nil
}
