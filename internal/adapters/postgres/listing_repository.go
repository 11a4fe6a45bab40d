package postgres_adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
)

const listingColumns = `id, owner_email, main_category, title, description, structured_json, status, geohash, created_at, valid_until`

// PostgresListingRepository stores listings. The record is kept whole in
// structured_json; its searchable fields are copied into plain columns.
type PostgresListingRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresListingRepository(pool *pgxpool.Pool) (*PostgresListingRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresListingRepository{pool: pool}, nil
}

var _ port.ListingStoragePort = (*PostgresListingRepository)(nil)

func (r *PostgresListingRepository) Create(ctx context.Context, l domain.Listing) (int64, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PostgresListingRepository",
		"method":    "Create",
		"owner":     l.OwnerEmail,
	})

	record, err := json.Marshal(l.Record)
	if err != nil {
		return 0, fmt.Errorf("failed to encode listing record: %w", err)
	}

	query := `INSERT INTO listings (owner_email, main_category, title, description, structured_json,
			location, price, pricing_type, phone, model_name, manufacture_year, sub_category,
			geohash, status, created_at, valid_until)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id`

	var id int64
	err = r.pool.QueryRow(ctx, query,
		l.OwnerEmail, string(l.Category), l.Title, l.Description, record,
		l.Record.Location, l.Record.Price, string(l.Record.PricingType), l.Record.Phone,
		l.Record.ModelName, l.Record.ManufactureYear, l.Record.SubCategory,
		l.Geohash, string(l.Status), l.CreatedAt, l.ValidUntil,
	).Scan(&id)
	if err != nil {
		repoLogger.Error("Failed to insert listing", err, nil)
		return 0, fmt.Errorf("failed to insert listing: %w", err)
	}

	repoLogger.Debug("Listing stored", port.Fields{"listing_id": id})
	return id, nil
}

func (r *PostgresListingRepository) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`
	l, err := scanListing(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query listing %d: %w", id, err)
	}
	return l, nil
}

func (r *PostgresListingRepository) ListByOwner(ctx context.Context, ownerEmail string, limit int) ([]domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE owner_email = $1 ORDER BY created_at DESC LIMIT $2`
	return r.queryListings(ctx, "ListByOwner", query, ownerEmail, limit)
}

func (r *PostgresListingRepository) ListRecentApproved(ctx context.Context, limit int) ([]domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE status = $1 ORDER BY created_at DESC LIMIT $2`
	return r.queryListings(ctx, "ListRecentApproved", query, string(domain.ListingApproved), limit)
}

func (r *PostgresListingRepository) FindCandidates(ctx context.Context, q domain.SearchQuery, limit int) ([]domain.Listing, error) {
	query, args := buildCandidateQuery(q, limit)
	return r.queryListings(ctx, "FindCandidates", query, args...)
}

func (r *PostgresListingRepository) ArchiveExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `UPDATE listings SET status = $1 WHERE status = $2 AND valid_until < $3`
	cmdTag, err := r.pool.Exec(ctx, query, string(domain.ListingArchived), string(domain.ListingApproved), now)
	if err != nil {
		return 0, fmt.Errorf("failed to archive expired listings: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}

func (r *PostgresListingRepository) queryListings(ctx context.Context, method, query string, args ...any) ([]domain.Listing, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PostgresListingRepository",
		"method":    method,
	})

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		repoLogger.Error("Failed to query listings", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	listings := make([]domain.Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			repoLogger.Error("Failed to scan listing row", err, nil)
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, *l)
	}
	if err := rows.Err(); err != nil {
		repoLogger.Error("Error during listings iteration", err, nil)
		return nil, fmt.Errorf("error during listings iteration: %w", err)
	}

	repoLogger.Debug("Listings loaded", port.Fields{"count": len(listings)})
	return listings, nil
}

func scanListing(row pgx.Row) (*domain.Listing, error) {
	var (
		l        domain.Listing
		category string
		status   string
		record   []byte
	)
	if err := row.Scan(&l.ID, &l.OwnerEmail, &category, &l.Title, &l.Description, &record,
		&status, &l.Geohash, &l.CreatedAt, &l.ValidUntil); err != nil {
		return nil, err
	}
	l.Category = domain.Category(category)
	l.Status = domain.ListingStatus(status)
	if err := json.Unmarshal(record, &l.Record); err != nil {
		return nil, fmt.Errorf("failed to decode record of listing %d: %w", l.ID, err)
	}
	return &l, nil
}

// whereBuilder collects AND-ed conditions with positional arguments.
type whereBuilder struct {
	conds []string
	args  []any
}

// add appends cond after replacing each "?" with the next placeholder.
func (w *whereBuilder) add(cond string, args ...any) {
	for _, a := range args {
		w.args = append(w.args, a)
		cond = strings.Replace(cond, "?", fmt.Sprintf("$%d", len(w.args)), 1)
	}
	w.conds = append(w.conds, cond)
}

func (w *whereBuilder) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(s)) + "%"
}

// buildCandidateQuery narrows listings on indexed columns only. Every
// condition is implied by the match engine, so the engine still sees every
// listing that could match.
func buildCandidateQuery(q domain.SearchQuery, limit int) (string, []any) {
	c := q.Criterion
	w := &whereBuilder{}
	w.add("status = ?", string(domain.ListingApproved))

	if c.Category != "" {
		w.add("main_category = ?", string(c.Category))
	}
	if text := strings.TrimSpace(q.Text); text != "" {
		w.add("(title ILIKE ? OR description ILIKE ?)", containsPattern(text), containsPattern(text))
	}

	locations := make([]string, 0, len(c.Locations))
	for _, loc := range c.Locations {
		if strings.TrimSpace(loc) != "" {
			locations = append(locations, containsPattern(loc))
		}
	}
	if len(locations) > 0 {
		w.add("location ILIKE ANY(?)", locations)
	}

	if !c.PriceIgnored {
		if c.PriceMin != nil {
			w.add("price >= ?", *c.PriceMin)
		}
		if c.PriceMax != nil {
			w.add("price <= ?", *c.PriceMax)
		}
	}

	if c.Category == "" || c.Category.HasManufactureYear() {
		if c.YearMin != nil {
			w.add("manufacture_year >= ?", *c.YearMin)
		}
		if c.YearMax != nil {
			w.add("manufacture_year <= ?", *c.YearMax)
		}
	}

	w.args = append(w.args, limit)
	query := fmt.Sprintf("SELECT %s FROM listings%s ORDER BY created_at DESC LIMIT $%d", listingColumns, w.sql(), len(w.args))
	return query, w.args
}
