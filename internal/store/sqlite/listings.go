package sqlite

import (
	"context"
	"database/sql"
	"encoding/json/v2"
	"fmt"
	"strings"

	"github.com/thriftshopper/thriftshopper-server/internal/domain"
	"github.com/thriftshopper/thriftshopper-server/internal/store"
)

// listingColumns is the ordered list of columns selected in listing queries.
// Must match the scan order in scanListing.
const listingColumns = `id, created_at, updated_at, seller_id, title, description,
	category, image_url, status, styles, moods, intents, price_cents`

// scanListing scans a sql.Row (or sql.Rows via its Scan method) into a domain.Listing.
func scanListing(scanner interface{ Scan(dest ...any) error }) (*domain.Listing, error) {
	var l domain.Listing

	var (
		createdAt string
		updatedAt string
		sellerID  sql.NullString
		desc      sql.NullString
		category  sql.NullString
		imageURL  sql.NullString
		status    string
		styles    string
		moods     string
		intents   string
	)

	err := scanner.Scan(
		&l.ID,
		&createdAt,
		&updatedAt,
		&sellerID,
		&l.Title,
		&desc,
		&category,
		&imageURL,
		&status,
		&styles,
		&moods,
		&intents,
		&l.PriceCents,
	)
	if err != nil {
		return nil, err
	}

	// Parse timestamps.
	l.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	l.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	// Optional string fields.
	if sellerID.Valid {
		l.SellerID = sellerID.String
	}
	if desc.Valid {
		l.Description = desc.String
	}
	if category.Valid {
		l.Category = category.String
	}
	if imageURL.Valid {
		l.ImageURL = imageURL.String
	}

	l.Status = domain.ListingStatus(status)

	// Label columns are JSON, but StringList tolerates the artifacts
	// older writers left behind.
	if err := json.Unmarshal([]byte(styles), &l.Styles); err != nil {
		return nil, fmt.Errorf("unmarshal styles: %w", err)
	}
	if err := json.Unmarshal([]byte(moods), &l.Moods); err != nil {
		return nil, fmt.Errorf("unmarshal moods: %w", err)
	}
	if err := json.Unmarshal([]byte(intents), &l.Intents); err != nil {
		return nil, fmt.Errorf("unmarshal intents: %w", err)
	}

	return &l, nil
}

// labelArgs marshals the three label containers for storage.
func labelArgs(l *domain.Listing) (styles, moods, intents string, err error) {
	stylesJSON, err := json.Marshal(l.Styles)
	if err != nil {
		return "", "", "", fmt.Errorf("marshal styles: %w", err)
	}
	moodsJSON, err := json.Marshal(l.Moods)
	if err != nil {
		return "", "", "", fmt.Errorf("marshal moods: %w", err)
	}
	intentsJSON, err := json.Marshal(l.Intents)
	if err != nil {
		return "", "", "", fmt.Errorf("marshal intents: %w", err)
	}
	return string(stylesJSON), string(moodsJSON), string(intentsJSON), nil
}

// CreateListing inserts a listing row.
// Returns store.ErrAlreadyExists on duplicate ID.
func (s *Store) CreateListing(ctx context.Context, listing *domain.Listing) error {
	styles, moods, intents, err := labelArgs(listing)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO listings (
			id, created_at, updated_at, seller_id, title, description,
			category, image_url, status, styles, moods, intents, price_cents
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		listing.ID,
		formatTime(listing.CreatedAt),
		formatTime(listing.UpdatedAt),
		nullString(listing.SellerID),
		listing.Title,
		nullString(listing.Description),
		nullString(listing.Category),
		nullString(listing.ImageURL),
		string(listing.Status),
		styles, moods, intents,
		listing.PriceCents,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}

	if err := s.searchIndexer.IndexListing(listing); err != nil {
		s.logger.Warn("index listing after create", "listing_id", listing.ID, "error", err)
	}

	return nil
}

// GetListing retrieves a listing by ID.
// Returns store.ErrNotFound if the listing does not exist.
func (s *Store) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE id = ?`, id)

	l, err := scanListing(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// GetListingsByIDs retrieves listings for the given IDs, preserving the
// input order. IDs with no matching row are silently skipped.
func (s *Store) GetListingsByIDs(ctx context.Context, ids []string) ([]*domain.Listing, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids)-1) + "?"
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[string]*domain.Listing, len(ids))
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		byID[l.ID] = l
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reassemble in input order.
	out := make([]*domain.Listing, 0, len(byID))
	for _, id := range ids {
		if l, ok := byID[id]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}

// UpdateListing replaces all mutable fields of a listing.
// Returns store.ErrNotFound if the listing does not exist.
func (s *Store) UpdateListing(ctx context.Context, listing *domain.Listing) error {
	styles, moods, intents, err := labelArgs(listing)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE listings SET
			updated_at = ?, seller_id = ?, title = ?, description = ?,
			category = ?, image_url = ?, status = ?,
			styles = ?, moods = ?, intents = ?, price_cents = ?
		WHERE id = ?`,
		formatTime(listing.UpdatedAt),
		nullString(listing.SellerID),
		listing.Title,
		nullString(listing.Description),
		nullString(listing.Category),
		nullString(listing.ImageURL),
		string(listing.Status),
		styles, moods, intents,
		listing.PriceCents,
		listing.ID,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}

	if err := s.searchIndexer.IndexListing(listing); err != nil {
		s.logger.Warn("index listing after update", "listing_id", listing.ID, "error", err)
	}

	return nil
}

// UpdateListingStatus changes just the lifecycle status of a listing.
// Returns store.ErrNotFound if the listing does not exist.
func (s *Store) UpdateListingStatus(ctx context.Context, id string, status domain.ListingStatus) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE listings SET status = ?, updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
		WHERE id = ?`,
		string(status), id,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}

	// Reindex with fresh state so the status filter stays accurate.
	l, err := s.GetListing(ctx, id)
	if err != nil {
		return err
	}
	if err := s.searchIndexer.IndexListing(l); err != nil {
		s.logger.Warn("index listing after status change", "listing_id", id, "error", err)
	}

	return nil
}

// ListListingsByStatus returns listings with the given status, newest
// first. A non-positive limit means no limit.
func (s *Store) ListListingsByStatus(ctx context.Context, status domain.ListingStatus, limit int) ([]*domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE status = ? ORDER BY created_at DESC`
	args := []any{string(status)}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectListings(rows)
}

// ListAllListings returns every listing regardless of status. Used for
// index rebuilds.
func (s *Store) ListAllListings(ctx context.Context) ([]*domain.Listing, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+listingColumns+` FROM listings ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectListings(rows)
}

// CountListings counts listings with the given status. An empty status
// counts everything.
func (s *Store) CountListings(ctx context.Context, status domain.ListingStatus) (int, error) {
	var count int
	var err error
	if status == "" {
		err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM listings`).Scan(&count)
	} else {
		err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM listings WHERE status = ?`, string(status)).Scan(&count)
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}

// collectListings drains rows into a slice.
func collectListings(rows *sql.Rows) ([]*domain.Listing, error) {
	var listings []*domain.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return listings, nil
}
