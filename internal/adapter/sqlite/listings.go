package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/baytino/listingflow/internal/domain"
)

// ListingRepository implements domain.ListingRepository using SQLite.
type ListingRepository struct {
	db *sql.DB
}

// Compile-time check: ListingRepository implements domain.ListingRepository.
var _ domain.ListingRepository = (*ListingRepository)(nil)

const listingColumns = `id, title, owner_id, owner_role, status, featured, verified,
	 deleted_at, purge_at, version, created_at, updated_at`

func (r *ListingRepository) Create(ctx context.Context, l domain.Listing) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO listings (`+listingColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.Title, l.OwnerID, string(l.OwnerRole), string(l.Status),
		boolToInt(l.Featured), boolToInt(l.Verified),
		formatNullableTime(l.DeletedAt), formatNullableTime(l.PurgeAt),
		l.Version,
		formatTime(l.CreatedAt), formatTime(l.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.ConflictError{ID: l.ID}
		}
		return fmt.Errorf("inserting listing: %w", err)
	}
	return nil
}

func (r *ListingRepository) GetByID(ctx context.Context, id string) (domain.Listing, error) {
	return scanListing(r.db.QueryRowContext(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE id = ?`, id,
	))
}

func (r *ListingRepository) List(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings`
	var where []string
	var args []any

	if !filter.IncludeDeleted {
		where = append(where, `deleted_at IS NULL`)
	}
	if filter.Status != nil {
		where = append(where, `status = ?`)
		args = append(args, string(*filter.Status))
	}
	if filter.OwnerID != "" {
		where = append(where, `owner_id = ?`)
		args = append(args, filter.OwnerID)
	}

	for i, clause := range where {
		if i == 0 {
			query += ` WHERE ` + clause
		} else {
			query += ` AND ` + clause
		}
	}

	query += ` ORDER BY created_at DESC`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing listings: %w", err)
	}
	defer rows.Close()

	var listings []domain.Listing
	for rows.Next() {
		l, err := scanListingFromRows(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}

	return listings, rows.Err()
}

// Update writes the listing only if the stored row still carries
// expectedVersion, bumping the version to l.Version. A row that moved on
// concurrently yields a ConflictError; a missing row yields
// ErrListingNotFound.
func (r *ListingRepository) Update(ctx context.Context, l domain.Listing, expectedVersion int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE listings
		 SET title = ?, status = ?, featured = ?, verified = ?,
		     deleted_at = ?, purge_at = ?, version = ?, updated_at = ?
		 WHERE id = ? AND version = ?`,
		l.Title, string(l.Status), boolToInt(l.Featured), boolToInt(l.Verified),
		formatNullableTime(l.DeletedAt), formatNullableTime(l.PurgeAt),
		l.Version, formatTime(l.UpdatedAt),
		l.ID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("updating listing: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		// Distinguish a lost race from a missing row.
		var exists int
		err := r.db.QueryRowContext(ctx, `SELECT 1 FROM listings WHERE id = ?`, l.ID).Scan(&exists)
		if err == sql.ErrNoRows {
			return domain.ErrListingNotFound
		}
		if err != nil {
			return fmt.Errorf("checking listing existence: %w", err)
		}
		return &domain.ConflictError{ID: l.ID}
	}

	return nil
}

// FindPurgeEligible returns soft-deleted listings whose purge deadline
// has passed. The deadline comparison happens in Go: RFC3339Nano strings
// with variable fraction digits do not order correctly under SQL string
// comparison.
func (r *ListingRepository) FindPurgeEligible(ctx context.Context, now time.Time) ([]domain.Listing, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE deleted_at IS NOT NULL`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying deleted listings: %w", err)
	}
	defer rows.Close()

	var eligible []domain.Listing
	for rows.Next() {
		l, err := scanListingFromRows(rows)
		if err != nil {
			return nil, err
		}
		if domain.PurgeEligible(l, now) {
			eligible = append(eligible, l)
		}
	}

	return eligible, rows.Err()
}

func (r *ListingRepository) HardDelete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM listings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting listing: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrListingNotFound
	}

	return nil
}

// scanListing scans a single row from QueryRow into a domain.Listing.
func scanListing(row *sql.Row) (domain.Listing, error) {
	var l domain.Listing
	var ownerRole, status, createdAt, updatedAt string
	var featured, verified int
	var deletedAt, purgeAt sql.NullString

	err := row.Scan(&l.ID, &l.Title, &l.OwnerID, &ownerRole, &status,
		&featured, &verified, &deletedAt, &purgeAt, &l.Version,
		&createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Listing{}, domain.ErrListingNotFound
		}
		return domain.Listing{}, fmt.Errorf("scanning listing: %w", err)
	}

	fillListing(&l, ownerRole, status, featured, verified, deletedAt, purgeAt, createdAt, updatedAt)
	return l, nil
}

// scanListingFromRows scans a single row from Rows (used in List and
// FindPurgeEligible).
func scanListingFromRows(rows *sql.Rows) (domain.Listing, error) {
	var l domain.Listing
	var ownerRole, status, createdAt, updatedAt string
	var featured, verified int
	var deletedAt, purgeAt sql.NullString

	err := rows.Scan(&l.ID, &l.Title, &l.OwnerID, &ownerRole, &status,
		&featured, &verified, &deletedAt, &purgeAt, &l.Version,
		&createdAt, &updatedAt)
	if err != nil {
		return domain.Listing{}, fmt.Errorf("scanning listing row: %w", err)
	}

	fillListing(&l, ownerRole, status, featured, verified, deletedAt, purgeAt, createdAt, updatedAt)
	return l, nil
}

func fillListing(l *domain.Listing, ownerRole, status string, featured, verified int, deletedAt, purgeAt sql.NullString, createdAt, updatedAt string) {
	l.OwnerRole = domain.Role(ownerRole)
	l.Status = domain.Status(status)
	l.Featured = featured != 0
	l.Verified = verified != 0
	l.DeletedAt = parseNullableTime(deletedAt)
	l.PurgeAt = parseNullableTime(purgeAt)
	l.CreatedAt = parseTime(createdAt)
	l.UpdatedAt = parseTime(updatedAt)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
