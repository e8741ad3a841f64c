package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/baytino/listingflow/internal/domain"
)

// PostRepository implements domain.PostRepository using SQLite.
type PostRepository struct {
	db *sql.DB
}

// Compile-time check: PostRepository implements domain.PostRepository.
var _ domain.PostRepository = (*PostRepository)(nil)

const postColumns = `id, title, owner_id, owner_role, status, admin_note,
	 approved_by, approved_at, version, created_at, updated_at`

func (r *PostRepository) Create(ctx context.Context, p domain.Post) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO posts (`+postColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.OwnerID, string(p.OwnerRole), string(p.Status),
		p.AdminNote, p.ApprovedBy, formatNullableTime(p.ApprovedAt),
		p.Version,
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.ConflictError{ID: p.ID}
		}
		return fmt.Errorf("inserting post: %w", err)
	}
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (domain.Post, error) {
	return scanPost(r.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE id = ?`, id,
	))
}

func (r *PostRepository) List(ctx context.Context, filter domain.PostFilter) ([]domain.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts`
	var where []string
	var args []any

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
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		p, err := scanPostFromRows(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}

	return posts, rows.Err()
}

// Update writes the post only if the stored row still carries
// expectedVersion. Same conditional semantics as ListingRepository.Update.
func (r *PostRepository) Update(ctx context.Context, p domain.Post, expectedVersion int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE posts
		 SET title = ?, status = ?, admin_note = ?, approved_by = ?,
		     approved_at = ?, version = ?, updated_at = ?
		 WHERE id = ? AND version = ?`,
		p.Title, string(p.Status), p.AdminNote, p.ApprovedBy,
		formatNullableTime(p.ApprovedAt), p.Version, formatTime(p.UpdatedAt),
		p.ID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("updating post: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		var exists int
		err := r.db.QueryRowContext(ctx, `SELECT 1 FROM posts WHERE id = ?`, p.ID).Scan(&exists)
		if err == sql.ErrNoRows {
			return domain.ErrPostNotFound
		}
		if err != nil {
			return fmt.Errorf("checking post existence: %w", err)
		}
		return &domain.ConflictError{ID: p.ID}
	}

	return nil
}

// scanPost scans a single row from QueryRow into a domain.Post.
func scanPost(row *sql.Row) (domain.Post, error) {
	var p domain.Post
	var ownerRole, status, createdAt, updatedAt string
	var approvedAt sql.NullString

	err := row.Scan(&p.ID, &p.Title, &p.OwnerID, &ownerRole, &status,
		&p.AdminNote, &p.ApprovedBy, &approvedAt, &p.Version,
		&createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Post{}, domain.ErrPostNotFound
		}
		return domain.Post{}, fmt.Errorf("scanning post: %w", err)
	}

	fillPost(&p, ownerRole, status, approvedAt, createdAt, updatedAt)
	return p, nil
}

// scanPostFromRows scans a single row from Rows (used in List).
func scanPostFromRows(rows *sql.Rows) (domain.Post, error) {
	var p domain.Post
	var ownerRole, status, createdAt, updatedAt string
	var approvedAt sql.NullString

	err := rows.Scan(&p.ID, &p.Title, &p.OwnerID, &ownerRole, &status,
		&p.AdminNote, &p.ApprovedBy, &approvedAt, &p.Version,
		&createdAt, &updatedAt)
	if err != nil {
		return domain.Post{}, fmt.Errorf("scanning post row: %w", err)
	}

	fillPost(&p, ownerRole, status, approvedAt, createdAt, updatedAt)
	return p, nil
}

func fillPost(p *domain.Post, ownerRole, status string, approvedAt sql.NullString, createdAt, updatedAt string) {
	p.OwnerRole = domain.Role(ownerRole)
	p.Status = domain.Status(status)
	p.ApprovedAt = parseNullableTime(approvedAt)
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
}
