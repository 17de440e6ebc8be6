package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"carnet/internal/dbx"
	"carnet/internal/models"
)

// NoteRepository only exposes lookups scoped by the owning user.
type NoteRepository interface {
	Create(ctx context.Context, note *models.Note) error
	ListForUser(ctx context.Context, userID int64, limit, offset int) ([]models.Note, error)
	CountForUser(ctx context.Context, userID int64) (int, error)
	FindForUser(ctx context.Context, userID, noteID int64) (*models.Note, error)
	UpdateForUser(ctx context.Context, note *models.Note) error
	DeleteForUser(ctx context.Context, userID, noteID int64) error
}

type noteRepository struct {
	db dbx.DBTX
}

func NewNoteRepository(db dbx.DBTX) NoteRepository {
	return &noteRepository{db: db}
}

const noteColumns = `id, user_id, title, content, created_at, updated_at`

func scanNote(row interface{ Scan(...any) error }) (*models.Note, error) {
	n := &models.Note{}
	if err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return n, nil
}

func (r *noteRepository) Create(ctx context.Context, note *models.Note) error {
	const q = `
		INSERT INTO notes (user_id, title, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, q, note.UserID, note.Title, note.Content).
		Scan(&note.ID, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		return fmt.Errorf("note create: %w", err)
	}
	return nil
}

func (r *noteRepository) ListForUser(ctx context.Context, userID int64, limit, offset int) ([]models.Note, error) {
	q := `SELECT ` + noteColumns + ` FROM notes WHERE user_id = $1 ORDER BY id LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("note list: %w", err)
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("note list scan: %w", err)
		}
		notes = append(notes, *n)
	}
	return notes, rows.Err()
}

func (r *noteRepository) CountForUser(ctx context.Context, userID int64) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notes WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return 0, fmt.Errorf("note count: %w", err)
	}
	return total, nil
}

func (r *noteRepository) FindForUser(ctx context.Context, userID, noteID int64) (*models.Note, error) {
	q := `SELECT ` + noteColumns + ` FROM notes WHERE id = $1 AND user_id = $2`
	n, err := scanNote(r.db.QueryRowContext(ctx, q, noteID, userID))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("note find: %w", err)
	}
	return n, err
}

func (r *noteRepository) UpdateForUser(ctx context.Context, note *models.Note) error {
	const q = `
		UPDATE notes SET title = $1, content = $2, updated_at = NOW()
		WHERE id = $3 AND user_id = $4
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, q, note.Title, note.Content, note.ID, note.UserID).
		Scan(&note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("note update: %w", err)
	}
	return nil
}

func (r *noteRepository) DeleteForUser(ctx context.Context, userID, noteID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1 AND user_id = $2`, noteID, userID)
	if err != nil {
		return fmt.Errorf("note delete: %w", err)
	}
	return expectAffected(res)
}
