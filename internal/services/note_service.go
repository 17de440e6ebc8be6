package services

import (
	"context"
	"database/sql"
	"errors"

	"carnet/internal/logging"
	"carnet/internal/models"
	"carnet/internal/repositories"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// NoteService exposes notes only through the owning user's id; a note that
// belongs to someone else is reported as ErrNotFound.
type NoteService interface {
	Create(ctx context.Context, userID int64, req *models.NoteRequest) (*models.Note, error)
	List(ctx context.Context, userID int64, page, limit int) (*models.Page, error)
	Get(ctx context.Context, userID, noteID int64) (*models.Note, error)
	Update(ctx context.Context, userID, noteID int64, req *models.NoteRequest) (*models.Note, error)
	Delete(ctx context.Context, userID, noteID int64) error
}

type noteService struct {
	db    *sql.DB
	repos repositories.Manager
	log   logging.Logger
}

func NewNoteService(db *sql.DB, repos repositories.Manager, log logging.Logger) NoteService {
	return &noteService{db: db, repos: repos, log: log.With("service", "notes")}
}

func (s *noteService) Create(ctx context.Context, userID int64, req *models.NoteRequest) (*models.Note, error) {
	note := &models.Note{UserID: userID, Title: req.Title, Content: req.Content}
	if err := s.repos.Notes(s.db).Create(ctx, note); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "note created", "user_id", userID, "note_id", note.ID)
	return note, nil
}

// List returns one page ordered by id. Values below 1 fall back to
// DefaultPage and DefaultLimit; limit has no upper bound.
func (s *noteService) List(ctx context.Context, userID int64, page, limit int) (*models.Page, error) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	repo := s.repos.Notes(s.db)
	total, err := repo.CountForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &models.Page{Meta: models.NewPageMeta(total, page, limit), Data: []models.Note{}}
	if page-1 > (total-1)/limit {
		return out, nil
	}
	notes, err := repo.ListForUser(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	out.Data = notes
	return out, nil
}

func (s *noteService) Get(ctx context.Context, userID, noteID int64) (*models.Note, error) {
	note, err := s.repos.Notes(s.db).FindForUser(ctx, userID, noteID)
	if err != nil {
		return nil, notFound(err)
	}
	return note, nil
}

func (s *noteService) Update(ctx context.Context, userID, noteID int64, req *models.NoteRequest) (*models.Note, error) {
	note := &models.Note{ID: noteID, UserID: userID, Title: req.Title, Content: req.Content}
	if err := s.repos.Notes(s.db).UpdateForUser(ctx, note); err != nil {
		return nil, notFound(err)
	}
	s.log.Info(ctx, "note updated", "user_id", userID, "note_id", noteID)
	return note, nil
}

func (s *noteService) Delete(ctx context.Context, userID, noteID int64) error {
	if err := s.repos.Notes(s.db).DeleteForUser(ctx, userID, noteID); err != nil {
		return notFound(err)
	}
	s.log.Info(ctx, "note deleted", "user_id", userID, "note_id", noteID)
	return nil
}

func notFound(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
