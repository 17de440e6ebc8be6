package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"carnet/internal/logging"
	"carnet/internal/models"
	"carnet/internal/pdf"
	"carnet/internal/repositories"
	"carnet/internal/storage"
)

const pdfContentType = "application/pdf"

// ExportService renders notes to PDF and, when object storage is
// configured, publishes them behind presigned links.
type ExportService interface {
	PDF(ctx context.Context, userID, noteID int64) (*models.Note, []byte, error)
	Share(ctx context.Context, userID, noteID int64) (*models.SharedExport, error)
}

type exportService struct {
	db       *sql.DB
	repos    repositories.Manager
	notes    NoteService
	renderer pdf.Renderer
	store    storage.ObjectStore
	linkTTL  time.Duration
	log      logging.Logger
	now      func() time.Time
}

// NewExportService accepts a nil store; Share then returns
// ErrStorageDisabled.
func NewExportService(db *sql.DB, repos repositories.Manager, notes NoteService, renderer pdf.Renderer, store storage.ObjectStore, linkTTL time.Duration, log logging.Logger) ExportService {
	return &exportService{
		db:       db,
		repos:    repos,
		notes:    notes,
		renderer: renderer,
		store:    store,
		linkTTL:  linkTTL,
		log:      log.With("service", "export"),
		now:      time.Now,
	}
}

func (s *exportService) PDF(ctx context.Context, userID, noteID int64) (*models.Note, []byte, error) {
	note, err := s.notes.Get(ctx, userID, noteID)
	if err != nil {
		return nil, nil, err
	}
	user, err := s.repos.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, nil, notFound(err)
	}
	body, err := s.renderer.RenderNote(note, user.Username)
	if err != nil {
		return nil, nil, err
	}
	return note, body, nil
}

func (s *exportService) Share(ctx context.Context, userID, noteID int64) (*models.SharedExport, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}
	_, body, err := s.PDF(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("exports/%d/%d-%s.pdf", userID, noteID, uuid.NewString())
	if err := s.store.Put(ctx, key, pdfContentType, body); err != nil {
		return nil, err
	}
	expiresAt := s.now().Add(s.linkTTL)
	link, err := s.store.PresignGet(ctx, key, s.linkTTL)
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "note shared", "user_id", userID, "note_id", noteID, "key", key)
	return &models.SharedExport{URL: link, ExpiresAt: expiresAt}, nil
}
