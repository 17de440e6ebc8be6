package pdf

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carnet/internal/models"
)

func sampleNote() *models.Note {
	return &models.Note{
		ID:        4,
		UserID:    1,
		Title:     "Café shopping list",
		Content:   strings.Repeat("milk, eggs, bread\n", 200),
		UpdatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestRenderNote_CoreFont(t *testing.T) {
	out, err := NewNoteRenderer("").RenderNote(sampleNote(), "alice")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.True(t, bytes.Contains(out, []byte("%%EOF")))
}

func TestRenderNote_EmptyContent(t *testing.T) {
	n := sampleNote()
	n.Content = ""
	out, err := NewNoteRenderer("").RenderNote(n, "alice")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestRenderNote_MissingFontFile(t *testing.T) {
	r := NewNoteRenderer(filepath.Join(t.TempDir(), "missing.ttf"))
	_, err := r.RenderNote(sampleNote(), "alice")
	assert.Error(t, err)
}
