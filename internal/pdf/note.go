// Package pdf renders notes as printable PDF documents.
package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"carnet/internal/models"
)

// Renderer is implemented by NoteRenderer; services depend on this so tests
// can swap it out.
type Renderer interface {
	RenderNote(note *models.Note, author string) ([]byte, error)
}

// NoteRenderer lays out a note on A4 pages. With FontPath set to a TTF file
// any UTF-8 text renders; otherwise the core Helvetica font is used and text
// is translated to cp1252.
type NoteRenderer struct {
	FontPath string
}

func NewNoteRenderer(fontPath string) *NoteRenderer {
	return &NoteRenderer{FontPath: fontPath}
}

func (r *NoteRenderer) RenderNote(note *models.Note, author string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(note.Title, true)
	pdf.SetAuthor(author, true)
	pdf.SetCreator("Carnet", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	font, tr := r.setupFont(pdf)
	pdf.AddPage()

	pdf.SetFont(font, "B", 18)
	pdf.MultiCell(0, 9, tr(note.Title), "", "L", false)

	pdf.SetFont(font, "", 10)
	pdf.SetTextColor(110, 110, 110)
	meta := fmt.Sprintf("%s  |  updated %s", author, note.UpdatedAt.UTC().Format(time.RFC1123))
	pdf.CellFormat(0, 6, tr(meta), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	r.hr(pdf)

	pdf.SetFont(font, "", 12)
	pdf.MultiCell(0, 6, tr(note.Content), "", "L", false)

	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(font, "", 9)
		pdf.CellFormat(0, 10, fmt.Sprintf("%d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render note %d: %w", note.ID, err)
	}
	return buf.Bytes(), nil
}

func (r *NoteRenderer) setupFont(pdf *gofpdf.Fpdf) (string, func(string) string) {
	if r.FontPath == "" {
		return "Helvetica", pdf.UnicodeTranslatorFromDescriptor("")
	}
	pdf.AddUTF8Font("NoteFont", "", r.FontPath)
	pdf.AddUTF8Font("NoteFont", "B", r.FontPath)
	return "NoteFont", func(s string) string { return s }
}

func (r *NoteRenderer) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 4)
}
