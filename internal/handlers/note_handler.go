package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"carnet/internal/logging"
	"carnet/internal/models"
	"carnet/internal/services"
)

type NoteHandler struct {
	notes   services.NoteService
	exports services.ExportService
	log     logging.Logger
}

func NewNoteHandler(notes services.NoteService, exports services.ExportService, log logging.Logger) *NoteHandler {
	return &NoteHandler{notes: notes, exports: exports, log: log.With("handler", "notes")}
}

// @Summary      Create note
// @Tags         Notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        note  body      models.NoteRequest  true  "Note"
// @Success      201   {object}  models.Note
// @Failure      422   {object}  map[string][]validation.FieldError
// @Router       /notes [post]
func (h *NoteHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req models.NoteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	note, err := h.notes.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

// @Summary      List notes
// @Description  Pages through the caller's notes ordered by id
// @Tags         Notes
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Page size (default 10)"
// @Success      200    {object}  models.Page
// @Router       /notes [get]
func (h *NoteHandler) Index(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, err := h.notes.List(c.Request.Context(), userID, queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// @Summary      Show note
// @Tags         Notes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Note ID"
// @Success      200  {object}  models.Note
// @Failure      404  {object}  map[string]string
// @Router       /notes/{id} [get]
func (h *NoteHandler) Show(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := noteID(c)
	if !ok {
		return
	}
	note, err := h.notes.Get(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

// @Summary      Update note
// @Tags         Notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                 true  "Note ID"
// @Param        note  body      models.NoteRequest  true  "Note"
// @Success      200   {object}  models.Note
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string][]validation.FieldError
// @Router       /notes/{id} [put]
func (h *NoteHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := noteID(c)
	if !ok {
		return
	}
	var req models.NoteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	note, err := h.notes.Update(c.Request.Context(), userID, id, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

// @Summary      Delete note
// @Tags         Notes
// @Security     BearerAuth
// @Param        id  path  int  true  "Note ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /notes/{id} [delete]
func (h *NoteHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := noteID(c)
	if !ok {
		return
	}
	if err := h.notes.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary      Download note as PDF
// @Tags         Notes
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id   path  int  true  "Note ID"
// @Success      200  {file}  file
// @Failure      404  {object}  map[string]string
// @Router       /notes/{id}/pdf [get]
func (h *NoteHandler) PDF(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := noteID(c)
	if !ok {
		return
	}
	note, body, err := h.exports.PDF(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="note-%d.pdf"`, note.ID))
	c.Data(http.StatusOK, "application/pdf", body)
}

// @Summary      Share note as PDF
// @Description  Uploads a PDF export and returns a temporary download link
// @Tags         Notes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Note ID"
// @Success      200  {object}  models.SharedExport
// @Failure      404  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /notes/{id}/share [post]
func (h *NoteHandler) Share(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := noteID(c)
	if !ok {
		return
	}
	shared, err := h.exports.Share(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, shared)
}
