package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/alnotes/alnotes/internal/ctxkeys"
	"github.com/alnotes/alnotes/internal/repository"
	"github.com/alnotes/alnotes/internal/service"
	"github.com/alnotes/alnotes/internal/taxonomy"
	"github.com/alnotes/alnotes/internal/validation"
)

// Parsing headroom above the upload limit so an oversized file is rejected
// by validation with a clear message instead of a broken multipart read.
const maxUploadMemory = validation.MaxNoteSize + 1<<20

type NoteHandler struct {
	noteService *service.NoteService
}

func NewNoteHandler(noteService *service.NoteService) *NoteHandler {
	return &NoteHandler{noteService: noteService}
}

// Create handles POST /notes. Validation fails fast in order: file
// present, file type, file size, then taxonomy fields.
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller := ctxkeys.Identity(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadMemory)
	err := r.ParseMultipartForm(32 << 20)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid upload form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, validation.ErrFileRequired.Error())
		return
	}
	defer func() { _ = file.Close() }()

	err = validation.ValidateNotePDF(header)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	input := service.NoteInput{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: r.FormValue("description"),
		Stream:      r.FormValue("stream"),
		Subject:     r.FormValue("subject"),
		Medium:      r.FormValue("medium"),
	}

	if input.Title == "" {
		writeError(w, http.StatusBadRequest, "Title is required")
		return
	}
	if !taxonomy.ValidStream(input.Stream) {
		writeError(w, http.StatusBadRequest, "Unknown stream")
		return
	}
	if !taxonomy.ValidPair(input.Stream, input.Subject) {
		writeError(w, http.StatusBadRequest, "Subject is not valid for the selected stream")
		return
	}
	if !taxonomy.ValidMedium(input.Medium) {
		writeError(w, http.StatusBadRequest, "Unknown medium")
		return
	}

	note, err := h.noteService.Create(caller, input, file, header)
	if err != nil {
		slog.Error("note upload failed", "error", err, "uploaded_by", caller.ID)
		writeError(w, http.StatusInternalServerError, "Upload failed")
		return
	}

	slog.Info("note uploaded", "note_id", note.ID, "stream", note.Stream, "subject", note.Subject, "uploaded_by", caller.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"id":      note.ID,
		"fileUrl": note.FileURL,
	})
}

// Search handles GET /notes. All query params are optional; unknown filter
// values simply match nothing.
func (h *NoteHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filters := repository.NoteFilters{
		Stream:  q.Get("stream"),
		Subject: q.Get("subject"),
		Medium:  q.Get("medium"),
	}

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	notes, err := h.noteService.Search(filters, q.Get("q"), limit)
	if err != nil {
		slog.Error("note search failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Search failed")
		return
	}

	writeJSON(w, http.StatusOK, notes)
}

// Delete handles DELETE /notes/{id}.
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller := ctxkeys.Identity(r.Context())
	id := r.PathValue("id")

	err := h.noteService.Delete(caller, id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNoteNotFound):
			writeError(w, http.StatusNotFound, "Note not found")
		case errors.Is(err, service.ErrNotOwner):
			writeError(w, http.StatusForbidden, "You can only delete your own notes")
		default:
			slog.Error("note delete failed", "error", err, "note_id", id, "caller", caller.ID)
			writeError(w, http.StatusInternalServerError, "Delete failed")
		}
		return
	}

	slog.Info("note deleted", "note_id", id, "caller", caller.ID)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// RecordDownload handles POST /notes/{id}/downloads. The ack is
// unconditional: a failed increment must never get between a student and
// the file.
func (h *NoteHandler) RecordDownload(w http.ResponseWriter, r *http.Request) {
	h.noteService.RecordDownload(r.PathValue("id"))
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
