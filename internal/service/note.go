package service

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alnotes/alnotes/internal/model"
	"github.com/alnotes/alnotes/internal/repository"
	"github.com/alnotes/alnotes/internal/storage"
)

var (
	ErrNotOwner = errors.New("only the uploader can delete a note")
)

// DefaultSearchLimit caps search results when the caller does not ask for
// fewer.
const DefaultSearchLimit = 50

type NoteService struct {
	repo       repository.NoteRepository
	storage    storage.Storage
	maxResults int
}

func NewNoteService(repo repository.NoteRepository, storage storage.Storage, maxResults int) *NoteService {
	if maxResults <= 0 {
		maxResults = DefaultSearchLimit
	}
	return &NoteService{
		repo:       repo,
		storage:    storage,
		maxResults: maxResults,
	}
}

// NoteInput is a validated upload submission. Input validation (taxonomy,
// file type, file size) is done by the caller before Create is invoked.
type NoteInput struct {
	Title       string
	Description string
	Stream      string
	Subject     string
	Medium      string
}

// Create uploads the file bytes and inserts the metadata row. The blob
// write must succeed before a row ever references it; if the insert fails
// afterwards, the fresh blob is deleted again (best effort) so it does not
// linger unreferenced.
func (s *NoteService) Create(caller *model.Identity, input NoteInput, file multipart.File, header *multipart.FileHeader) (*model.Note, error) {
	// Collision-resistant key: owner segment plus timestamped original name.
	// Never derived from the title, which users may want to change later.
	path := fmt.Sprintf("notes/%s/%d_%s", caller.ID, time.Now().UnixMilli(), sanitizeFilename(header.Filename))

	put, err := s.storage.Put(path, file, "application/pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	var description *string
	if d := strings.TrimSpace(input.Description); d != "" {
		description = &d
	}

	note := &model.Note{
		ID:            uuid.New().String(),
		Title:         input.Title,
		Description:   description,
		Stream:        input.Stream,
		Subject:       input.Subject,
		Medium:        input.Medium,
		FileURL:       put.URL,
		StoragePath:   put.Path,
		UploadedBy:    caller.ID,
		UploaderName:  caller.Name,
		DownloadCount: 0,
		CreatedAt:     time.Now(),
	}

	err = s.repo.Create(note)
	if err != nil {
		// If the insert fails, try to clean up the blob we just wrote
		delErr := s.storage.Delete(put.Path)
		if delErr != nil {
			slog.Error("failed to delete blob during cleanup", "error", delErr, "path", put.Path)
		}
		return nil, fmt.Errorf("failed to create note record: %w", err)
	}

	return note, nil
}

// Search fetches the newest rows matching the equality filters, capped at
// the result bound, then narrows by a case-insensitive substring match on
// title and description. The narrowing runs after the bounded fetch, so a
// query can return fewer rows than exist beyond the cap.
func (s *NoteService) Search(filters repository.NoteFilters, query string, limit int) ([]*model.Note, error) {
	if limit <= 0 || limit > s.maxResults {
		limit = s.maxResults
	}

	notes, err := s.repo.Search(filters, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search notes: %w", err)
	}

	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return notes, nil
	}

	matched := []*model.Note{}
	for _, note := range notes {
		if strings.Contains(strings.ToLower(note.Title), query) {
			matched = append(matched, note)
			continue
		}
		if note.Description != nil && strings.Contains(strings.ToLower(*note.Description), query) {
			matched = append(matched, note)
		}
	}

	return matched, nil
}

// Delete removes a note and its blob. Only the uploader may delete; an
// ownership mismatch aborts before any side effect. The blob delete is
// best effort, the row delete is load-bearing and its failure surfaces.
func (s *NoteService) Delete(caller *model.Identity, id string) error {
	note, err := s.repo.ByID(id)
	if err != nil {
		return err
	}

	if note.UploadedBy != caller.ID {
		return ErrNotOwner
	}

	// Delete from storage (best effort). A failure here can orphan the
	// blob, which is an accepted gap; the row delete still proceeds.
	delErr := s.storage.Delete(note.StoragePath)
	if delErr != nil {
		slog.Error("failed to delete blob from storage", "error", delErr, "path", note.StoragePath)
	}

	err = s.repo.Delete(id)
	if err != nil {
		return fmt.Errorf("failed to delete note record: %w", err)
	}

	return nil
}

// RecordDownload bumps the download counter. Fire and forget: serving the
// file URL never waits on this and a failed increment is only logged.
func (s *NoteService) RecordDownload(id string) {
	err := s.repo.IncrementDownloadCount(id)
	if err != nil {
		slog.Warn("failed to increment download count", "error", err, "note_id", id)
	}
}

// sanitizeFilename keeps storage keys to a safe character set.
func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "note.pdf"
	}
	return b.String()
}
