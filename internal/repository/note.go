package repository

import (
	"database/sql"
	"errors"
	"strconv"

	"github.com/jmoiron/sqlx"

	"github.com/alnotes/alnotes/internal/model"
)

var (
	ErrNoteNotFound = errors.New("note not found")
)

// NoteFilters are the optional equality filters for Search. Empty fields
// are ignored.
type NoteFilters struct {
	Stream  string
	Subject string
	Medium  string
}

type NoteRepository interface {
	Create(note *model.Note) error
	ByID(id string) (*model.Note, error)
	Search(filters NoteFilters, limit int) ([]*model.Note, error)
	Delete(id string) error
	IncrementDownloadCount(id string) error
}

type noteRepository struct {
	db *sqlx.DB
}

func NewNoteRepository(db *sqlx.DB) *noteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) Create(note *model.Note) error {
	query := `INSERT INTO notes (id, title, description, stream, subject, medium, file_url, storage_path, uploaded_by, uploader_name, download_count, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.Exec(query,
		note.ID,
		note.Title,
		note.Description,
		note.Stream,
		note.Subject,
		note.Medium,
		note.FileURL,
		note.StoragePath,
		note.UploadedBy,
		note.UploaderName,
		note.DownloadCount,
		note.CreatedAt,
	)

	return err
}

func (r *noteRepository) ByID(id string) (*model.Note, error) {
	note := &model.Note{}
	query := `SELECT * FROM notes WHERE id = $1`

	err := r.db.Get(note, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrNoteNotFound
	}

	return note, err
}

func (r *noteRepository) Search(filters NoteFilters, limit int) ([]*model.Note, error) {
	query := `SELECT * FROM notes WHERE 1=1`
	args := []any{}

	if filters.Stream != "" {
		args = append(args, filters.Stream)
		query += ` AND stream = $` + strconv.Itoa(len(args))
	}
	if filters.Subject != "" {
		args = append(args, filters.Subject)
		query += ` AND subject = $` + strconv.Itoa(len(args))
	}
	if filters.Medium != "" {
		args = append(args, filters.Medium)
		query += ` AND medium = $` + strconv.Itoa(len(args))
	}

	args = append(args, limit)
	query += ` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args))

	notes := []*model.Note{}
	err := r.db.Select(&notes, query, args...)
	if err != nil {
		return nil, err
	}

	return notes, nil
}

// Delete removes the row and confirms a row was actually removed. A delete
// that affects zero rows reports ErrNoteNotFound rather than silently
// succeeding.
func (r *noteRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNoteNotFound
	}

	return nil
}

// IncrementDownloadCount bumps the counter by one in a single statement.
// Concurrent downloads may still lose updates across statements; that is
// acceptable for a popularity counter.
func (r *noteRepository) IncrementDownloadCount(id string) error {
	result, err := r.db.Exec(`UPDATE notes SET download_count = download_count + 1 WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNoteNotFound
	}

	return nil
}
