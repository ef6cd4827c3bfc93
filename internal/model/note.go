package model

import (
	"time"
)

// Note is a single uploaded study note. The row and its blob are paired by
// StoragePath; UploadedBy is the sole ownership key and never changes.
type Note struct {
	ID            string    `db:"id" json:"id"`
	Title         string    `db:"title" json:"title"`
	Description   *string   `db:"description" json:"description"`
	Stream        string    `db:"stream" json:"stream"`
	Subject       string    `db:"subject" json:"subject"`
	Medium        string    `db:"medium" json:"medium"`
	FileURL       string    `db:"file_url" json:"fileUrl"`
	StoragePath   string    `db:"storage_path" json:"storagePath"`
	UploadedBy    string    `db:"uploaded_by" json:"uploadedBy"`
	UploaderName  string    `db:"uploader_name" json:"uploaderName"`
	DownloadCount int64     `db:"download_count" json:"downloadCount"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}
