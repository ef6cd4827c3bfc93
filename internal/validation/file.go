package validation

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

// MaxNoteSize is the upload limit for a single note PDF.
const MaxNoteSize = 50 << 20 // 50 MiB

var (
	ErrFileRequired = errors.New("file is required")
	ErrNotPDF       = errors.New("only PDF files are allowed")
	ErrFileTooLarge = errors.New("file size must be 50 MB or less")
)

// ValidateNotePDF checks an uploaded note file, failing fast in order:
// presence, content type, size. The declared Content-Type must be exactly
// application/pdf and the first bytes must sniff as a PDF, so renaming a
// file is not enough to get past the check.
func ValidateNotePDF(header *multipart.FileHeader) error {
	if header == nil {
		return ErrFileRequired
	}

	if err := validatePDFType(header); err != nil {
		return err
	}

	if header.Size > MaxNoteSize {
		return ErrFileTooLarge
	}

	return nil
}

func validatePDFType(header *multipart.FileHeader) error {
	declared := header.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(declared)
	if err != nil || mediaType != "application/pdf" {
		return ErrNotPDF
	}

	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != ".pdf" {
		return ErrNotPDF
	}

	file, err := header.Open()
	if err != nil {
		return ErrNotPDF
	}
	defer func() { _ = file.Close() }()

	// Read up to 512 bytes for magic number detection; http.DetectContentType
	// never looks further than that.
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return ErrNotPDF
	}

	if http.DetectContentType(buffer[:n]) != "application/pdf" {
		return ErrNotPDF
	}

	return nil
}
