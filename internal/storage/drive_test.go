package storage

import (
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// driveFixture runs a stub of the Drive v3 API and returns a DriveStorage
// pointed at it, bypassing the OAuth transport entirely.
type driveFixture struct {
	storage *DriveStorage

	uploadName     string
	uploadMime     string
	uploadParents  []string
	uploadMedia    []byte
	permissionBody map[string]string
	deletedIDs     []string

	permissionStatus int
	deleteStatus     int
}

func newDriveFixture(t *testing.T) *driveFixture {
	t.Helper()

	f := &driveFixture{
		permissionStatus: http.StatusOK,
		deleteStatus:     http.StatusNoContent,
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/upload":
			f.handleUpload(t, w, r)
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/permissions"):
			_ = json.NewDecoder(r.Body).Decode(&f.permissionBody)
			w.WriteHeader(f.permissionStatus)
		case r.Method == http.MethodDelete:
			f.deletedIDs = append(f.deletedIDs, strings.TrimPrefix(r.URL.Path, "/files/"))
			w.WriteHeader(f.deleteStatus)
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusTeapot)
		}
	}))
	t.Cleanup(server.Close)

	f.storage = &DriveStorage{
		client:    server.Client(),
		folderID:  "folder-123",
		uploadURL: server.URL + "/upload",
		filesURL:  server.URL + "/files",
	}
	return f
}

func (f *driveFixture) handleUpload(t *testing.T, w http.ResponseWriter, r *http.Request) {
	t.Helper()

	if got := r.URL.Query().Get("uploadType"); got != "multipart" {
		t.Errorf("uploadType = %q, expected multipart", got)
	}

	mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/related" {
		t.Errorf("upload Content-Type = %q (%v)", r.Header.Get("Content-Type"), err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	reader := multipart.NewReader(r.Body, params["boundary"])

	metaPart, err := reader.NextPart()
	if err != nil {
		t.Errorf("reading metadata part: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	var metadata struct {
		Name     string   `json:"name"`
		MimeType string   `json:"mimeType"`
		Parents  []string `json:"parents"`
	}
	if err := json.NewDecoder(metaPart).Decode(&metadata); err != nil {
		t.Errorf("decoding metadata part: %v", err)
	}
	f.uploadName = metadata.Name
	f.uploadMime = metadata.MimeType
	f.uploadParents = metadata.Parents

	mediaPart, err := reader.NextPart()
	if err != nil {
		t.Errorf("reading media part: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	f.uploadMedia, _ = io.ReadAll(mediaPart)

	_ = json.NewEncoder(w).Encode(map[string]string{"id": "drive-file-1"})
}

func TestDriveStoragePut(t *testing.T) {
	f := newDriveFixture(t)

	content := "%PDF-1.4 drive payload"
	result, err := f.storage.Put("notes/amara@example.com/1_notes.pdf", strings.NewReader(content), "application/pdf")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	if result.Path != "drive-file-1" {
		t.Errorf("result.Path = %q, expected the Drive file id", result.Path)
	}
	if result.URL != "https://drive.google.com/uc?id=drive-file-1&export=download" {
		t.Errorf("result.URL = %q", result.URL)
	}

	if f.uploadName != "notes/amara@example.com/1_notes.pdf" {
		t.Errorf("uploaded name = %q", f.uploadName)
	}
	if f.uploadMime != "application/pdf" {
		t.Errorf("uploaded mimeType = %q", f.uploadMime)
	}
	if len(f.uploadParents) != 1 || f.uploadParents[0] != "folder-123" {
		t.Errorf("uploaded parents = %v, expected the configured folder", f.uploadParents)
	}
	if string(f.uploadMedia) != content {
		t.Errorf("uploaded media = %q", f.uploadMedia)
	}

	// The file is shared for anyone-with-the-link reads.
	if f.permissionBody["role"] != "reader" || f.permissionBody["type"] != "anyone" {
		t.Errorf("permission grant = %v", f.permissionBody)
	}
}

// A rejected permission grant must not fail the upload; the owner can still
// reach the file.
func TestDriveStoragePutPermissionFailureIgnored(t *testing.T) {
	f := newDriveFixture(t)
	f.permissionStatus = http.StatusForbidden

	result, err := f.storage.Put("notes/a@example.com/1_notes.pdf", strings.NewReader("%PDF-1.4"), "application/pdf")
	if err != nil {
		t.Fatalf("Put = %v, expected success despite permission failure", err)
	}
	if result.Path != "drive-file-1" {
		t.Errorf("result.Path = %q", result.Path)
	}
}

func TestDriveStoragePutUploadRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInsufficientStorage)
	}))
	t.Cleanup(server.Close)

	drive := &DriveStorage{
		client:    server.Client(),
		uploadURL: server.URL + "/upload",
		filesURL:  server.URL + "/files",
	}

	if _, err := drive.Put("notes/a@example.com/1_notes.pdf", strings.NewReader("%PDF-1.4"), "application/pdf"); err == nil {
		t.Fatal("Put succeeded despite a rejected upload")
	}
}

func TestDriveStorageDelete(t *testing.T) {
	f := newDriveFixture(t)

	if err := f.storage.Delete("drive-file-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(f.deletedIDs) != 1 || f.deletedIDs[0] != "drive-file-1" {
		t.Errorf("deleted ids = %v", f.deletedIDs)
	}
}

// An already-gone blob is not an error; the metadata row removal that
// follows must not be blocked by it.
func TestDriveStorageDeleteMissingBlob(t *testing.T) {
	f := newDriveFixture(t)
	f.deleteStatus = http.StatusNotFound

	if err := f.storage.Delete("drive-file-1"); err != nil {
		t.Fatalf("Delete of missing blob = %v, expected nil", err)
	}
}

func TestDriveStorageDeleteServerError(t *testing.T) {
	f := newDriveFixture(t)
	f.deleteStatus = http.StatusInternalServerError

	if err := f.storage.Delete("drive-file-1"); err == nil {
		t.Fatal("Delete succeeded despite a server error")
	}
}

func TestNewDriveStorageRequiresRefreshToken(t *testing.T) {
	_, err := NewDriveStorage(DriveConfig{ClientID: "id", ClientSecret: "secret"})
	if err == nil {
		t.Fatal("NewDriveStorage accepted an empty refresh token")
	}
}
