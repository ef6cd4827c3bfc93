package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// DriveStorage implements Storage on the Google Drive v3 files API. Drive
// assigns its own file ids, so Put returns the Drive id as the blob
// identifier, not the requested path.
type DriveStorage struct {
	client    *http.Client
	folderID  string
	uploadURL string // overrideable in tests
	filesURL  string
}

// DriveConfig holds configuration for Drive storage. The refresh token is
// exchanged for access tokens via the standard OAuth token endpoint.
type DriveConfig struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	FolderID     string
}

// NewDriveStorage creates a Drive storage instance
func NewDriveStorage(cfg DriveConfig) (*DriveStorage, error) {
	if cfg.RefreshToken == "" {
		return nil, fmt.Errorf("drive storage requires a refresh token")
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       []string{"https://www.googleapis.com/auth/drive.file"},
		Endpoint:     google.Endpoint,
	}

	token := &oauth2.Token{RefreshToken: cfg.RefreshToken}
	client := oauthCfg.Client(context.Background(), token)
	client.Timeout = 30 * time.Second

	slog.Info("drive storage ready", "folder_id", cfg.FolderID)

	return &DriveStorage{
		client:    client,
		folderID:  cfg.FolderID,
		uploadURL: "https://www.googleapis.com/upload/drive/v3/files",
		filesURL:  "https://www.googleapis.com/drive/v3/files",
	}, nil
}

// Put uploads the blob with a multipart/related request (metadata part plus
// media part), then makes the file link-readable. The permission grant is
// an optional side effect: its failure is logged and never fails the upload.
func (d *DriveStorage) Put(path string, file io.Reader, contentType string) (*PutResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	metadata := map[string]any{
		"name":     path,
		"mimeType": contentType,
	}
	if d.folderID != "" {
		metadata["parents"] = []string{d.folderID}
	}

	metaHeader := textproto.MIMEHeader{}
	metaHeader.Set("Content-Type", "application/json; charset=UTF-8")
	metaPart, err := writer.CreatePart(metaHeader)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	err = json.NewEncoder(metaPart).Encode(metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}

	mediaHeader := textproto.MIMEHeader{}
	mediaHeader.Set("Content-Type", contentType)
	mediaPart, err := writer.CreatePart(mediaHeader)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	_, err = io.Copy(mediaPart, file)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload payload: %w", err)
	}

	err = writer.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, d.uploadURL+"?uploadType=multipart", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", "multipart/related; boundary="+writer.Boundary())

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to upload to Drive: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		// Drain the body for logging only; the caller gets a generic error.
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		slog.Error("drive upload rejected", "status", resp.StatusCode, "body", string(detail))
		return nil, fmt.Errorf("failed to upload to Drive: status %d", resp.StatusCode)
	}

	var uploaded struct {
		ID string `json:"id"`
	}
	err = json.NewDecoder(resp.Body).Decode(&uploaded)
	if err != nil || uploaded.ID == "" {
		return nil, fmt.Errorf("failed to decode Drive upload response: %w", err)
	}

	d.shareWithLink(uploaded.ID)

	return &PutResult{
		Path: uploaded.ID,
		URL:  fmt.Sprintf("https://drive.google.com/uc?id=%s&export=download", uploaded.ID),
	}, nil
}

// shareWithLink grants anyone-with-the-link read access. Best effort: a
// private file is still downloadable by its owner, so an error here must
// not fail the upload.
func (d *DriveStorage) shareWithLink(fileID string) {
	permission, err := json.Marshal(map[string]string{
		"role": "reader",
		"type": "anyone",
	})
	if err != nil {
		return
	}

	permURL := fmt.Sprintf("%s/%s/permissions", d.filesURL, url.PathEscape(fileID))
	resp, err := d.client.Post(permURL, "application/json", bytes.NewReader(permission))
	if err != nil {
		slog.Warn("drive permission grant failed", "error", err, "file_id", fileID)
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("drive permission grant rejected", "status", resp.StatusCode, "file_id", fileID)
	}
}

// Delete removes the Drive file with the given id
func (d *DriveStorage) Delete(path string) error {
	req, err := http.NewRequest(http.MethodDelete, d.filesURL+"/"+url.PathEscape(path), nil)
	if err != nil {
		return fmt.Errorf("failed to build delete request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to delete from Drive: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Drive returns 204 on success; 404 means the blob is already gone.
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("failed to delete from Drive: status %d", resp.StatusCode)
	}

	return nil
}
