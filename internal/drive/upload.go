package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
)

// Upload is the unit submitted for upload and replace calls: a raw
// byte payload with a name, plus the existing file ID when replacing.
type Upload struct {
	// ID is the file being replaced. Empty for new uploads.
	ID string
	// Name is the remote file name for new uploads.
	Name string
	// MimeType of the content. Empty lets Drive sniff it.
	MimeType string
	// Content is the full byte payload.
	Content []byte
}

// updateMetadata is the metadata part of a replace call. It must never
// carry a parents field: the v3 update endpoint rejects parent
// mutation, so replace only touches name and content.
type updateMetadata struct {
	Name     string `json:"name,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
}

// Upload creates a new file under parentID with a single
// multipart/related call (uploadType=multipart): a JSON metadata part
// followed by the media part.
func (c *Client) Upload(ctx context.Context, parentID string, up Upload) (*File, error) {
	if parentID == "" {
		return nil, fmt.Errorf("drive: Upload: %w", ErrEmptyID)
	}

	if up.Name == "" {
		return nil, fmt.Errorf("drive: Upload: %w", ErrEmptyName)
	}

	if len(up.Content) == 0 {
		return nil, fmt.Errorf("drive: Upload %q: %w", up.Name, ErrEmptyContent)
	}

	c.logger.Info("uploading file",
		slog.String("name", up.Name),
		slog.String("parent_id", parentID),
		slog.Int("size", len(up.Content)),
	)

	meta := fileMetadata{
		Name:     up.Name,
		MimeType: up.MimeType,
		Parents:  []string{parentID},
	}

	body, contentType, err := multipartBody(meta, up)
	if err != nil {
		return nil, err
	}

	path := "/files?uploadType=multipart&fields=" + url.QueryEscape(fileFields)

	resp, err := c.DoUpload(ctx, http.MethodPost, path, contentType, body)
	if err != nil {
		return nil, err
	}

	return c.decodeFile(resp, "upload")
}

// Update replaces an existing file's content (and optionally name) with
// a multipart PATCH. Parents are left untouched.
func (c *Client) Update(ctx context.Context, fileID string, up Upload) (*File, error) {
	if fileID == "" {
		return nil, fmt.Errorf("drive: Update: %w", ErrEmptyID)
	}

	if len(up.Content) == 0 {
		return nil, fmt.Errorf("drive: Update %s: %w", fileID, ErrEmptyContent)
	}

	c.logger.Info("replacing file content",
		slog.String("file_id", fileID),
		slog.Int("size", len(up.Content)),
	)

	meta := updateMetadata{
		Name:     up.Name,
		MimeType: up.MimeType,
	}

	body, contentType, err := multipartBody(meta, up)
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/files/%s?uploadType=multipart&fields=%s",
		url.PathEscape(fileID), url.QueryEscape(fileFields))

	resp, err := c.DoUpload(ctx, http.MethodPatch, path, contentType, body)
	if err != nil {
		return nil, err
	}

	return c.decodeFile(resp, "update")
}

// multipartBody assembles a multipart/related body with a JSON
// metadata part and a media part, returning the body and its
// Content-Type (including the boundary).
func multipartBody(meta any, up Upload) (*bytes.Buffer, string, error) {
	metaBytes, err := json.Marshal(meta)
	if err != nil {
		return nil, "", fmt.Errorf("drive: marshaling upload metadata: %w", err)
	}

	var buf bytes.Buffer

	w := multipart.NewWriter(&buf)

	metaHeader := textproto.MIMEHeader{}
	metaHeader.Set("Content-Type", "application/json; charset=UTF-8")

	metaPart, err := w.CreatePart(metaHeader)
	if err != nil {
		return nil, "", fmt.Errorf("drive: creating metadata part: %w", err)
	}

	if _, err := metaPart.Write(metaBytes); err != nil {
		return nil, "", fmt.Errorf("drive: writing metadata part: %w", err)
	}

	mediaType := up.MimeType
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}

	mediaHeader := textproto.MIMEHeader{}
	mediaHeader.Set("Content-Type", mediaType)

	mediaPart, err := w.CreatePart(mediaHeader)
	if err != nil {
		return nil, "", fmt.Errorf("drive: creating media part: %w", err)
	}

	if _, err := mediaPart.Write(up.Content); err != nil {
		return nil, "", fmt.Errorf("drive: writing media part: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("drive: finalizing multipart body: %w", err)
	}

	return &buf, "multipart/related; boundary=" + w.Boundary(), nil
}
