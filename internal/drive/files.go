package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// FolderMimeType marks a Drive file as a container.
const FolderMimeType = "application/vnd.google-apps.folder"

// listPageSize is the pageSize for ListChildren requests. 1000 is the
// maximum the files.list endpoint accepts.
const listPageSize = 1000

// fileFields is the field projection requested on every metadata call.
// Requesting only what we read keeps responses small and forces the
// File struct to stay honest about what it carries.
const fileFields = "id,name,mimeType,parents,size,modifiedTime,trashed"

// File represents a Drive file or folder. Fields are normalized from
// the API response; callers never see raw API data.
type File struct {
	ID         string
	Name       string
	MimeType   string
	Parents    []string
	Size       int64
	ModifiedAt time.Time
	Trashed    bool
}

// IsFolder reports whether the file is a folder container.
func (f *File) IsFolder() bool {
	return f.MimeType == FolderMimeType
}

// fileResponse mirrors the Drive API file resource JSON exactly.
// Unexported — callers use File via toFile() normalization.
type fileResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	MimeType     string   `json:"mimeType"`
	Parents      []string `json:"parents"`
	Size         string   `json:"size"` // Drive serializes int64 as string
	ModifiedTime string   `json:"modifiedTime"`
	Trashed      bool     `json:"trashed"`
}

type fileListResponse struct {
	Files []fileResponse `json:"files"`
}

// fileMetadata is the JSON request body for metadata create calls.
type fileMetadata struct {
	Name          string            `json:"name"`
	MimeType      string            `json:"mimeType,omitempty"`
	Parents       []string          `json:"parents,omitempty"`
	AppProperties map[string]string `json:"appProperties,omitempty"`
}

// toFile normalizes an API file resource into our File type.
func (r *fileResponse) toFile(logger *slog.Logger) File {
	f := File{
		ID:       r.ID,
		Name:     r.Name,
		MimeType: r.MimeType,
		Parents:  r.Parents,
		Trashed:  r.Trashed,
	}

	if r.Size != "" {
		n, err := strconv.ParseInt(r.Size, 10, 64)
		if err != nil {
			logger.Warn("unparseable size in file resource",
				slog.String("file_id", r.ID),
				slog.String("raw", r.Size),
			)
		} else {
			f.Size = n
		}
	}

	if r.ModifiedTime != "" {
		t, err := time.Parse(time.RFC3339, r.ModifiedTime)
		if err != nil {
			logger.Warn("invalid modifiedTime in file resource",
				slog.String("file_id", r.ID),
				slog.String("raw", r.ModifiedTime),
			)
		} else {
			f.ModifiedAt = t
		}
	}

	return f
}

// decodeFile decodes a single file resource from a response body and
// closes it.
func (c *Client) decodeFile(resp *http.Response, what string) (*File, error) {
	defer resp.Body.Close()

	var fr fileResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		return nil, fmt.Errorf("drive: decoding %s response: %w", what, err)
	}

	f := fr.toFile(c.logger)

	return &f, nil
}

// GetFile retrieves a single file's metadata by ID.
func (c *Client) GetFile(ctx context.Context, fileID string) (*File, error) {
	if fileID == "" {
		return nil, fmt.Errorf("drive: GetFile: %w", ErrEmptyID)
	}

	c.logger.Debug("getting file", slog.String("file_id", fileID))

	path := fmt.Sprintf("/files/%s?fields=%s", url.PathEscape(fileID), url.QueryEscape(fileFields))

	resp, err := c.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	return c.decodeFile(resp, "file")
}

// ListOptions filters a ListChildren call.
type ListOptions struct {
	// FoldersOnly restricts results to folder containers.
	FoldersOnly bool
	// Name restricts results to an exact (escaped) name match.
	Name string
}

// ListChildren returns the non-trashed children of a folder in the
// order the service returns them. A single page is fetched — the
// engine never walks pagination cursors, so trees wider than the page
// size surface at most the first page per level.
func (c *Client) ListChildren(ctx context.Context, parentID string, opts ListOptions) ([]File, error) {
	if parentID == "" {
		return nil, fmt.Errorf("drive: ListChildren: %w", ErrEmptyID)
	}

	q := newQuery().inParent(parentID).notTrashed()
	if opts.FoldersOnly {
		q = q.foldersOnly()
	}

	if opts.Name != "" {
		q = q.named(opts.Name)
	}

	return c.listFiles(ctx, q)
}

// FindFolderByName queries for a non-trashed folder with the exact
// name anywhere in the corpus. Names are not unique in Drive; the
// first match wins, so duplicate-name folders resolve to an arbitrary
// one. Returns nil when nothing matches.
func (c *Client) FindFolderByName(ctx context.Context, name string) (*File, error) {
	if name == "" {
		return nil, fmt.Errorf("drive: FindFolderByName: %w", ErrEmptyName)
	}

	c.logger.Debug("finding folder by name", slog.String("name", name))

	files, err := c.listFiles(ctx, newQuery().named(name).foldersOnly().notTrashed())
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		return nil, nil
	}

	return &files[0], nil
}

// listFiles executes a files.list call with the given query.
func (c *Client) listFiles(ctx context.Context, q *query) ([]File, error) {
	params := url.Values{}
	params.Set("q", q.String())
	params.Set("fields", fmt.Sprintf("files(%s)", fileFields))
	params.Set("pageSize", fmt.Sprint(listPageSize))

	resp, err := c.Do(ctx, http.MethodGet, "/files?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var flr fileListResponse
	if err := json.NewDecoder(resp.Body).Decode(&flr); err != nil {
		return nil, fmt.Errorf("drive: decoding file list response: %w", err)
	}

	files := make([]File, 0, len(flr.Files))
	for i := range flr.Files {
		files = append(files, flr.Files[i].toFile(c.logger))
	}

	c.logger.Debug("listed files",
		slog.String("query", q.String()),
		slog.Int("count", len(files)),
	)

	return files, nil
}

// CreateFolderMeta creates a folder by metadata alone. parentID may be
// empty to create at the root. An idempotency token is stored in
// appProperties so externally-deduplicating callers can correlate
// duplicate creations after a find-or-create race.
func (c *Client) CreateFolderMeta(ctx context.Context, name, parentID string) (*File, error) {
	if name == "" {
		return nil, fmt.Errorf("drive: CreateFolderMeta: %w", ErrEmptyName)
	}

	c.logger.Info("creating folder",
		slog.String("name", name),
		slog.String("parent_id", parentID),
	)

	meta := fileMetadata{
		Name:          name,
		MimeType:      FolderMimeType,
		AppProperties: map[string]string{"gdriveGoToken": uuid.NewString()},
	}
	if parentID != "" {
		meta.Parents = []string{parentID}
	}

	bodyBytes, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("drive: marshaling folder metadata: %w", err)
	}

	path := "/files?fields=" + url.QueryEscape(fileFields)

	resp, err := c.Do(ctx, http.MethodPost, path, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, err
	}

	return c.decodeFile(resp, "create folder")
}

// Delete removes a file or folder by ID. A 404 is converted to
// success: the goal state "object gone" already holds, and deletions
// must stay idempotent under repeated or concurrent invocation.
func (c *Client) Delete(ctx context.Context, fileID string) error {
	if fileID == "" {
		return fmt.Errorf("drive: Delete: %w", ErrEmptyID)
	}

	c.logger.Info("deleting file", slog.String("file_id", fileID))

	resp, err := c.Do(ctx, http.MethodDelete, "/files/"+url.PathEscape(fileID), nil)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.logger.Debug("delete target already gone", slog.String("file_id", fileID))

			return nil
		}

		return err
	}

	// 204 No Content on success.
	return drainAndClose(resp.Body)
}
