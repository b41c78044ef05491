package tree

import (
	"context"

	"github.com/tonimelisma/gdrive-go/internal/drive"
)

// UploadFile creates a new file under parentID and grants link access
// on it. Same partial-failure contract as CreateFolder: a failed grant
// leaves the file in place and surfaces as *UnsharedError.
func (t *Tree) UploadFile(ctx context.Context, parentID string, up drive.Upload) (*drive.File, error) {
	file, err := t.api.Upload(ctx, parentID, up)
	if err != nil {
		return nil, err
	}

	if err := t.api.CreatePermission(ctx, file.ID); err != nil {
		return nil, &UnsharedError{File: file, Err: err}
	}

	return file, nil
}

// ReplaceFile replaces an existing file's bytes. Parents are never
// touched, and no permission grant is issued — the object keeps the
// grant it received at creation.
func (t *Tree) ReplaceFile(ctx context.Context, fileID string, up drive.Upload) (*drive.File, error) {
	return t.api.Update(ctx, fileID, up)
}

// DeleteFile removes a single file. Deleting an already-gone ID
// succeeds.
func (t *Tree) DeleteFile(ctx context.Context, fileID string) error {
	return t.api.Delete(ctx, fileID)
}

// ListChildren returns a folder's non-trashed children, optionally
// restricted to folders.
func (t *Tree) ListChildren(ctx context.Context, folderID string, foldersOnly bool) ([]drive.File, error) {
	return t.api.ListChildren(ctx, folderID, drive.ListOptions{FoldersOnly: foldersOnly})
}

// FirstChild returns a folder's first non-trashed child, or nil for an
// empty folder.
func (t *Tree) FirstChild(ctx context.Context, folderID string) (*drive.File, error) {
	children, err := t.api.ListChildren(ctx, folderID, drive.ListOptions{})
	if err != nil {
		return nil, err
	}

	if len(children) == 0 {
		return nil, nil
	}

	return &children[0], nil
}
