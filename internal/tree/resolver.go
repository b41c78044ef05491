package tree

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tonimelisma/gdrive-go/internal/drive"
)

// UnsharedError reports a permission grant that failed after the
// object itself was created. The object is NOT rolled back — it exists
// remotely in a "created, unshared" state, and File identifies it so
// the caller can retry the grant or clean up.
type UnsharedError struct {
	File *drive.File
	Err  error
}

func (e *UnsharedError) Error() string {
	return fmt.Sprintf("tree: created %q (%s) but permission grant failed: %v", e.File.Name, e.File.ID, e.Err)
}

func (e *UnsharedError) Unwrap() error {
	return e.Err
}

// FindFolderByName returns the first non-trashed folder with the exact
// name, or nil when none exists. Drive does not enforce name
// uniqueness; with duplicates this resolves to an arbitrary one.
func (t *Tree) FindFolderByName(ctx context.Context, name string) (*drive.File, error) {
	return t.api.FindFolderByName(ctx, name)
}

// FindFolderInParent confirms folderID is a child folder of parentID,
// returning it or nil.
func (t *Tree) FindFolderInParent(ctx context.Context, parentID, folderID string) (*drive.File, error) {
	children, err := t.api.ListChildren(ctx, parentID, drive.ListOptions{FoldersOnly: true})
	if err != nil {
		return nil, err
	}

	for i := range children {
		if children[i].ID == folderID {
			return &children[i], nil
		}
	}

	return nil, nil
}

// EnsureFolder returns the folder named name, creating it when absent.
// Find-then-create over a non-transactional remote store: two racing
// callers for the same unseen name can both create, leaving duplicate
// names. Callers needing exclusivity must serialize themselves.
func (t *Tree) EnsureFolder(ctx context.Context, name string) (*drive.File, error) {
	existing, err := t.api.FindFolderByName(ctx, name)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		t.logger.Debug("folder already exists",
			slog.String("name", name),
			slog.String("folder_id", existing.ID),
		)

		return existing, nil
	}

	return t.CreateFolder(ctx, name, "")
}

// CreateFolder creates a folder (under parentID, or at the root when
// empty) and grants link access on it. A failed grant does not roll
// the folder back; it surfaces as *UnsharedError carrying the created
// folder.
func (t *Tree) CreateFolder(ctx context.Context, name, parentID string) (*drive.File, error) {
	folder, err := t.api.CreateFolderMeta(ctx, name, parentID)
	if err != nil {
		return nil, err
	}

	if err := t.api.CreatePermission(ctx, folder.ID); err != nil {
		return nil, &UnsharedError{File: folder, Err: err}
	}

	return folder, nil
}

// CreateFolderInParent ensures the named parent exists, then creates a
// new folder inside it.
func (t *Tree) CreateFolderInParent(ctx context.Context, parentName, newName string) (*drive.File, error) {
	parent, err := t.EnsureFolder(ctx, parentName)
	if err != nil {
		return nil, fmt.Errorf("tree: ensuring parent %q: %w", parentName, err)
	}

	return t.CreateFolder(ctx, newName, parent.ID)
}
