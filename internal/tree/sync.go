package tree

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tonimelisma/gdrive-go/internal/drive"
)

// SyncResult is the outcome of SyncNewFolder: the created folder and
// the metadata of every file that made it up, in input order.
type SyncResult struct {
	FolderID string
	Files    []drive.File
}

// SyncNewFolder is the top-level orchestration: ensure the named
// parent folder exists, create a new folder inside it, and upload
// every file into the new folder. On a partial upload failure the
// successfully created files are still reported alongside the batch
// error; the folder and the uploaded files are never rolled back.
func (t *Tree) SyncNewFolder(ctx context.Context, parentName, newName string, ups []drive.Upload) (*SyncResult, error) {
	folder, err := t.CreateFolderInParent(ctx, parentName, newName)
	if err != nil {
		return nil, fmt.Errorf("tree: creating folder %q under %q: %w", newName, parentName, err)
	}

	t.logger.Info("syncing files into new folder",
		slog.String("folder_id", folder.ID),
		slog.String("folder_name", newName),
		slog.Int("files", len(ups)),
	)

	items, batchErr := t.UploadBatch(ctx, folder.ID, ups)

	result := &SyncResult{FolderID: folder.ID}
	for _, item := range items {
		if item.File != nil {
			result.Files = append(result.Files, *item.File)
		}
	}

	if batchErr != nil {
		return result, batchErr
	}

	return result, nil
}
