// Package tree implements the remote file-tree synchronization engine
// on top of the Drive wire client: find-or-create folder resolution,
// recursive subtree deletion, and ordered batch upload/replace/delete.
//
// The engine holds no persistent state. Every operation queries or
// mutates the live remote service, and every invariant spanning more
// than one call (create-then-grant, list-then-delete) is best effort:
// a crash between calls leaves the remote tree in an intermediate,
// caller-visible state.
package tree

import (
	"context"
	"log/slog"

	"github.com/tonimelisma/gdrive-go/internal/drive"
)

// API is the slice of the Drive client the engine consumes. Defined
// here so tests can substitute a fake wire layer.
type API interface {
	FindFolderByName(ctx context.Context, name string) (*drive.File, error)
	ListChildren(ctx context.Context, parentID string, opts drive.ListOptions) ([]drive.File, error)
	CreateFolderMeta(ctx context.Context, name, parentID string) (*drive.File, error)
	Upload(ctx context.Context, parentID string, up drive.Upload) (*drive.File, error)
	Update(ctx context.Context, fileID string, up drive.Upload) (*drive.File, error)
	Delete(ctx context.Context, fileID string) error
	CreatePermission(ctx context.Context, fileID string) error
}

// Tree is the remote tree engine. All methods take a context and
// propagate cancellation through every network suspension point; a
// canceled operation fails with the context error, never a silent stop.
type Tree struct {
	api    API
	logger *slog.Logger
}

// New creates a Tree over the given wire API.
func New(api API, logger *slog.Logger) *Tree {
	if api == nil {
		panic("tree: New requires an API")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Tree{api: api, logger: logger}
}
