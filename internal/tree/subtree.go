package tree

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/tonimelisma/gdrive-go/internal/drive"
)

// maxSubtreeDepth bounds recursion so a pathologically deep (or
// cyclic, via a misbehaving service) remote tree cannot grow the call
// stack without limit.
const maxSubtreeDepth = 128

// ErrTooDeep is returned when DeleteSubtree descends past
// maxSubtreeDepth levels.
var ErrTooDeep = errors.New("tree: subtree exceeds maximum depth")

// DeleteSubtree removes a folder and every descendant. Children at the
// same level are deleted concurrently; a folder's own delete never
// starts before all of its children's deletes have settled. Deleting a
// folder that is already gone succeeds, so repeated or concurrent
// invocations converge on the same end state.
func (t *Tree) DeleteSubtree(ctx context.Context, folderID string) error {
	t.logger.Info("deleting subtree", slog.String("folder_id", folderID))

	return t.deleteSubtree(ctx, folderID, 0)
}

func (t *Tree) deleteSubtree(ctx context.Context, folderID string, depth int) error {
	if depth >= maxSubtreeDepth {
		return fmt.Errorf("%w: %d levels under %s", ErrTooDeep, depth, folderID)
	}

	children, err := t.api.ListChildren(ctx, folderID, drive.ListOptions{})
	if err != nil {
		if errors.Is(err, drive.ErrNotFound) {
			// The folder is already gone, and so is everything under it.
			t.logger.Debug("subtree root already gone", slog.String("folder_id", folderID))

			return nil
		}

		return fmt.Errorf("tree: listing children of %s: %w", folderID, err)
	}

	// Fan out sibling deletions. errgroup.Wait blocks until every
	// goroutine has settled, which is what keeps the cross-level
	// ordering strict: the folder itself is only deleted below, after
	// Wait returns clean.
	g, gctx := errgroup.WithContext(ctx)

	for i := range children {
		child := children[i]

		g.Go(func() error {
			if child.IsFolder() {
				return t.deleteSubtree(gctx, child.ID, depth+1)
			}

			return t.api.Delete(gctx, child.ID)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	return t.api.Delete(ctx, folderID)
}
