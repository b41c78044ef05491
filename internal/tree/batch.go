package tree

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tonimelisma/gdrive-go/internal/drive"
)

// BatchItem is the per-item outcome of a batch operation. Exactly one
// of File and Err is meaningful; Index always matches the input
// position.
type BatchItem struct {
	Index int
	File  *drive.File
	Err   error
}

// BatchError reports that some items of a batch failed. The batch is
// never aborted mid-way and successes are never discarded: the full
// per-item result list accompanies this error.
type BatchError struct {
	Failed int
	Total  int
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("tree: %d of %d batch items failed", e.Failed, e.Total)
}

// UploadBatch uploads files one at a time in input order, so results
// align index-for-index with the input. An item's failure does not
// stop the remaining items. Empty input returns an empty result
// without any network call. When any item failed, the full result list
// is returned together with a *BatchError.
func (t *Tree) UploadBatch(ctx context.Context, parentID string, ups []drive.Upload) ([]BatchItem, error) {
	return t.runBatch(ctx, "upload", len(ups), func(i int) (*drive.File, error) {
		return t.UploadFile(ctx, parentID, ups[i])
	})
}

// ReplaceBatch replaces files one at a time in input order. Each item
// must carry the ID of the file it replaces. Same contract as
// UploadBatch.
func (t *Tree) ReplaceBatch(ctx context.Context, ups []drive.Upload) ([]BatchItem, error) {
	return t.runBatch(ctx, "replace", len(ups), func(i int) (*drive.File, error) {
		if ups[i].ID == "" {
			return nil, fmt.Errorf("tree: replace item %d: %w", i, drive.ErrEmptyID)
		}

		return t.ReplaceFile(ctx, ups[i].ID, ups[i])
	})
}

// DeleteBatch deletes files one at a time in input order. Deletes are
// 404-tolerant. Same contract as UploadBatch; successful items carry a
// nil File.
func (t *Tree) DeleteBatch(ctx context.Context, ids []string) ([]BatchItem, error) {
	return t.runBatch(ctx, "delete", len(ids), func(i int) (*drive.File, error) {
		return nil, t.DeleteFile(ctx, ids[i])
	})
}

// runBatch drives a sequential batch: one remote call at a time, in
// input order, accumulating per-item results. Cancellation between
// items is a terminal failure carrying the partial results.
func (t *Tree) runBatch(ctx context.Context, kind string, n int, op func(i int) (*drive.File, error)) ([]BatchItem, error) {
	if n == 0 {
		return []BatchItem{}, nil
	}

	t.logger.Info("running batch",
		slog.String("kind", kind),
		slog.Int("items", n),
	)

	results := make([]BatchItem, 0, n)

	failed := 0

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("tree: %s batch canceled after %d of %d items: %w", kind, i, n, err)
		}

		file, err := op(i)
		if err != nil {
			failed++

			t.logger.Warn("batch item failed",
				slog.String("kind", kind),
				slog.Int("index", i),
				slog.String("error", err.Error()),
			)
		}

		results = append(results, BatchItem{Index: i, File: file, Err: err})
	}

	if failed > 0 {
		return results, &BatchError{Failed: failed, Total: n}
	}

	return results, nil
}
