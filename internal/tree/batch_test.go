package tree

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonimelisma/gdrive-go/internal/drive"
)

func someUploads(names ...string) []drive.Upload {
	ups := make([]drive.Upload, 0, len(names))
	for _, n := range names {
		ups = append(ups, drive.Upload{Name: n, Content: []byte("content of " + n)})
	}

	return ups
}

func TestUploadBatch_EmptyInput(t *testing.T) {
	api := newFakeAPI()
	tr := newTestTree(api)

	results, err := tr.UploadBatch(context.Background(), "P1", nil)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Empty(t, api.callLog(), "empty batch must issue zero network calls")
}

func TestUploadBatch_OrderPreserved(t *testing.T) {
	// Results align with input order even when per-call latency
	// varies, because items are issued one at a time.
	api := newFakeAPI()
	api.uploadWait = func(up drive.Upload) time.Duration {
		if up.Name == "a" {
			return 30 * time.Millisecond
		}

		return time.Millisecond
	}

	tr := newTestTree(api)

	results, err := tr.UploadBatch(context.Background(), "P1", someUploads("a", "b", "c"))
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, name := range []string{"a", "b", "c"} {
		assert.Equal(t, i, results[i].Index)
		require.NotNil(t, results[i].File)
		assert.Equal(t, name, results[i].File.Name)
	}

	// Sequential issuance: upload for b starts only after a settles
	// (grant for a precedes upload for b in the call log).
	calls := api.callLog()
	require.Len(t, calls, 6)
	assert.Equal(t, "upload:a", calls[0])
	assert.Equal(t, "upload:b", calls[2])
	assert.Equal(t, "upload:c", calls[4])
}

func TestUploadBatch_ContinuesPastFailure(t *testing.T) {
	// One item's failure neither aborts the rest nor shifts result
	// indexes.
	uploadFailure := errors.New("quota exceeded")

	api := newFakeAPI()
	api.uploadErr = func(up drive.Upload) error {
		if up.Name == "b" {
			return uploadFailure
		}

		return nil
	}

	tr := newTestTree(api)

	results, err := tr.UploadBatch(context.Background(), "P1", someUploads("a", "b", "c"))
	require.Error(t, err)

	var batchErr *BatchError
	require.ErrorAs(t, err, &batchErr)
	assert.Equal(t, 1, batchErr.Failed)
	assert.Equal(t, 3, batchErr.Total)

	require.Len(t, results, 3)
	assert.NotNil(t, results[0].File)
	assert.Nil(t, results[1].File)
	assert.ErrorIs(t, results[1].Err, uploadFailure)
	assert.NotNil(t, results[2].File, "successes after the failure are kept")
}

func TestUploadBatch_GrantFailureIsItemFailure(t *testing.T) {
	api := newFakeAPI()
	api.grantErr = func(fileID string) error {
		return errors.New("sharing disabled")
	}

	tr := newTestTree(api)

	results, err := tr.UploadBatch(context.Background(), "P1", someUploads("a"))
	require.Error(t, err)
	require.Len(t, results, 1)

	var unshared *UnsharedError
	require.ErrorAs(t, results[0].Err, &unshared)
	assert.Equal(t, "a", unshared.File.Name)
}

func TestUploadBatch_Cancellation(t *testing.T) {
	// Cancellation between items is a distinct terminal failure
	// carrying the partial results.
	ctx, cancel := context.WithCancel(context.Background())

	api := newFakeAPI()
	api.uploadErr = func(up drive.Upload) error {
		if up.Name == "a" {
			cancel()
		}

		return nil
	}

	tr := newTestTree(api)

	results, err := tr.UploadBatch(ctx, "P1", someUploads("a", "b", "c"))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, results, 1, "items before cancellation are reported")
}

func TestReplaceBatch(t *testing.T) {
	api := newFakeAPI()
	tr := newTestTree(api)

	ups := []drive.Upload{
		{ID: "X1", Content: []byte("one")},
		{ID: "X2", Content: []byte("two")},
	}

	results, err := tr.ReplaceBatch(context.Background(), ups)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "X1", results[0].File.ID)
	assert.Equal(t, "X2", results[1].File.ID)
	assert.Equal(t, []string{"update:X1", "update:X2"}, api.callLog())
}

func TestReplaceBatch_MissingIDRejectedLocally(t *testing.T) {
	api := newFakeAPI()
	tr := newTestTree(api)

	ups := []drive.Upload{
		{ID: "X1", Content: []byte("one")},
		{Content: []byte("no id")},
	}

	results, err := tr.ReplaceBatch(context.Background(), ups)
	require.Error(t, err)
	require.Len(t, results, 2)
	assert.ErrorIs(t, results[1].Err, drive.ErrEmptyID)

	// The bad item never reached the wire.
	assert.Equal(t, []string{"update:X1"}, api.callLog())
}

func TestReplaceBatch_SurfacesServiceError(t *testing.T) {
	serviceErr := &drive.DriveError{StatusCode: 400, Message: "bad request", Err: drive.ErrBadRequest}

	api := newFakeAPI()
	api.updateErr = func(fileID string) error {
		return serviceErr
	}

	tr := newTestTree(api)

	results, err := tr.ReplaceBatch(context.Background(), []drive.Upload{{ID: "X1", Content: []byte("x")}})
	require.Error(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Err.Error(), "bad request")
}

func TestDeleteBatch(t *testing.T) {
	api := newFakeAPI()
	tr := newTestTree(api)

	results, err := tr.DeleteBatch(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Len(t, results, 3)
	assert.Equal(t, []string{"a", "b", "c"}, api.deletedOrder())
}

func TestDeleteBatch_EmptyInput(t *testing.T) {
	api := newFakeAPI()
	tr := newTestTree(api)

	results, err := tr.DeleteBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Empty(t, api.callLog())
}

func TestBatchError_Message(t *testing.T) {
	err := &BatchError{Failed: 2, Total: 5}
	assert.Equal(t, "tree: 2 of 5 batch items failed", err.Error())
}
