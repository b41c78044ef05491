package tree

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tonimelisma/gdrive-go/internal/drive"
)

// fakeAPI is an in-memory wire layer recording every call in order.
// Per-method hooks let tests inject failures and latency.
type fakeAPI struct {
	mu    sync.Mutex
	calls []string

	// folders maps name -> folder for FindFolderByName.
	folders map[string]*drive.File
	// children maps parentID -> children for ListChildren.
	children map[string][]drive.File
	// deleted records Delete targets in call order.
	deleted []string

	nextID int

	findErr    error
	createErr  error
	uploadErr  func(up drive.Upload) error
	uploadWait func(up drive.Upload) time.Duration
	updateErr  func(fileID string) error
	deleteErr  func(fileID string) error
	grantErr   func(fileID string) error
	listErr    func(parentID string) error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		folders:  map[string]*drive.File{},
		children: map[string][]drive.File{},
	}
}

func (f *fakeAPI) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, call)
}

func (f *fakeAPI) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) genID(prefix string) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++

	return fmt.Sprintf("%s%d", prefix, f.nextID)
}

func (f *fakeAPI) FindFolderByName(_ context.Context, name string) (*drive.File, error) {
	f.record("find:" + name)

	if f.findErr != nil {
		return nil, f.findErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	return f.folders[name], nil
}

func (f *fakeAPI) ListChildren(_ context.Context, parentID string, opts drive.ListOptions) ([]drive.File, error) {
	f.record("list:" + parentID)

	if f.listErr != nil {
		if err := f.listErr(parentID); err != nil {
			return nil, err
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var out []drive.File

	for _, c := range f.children[parentID] {
		if opts.FoldersOnly && !c.IsFolder() {
			continue
		}

		out = append(out, c)
	}

	return out, nil
}

func (f *fakeAPI) CreateFolderMeta(_ context.Context, name, parentID string) (*drive.File, error) {
	f.record("create:" + name)

	if f.createErr != nil {
		return nil, f.createErr
	}

	folder := &drive.File{
		ID:       f.genID("folder-"),
		Name:     name,
		MimeType: drive.FolderMimeType,
	}
	if parentID != "" {
		folder.Parents = []string{parentID}
	}

	f.mu.Lock()
	f.folders[name] = folder
	f.mu.Unlock()

	return folder, nil
}

func (f *fakeAPI) Upload(_ context.Context, parentID string, up drive.Upload) (*drive.File, error) {
	f.record("upload:" + up.Name)

	if f.uploadWait != nil {
		time.Sleep(f.uploadWait(up))
	}

	if f.uploadErr != nil {
		if err := f.uploadErr(up); err != nil {
			return nil, err
		}
	}

	return &drive.File{
		ID:       f.genID("file-"),
		Name:     up.Name,
		MimeType: up.MimeType,
		Parents:  []string{parentID},
		Size:     int64(len(up.Content)),
	}, nil
}

func (f *fakeAPI) Update(_ context.Context, fileID string, up drive.Upload) (*drive.File, error) {
	f.record("update:" + fileID)

	if f.updateErr != nil {
		if err := f.updateErr(fileID); err != nil {
			return nil, err
		}
	}

	return &drive.File{ID: fileID, Name: up.Name, Size: int64(len(up.Content))}, nil
}

func (f *fakeAPI) Delete(_ context.Context, fileID string) error {
	f.record("delete:" + fileID)

	if f.deleteErr != nil {
		if err := f.deleteErr(fileID); err != nil {
			return err
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.deleted = append(f.deleted, fileID)

	return nil
}

func (f *fakeAPI) CreatePermission(_ context.Context, fileID string) error {
	f.record("grant:" + fileID)

	if f.grantErr != nil {
		if err := f.grantErr(fileID); err != nil {
			return err
		}
	}

	return nil
}

// deletedOrder returns the recorded Delete targets.
func (f *fakeAPI) deletedOrder() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.deleted...)
}
