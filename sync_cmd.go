package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/tonimelisma/gdrive-go/internal/drive"
	"github.com/tonimelisma/gdrive-go/internal/tree"
)

func newSyncCmd() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "sync <parent-name> <folder-name> <path>...",
		Short: "Create a folder under a named parent and upload files into it",
		Long: "Ensures the parent folder exists, creates a new folder inside it, and " +
			"uploads every file into the new folder. With --watch, keeps running and " +
			"replaces remote files whenever the local copies change.",
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := buildTree()
			if err != nil {
				return err
			}

			paths := args[2:]

			ups, err := readUploads(paths)
			if err != nil {
				return err
			}

			result, err := t.SyncNewFolder(cmd.Context(), args[0], args[1], ups)
			if result != nil {
				fmt.Fprintln(cmd.OutOrStdout(), result.FolderID)

				for i := range result.Files {
					fmt.Fprintln(cmd.OutOrStdout(), formatFile(&result.Files[i]))
				}
			}

			if err != nil {
				return err
			}

			if !watch {
				return nil
			}

			return watchAndReplace(cmd, t, paths, result)
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "keep running and replace remote files on local change")

	return cmd
}

// watchAndReplace blocks, replacing the remote copy of a file whenever
// its local counterpart is written. Remote IDs come from the initial
// sync result, matched by base name. Runs until SIGINT/SIGTERM.
func watchAndReplace(cmd *cobra.Command, t *tree.Tree, paths []string, result *tree.SyncResult) error {
	logger := buildLogger()

	remoteIDs := make(map[string]string, len(result.Files))
	for i := range result.Files {
		remoteIDs[result.Files[i].Name] = result.Files[i].ID
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	for _, p := range paths {
		if err := watcher.Add(p); err != nil {
			return fmt.Errorf("watching %s: %w", p, err)
		}
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	logger.Info("watching for local changes", slog.Int("files", len(paths)))

	for {
		select {
		case <-stop:
			return nil
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			logger.Warn("watch error", slog.String("error", err.Error()))
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			name := filepath.Base(event.Name)

			fileID, known := remoteIDs[name]
			if !known {
				continue
			}

			content, err := os.ReadFile(event.Name)
			if err != nil {
				logger.Warn("reading changed file",
					slog.String("path", event.Name),
					slog.String("error", err.Error()),
				)

				continue
			}

			if _, err := t.ReplaceFile(cmd.Context(), fileID, drive.Upload{Content: content}); err != nil {
				logger.Warn("replacing remote file",
					slog.String("file_id", fileID),
					slog.String("error", err.Error()),
				)

				continue
			}

			logger.Info("replaced remote file",
				slog.String("name", name),
				slog.String("file_id", fileID),
			)
		}
	}
}
