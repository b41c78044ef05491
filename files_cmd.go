package main

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tonimelisma/gdrive-go/internal/drive"
	"github.com/tonimelisma/gdrive-go/internal/tree"
)

// errFolderNotFound is returned when a named folder cannot be resolved.
var errFolderNotFound = errors.New("folder not found")

// resolveFolder finds a folder by name and fails when it is absent.
func resolveFolder(ctx context.Context, t *tree.Tree, name string) (*drive.File, error) {
	folder, err := t.FindFolderByName(ctx, name)
	if err != nil {
		return nil, err
	}

	if folder == nil {
		return nil, fmt.Errorf("%w: %q", errFolderNotFound, name)
	}

	return folder, nil
}

func newLsCmd() *cobra.Command {
	var foldersOnly bool

	cmd := &cobra.Command{
		Use:   "ls <folder-name>",
		Short: "List a folder's children",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := buildTree()
			if err != nil {
				return err
			}

			folder, err := resolveFolder(cmd.Context(), t, args[0])
			if err != nil {
				return err
			}

			children, err := t.ListChildren(cmd.Context(), folder.ID, foldersOnly)
			if err != nil {
				return err
			}

			for i := range children {
				fmt.Fprintln(cmd.OutOrStdout(), formatFile(&children[i]))
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&foldersOnly, "folders", false, "list only folders")

	return cmd
}

func newMkdirCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir <parent-name> <name>",
		Short: "Create a folder inside a named parent, creating the parent if needed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := buildTree()
			if err != nil {
				return err
			}

			folder, err := t.CreateFolderInParent(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), folder.ID)

			return nil
		},
	}
}

func newRmCmd() *cobra.Command {
	var byID bool

	cmd := &cobra.Command{
		Use:   "rm <folder-name>",
		Short: "Delete a folder and everything in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := buildTree()
			if err != nil {
				return err
			}

			folderID := args[0]

			if !byID {
				folder, err := resolveFolder(cmd.Context(), t, args[0])
				if err != nil {
					return err
				}

				folderID = folder.ID
			}

			return t.DeleteSubtree(cmd.Context(), folderID)
		},
	}

	cmd.Flags().BoolVar(&byID, "id", false, "treat the argument as a folder ID, not a name")

	return cmd
}

func newPutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "put <folder-name> <path>...",
		Short: "Upload local files into an existing folder",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := buildTree()
			if err != nil {
				return err
			}

			folder, err := resolveFolder(cmd.Context(), t, args[0])
			if err != nil {
				return err
			}

			ups, err := readUploads(args[1:])
			if err != nil {
				return err
			}

			items, batchErr := t.UploadBatch(cmd.Context(), folder.ID, ups)
			printBatch(cmd, items)

			return batchErr
		},
	}
}

// readUploads loads local files into Upload payloads, in argument order.
func readUploads(paths []string) ([]drive.Upload, error) {
	ups := make([]drive.Upload, 0, len(paths))

	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}

		ups = append(ups, drive.Upload{
			Name:     filepath.Base(p),
			MimeType: mime.TypeByExtension(filepath.Ext(p)),
			Content:  content,
		})
	}

	return ups, nil
}

// printBatch reports per-item batch outcomes.
func printBatch(cmd *cobra.Command, items []tree.BatchItem) {
	for _, item := range items {
		switch {
		case item.Err != nil:
			fmt.Fprintf(cmd.ErrOrStderr(), "item %d failed: %v\n", item.Index, item.Err)
		case item.File != nil:
			fmt.Fprintln(cmd.OutOrStdout(), formatFile(item.File))
		}
	}
}
