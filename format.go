package main

import (
	"fmt"

	"github.com/tonimelisma/gdrive-go/internal/drive"
)

// Size unit constants for human-readable formatting.
const (
	sizeKB = 1024
	sizeMB = 1024 * 1024
	sizeGB = 1024 * 1024 * 1024
)

// formatSize returns a human-readable size string (e.g. "1.2 MB").
func formatSize(bytes int64) string {
	switch {
	case bytes >= sizeGB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(sizeGB))
	case bytes >= sizeMB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(sizeMB))
	case bytes >= sizeKB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(sizeKB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// formatFile renders one output line for a remote file or folder.
func formatFile(f *drive.File) string {
	if f.IsFolder() {
		return fmt.Sprintf("%s  d %10s  %s", f.ID, "-", f.Name)
	}

	return fmt.Sprintf("%s  f %10s  %s", f.ID, formatSize(f.Size), f.Name)
}
