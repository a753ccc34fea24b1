package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// CleanGenerated removes previously generated .sql files from the named
// subfolders of outputDir. Folders that do not exist are skipped; nothing
// else in them is touched.
func CleanGenerated(outputDir string, folders []string) error {
	for _, folder := range folders {
		dir := filepath.Join(outputDir, folder)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}
		stale, err := FindFilesByExtension(dir, ".sql")
		if err != nil {
			return fmt.Errorf("failed to scan '%s' for stale files: %w", dir, err)
		}
		for _, path := range stale {
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to remove stale file '%s': %w", path, err)
			}
		}
	}
	return nil
}

// WriteFile writes content to relPath under outputDir, creating parent
// directories as needed. It returns the full path of the written file.
func WriteFile(outputDir, relPath, content string) (string, error) {
	fullPath := filepath.Join(outputDir, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory for '%s': %w", relPath, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write '%s': %w", relPath, err)
	}
	return fullPath, nil
}
