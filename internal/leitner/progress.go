package leitner

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ProgressPath returns the progress file kept next to a deck:
// "verbs.kvtml" uses "verbs.progress.json".
func ProgressPath(deckPath string) string {
	ext := filepath.Ext(deckPath)
	return strings.TrimSuffix(deckPath, ext) + ".progress.json"
}

// LoadProgress reads a progress file. A missing file is not an error.
func LoadProgress(path string) ([]Progress, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read flashcard progress: %w", err)
	}
	var out []Progress
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse flashcard progress %s: %w", path, err)
	}
	return out, nil
}

// SaveProgress writes progress as an indented JSON array.
func SaveProgress(path string, progress []Progress) error {
	if progress == nil {
		progress = []Progress{}
	}
	data, err := json.MarshalIndent(progress, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal flashcard progress: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write flashcard progress: %w", err)
	}
	return nil
}
