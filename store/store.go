// Package store persists the desktop app's menus and menu items as two
// pretty-printed JSON documents in the application data directory.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/use-agent/menumaker/models"
)

const (
	MenusFile = "menus.json"
	ItemsFile = "menu_items_refactored.json"
)

// Store reads and writes the two data files under a base directory.
// It does no locking; callers are expected to serialize access.
type Store struct {
	baseDir string
}

// New returns a Store rooted at baseDir. The directory is created on Save.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Dir returns the base directory.
func (s *Store) Dir() string { return s.baseDir }

// Load reads both files. It returns nil, nil when either file is missing,
// meaning nothing has been saved yet.
func (s *Store) Load() (*models.StoredData, error) {
	menusPath := filepath.Join(s.baseDir, MenusFile)
	itemsPath := filepath.Join(s.baseDir, ItemsFile)
	if !exists(menusPath) || !exists(itemsPath) {
		return nil, nil
	}

	menus, err := readJSON(menusPath)
	if err != nil {
		return nil, err
	}
	items, err := readJSON(itemsPath)
	if err != nil {
		return nil, err
	}
	return &models.StoredData{Menus: menus, Items: items}, nil
}

// Save writes menus and items, replacing any previous contents.
func (s *Store) Save(menus, items any) error {
	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return fmt.Errorf("store: create data dir %s: %w", s.baseDir, err)
	}
	if err := writeJSON(filepath.Join(s.baseDir, MenusFile), menus); err != nil {
		return err
	}
	return writeJSON(filepath.Join(s.baseDir, ItemsFile), items)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

func readJSON(path string) (any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", filepath.Base(path), err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("store: parse %s: %w", filepath.Base(path), err)
	}
	return v, nil
}

func writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("store: encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("store: write %s: %w", filepath.Base(path), err)
	}
	return nil
}
