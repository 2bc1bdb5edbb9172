package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Store is a directory of exported country datasets, one JSON file each.
type Store struct {
	dir string
}

// ReadError describes a failure to read a single dataset file.
type ReadError struct {
	Filename string
	Err      error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Filename, e.Err)
}

// Dataset is a dataset file and the records it holds.
type Dataset struct {
	Filename string
	Records  []Record
}

// ListResult contains the datasets found in a store, including any per-file
// errors that occurred while reading them.
type ListResult struct {
	Datasets []Dataset
	Errors   []ReadError
}

// NewStore creates a store rooted at dir, creating the directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return &Store{dir: dir}, nil
}

// Dir returns the store's root directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the full path of a file in the store.
func (s *Store) Path(filename string) string {
	return filepath.Join(s.dir, filename)
}

// WriteJSON writes records as an indented JSON array to filename in the store
// and returns the path written. Non-ASCII text is written as-is.
func (s *Store) WriteJSON(filename string, records []Record) (string, error) {
	path := s.Path(filename)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create dataset file: %w", err)
	}

	if err := EncodeJSON(f, records); err != nil {
		f.Close()
		return "", err
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write dataset file: %w", err)
	}

	return path, nil
}

// EncodeJSON writes records to w as a two-space indented JSON array. HTML
// characters are not escaped and an empty list is written as [].
func EncodeJSON(w io.Writer, records []Record) error {
	if records == nil {
		records = []Record{}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}

	return nil
}

// Exists reports whether filename is present in the store. The file is not
// parsed.
func (s *Store) Exists(filename string) bool {
	info, err := os.Stat(s.Path(filename))
	return err == nil && !info.IsDir()
}

// Read loads a single dataset file from the store.
func (s *Store) Read(filename string) ([]Record, error) {
	data, err := os.ReadFile(s.Path(filename))
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dataset: %w", err)
	}

	return records, nil
}

// List returns every JSON dataset in the store, sorted by filename. Corrupted
// files are collected in the result's Errors slice rather than failing the
// whole listing. A non-nil error means the directory itself is unreadable.
func (s *Store) List() (*ListResult, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read output directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	result := &ListResult{}
	for _, name := range names {
		records, err := s.Read(name)
		if err != nil {
			result.Errors = append(result.Errors, ReadError{
				Filename: name,
				Err:      err,
			})
			continue
		}

		result.Datasets = append(result.Datasets, Dataset{
			Filename: name,
			Records:  records,
		})
	}

	return result, nil
}
