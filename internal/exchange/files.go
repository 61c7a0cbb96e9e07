package exchange

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aidanlsb/rolo/internal/atomicfile"
	"github.com/aidanlsb/rolo/internal/model"
	"github.com/aidanlsb/rolo/internal/slugs"
)

// Extension is the file extension of card files.
const Extension = ".md"

// filePerm keeps exported passwords private to the owner.
const filePerm os.FileMode = 0o600

// ExportResult lists the files written by Export, in card order.
type ExportResult struct {
	Files []string `json:"files"`
}

// Export writes each card to dir as <slug(site)>.md. Names repeated within
// one export are numbered; existing files with the same names are replaced.
// progress, if not nil, is called after each file.
func Export(dir string, cards []*model.Card, progress func(done int)) (*ExportResult, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}

	namer := slugs.NewNamer()
	result := &ExportResult{Files: make([]string, 0, len(cards))}
	for i, c := range cards {
		data, err := Encode(c)
		if err != nil {
			return result, fmt.Errorf("card %d: %w", c.ID, err)
		}
		path := filepath.Join(dir, namer.Next(c.Site)+Extension)
		if err := atomicfile.WriteFile(path, data, filePerm); err != nil {
			return result, fmt.Errorf("write %s: %w", path, err)
		}
		result.Files = append(result.Files, path)
		if progress != nil {
			progress(i + 1)
		}
	}
	return result, nil
}

// FileError records a card file that could not be read.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string { return e.Path + ": " + e.Err.Error() }

func (e *FileError) Unwrap() error { return e.Err }

// ImportResult holds the cards read by Import and the files that were
// skipped.
type ImportResult struct {
	Cards   []*model.Card
	Sources []string
	Skipped []*FileError
}

// Import reads card files. Each path may be a card file or a directory,
// whose *.md files are read in name order (subdirectories are not entered).
// Decoded cards have their ID cleared so they are stored as new cards.
// Unreadable or malformed files are collected in Skipped; only a path that
// cannot be listed at all is an error.
func Import(paths ...string) (*ImportResult, error) {
	files, err := expandPaths(paths)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			result.Skipped = append(result.Skipped, &FileError{Path: path, Err: err})
			continue
		}
		c, err := Decode(data)
		if err != nil {
			result.Skipped = append(result.Skipped, &FileError{Path: path, Err: err})
			continue
		}
		c.ID = 0
		result.Cards = append(result.Cards, c)
		result.Sources = append(result.Sources, path)
	}
	return result, nil
}

func expandPaths(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		st, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !st.IsDir() {
			files = append(files, p)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, err
		}
		var names []string
		for _, e := range entries {
			if e.IsDir() || strings.HasPrefix(e.Name(), ".") || !strings.EqualFold(filepath.Ext(e.Name()), Extension) {
				continue
			}
			names = append(names, e.Name())
		}
		sort.Strings(names)
		for _, name := range names {
			files = append(files, filepath.Join(p, name))
		}
	}
	if len(files) == 0 {
		return nil, errors.New("no card files found")
	}
	return files, nil
}
