// Package atomicfile replaces files without leaving torn writes behind.
package atomicfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultPerm is the mode of a new file written with perm 0.
const DefaultPerm os.FileMode = 0o644

// WriteFile stages data in a sibling temp file and renames it over path,
// creating parent directories as needed. A perm of 0 keeps the mode of the
// file being replaced.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	if perm == 0 {
		perm = currentPerm(path)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	staged, err := stage(dir, filepath.Base(path), data, perm)
	if err != nil {
		return err
	}
	if err := replace(staged, path); err != nil {
		_ = os.Remove(staged)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

func currentPerm(path string) os.FileMode {
	if st, err := os.Stat(path); err == nil {
		return st.Mode().Perm()
	}
	return DefaultPerm
}

// stage writes data to a synced temp file in dir and returns its name.
func stage(dir, base string, data []byte, perm os.FileMode) (name string, err error) {
	f, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	name = f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(name)
		}
	}()

	if err = f.Chmod(perm); err != nil {
		return "", fmt.Errorf("chmod temp file: %w", err)
	}
	if _, err = f.Write(data); err != nil {
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err = f.Sync(); err != nil {
		return "", fmt.Errorf("sync temp file: %w", err)
	}
	if err = f.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return name, nil
}

// replace renames from over to. Windows will not rename onto an existing
// file, so a failed rename is retried once after removing the target.
func replace(from, to string) error {
	err := os.Rename(from, to)
	if err == nil {
		return nil
	}
	if rmErr := os.Remove(to); rmErr != nil && !os.IsNotExist(rmErr) {
		return err
	}
	if os.Rename(from, to) != nil {
		return err
	}
	return nil
}
