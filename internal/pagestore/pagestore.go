// Package pagestore manages the on-disk page directories: existence checks,
// purges, atomic writes, listings and file naming.
package pagestore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// PageExt is the extension given to every stored page.
const PageExt = ".html"

var (
	// ErrInvalidDetailURL is returned when a detail token cannot be derived from a URL.
	ErrInvalidDetailURL = errors.New("invalid detail url")
	// ErrNotDirectory is returned when a directory operation targets a file.
	ErrNotDirectory = errors.New("not a directory")
)

// Exists reports whether path names an existing regular file. Directories and
// missing paths report false.
func Exists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// Purge deletes every regular file directly inside dir and returns how many were
// removed. Subdirectories and their contents are left alone. A missing dir is an
// error.
func Purge(dir string) (int, error) {
	entries, err := readDir(dir)
	if err != nil {
		return 0, fmt.Errorf("purge %s: %w", dir, err)
	}

	removed := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			return removed, fmt.Errorf("purge %s: %w", dir, err)
		}
		removed++
	}
	return removed, nil
}

// List returns the names of the regular files directly inside dir, sorted.
func List(dir string) ([]string, error) {
	entries, err := readDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}

// WriteFile writes data to path through a temporary file in the same directory
// followed by a rename, so readers never observe a partial file. The parent
// directory must already exist.
func WriteFile(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}

// EnsureDirs creates each directory and any missing parents.
func EnsureDirs(dirs ...string) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ListingNamer returns a name function placing each listing page in dir under a
// fresh random identifier.
func ListingNamer(dir string) func(rawURL string) (string, error) {
	return func(string) (string, error) {
		return filepath.Join(dir, uuid.NewString()+PageExt), nil
	}
}

// DetailNamer returns a name function placing each detail page in dir under the
// token derived from its URL.
func DetailNamer(dir string) func(rawURL string) (string, error) {
	return func(rawURL string) (string, error) {
		token, err := DetailToken(rawURL)
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, token+PageExt), nil
	}
}

// DetailToken returns the text after the single '=' in rawURL, e.g. "123" for
// ".../spdesc.php?id=123". URLs with no '=', more than one '=', an empty token
// or a token that is not a safe file name are rejected.
func DetailToken(rawURL string) (string, error) {
	parts := strings.Split(rawURL, "=")
	if len(parts) != 2 {
		return "", fmt.Errorf("%w: %q must contain exactly one '='", ErrInvalidDetailURL, rawURL)
	}

	token := parts[1]
	switch {
	case token == "", token == ".", token == "..":
		return "", fmt.Errorf("%w: %q has an unusable token %q", ErrInvalidDetailURL, rawURL, token)
	case strings.ContainsAny(token, `/\`):
		return "", fmt.Errorf("%w: %q token %q contains a path separator", ErrInvalidDetailURL, rawURL, token)
	}
	return token, nil
}

func readDir(dir string) ([]os.DirEntry, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, ErrNotDirectory
	}
	return os.ReadDir(dir)
}
