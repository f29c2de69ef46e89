// Package archive persists the set of processed media identifiers as a
// flat append-only file, one identifier per line. It exists purely for
// deduplication across runs; the derivation engine never touches it.
package archive

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Archive is an append-only identifier list backed by a text file.
type Archive struct {
	path string
}

// New creates an Archive at path. The file is created lazily on first Add.
func New(path string) *Archive {
	return &Archive{path: path}
}

// Path returns the backing file path.
func (a *Archive) Path() string {
	return a.path
}

// Contains reports whether id was recorded. A missing archive file means
// nothing has been processed yet and is not an error.
func (a *Archive) Contains(id string) (bool, error) {
	f, err := os.Open(a.path) // #nosec G304 -- path comes from config, not remote input
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("cannot read archive: %w", err)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == id {
			return true, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return false, fmt.Errorf("cannot read archive: %w", err)
	}
	return false, nil
}

// Add appends id to the archive, creating the file and its directory if
// needed. Adding an already-present id is harmless; Contains checks look
// for any matching line.
func (a *Archive) Add(id string) error {
	if err := os.MkdirAll(filepath.Dir(a.path), 0750); err != nil {
		return fmt.Errorf("cannot create archive directory: %w", err)
	}

	// #nosec G302 G304 -- local archive file with standard permissions
	f, err := os.OpenFile(a.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("cannot open archive: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := fmt.Fprintln(f, id); err != nil {
		return fmt.Errorf("cannot append to archive: %w", err)
	}
	return nil
}
