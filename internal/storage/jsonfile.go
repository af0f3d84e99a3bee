// Package storage reads and writes the JSON documents the tracker keeps on
// disk. Writes are atomic (temp file + rename in the same directory) so a
// concurrent reader never observes a partially written file. Reads take a
// shared advisory lock, writes an exclusive one; lock acquisition is
// best-effort and never fails a request on its own.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrCorrupt marks a file that exists but does not parse as JSON. Callers
// must not silently treat it as empty: an operator needs to see it.
var ErrCorrupt = errors.New("storage: corrupt file")

// ReadJSON decodes the JSON document at path into v.
// A missing file is reported as os.ErrNotExist; unparseable contents as
// ErrCorrupt. The two are distinct: only the former is safe to
// recover from by starting fresh.
func ReadJSON(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	lock(f, false)
	defer unlock(f)

	if err := json.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("decoding %s: %w: %v", path, ErrCorrupt, err)
	}
	return nil
}

// WriteJSON atomically replaces the file at path with the JSON encoding
// of v, creating parent directories as needed.
func WriteJSON(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	// Hold an exclusive lock on the destination while the temp file is
	// swapped in, so in-flight shared readers finish first.
	target, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer target.Close()
	lock(target, true)
	defer unlock(target)

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
