package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteThenRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "games.json")

	want := []map[string]int{{"id": 0}, {"id": 1}}
	if err := WriteJSON(path, want); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var got []map[string]int
	if err := ReadJSON(path, &got); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if len(got) != 2 || got[0]["id"] != 0 || got[1]["id"] != 1 {
		t.Errorf("round trip = %v, want %v", got, want)
	}
}

func TestReadMissingFile(t *testing.T) {
	var v any
	err := ReadJSON(filepath.Join(t.TempDir(), "absent.json"), &v)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want os.ErrNotExist", err)
	}
	if errors.Is(err, ErrCorrupt) {
		t.Error("missing file reported as corrupt")
	}
}

func TestReadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	var v any
	err := ReadJSON(path, &v)
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("err = %v, want ErrCorrupt", err)
	}
}

func TestWriteReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "games.json")

	if err := WriteJSON(path, []int{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	if err := WriteJSON(path, []int{4}); err != nil {
		t.Fatal(err)
	}

	var got []int
	if err := ReadJSON(path, &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != 4 {
		t.Errorf("got %v, want [4]", got)
	}

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1", len(entries))
	}
}
