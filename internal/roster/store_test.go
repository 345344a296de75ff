package roster

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestStoreLoadMissingFileYieldsEmptyRegistry(t *testing.T) {
	t.Parallel()

	store := NewStore(filepath.Join(t.TempDir(), "roster.json"))
	reg, err := store.Load()
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if len(reg) != 0 {
		t.Fatalf("expected empty registry: %#v", reg)
	}
}

func TestStoreLoadMalformedFileFails(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "roster.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewStore(path).Load(); err == nil {
		t.Fatal("malformed file should error")
	}
}

func TestStoreRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "roster.json")
	store := NewStore(path)
	reg := Registry{
		"-100500": {
			{ID: 1, FirstName: "Аня"},
			{ID: 2, FirstName: "Боря", Nickname: "Борян", IsAdmin: true},
		},
	}
	if err := store.Save(reg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(reg, loaded) {
		t.Fatalf("round trip mismatch:\nwant %#v\ngot  %#v", reg, loaded)
	}

	// Saving what was just loaded must not change the file.
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Save(loaded); err != nil {
		t.Fatalf("save again: %v", err)
	}
	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Fatalf("save(load()) changed the file:\nbefore %s\nafter  %s", before, after)
	}
}

func TestStoreSaveCreatesParentDir(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "dir", "roster.json")
	if err := NewStore(path).Save(Registry{}); err != nil {
		t.Fatalf("save into missing dir: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("file should exist: %v", err)
	}
}

func TestIntBoolPersistsAsZeroOrOne(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "roster.json")
	store := NewStore(path)
	reg := Registry{"1": {{ID: 7, FirstName: "x", IsAdmin: true}, {ID: 8, FirstName: "y"}}}
	if err := store.Save(reg); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	raw := string(data)
	if !strings.Contains(raw, `"isAdmin":1`) || !strings.Contains(raw, `"isAdmin":0`) {
		t.Fatalf("isAdmin should persist as 0/1: %s", raw)
	}
}
