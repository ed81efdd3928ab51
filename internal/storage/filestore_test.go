package storage

import (
	"bytes"
	"strings"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	payload := []byte("%PDF-1.4 fake invoice")
	key, err := store.Save("invoice.pdf", payload)
	if err != nil {
		t.Fatalf("Failed to save: %v", err)
	}
	if key == "" {
		t.Fatal("Expected non-empty storage key")
	}

	got, err := store.Read(key)
	if err != nil {
		t.Fatalf("Failed to read back: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Error("Stored and read bytes differ")
	}
}

func TestFileStoreKeysAreUnique(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	k1, _ := store.Save("a.png", []byte("one"))
	k2, _ := store.Save("a.png", []byte("two"))
	if k1 == k2 {
		t.Errorf("Expected distinct keys for repeated filename, got %s twice", k1)
	}
}

func TestFileStoreRejectsTraversalInKey(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	key, err := store.Save("../../etc/passwd", []byte("x"))
	if err != nil {
		t.Fatalf("Failed to save: %v", err)
	}
	if strings.Contains(key, "/") {
		t.Errorf("Key must not contain path separators: %s", key)
	}
}

func TestFileStoreReadUnknownKey(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	if _, err := store.Read("no-such-key"); err == nil {
		t.Error("Expected error for unknown key")
	}
}
