package files

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/davronov/qrdesk/internal/config"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(config.UploadsConfig{
		Dir:          t.TempDir(),
		MaxFileSize:  64,
		AllowedTypes: []string{"application/pdf", "image/png"},
	})
	if err != nil {
		t.Fatal(err)
	}
	return store
}

func TestStoreSaveAndOpen(t *testing.T) {
	store := newTestStore(t)

	body := "pdf bytes"
	path, err := store.Save(strings.NewReader(body), "menu.pdf", "application/pdf", int64(len(body)))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(path, ".pdf") {
		t.Errorf("stored path %q should keep the extension", path)
	}
	if strings.Contains(path, "menu") {
		t.Errorf("stored path %q should not leak the original name", path)
	}

	f, err := store.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	got, _ := io.ReadAll(f)
	if string(got) != body {
		t.Errorf("read back %q, want %q", got, body)
	}
}

func TestStoreRejectsOversizeAndType(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Save(strings.NewReader("x"), "a.pdf", "application/pdf", 65)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("oversize header: err = %v, want ErrFileTooLarge", err)
	}

	// Understated size header with a larger body.
	big := strings.Repeat("x", 100)
	_, err = store.Save(strings.NewReader(big), "a.pdf", "application/pdf", 10)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("oversize body: err = %v, want ErrFileTooLarge", err)
	}

	_, err = store.Save(strings.NewReader("x"), "a.exe", "application/x-msdownload", 1)
	if !errors.Is(err, ErrFileType) {
		t.Errorf("bad type: err = %v, want ErrFileType", err)
	}
}

func TestStoreOpenRejectsTraversal(t *testing.T) {
	store := newTestStore(t)

	for _, path := range []string{"", "../secret", "a/b.pdf"} {
		if _, err := store.Open(path); err == nil {
			t.Errorf("Open(%q) should fail", path)
		}
	}
}
