package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestInitCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	if err := Init(dir); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("expected upload directory to exist: %v", err)
	}
	if !info.IsDir() {
		t.Fatalf("expected %s to be a directory", dir)
	}
	if Root() != dir {
		t.Errorf("Root() = %q, want %q", Root(), dir)
	}
}

func TestInitRejectsEmptyDir(t *testing.T) {
	if err := Init(""); err == nil {
		t.Fatal("expected an error for an empty directory")
	}
}

func TestSavePreservesContent(t *testing.T) {
	if err := Init(t.TempDir()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	content := []byte("fake-jpeg-bytes")
	filename, err := Save(bytes.NewReader(content), "cat.jpg")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	stored, err := os.ReadFile(Path(filename))
	if err != nil {
		t.Fatalf("failed to read stored file: %v", err)
	}
	if !bytes.Equal(stored, content) {
		t.Errorf("stored content differs from the uploaded bytes")
	}
	if filepath.Ext(filename) != ".jpg" {
		t.Errorf("expected the original extension to be kept, got %q", filename)
	}
	if filename == "cat.jpg" {
		t.Error("stored filename must not reuse the client-supplied name")
	}
}

func TestSaveGeneratesDistinctFilenames(t *testing.T) {
	if err := Init(t.TempDir()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	first, err := Save(strings.NewReader("payload-a"), "cat.jpg")
	if err != nil {
		t.Fatalf("first Save failed: %v", err)
	}
	second, err := Save(strings.NewReader("payload-b"), "cat.jpg")
	if err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	if first == second {
		t.Fatalf("expected distinct filenames, got %q twice", first)
	}
	if !Exists(first) || !Exists(second) {
		t.Error("both stored files should exist")
	}
}

func TestSaveWithoutExtension(t *testing.T) {
	if err := Init(t.TempDir()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	filename, err := Save(strings.NewReader("plain"), "README")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if strings.Contains(filename, ".") {
		t.Errorf("expected no extension in %q", filename)
	}
	if !Exists(filename) {
		t.Error("stored file should exist")
	}
}

func TestConcurrentSavesProduceDistinctFiles(t *testing.T) {
	if err := Init(t.TempDir()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	const workers = 16
	var wg sync.WaitGroup
	names := make([]string, workers)
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			names[i], errs[i] = Save(strings.NewReader("payload"), "cat.jpg")
		}(i)
	}
	wg.Wait()

	seen := make(map[string]struct{}, workers)
	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("Save %d failed: %v", i, errs[i])
		}
		if _, dup := seen[names[i]]; dup {
			t.Fatalf("filename %q was produced twice", names[i])
		}
		seen[names[i]] = struct{}{}
		if !Exists(names[i]) {
			t.Errorf("file %q should exist", names[i])
		}
	}
}

func TestPathStripsDirectoryComponents(t *testing.T) {
	if err := Init(t.TempDir()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	got := Path("../../etc/passwd")
	want := filepath.Join(Root(), "passwd")
	if got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestRemoveAndExists(t *testing.T) {
	if err := Init(t.TempDir()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	filename, err := Save(strings.NewReader("payload"), "cat.jpg")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !Exists(filename) {
		t.Fatal("file should exist after Save")
	}

	if err := Remove(filename); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if Exists(filename) {
		t.Error("file should be gone after Remove")
	}
	if err := Remove(filename); err == nil {
		t.Error("removing a missing file should fail")
	}
}

func TestEntriesListsStoredFiles(t *testing.T) {
	if err := Init(t.TempDir()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	if _, err := Save(strings.NewReader("a"), "a.jpg"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := Save(strings.NewReader("b"), "b.png"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	entries, err := Entries()
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 entries, got %d", len(entries))
	}
}
