package image

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a throwaway SQLite database with the module schema applied.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "metadata.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&Metadata{}); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	return db
}

func strPtr(s string) *string {
	return &s
}

func TestInsertAndQueryMetadataByID(t *testing.T) {
	db := newTestDB(t)

	record := &Metadata{
		Filename:         "11111111-2222-3333-4444-555555555555.jpg",
		OriginalFilename: "cat.jpg",
		UploaderName:     strPtr("Ana"),
		Location:         strPtr("Lisbon"),
	}
	if err := InsertMetadata(db, record); err != nil {
		t.Fatalf("InsertMetadata failed: %v", err)
	}
	if record.ID == 0 {
		t.Fatal("expected the primary key to be assigned on insert")
	}
	if record.UploadTimestamp.IsZero() {
		t.Error("expected the upload timestamp to be filled automatically")
	}

	got, err := QueryMetadataByID(db, record.ID)
	if err != nil {
		t.Fatalf("QueryMetadataByID failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected the record to be found")
	}
	if got.Filename != record.Filename || got.OriginalFilename != "cat.jpg" {
		t.Errorf("unexpected record: %+v", got)
	}
	if got.UploaderName == nil || *got.UploaderName != "Ana" {
		t.Errorf("UploaderName = %v, want Ana", got.UploaderName)
	}
	if got.Location == nil || *got.Location != "Lisbon" {
		t.Errorf("Location = %v, want Lisbon", got.Location)
	}
}

func TestQueryMetadataByIDMissing(t *testing.T) {
	db := newTestDB(t)

	got, err := QueryMetadataByID(db, 999)
	if err != nil {
		t.Fatalf("a missing record must not be an error, got: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for a missing record, got %+v", got)
	}
}

func TestNullableFieldsStayNil(t *testing.T) {
	db := newTestDB(t)

	record := &Metadata{
		Filename:         "66666666-7777-8888-9999-000000000000.png",
		OriginalFilename: "anon.png",
	}
	if err := InsertMetadata(db, record); err != nil {
		t.Fatalf("InsertMetadata failed: %v", err)
	}

	got, err := QueryMetadataByID(db, record.ID)
	if err != nil {
		t.Fatalf("QueryMetadataByID failed: %v", err)
	}
	if got.UploaderName != nil {
		t.Errorf("UploaderName should stay nil, got %q", *got.UploaderName)
	}
	if got.Location != nil {
		t.Errorf("Location should stay nil, got %q", *got.Location)
	}
}

func TestInsertDuplicateFilename(t *testing.T) {
	db := newTestDB(t)

	first := &Metadata{Filename: "same-name.jpg", OriginalFilename: "a.jpg"}
	if err := InsertMetadata(db, first); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}

	second := &Metadata{Filename: "same-name.jpg", OriginalFilename: "b.jpg"}
	err := InsertMetadata(db, second)
	if err == nil {
		t.Fatal("expected the duplicate filename to be rejected")
	}
	if !errors.Is(err, ErrDuplicateFilename) {
		t.Errorf("expected ErrDuplicateFilename, got: %v", err)
	}
}

func TestQueryMetadataPagePartitions(t *testing.T) {
	db := newTestDB(t)

	const total = 25
	for i := 0; i < total; i++ {
		record := &Metadata{
			Filename:         fmt.Sprintf("img-%02d.jpg", i),
			OriginalFilename: "cat.jpg",
		}
		if err := InsertMetadata(db, record); err != nil {
			t.Fatalf("insert %d failed: %v", i, err)
		}
	}

	const pageSize = 10
	seen := make(map[uint]struct{}, total)
	lastID := uint(0)
	pageSizes := []int{}

	for skip := 0; skip < total; skip += pageSize {
		page, err := QueryMetadataPage(db, skip, pageSize)
		if err != nil {
			t.Fatalf("QueryMetadataPage(skip=%d) failed: %v", skip, err)
		}
		pageSizes = append(pageSizes, len(page))
		for _, record := range page {
			if record.ID <= lastID {
				t.Fatalf("IDs are not strictly ascending: %d after %d", record.ID, lastID)
			}
			lastID = record.ID
			if _, dup := seen[record.ID]; dup {
				t.Fatalf("record %d appeared in two pages", record.ID)
			}
			seen[record.ID] = struct{}{}
		}
	}

	if len(seen) != total {
		t.Errorf("pagination covered %d records, want %d", len(seen), total)
	}
	if pageSizes[0] != 10 || pageSizes[1] != 10 || pageSizes[2] != 5 {
		t.Errorf("unexpected page sizes: %v", pageSizes)
	}

	beyond, err := QueryMetadataPage(db, total+10, pageSize)
	if err != nil {
		t.Fatalf("QueryMetadataPage beyond the end failed: %v", err)
	}
	if len(beyond) != 0 {
		t.Errorf("expected an empty page beyond the end, got %d records", len(beyond))
	}
}

func TestQueryKnownFilenames(t *testing.T) {
	db := newTestDB(t)

	for _, name := range []string{"known-a.jpg", "known-b.jpg"} {
		if err := InsertMetadata(db, &Metadata{Filename: name, OriginalFilename: name}); err != nil {
			t.Fatalf("insert failed: %v", err)
		}
	}

	known, err := QueryKnownFilenames(db, []string{"known-a.jpg", "known-b.jpg", "orphan.jpg"})
	if err != nil {
		t.Fatalf("QueryKnownFilenames failed: %v", err)
	}
	if len(known) != 2 {
		t.Fatalf("expected 2 known filenames, got %d", len(known))
	}
	if _, ok := known["orphan.jpg"]; ok {
		t.Error("orphan.jpg must not be reported as known")
	}

	empty, err := QueryKnownFilenames(db, nil)
	if err != nil {
		t.Fatalf("QueryKnownFilenames with no input failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected an empty result, got %v", empty)
	}
}
