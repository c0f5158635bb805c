package storage

import (
	"path/filepath"
	"testing"

	"github.com/fleury/bibsite/internal/publist"
	"github.com/fleury/bibsite/internal/pubtype"
)

func testRecords() []publist.Record {
	return []publist.Record{
		{
			Key:    "Smith2020",
			Entry:  pubtype.Class{Rank: 5, Label: "Journal Articles"},
			Year:   "2020",
			DOI:    "10.1/x",
			Text:   "John Smith. A Study. Nature, 2020.",
			BibTeX: "@article{Smith2020,\n  title = {A Study},\n}\n",
		},
		{
			Key:    "Doe2019",
			Entry:  pubtype.Class{Rank: 6, Label: "Papers"},
			Year:   "2019",
			PDF:    "papers/doe.pdf",
			Text:   "Jane Doe. Findings. In Proceedings, 2019.",
			BibTeX: "@inproceedings{Doe2019,\n  title = {Findings},\n}\n",
		},
	}
}

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "pubs.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRebuildAndCount(t *testing.T) {
	db := openTestDB(t)

	if err := db.Rebuild(testRecords()); err != nil {
		t.Fatalf("Rebuild() error: %v", err)
	}

	n, err := db.Count()
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if n != 2 {
		t.Errorf("Count() = %d, want 2", n)
	}
}

func TestRebuild_Replaces(t *testing.T) {
	db := openTestDB(t)

	if err := db.Rebuild(testRecords()); err != nil {
		t.Fatalf("Rebuild() error: %v", err)
	}
	// Second rebuild with one record must replace, not append
	if err := db.Rebuild(testRecords()[:1]); err != nil {
		t.Fatalf("Rebuild() error: %v", err)
	}

	n, err := db.Count()
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if n != 1 {
		t.Errorf("Count() after rebuild = %d, want 1", n)
	}
}

func TestQuery(t *testing.T) {
	db := openTestDB(t)
	if err := db.Rebuild(testRecords()); err != nil {
		t.Fatalf("Rebuild() error: %v", err)
	}

	cols, rows, err := db.Query(
		`SELECT key, type_label FROM publications WHERE year = ? ORDER BY position`, "2019")
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}
	if len(cols) != 2 {
		t.Errorf("Query() returned %d columns, want 2", len(cols))
	}
	if len(rows) != 1 {
		t.Fatalf("Query() returned %d rows, want 1", len(rows))
	}
	if rows[0]["key"] != "Doe2019" {
		t.Errorf("key = %v, want Doe2019", rows[0]["key"])
	}
	if rows[0]["type_label"] != "Papers" {
		t.Errorf("type_label = %v, want Papers", rows[0]["type_label"])
	}
}

func TestQuery_PreservesSourceOrder(t *testing.T) {
	db := openTestDB(t)
	if err := db.Rebuild(testRecords()); err != nil {
		t.Fatalf("Rebuild() error: %v", err)
	}

	_, rows, err := db.Query(`SELECT key FROM publications ORDER BY position`)
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}
	if rows[0]["key"] != "Smith2020" || rows[1]["key"] != "Doe2019" {
		t.Errorf("position should preserve source order, got %v then %v",
			rows[0]["key"], rows[1]["key"])
	}
}
