package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/getcook-dev/cook/internal/config"
)

// overrideHistoryDir points config.HistoryDir at a temp directory for the
// test and restores the original value when the test finishes.
func overrideHistoryDir(t *testing.T) string {
	t.Helper()
	orig := config.HistoryDir
	tmp := t.TempDir()
	config.HistoryDir = tmp
	t.Cleanup(func() { config.HistoryDir = orig })
	return tmp
}

func mkCookbookDir(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(dir, name), 0o755); err != nil {
		t.Fatal(err)
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	tmp := overrideHistoryDir(t)
	mkCookbookDir(t, tmp, "dinner")

	rr := NewRunRecord("dinner", "main", 4)
	rr.PeakWorkers = 3
	now := time.Now()
	rr.Recipes["main"] = RecipeRecord{Status: "completed", WorkerID: 2, At: &now}
	rr.Status = "done"

	if err := Save(rr); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	got, err := Load("dinner", rr.RunID)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got.MainRecipe != "main" || got.Cap != 4 || got.PeakWorkers != 3 {
		t.Fatalf("unexpected record: %+v", got)
	}
	if got.Recipes["main"].Status != "completed" {
		t.Fatalf("unexpected recipe record: %+v", got.Recipes["main"])
	}
}

func TestLoad_Missing(t *testing.T) {
	tmp := overrideHistoryDir(t)
	mkCookbookDir(t, tmp, "dinner")
	_, err := Load("dinner", "nope")
	if err == nil {
		t.Fatal("expected error for missing run record")
	}
}

func TestList_NewestFirst(t *testing.T) {
	tmp := overrideHistoryDir(t)
	mkCookbookDir(t, tmp, "dinner")

	older := NewRunRecord("dinner", "main", 1)
	older.StartedAt = time.Now().Add(-time.Hour)
	newer := NewRunRecord("dinner", "main", 1)

	for _, rr := range []*RunRecord{older, newer} {
		if err := Save(rr); err != nil {
			t.Fatal(err)
		}
	}

	records, err := List("dinner")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].RunID != newer.RunID {
		t.Fatal("expected newest record first")
	}
}

func TestList_EmptyDir(t *testing.T) {
	overrideHistoryDir(t)
	records, err := List("unknown")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func TestRotate_KeepsNewestAndCurrent(t *testing.T) {
	tmp := overrideHistoryDir(t)
	mkCookbookDir(t, tmp, "dinner")
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	var current string
	for i := 0; i < 15; i++ {
		rr := NewRunRecord("dinner", "main", 1)
		if err := Save(rr); err != nil {
			t.Fatal(err)
		}
		path := filepath.Join(tmp, "dinner", rr.RunID+".json")
		mt := base.Add(time.Duration(i) * time.Second)
		if err := os.Chtimes(path, mt, mt); err != nil {
			t.Fatal(err)
		}
		if i == 0 {
			current = rr.RunID // oldest file is the "current" run
		}
	}

	if err := Rotate("dinner", current); err != nil {
		t.Fatalf("Rotate error: %v", err)
	}

	entries, _ := os.ReadDir(filepath.Join(tmp, "dinner"))
	if len(entries) != 10 {
		t.Fatalf("expected 10 files, got %d", len(entries))
	}
	if _, err := os.Stat(filepath.Join(tmp, "dinner", current+".json")); err != nil {
		t.Fatal("current run record must survive rotation")
	}
}

func TestRotate_DisabledWithZero(t *testing.T) {
	tmp := overrideHistoryDir(t)
	mkCookbookDir(t, tmp, "dinner")
	t.Setenv("COOK_HISTORY_ROTATE", "0")

	for i := 0; i < 15; i++ {
		if err := Save(NewRunRecord("dinner", "main", 1)); err != nil {
			t.Fatal(err)
		}
	}
	if err := Rotate("dinner", "none"); err != nil {
		t.Fatalf("Rotate error: %v", err)
	}
	entries, _ := os.ReadDir(filepath.Join(tmp, "dinner"))
	if len(entries) != 15 {
		t.Fatalf("expected all 15 files kept, got %d", len(entries))
	}
}
