// Package history persists one JSON record per engine run so past verdicts
// can be inspected with "cook history".
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/getcook-dev/cook/internal/config"
	"github.com/google/uuid"
)

type RunRecord struct {
	RunID        string                  `json:"run_id"`
	CookbookName string                  `json:"cookbook_name"`
	MainRecipe   string                  `json:"main_recipe"`
	Cap          int                     `json:"cap"`
	PeakWorkers  int                     `json:"peak_workers"`
	StartedAt    time.Time               `json:"started_at"`
	FinishedAt   *time.Time              `json:"finished_at,omitempty"`
	Status       string                  `json:"status"` // running|done|failed
	Recipes      map[string]RecipeRecord `json:"recipes"`
}

type RecipeRecord struct {
	Status     string     `json:"status"` // completed|failed|skipped
	ExitStatus int        `json:"exit_status"`
	WorkerID   int        `json:"worker_id,omitempty"`
	At         *time.Time `json:"at,omitempty"`
}

func NewRunRecord(cookbookName, mainRecipe string, cap int) *RunRecord {
	return &RunRecord{
		RunID:        uuid.NewString(),
		CookbookName: cookbookName,
		MainRecipe:   mainRecipe,
		Cap:          cap,
		StartedAt:    time.Now(),
		Status:       "running",
		Recipes:      make(map[string]RecipeRecord),
	}
}

func recordPath(cookbookName, runID string) string {
	return filepath.Join(config.HistoryDir, cookbookName, runID+".json")
}

func Save(rr *RunRecord) error {
	path := recordPath(rr.CookbookName, rr.RunID)
	data, err := json.MarshalIndent(rr, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling run record: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing run record tmp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("renaming run record: %w", err)
	}
	return nil
}

func Load(cookbookName, runID string) (*RunRecord, error) {
	path := recordPath(cookbookName, runID)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("run %q not found for cookbook %q", runID, cookbookName)
		}
		return nil, fmt.Errorf("reading run record: %w", err)
	}
	var rr RunRecord
	if err := json.Unmarshal(data, &rr); err != nil {
		return nil, fmt.Errorf("parsing run record: %w", err)
	}
	return &rr, nil
}

// List returns all run records for a cookbook, newest first.
func List(cookbookName string) ([]*RunRecord, error) {
	dir := filepath.Join(config.HistoryDir, cookbookName)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading history directory: %w", err)
	}

	var records []*RunRecord
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		rr, err := Load(cookbookName, strings.TrimSuffix(e.Name(), ".json"))
		if err != nil {
			continue
		}
		records = append(records, rr)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].StartedAt.After(records[j].StartedAt)
	})
	return records, nil
}
