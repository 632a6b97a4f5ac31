package history

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/getcook-dev/cook/internal/config"
)

// Rotate removes old run records for the given cookbook, keeping the newest
// N files (default 10, controlled by COOK_HISTORY_ROTATE). The current run's
// record is never deleted. Setting the env var to 0 disables rotation.
func Rotate(cookbookName, currentRunID string) error {
	limit := config.RotateLimit("history", 10)
	if limit == 0 {
		return nil
	}

	dir := filepath.Join(config.HistoryDir, cookbookName)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading history directory: %w", err)
	}

	currentFile := currentRunID + ".json"

	type recordEntry struct {
		name    string
		modTime int64
	}
	var candidates []recordEntry
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		// Skip non-JSON files and tmp files
		if !strings.HasSuffix(name, ".json") || strings.HasSuffix(name, ".tmp") {
			continue
		}
		// Never consider the current run for deletion
		if name == currentFile {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		candidates = append(candidates, recordEntry{name: name, modTime: info.ModTime().UnixNano()})
	}

	// Current run occupies one slot in the limit.
	keepOthers := max(limit-1, 0)

	if len(candidates) <= keepOthers {
		return nil
	}

	// Sort newest-first by modification time.
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].modTime > candidates[j].modTime
	})

	// Delete everything beyond the keep limit.
	for _, entry := range candidates[keepOthers:] {
		path := filepath.Join(dir, entry.name)
		if err := os.Remove(path); err != nil {
			log.Warn("failed to remove old run record", "path", path, "err", err)
		} else {
			log.Debug("rotated old run record", "path", path)
		}
	}

	return nil
}
