package config

import (
	"fmt"
	"os"
	"path/filepath"
)

var (
	BaseDir    string
	LogDir     string
	HistoryDir string
)

func init() {
	home, err := os.UserHomeDir()
	if err != nil {
		panic("cannot determine home directory: " + err.Error())
	}
	BaseDir = filepath.Join(home, ".cook")
	LogDir = filepath.Join(BaseDir, "logs")
	HistoryDir = filepath.Join(BaseDir, "history")
}

func EnsureDirs(cookbookName string) error {
	dirs := []string{
		LogDir,
		filepath.Join(HistoryDir, cookbookName),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}
	return nil
}
