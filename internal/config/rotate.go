package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// RotateLimit returns how many files to keep for a rotated concern ("log",
// "history"). The default can be overridden with COOK_<CONCERN>_ROTATE;
// zero disables rotation, while negative or non-numeric values fall back to
// the default with a warning.
func RotateLimit(concern string, defaultVal int) int {
	envName := "COOK_" + strings.ToUpper(concern) + "_ROTATE"
	raw, ok := os.LookupEnv(envName)
	if !ok || raw == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		log.Warn("invalid rotation limit, using default", "concern", concern, "env", envName, "value", raw, "default", defaultVal)
		return defaultVal
	}
	return n
}
