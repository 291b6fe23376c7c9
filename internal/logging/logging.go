// Package logging builds the slog and zerolog loggers of a publisher run.
package logging

import (
	"path/filepath"
	"strings"
	"time"
)

// LogFilePath returns <logsDir>/<node>.<YYYYMMDD_HHMMSS>.log. Slashes in a
// namespaced node name become underscores.
func LogFilePath(logsDir, node string, sessionStart time.Time) string {
	node = strings.ReplaceAll(strings.Trim(node, "/"), "/", "_")
	return filepath.Join(logsDir, node+"."+sessionStart.Format("20060102_150405")+".log")
}
