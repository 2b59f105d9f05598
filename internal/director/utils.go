package director

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ScriptsDir is where generated scripts are written by default
const ScriptsDir = "scripts"

// GenerateScriptPath creates a timestamped script filename
func GenerateScriptPath() string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(ScriptsDir, fmt.Sprintf("script_%s.yaml", timestamp))
}

// FindLatestScript returns the most recently modified script in dir.
// Entries that cannot be stat'ed, such as dangling links, are skipped.
func FindLatestScript(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read scripts directory: %w", err)
	}

	var latest string
	var latestMod time.Time
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		// Stat follows links so a script symlinked into dir counts by its target
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if latest == "" || info.ModTime().After(latestMod) {
			latest, latestMod = path, info.ModTime()
		}
	}

	if latest == "" {
		return "", fmt.Errorf("no script files found in %s", dir)
	}
	return latest, nil
}
