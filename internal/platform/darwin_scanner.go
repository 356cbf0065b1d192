//go:build darwin

package platform

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"launchgrid/internal/infrastructure/logging"
	"launchgrid/internal/types"
)

// DarwinScanner enumerates .app bundles from the standard application
// folders. The bundle identifier from Info.plist is the stable id, falling
// back to a slug of the bundle name when the plist cannot be read.
type DarwinScanner struct {
	appDirs []string
	logger  logging.Logger
}

// NewAppScanner creates the scanner for macOS
func NewAppScanner(logger logging.Logger) AppScanner {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	dirs := []string{"/Applications", "/System/Applications"}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append([]string{filepath.Join(home, "Applications")}, dirs...)
	}
	return &DarwinScanner{
		appDirs: dirs,
		logger:  logger,
	}
}

// Scan walks the application folders for .app bundles
func (s *DarwinScanner) Scan() ([]types.AppEntry, error) {
	var entries []types.AppEntry

	for _, dir := range s.appDirs {
		files, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, file := range files {
			if !strings.HasSuffix(file.Name(), ".app") {
				continue
			}
			bundlePath := filepath.Join(dir, file.Name())
			name := strings.TrimSuffix(file.Name(), ".app")

			id := bundleIdentifier(bundlePath)
			if id == "" {
				id = slugify(name)
			}

			entries = append(entries, types.AppEntry{
				ID:          id,
				DisplayName: name,
				IconPath:    filepath.Join(bundlePath, "Contents", "Resources"),
				LaunchPath:  bundlePath,
			})
		}
	}

	return dedupeByID(entries), nil
}

// bundleIdentifier extracts CFBundleIdentifier from the bundle's Info.plist.
// Only the uncompressed XML form is handled; binary plists fall back to the
// name slug.
func bundleIdentifier(bundlePath string) string {
	data, err := os.ReadFile(filepath.Join(bundlePath, "Contents", "Info.plist"))
	if err != nil {
		return ""
	}
	content := string(data)

	marker := "<key>CFBundleIdentifier</key>"
	idx := strings.Index(content, marker)
	if idx < 0 {
		return ""
	}
	rest := content[idx+len(marker):]

	open := strings.Index(rest, "<string>")
	if open < 0 {
		return ""
	}
	rest = rest[open+len("<string>"):]

	end := strings.Index(rest, "</string>")
	if end < 0 {
		return ""
	}
	return strings.TrimSpace(rest[:end])
}

// Launch opens the bundle via Launch Services and does not wait
func Launch(entry types.AppEntry) error {
	cmd := exec.Command("open", entry.LaunchPath)
	return cmd.Start()
}
