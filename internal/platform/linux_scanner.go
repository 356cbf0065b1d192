//go:build linux

package platform

import (
	"bufio"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"launchgrid/internal/infrastructure/logging"
	"launchgrid/internal/types"
)

// LinuxScanner enumerates freedesktop .desktop entries. The desktop file id
// (file name without extension) is the stable identifier; user-local entries
// shadow system-wide ones with the same id.
type LinuxScanner struct {
	appDirs []string
	logger  logging.Logger
}

// NewAppScanner creates the scanner for Linux
func NewAppScanner(logger logging.Logger) AppScanner {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &LinuxScanner{
		appDirs: defaultAppDirs(),
		logger:  logger,
	}
}

func defaultAppDirs() []string {
	dirs := []string{}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".local/share/applications"))
	}
	dirs = append(dirs,
		"/usr/local/share/applications",
		"/usr/share/applications",
	)
	return dirs
}

// Scan walks the application dirs and parses every .desktop file
func (s *LinuxScanner) Scan() ([]types.AppEntry, error) {
	var entries []types.AppEntry

	for _, dir := range s.appDirs {
		files, err := os.ReadDir(dir)
		if err != nil {
			continue // missing dir is normal
		}
		for _, file := range files {
			if file.IsDir() || !strings.HasSuffix(file.Name(), ".desktop") {
				continue
			}
			path := filepath.Join(dir, file.Name())
			entry, ok, err := parseDesktopFile(path)
			if err != nil {
				s.logger.Debug("Skipping unreadable desktop file", "path", path, "error", err)
				continue
			}
			if ok {
				entries = append(entries, entry)
			}
		}
	}

	return dedupeByID(entries), nil
}

// parseDesktopFile reads the [Desktop Entry] section of one .desktop file.
// ok=false means the entry is valid but should not be shown (NoDisplay,
// Hidden, or not an Application).
func parseDesktopFile(path string) (types.AppEntry, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.AppEntry{}, false, err
	}
	defer f.Close()

	var name, execLine, icon, entryType string
	noDisplay := false
	inSection := false

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "[Desktop Entry]":
			inSection = true
			continue
		case strings.HasPrefix(line, "["):
			inSection = false
			continue
		}
		if !inSection {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		switch key {
		case "Name":
			if name == "" {
				name = value
			}
		case "Exec":
			execLine = value
		case "Icon":
			icon = value
		case "Type":
			entryType = value
		case "NoDisplay", "Hidden":
			if strings.EqualFold(value, "true") {
				noDisplay = true
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return types.AppEntry{}, false, err
	}

	if name == "" || execLine == "" {
		return types.AppEntry{}, false, nil
	}
	if noDisplay || (entryType != "" && entryType != "Application") {
		return types.AppEntry{}, false, nil
	}

	return types.AppEntry{
		ID:          strings.TrimSuffix(filepath.Base(path), ".desktop"),
		DisplayName: name,
		IconPath:    icon,
		LaunchPath:  stripFieldCodes(execLine),
	}, true, nil
}

// stripFieldCodes removes %f/%u style placeholders from an Exec line
func stripFieldCodes(execLine string) string {
	fields := strings.Fields(execLine)
	kept := fields[:0]
	for _, field := range fields {
		if strings.HasPrefix(field, "%") {
			continue
		}
		kept = append(kept, field)
	}
	return strings.Join(kept, " ")
}

// Launch starts the application and does not wait for it
func Launch(entry types.AppEntry) error {
	fields := strings.Fields(entry.LaunchPath)
	if len(fields) == 0 {
		return nil
	}
	cmd := exec.Command(fields[0], fields[1:]...)
	return cmd.Start()
}
