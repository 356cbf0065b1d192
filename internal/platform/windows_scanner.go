//go:build windows

package platform

import (
	"io/fs"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/sys/windows"

	"launchgrid/internal/infrastructure/logging"
	"launchgrid/internal/types"
)

// WindowsScanner enumerates Start Menu shortcuts and executables. The id is
// a slug of the shortcut path relative to its Start Menu root, which stays
// stable across rescans and reboots.
type WindowsScanner struct {
	programDirs []string
	logger      logging.Logger
}

// NewAppScanner creates the scanner for Windows
func NewAppScanner(logger logging.Logger) AppScanner {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &WindowsScanner{
		programDirs: startMenuDirs(),
		logger:      logger,
	}
}

// startMenuDirs resolves the per-user and all-users Programs folders via the
// known-folder API
func startMenuDirs() []string {
	var dirs []string
	for _, folderID := range []*windows.KNOWNFOLDERID{
		windows.FOLDERID_Programs,
		windows.FOLDERID_CommonPrograms,
	} {
		if path, err := windows.KnownFolderPath(folderID, 0); err == nil && path != "" {
			dirs = append(dirs, path)
		}
	}
	return dirs
}

// Scan walks the Start Menu trees for .lnk shortcuts and bare executables
func (s *WindowsScanner) Scan() ([]types.AppEntry, error) {
	var entries []types.AppEntry

	for _, root := range s.programDirs {
		root := root
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil // unreadable subtree, keep walking
			}
			if d.IsDir() {
				return nil
			}

			ext := strings.ToLower(filepath.Ext(path))
			if ext != ".lnk" && ext != ".exe" {
				return nil
			}

			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				rel = filepath.Base(path)
			}
			name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

			entries = append(entries, types.AppEntry{
				ID:          slugify(strings.TrimSuffix(rel, filepath.Ext(rel))),
				DisplayName: name,
				IconPath:    path,
				LaunchPath:  path,
			})
			return nil
		})
		if err != nil {
			s.logger.Debug("Start Menu walk failed", "root", root, "error", err)
		}
	}

	return dedupeByID(entries), nil
}

// Launch resolves the shortcut/executable through the shell and does not wait
func Launch(entry types.AppEntry) error {
	cmd := exec.Command("cmd", "/C", "start", "", entry.LaunchPath)
	cmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
	return cmd.Start()
}
