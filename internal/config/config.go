// Package config resolves where memory lives. Resolution is explicit: the
// caller constructs a Config and asks for the storage root, no hidden
// process-wide state.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Mode selects between the user-level store and a per-project one.
type Mode string

const (
	// ModeAuto prefers an existing per-project store, else the global one.
	ModeAuto Mode = "auto"
	// ModeGlobal always uses the user-level store.
	ModeGlobal Mode = "global"
	// ModeLocal always uses the per-project store.
	ModeLocal Mode = "local"
)

const storeDirName = ".memberberries"

// Config describes one resolution request.
type Config struct {
	// Root overrides all mode logic when set.
	Root string
	// Mode picks the storage location. Empty means auto.
	Mode Mode
	// ProjectPath anchors local mode. Empty means the working directory.
	ProjectPath string
}

// Resolve returns the storage root directory for the config.
func (c Config) Resolve() (string, error) {
	if c.Root != "" {
		return c.Root, nil
	}

	project := c.ProjectPath
	if project == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve working directory: %w", err)
		}
		project = wd
	}
	local := filepath.Join(project, storeDirName)

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	global := filepath.Join(home, storeDirName)

	switch c.Mode {
	case ModeLocal:
		return local, nil
	case ModeGlobal:
		return global, nil
	case ModeAuto, "":
		if info, err := os.Stat(local); err == nil && info.IsDir() {
			return local, nil
		}
		return global, nil
	}
	return "", fmt.Errorf("unknown storage mode %q", c.Mode)
}
