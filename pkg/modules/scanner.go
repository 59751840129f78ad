// Package modules reads the module repository: one subdirectory per
// module, with eligibility markers and a system/ content subtree that
// gets merged into the virtual tree magic mount realizes.
package modules

import (
	"bufio"
	"bytes"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sysmod/magicmount/pkg/errors"
	"github.com/sysmod/magicmount/pkg/logging"
	"github.com/sysmod/magicmount/pkg/types"
)

const (
	// DisableMarker disables a module entirely.
	DisableMarker = "disable"
	// SkipMountMarker keeps a module enabled but excludes it from mounting.
	SkipMountMarker = "skip_mount"
	// ReplaceMarker inside a content directory hides the real directory's
	// pre-existing entries.
	ReplaceMarker = ".replace"
	// SystemDir is the only subtree a module contributes content from.
	SystemDir = "system"
	// PropFile carries module metadata as key=value lines.
	PropFile = "module.prop"
)

// State classifies a module for enumeration.
type State int

const (
	StateEnabled State = iota
	StateDisabled
	StateSkipMount
	StateNoContent
)

func (s State) String() string {
	switch s {
	case StateEnabled:
		return "enabled"
	case StateDisabled:
		return "disabled"
	case StateSkipMount:
		return "skip mount"
	case StateNoContent:
		return "no content"
	default:
		return "unknown"
	}
}

// Info describes one module directory.
type Info struct {
	ID      string
	Name    string
	Version string
	State   State
	Path    string
}

// Scanner enumerates modules under a repository root.
type Scanner struct {
	fs   types.FS
	root string
	log  zerolog.Logger
}

// NewScanner returns a Scanner over the repository at root.
func NewScanner(fsys types.FS, root string) *Scanner {
	return &Scanner{
		fs:   fsys,
		root: root,
		log:  logging.GetLogger("modules"),
	}
}

// List enumerates all module directories with their metadata and
// state, in name order. A missing repository root is not an error: it
// means no modules are installed.
func (s *Scanner) List() ([]Info, error) {
	entries, err := s.fs.ReadDir(s.root)
	if err != nil {
		if _, serr := s.fs.Stat(s.root); serr != nil {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrModuleScan, "failed to read module root %s", s.root)
	}

	var infos []Info
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(s.root, entry.Name())
		info := Info{ID: entry.Name(), State: s.stateOf(path), Path: path}
		if props, err := s.readProps(filepath.Join(path, PropFile)); err == nil {
			info.Name = props["name"]
			info.Version = props["version"]
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func (s *Scanner) stateOf(modPath string) State {
	if s.exists(filepath.Join(modPath, DisableMarker)) {
		return StateDisabled
	}
	if s.exists(filepath.Join(modPath, SkipMountMarker)) {
		return StateSkipMount
	}
	if fi, err := s.fs.Stat(filepath.Join(modPath, SystemDir)); err != nil || !fi.IsDir() {
		return StateNoContent
	}
	return StateEnabled
}

func (s *Scanner) exists(path string) bool {
	_, err := s.fs.Lstat(path)
	return err == nil
}

// readProps parses key=value lines, skipping blanks and # comments.
func (s *Scanner) readProps(path string) (map[string]string, error) {
	data, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	props := make(map[string]string)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		props[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return props, scanner.Err()
}
