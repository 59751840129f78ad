package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/sysmod/magicmount/pkg/errors"
)

// DefaultPath is consulted when no --config flag is given.
const DefaultPath = "/etc/magicmount.toml"

const envPrefix = "MAGICMOUNT_"

// Modules holds module-repository settings.
type Modules struct {
	// Dir is the module repository root, one subdirectory per module.
	Dir string `koanf:"dir"`
}

// Mount holds scratch-workspace and traversal settings.
type Mount struct {
	// WorkDir is where the scratch tmpfs is mounted for the invocation.
	WorkDir string `koanf:"work_dir"`
	// Source is the device name reported for the scratch tmpfs.
	Source string `koanf:"source"`
	// Root is the live filesystem root the orchestrator walks.
	Root string `koanf:"root"`
}

// Config is the full magicmount configuration.
type Config struct {
	Modules Modules `koanf:"modules"`
	Mount   Mount   `koanf:"mount"`
}

// Load builds the configuration from embedded defaults, the config
// file at path (DefaultPath when path is empty, and then only if it
// exists), and MAGICMOUNT_ environment variables, in that order.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", path)
		}
	} else if explicit {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "config file %s not readable", path)
	}

	// MAGICMOUNT_MOUNT__WORK_DIR=... -> mount.work_dir
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that every setting the driver depends on is usable.
func (c *Config) Validate() error {
	if c.Modules.Dir == "" {
		return errors.New(errors.ErrConfigInvalid, "modules.dir must not be empty")
	}
	if c.Mount.WorkDir == "" {
		return errors.New(errors.ErrConfigInvalid, "mount.work_dir must not be empty")
	}
	if c.Mount.Source == "" {
		return errors.New(errors.ErrConfigInvalid, "mount.source must not be empty")
	}
	if !filepath.IsAbs(c.Mount.Root) {
		return errors.Newf(errors.ErrConfigInvalid, "mount.root %q must be an absolute path", c.Mount.Root)
	}
	return nil
}
