package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysmod/magicmount/pkg/errors"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/data/adb/modules", cfg.Modules.Dir)
	assert.Equal(t, "/mnt/magicmount", cfg.Mount.WorkDir)
	assert.Equal(t, "magicmount", cfg.Mount.Source)
	assert.Equal(t, "/", cfg.Mount.Root)
}

func TestLoadConfigFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "magicmount.toml")
	require.NoError(t, os.WriteFile(path, []byte("[modules]\ndir = \"/custom/modules\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/custom/modules", cfg.Modules.Dir)
	assert.Equal(t, "/mnt/magicmount", cfg.Mount.WorkDir, "unset keys keep defaults")
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "magicmount.toml")
	require.NoError(t, os.WriteFile(path, []byte("[mount]\nwork_dir = \"/from/file\"\n"), 0o644))
	t.Setenv("MAGICMOUNT_MOUNT__WORK_DIR", "/from/env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.Mount.WorkDir)
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestLoadMalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "magicmount.toml")
	require.NoError(t, os.WriteFile(path, []byte("not [valid toml"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestValidate(t *testing.T) {
	t.Setenv("MAGICMOUNT_MOUNT__ROOT", "relative/path")

	_, err := Load("")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigInvalid))
}

func TestValidateEmptyModulesDir(t *testing.T) {
	cfg := &Config{
		Mount: Mount{WorkDir: "/w", Source: "s", Root: "/"},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigInvalid))
}
