package modules

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysmod/magicmount/pkg/filesystem"
)

func TestListEnumeratesModuleStates(t *testing.T) {
	r := newRepo(t)
	r.write(t, "alpha/system/etc/a", "x")
	r.write(t, "alpha/module.prop", "id=alpha\nname=Alpha Mod\nversion=1.2\n")
	r.write(t, "bravo/disable", "")
	r.write(t, "bravo/module.prop", "name=Bravo\nversion=0.1")
	r.write(t, "charlie/skip_mount", "")
	r.write(t, "charlie/system/etc/c", "x")
	r.write(t, "delta/readme", "no system dir")
	r.write(t, "stray-file", "not a module")

	infos, err := r.scanner().List()
	require.NoError(t, err)
	require.Len(t, infos, 4)

	assert.Equal(t, "alpha", infos[0].ID)
	assert.Equal(t, "Alpha Mod", infos[0].Name)
	assert.Equal(t, "1.2", infos[0].Version)
	assert.Equal(t, StateEnabled, infos[0].State)

	assert.Equal(t, StateDisabled, infos[1].State)
	assert.Equal(t, "Bravo", infos[1].Name)
	assert.Equal(t, StateSkipMount, infos[2].State)
	assert.Equal(t, StateNoContent, infos[3].State)
}

func TestListMissingRepositoryIsEmpty(t *testing.T) {
	scanner := NewScanner(filesystem.NewOS(), "/does/not/exist")

	infos, err := scanner.List()
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestListPropCommentsAndBlanksIgnored(t *testing.T) {
	r := newRepo(t)
	r.write(t, "mod/system/etc/a", "x")
	r.write(t, "mod/module.prop", "# comment\n\nname=Commented\nbogus line\nversion=2\n")

	infos, err := r.scanner().List()
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "Commented", infos[0].Name)
	assert.Equal(t, "2", infos[0].Version)
}

// The scanner also works against an in-memory filesystem, which is how
// other packages drive it without touching disk.
func TestListOverAferoMemFs(t *testing.T) {
	memFs := afero.NewMemMapFs()
	require.NoError(t, memFs.MkdirAll("/modules/mod/system/etc", 0o755))
	require.NoError(t, afero.WriteFile(memFs, "/modules/mod/system/etc/hosts", []byte("x"), 0o644))
	require.NoError(t, afero.WriteFile(memFs, "/modules/mod/module.prop", []byte("name=Mem\nversion=3\n"), 0o644))

	infos, err := NewScanner(filesystem.NewAferoFS(memFs), "/modules").List()
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "mod", infos[0].ID)
	assert.Equal(t, "Mem", infos[0].Name)
	assert.Equal(t, StateEnabled, infos[0].State)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "enabled", StateEnabled.String())
	assert.Equal(t, "disabled", StateDisabled.String())
	assert.Equal(t, "skip mount", StateSkipMount.String())
	assert.Equal(t, "no content", StateNoContent.String())
}
