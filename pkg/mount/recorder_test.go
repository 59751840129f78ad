package mount

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderRecordsInOrder(t *testing.T) {
	r := NewRecorder()

	require.NoError(t, r.Mount("magicmount", "/mnt/work", "tmpfs", 0, ""))
	require.NoError(t, r.MakePrivate("/mnt/work"))
	require.NoError(t, r.Chmod("/mnt/work/system", 0o755))
	require.NoError(t, r.Chown("/mnt/work/system", 0, 0))
	require.NoError(t, r.Bind("/mod/file", "/mnt/work/system/file"))
	require.NoError(t, r.Move("/mnt/work/system", "/system"))
	require.NoError(t, r.Unmount("/mnt/work", true))

	require.Len(t, r.Ops, 7)
	assert.Equal(t, OpMount, r.Ops[0].Kind)
	assert.Equal(t, "tmpfs", r.Ops[0].Fstype)
	assert.Equal(t, OpMakePrivate, r.Ops[1].Kind)
	assert.Equal(t, uint32(0o755), r.Ops[2].Mode)
	assert.Equal(t, 0, r.Ops[3].UID)
	assert.Equal(t, OpBind, r.Ops[4].Kind)
	assert.Equal(t, "/mod/file", r.Ops[4].Source)
	assert.Equal(t, OpMove, r.Ops[5].Kind)
	assert.True(t, r.Ops[6].Detach)
}

func TestRecorderOfKind(t *testing.T) {
	r := NewRecorder()
	require.NoError(t, r.Bind("/a", "/b"))
	require.NoError(t, r.Move("/b", "/c"))
	require.NoError(t, r.Bind("/d", "/e"))

	binds := r.OfKind(OpBind)
	require.Len(t, binds, 2)
	assert.Equal(t, "/a", binds[0].Source)
	assert.Equal(t, "/d", binds[1].Source)
	assert.Len(t, r.OfKind(OpUnmount), 0)
}

func TestRecorderFailOn(t *testing.T) {
	r := NewRecorder()
	boom := errors.New("busy")
	r.FailOn = func(op Op) error {
		if op.Kind == OpMove {
			return boom
		}
		return nil
	}

	require.NoError(t, r.Bind("/a", "/b"))
	assert.ErrorIs(t, r.Move("/b", "/c"), boom)
	assert.Len(t, r.Ops, 1, "failed op is not recorded")
}

func TestOpString(t *testing.T) {
	assert.Equal(t, "bind /a -> /b", Op{Kind: OpBind, Source: "/a", Target: "/b"}.String())
	assert.Equal(t, "unmount /w", Op{Kind: OpUnmount, Target: "/w"}.String())
}
