package sepolicy

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForHostMatchesKernelSupport(t *testing.T) {
	labeler := ForHost()
	require.NotNil(t, labeler)

	if _, err := os.Stat(selinuxFS); err == nil {
		assert.IsType(t, &xattrLabeler{}, labeler)
	} else {
		assert.IsType(t, &Memory{}, labeler)
	}
}

func TestForHostLabelerIsUsableOnPlainFiles(t *testing.T) {
	// Whatever the host supports, the selected labeler must be able to
	// read a label from a freshly written file without erroring, since
	// every shadow and mirror copies labels.
	path := t.TempDir() + "/file"
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	labeler := ForHost()
	label, err := labeler.Get(path)
	require.NoError(t, err)
	assert.NotEmpty(t, label)
}
