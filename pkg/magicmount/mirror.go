package magicmount

import (
	"os"
	"path/filepath"

	"github.com/sysmod/magicmount/pkg/errors"
	"github.com/sysmod/magicmount/pkg/types"
)

// mirror replicates one untouched live entry into the active shadow as
// a read-through stand-in, so shadowing a directory never loses its
// unmodified content.
func (w *walker) mirror(parentReal, parentWork string, entry os.DirEntry) error {
	realPath := filepath.Join(parentReal, entry.Name())
	workPath := filepath.Join(parentWork, entry.Name())

	kind, ok := types.KindOf(entry.Type())
	if !ok {
		w.log.Debug().Str("path", realPath).Msg("skipping mirror of unsupported entry type")
		return nil
	}

	switch kind {
	case types.KindRegularFile:
		w.log.Debug().Str("real", realPath).Str("work", workPath).Msg("mirror file")
		f, err := os.Create(workPath)
		if err != nil {
			return errors.Wrapf(err, errors.ErrMirrorFailed, "failed to create placeholder %s", workPath)
		}
		f.Close()
		if err := w.mnt.Bind(realPath, workPath); err != nil {
			return errors.Wrapf(err, errors.ErrMirrorFailed, "failed to bind %s onto %s", realPath, workPath)
		}

	case types.KindDirectory:
		w.log.Debug().Str("real", realPath).Str("work", workPath).Msg("mirror dir")
		if err := os.Mkdir(workPath, 0o755); err != nil {
			return errors.Wrapf(err, errors.ErrMirrorFailed, "failed to create dir %s", workPath)
		}
		if err := w.copyAttrs(workPath, realPath); err != nil {
			return err
		}
		entries, err := os.ReadDir(realPath)
		if err != nil {
			return errors.Wrapf(err, errors.ErrMirrorFailed, "failed to read dir %s", realPath)
		}
		for _, child := range entries {
			if err := w.mirror(realPath, workPath, child); err != nil {
				return err
			}
		}

	case types.KindSymlink:
		w.log.Debug().Str("real", realPath).Str("work", workPath).Msg("mirror symlink")
		if err := w.cloneSymlink(realPath, workPath); err != nil {
			return err
		}
	}

	return nil
}
