package magicmount

import (
	"os"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/sysmod/magicmount/pkg/errors"
	"github.com/sysmod/magicmount/pkg/mount"
	"github.com/sysmod/magicmount/pkg/sepolicy"
	"github.com/sysmod/magicmount/pkg/types"
)

// walker realizes the virtual tree against the live filesystem. It is
// single-threaded and depth-first; each call owns exactly one real
// path and its parallel scratch path, consuming the node it is given.
type walker struct {
	mnt mount.Mounter
	lab sepolicy.Labeler
	log zerolog.Logger
}

// mountNode processes one virtual node. hasTmpfs means an ancestor
// directory has already committed to shadowing, so everything below is
// built inside the scratch tree and relocated as one unit.
func (w *walker) mountNode(parentReal, parentWork string, node *types.Node, hasTmpfs bool) error {
	realPath := filepath.Join(parentReal, node.Name)
	workPath := filepath.Join(parentWork, node.Name)

	switch node.Kind {
	case types.KindRegularFile:
		return w.mountFile(realPath, workPath, node, hasTmpfs)
	case types.KindSymlink:
		return w.mountSymlink(realPath, workPath, node)
	case types.KindDirectory:
		return w.mountDir(realPath, workPath, node, hasTmpfs)
	default:
		return errors.Newf(errors.ErrTreeInvariant, "node %s has unknown kind %d", realPath, node.Kind)
	}
}

func (w *walker) mountFile(realPath, workPath string, node *types.Node, hasTmpfs bool) error {
	if node.Synthetic() {
		return errors.Newf(errors.ErrTreeInvariant, "cannot mount synthetic file %s", realPath)
	}

	target := realPath
	if hasTmpfs {
		// Bind targets must pre-exist with a matching type.
		f, err := os.Create(workPath)
		if err != nil {
			return errors.Wrapf(err, errors.ErrMountFailed, "failed to create placeholder %s", workPath)
		}
		f.Close()
		target = workPath
	}

	w.log.Debug().Str("module", node.ModulePath).Str("target", target).Msg("mount module file")
	if err := w.mnt.Bind(node.ModulePath, target); err != nil {
		return errors.Wrapf(err, errors.ErrMountFailed, "failed to bind %s onto %s", node.ModulePath, target)
	}
	return nil
}

func (w *walker) mountSymlink(realPath, workPath string, node *types.Node) error {
	if node.Synthetic() {
		return errors.Newf(errors.ErrTreeInvariant, "cannot mount synthetic symlink %s", realPath)
	}

	// Symlinks cannot be bind-mounted; they are cloned by value. The
	// shadow decision guarantees the parent is already shadowed here.
	w.log.Debug().Str("module", node.ModulePath).Str("target", workPath).Msg("create module symlink")
	return w.cloneSymlink(node.ModulePath, workPath)
}

func (w *walker) mountDir(realPath, workPath string, node *types.Node, hasTmpfs bool) error {
	// The shadow decision is binary for the whole directory: the first
	// virtual child the live directory cannot host in place switches
	// everything into shadow mode.
	createTmpfs := false
	liveExists := false
	if _, err := os.Stat(realPath); err == nil {
		liveExists = true
	}
	if !hasTmpfs {
		if node.Replace && liveExists {
			// Hiding pre-existing content is only possible through a
			// shadow, even when every module child matches a live entry.
			createTmpfs = true
		}
		for name, child := range node.Children {
			if createTmpfs {
				break
			}
			need, err := w.needsShadow(filepath.Join(realPath, name), child)
			if err != nil {
				return err
			}
			if need {
				createTmpfs = true
			}
		}
	}
	hasTmpfs = hasTmpfs || createTmpfs

	if hasTmpfs {
		w.log.Debug().Str("real", realPath).Str("work", workPath).Msg("creating shadow skeleton")
		if err := os.MkdirAll(workPath, 0o755); err != nil {
			return errors.Wrapf(err, errors.ErrMountFailed, "failed to create shadow dir %s", workPath)
		}
		// Metadata comes from the live directory, or from the module
		// directory that introduced this node when the live path does
		// not exist yet.
		metaSrc := realPath
		if !liveExists {
			if node.Synthetic() {
				return errors.Newf(errors.ErrTreeInvariant, "cannot mount synthetic dir %s", realPath)
			}
			metaSrc = node.ModulePath
		}
		if err := w.copyAttrs(workPath, metaSrc); err != nil {
			return err
		}
	}

	if createTmpfs {
		// Self-bind pins the scratch directory as a distinct mount so
		// it can later be relocated as a unit.
		w.log.Debug().Str("work", workPath).Msg("pinning shadow dir")
		if err := w.mnt.Bind(workPath, workPath); err != nil {
			return errors.Wrapf(err, errors.ErrMountFailed, "failed to pin shadow dir %s", workPath)
		}
	}

	if liveExists && !node.Replace {
		entries, err := os.ReadDir(realPath)
		if err != nil {
			return errors.Wrapf(err, errors.ErrMountFailed, "failed to read dir %s", realPath)
		}
		for _, entry := range entries {
			name := entry.Name()
			if child, ok := node.Children[name]; ok {
				delete(node.Children, name)
				if err := w.mountNode(realPath, workPath, child, hasTmpfs); err != nil {
					return err
				}
			} else if hasTmpfs {
				if err := w.mirror(realPath, workPath, entry); err != nil {
					return err
				}
			}
		}
	}

	if node.Replace && node.Synthetic() {
		return errors.Newf(errors.ErrTreeInvariant, "dir %s is declared as replaced but has no owning module", realPath)
	}

	// Leftover children were contributed purely by modules and matched
	// no live entry.
	for _, name := range sortedNames(node.Children) {
		child := node.Children[name]
		delete(node.Children, name)
		if err := w.mountNode(realPath, workPath, child, hasTmpfs); err != nil {
			return err
		}
	}

	if createTmpfs {
		w.log.Debug().Str("work", workPath).Str("real", realPath).Msg("moving shadow into place")
		if err := w.mnt.Move(workPath, realPath); err != nil {
			return errors.Wrapf(err, errors.ErrMountFailed, "failed to move shadow %s onto %s", workPath, realPath)
		}
	}

	return nil
}

// needsShadow reports whether the live entry at livePath prevents
// mounting child in place.
func (w *walker) needsShadow(livePath string, child *types.Node) (bool, error) {
	if child.Kind == types.KindSymlink {
		return true, nil
	}
	info, err := os.Lstat(livePath)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, errors.Wrapf(err, errors.ErrMountFailed, "failed to stat %s", livePath)
	}
	liveKind, ok := types.KindOf(info.Mode())
	if !ok {
		liveKind = types.KindRegularFile
	}
	return liveKind != child.Kind || liveKind == types.KindSymlink, nil
}

// copyAttrs copies mode, owner, group and security label from src
// onto dst.
func (w *walker) copyAttrs(dst, src string) error {
	info, err := os.Stat(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrMountFailed, "failed to stat %s", src)
	}
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return errors.Newf(errors.ErrMountFailed, "no unix metadata for %s", src)
	}
	if err := w.mnt.Chmod(dst, uint32(st.Mode)); err != nil {
		return errors.Wrapf(err, errors.ErrMountFailed, "failed to chmod %s", dst)
	}
	if err := w.mnt.Chown(dst, int(st.Uid), int(st.Gid)); err != nil {
		return errors.Wrapf(err, errors.ErrMountFailed, "failed to chown %s", dst)
	}
	return w.copyLabel(dst, src)
}

// copyLabel copies the security label from src onto dst.
func (w *walker) copyLabel(dst, src string) error {
	label, err := w.lab.Get(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrLabelFailed, "failed to read label of %s", src)
	}
	if err := w.lab.Set(dst, label); err != nil {
		return errors.Wrapf(err, errors.ErrLabelFailed, "failed to label %s", dst)
	}
	return nil
}

// cloneSymlink recreates the literal link target of src at dst and
// copies src's security label.
func (w *walker) cloneSymlink(src, dst string) error {
	target, err := os.Readlink(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrMountFailed, "failed to read symlink %s", src)
	}
	if err := os.Symlink(target, dst); err != nil {
		return errors.Wrapf(err, errors.ErrMountFailed, "failed to create symlink %s", dst)
	}
	return w.copyLabel(dst, src)
}

func sortedNames(children map[string]*types.Node) []string {
	names := make([]string, 0, len(children))
	for name := range children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
