package modules

import (
	"io/fs"
	"path/filepath"

	"github.com/sysmod/magicmount/pkg/errors"
	"github.com/sysmod/magicmount/pkg/types"
)

// Partitions that may be real top-level directories with /system/<name>
// left as a compatibility symlink. Module authors always write
// system/<name>/..., so such children are reparented to the root.
var partitions = []string{"vendor", "system_ext", "product", "odm"}

// CollectTree scans every enabled module and merges its system/
// subtree into one virtual tree. Modules are visited in name order and
// later modules win on path conflicts; same-path directories merge
// recursively. The result is nil when no module contributed anything.
// liveRoot is the live filesystem root used for partition reparenting.
func (s *Scanner) CollectTree(liveRoot string) (*types.Node, error) {
	root := types.NewRoot("")
	system := types.NewRoot(SystemDir)

	entries, err := s.fs.ReadDir(s.root)
	if err != nil {
		if _, serr := s.fs.Stat(s.root); serr != nil {
			s.log.Info().Str("root", s.root).Msg("module root does not exist")
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrModuleScan, "failed to read module root %s", s.root)
	}

	hasFile := false
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(s.root, entry.Name())
		if s.stateOf(path) != StateEnabled {
			continue
		}

		s.log.Debug().Str("module", entry.Name()).Msg("collecting module files")
		hf, err := s.collectInto(system, filepath.Join(path, SystemDir))
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrModuleScan, "failed to collect module %s", entry.Name())
		}
		hasFile = hasFile || hf
	}

	if !hasFile {
		return nil, nil
	}

	s.reparentPartitions(root, system, liveRoot)
	root.Children[SystemDir] = system
	return root, nil
}

// collectInto merges the module content directory at dir into node,
// reporting whether anything mountable was contributed.
func (s *Scanner) collectInto(node *types.Node, dir string) (bool, error) {
	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		return false, err
	}

	hasFile := false
	for _, entry := range entries {
		name := entry.Name()
		if name == ReplaceMarker {
			hasFile = true
			node.Replace = true
			continue
		}

		kind, ok := types.KindOf(entry.Type())
		if !ok {
			// Device nodes, pipes and sockets cannot be mounted.
			s.log.Debug().Str("path", filepath.Join(dir, name)).Msg("skipping unsupported entry type")
			continue
		}

		child, found := node.Children[name]
		if !found || child.Kind != types.KindDirectory || kind != types.KindDirectory {
			// New path, or a later module overriding a non-directory
			// (or changing the entry's type): the later node wins
			// wholesale. Same-path directories merge instead.
			child = types.NewModuleNode(name, kind, filepath.Join(dir, name))
			node.Children[name] = child
		}

		if kind == types.KindDirectory {
			hf, err := s.collectInto(child, filepath.Join(dir, name))
			if err != nil {
				return false, err
			}
			hasFile = hasFile || hf
		} else {
			hasFile = true
		}
	}

	return hasFile, nil
}

// reparentPartitions moves system/<partition> children to the root for
// partitions that are real top-level directories on the live
// filesystem while /system/<partition> is only a symlink.
func (s *Scanner) reparentPartitions(root, system *types.Node, liveRoot string) {
	for _, partition := range partitions {
		node, ok := system.Children[partition]
		if !ok {
			continue
		}
		rootInfo, err := s.fs.Stat(filepath.Join(liveRoot, partition))
		if err != nil || !rootInfo.IsDir() {
			continue
		}
		linkInfo, err := s.fs.Lstat(filepath.Join(liveRoot, SystemDir, partition))
		if err != nil || linkInfo.Mode()&fs.ModeSymlink == 0 {
			continue
		}
		s.log.Debug().Str("partition", partition).Msg("reparenting partition to root")
		delete(system.Children, partition)
		root.Children[partition] = node
	}
}
