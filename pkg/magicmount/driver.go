// Package magicmount realizes a merged module tree against the live
// filesystem using a scratch tmpfs, bind mounts and atomic
// relocate-mounts, without writing to the underlying partitions.
package magicmount

import (
	"os"

	"github.com/sysmod/magicmount/pkg/errors"
	"github.com/sysmod/magicmount/pkg/logging"
	"github.com/sysmod/magicmount/pkg/modules"
	"github.com/sysmod/magicmount/pkg/mount"
	"github.com/sysmod/magicmount/pkg/sepolicy"
	"github.com/sysmod/magicmount/pkg/types"
)

// Options configures one invocation.
type Options struct {
	// ModuleDir is the module repository root.
	ModuleDir string
	// WorkDir is where the scratch tmpfs workspace is mounted.
	WorkDir string
	// Source is the device name reported for the scratch tmpfs.
	Source string
	// Root is the live filesystem root, "/" outside of tests.
	Root string
}

// Apply builds the virtual tree from all enabled modules and mounts it
// over the live filesystem. Completed mounts are left in place if a
// later step fails; only the scratch workspace is torn down, in all
// outcomes. Callers must not run two invocations concurrently.
func Apply(fsys types.FS, mnt mount.Mounter, lab sepolicy.Labeler, opts Options) error {
	log := logging.GetLogger("magicmount")

	root, err := modules.NewScanner(fsys, opts.ModuleDir).CollectTree(opts.Root)
	if err != nil {
		return err
	}
	if root == nil {
		log.Info().Msg("no modules to mount, skipping")
		return nil
	}

	if err := os.MkdirAll(opts.WorkDir, 0o755); err != nil {
		return errors.Wrapf(err, errors.ErrMountFailed, "failed to create workspace mountpoint %s", opts.WorkDir)
	}
	if err := mnt.Mount(opts.Source, opts.WorkDir, "tmpfs", 0, ""); err != nil {
		return errors.Wrapf(err, errors.ErrMountFailed, "failed to mount scratch tmpfs at %s", opts.WorkDir)
	}

	// Private propagation keeps not-yet-relocated mounts inside the
	// workspace invisible elsewhere, and vice versa.
	result := mnt.MakePrivate(opts.WorkDir)
	if result != nil {
		result = errors.Wrapf(result, errors.ErrMountFailed, "failed to make %s private", opts.WorkDir)
	} else {
		w := &walker{mnt: mnt, lab: lab, log: log}
		result = w.mountNode(opts.Root, opts.WorkDir, root, false)
	}

	if err := mnt.Unmount(opts.WorkDir, true); err != nil {
		log.Error().Err(err).Str("workDir", opts.WorkDir).Msg("failed to detach scratch workspace")
	}
	return result
}
