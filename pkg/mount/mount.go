// Package mount is the filesystem primitive layer: the small set of
// privileged operations the orchestrator issues, behind an interface
// so tests can run without root.
package mount

// Mounter covers the mount-table and metadata primitives magic mount
// consumes. All paths are absolute.
type Mounter interface {
	// Mount mounts a filesystem of fstype at target.
	Mount(source, target, fstype string, flags uintptr, data string) error
	// Bind bind-mounts source onto target. Target must already exist
	// with a matching type.
	Bind(source, target string) error
	// Move atomically relocates the mount at source onto target.
	Move(source, target string) error
	// Unmount removes the mount at target, lazily when detach is set.
	Unmount(target string, detach bool) error
	// MakePrivate sets private propagation on the mount at target.
	MakePrivate(target string) error
	// Chmod changes permission bits on path.
	Chmod(path string, mode uint32) error
	// Chown changes ownership of path.
	Chown(path string, uid, gid int) error
}
