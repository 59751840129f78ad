//go:build linux

package mount

import (
	"golang.org/x/sys/unix"
)

// osMounter issues the primitives through the kernel.
type osMounter struct{}

// NewOS returns the Mounter backed by real syscalls.
func NewOS() Mounter {
	return &osMounter{}
}

func (m *osMounter) Mount(source, target, fstype string, flags uintptr, data string) error {
	return unix.Mount(source, target, fstype, flags, data)
}

func (m *osMounter) Bind(source, target string) error {
	return unix.Mount(source, target, "", unix.MS_BIND, "")
}

func (m *osMounter) Move(source, target string) error {
	return unix.Mount(source, target, "", unix.MS_MOVE, "")
}

func (m *osMounter) Unmount(target string, detach bool) error {
	var flags int
	if detach {
		flags = unix.MNT_DETACH
	}
	return unix.Unmount(target, flags)
}

func (m *osMounter) MakePrivate(target string) error {
	// Propagation changes are their own mount call.
	return unix.Mount("", target, "", unix.MS_PRIVATE, "")
}

func (m *osMounter) Chmod(path string, mode uint32) error {
	return unix.Chmod(path, mode&0o7777)
}

func (m *osMounter) Chown(path string, uid, gid int) error {
	return unix.Chown(path, uid, gid)
}
