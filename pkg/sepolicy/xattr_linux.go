//go:build linux

package sepolicy

import (
	"os"

	"golang.org/x/sys/unix"
)

const selinuxXattr = "security.selinux"

// selinuxFS is where the kernel exposes a mounted SELinux policy.
const selinuxFS = "/sys/fs/selinux"

// ForHost returns the xattr labeler when the kernel has SELinux
// enabled, and an in-memory labeler otherwise: on filesystems without
// security.selinux labels every Lgetxattr fails with ENODATA, which
// would abort each shadow and mirror, so label copies degrade to
// in-process bookkeeping instead.
func ForHost() Labeler {
	if _, err := os.Stat(selinuxFS); err == nil {
		return NewXattr()
	}
	return NewMemory()
}

// xattrLabeler implements Labeler on the security.selinux xattr.
type xattrLabeler struct{}

// NewXattr returns the Labeler backed by l{get,set}xattr.
func NewXattr() Labeler {
	return &xattrLabeler{}
}

func (x *xattrLabeler) Get(path string) (string, error) {
	buf := make([]byte, 128)
	for {
		n, err := unix.Lgetxattr(path, selinuxXattr, buf)
		if err == unix.ERANGE {
			buf = make([]byte, len(buf)*2)
			continue
		}
		if err != nil {
			return "", err
		}
		// The kernel stores contexts NUL-terminated.
		if n > 0 && buf[n-1] == 0 {
			n--
		}
		return string(buf[:n]), nil
	}
}

func (x *xattrLabeler) Set(path, label string) error {
	return unix.Lsetxattr(path, selinuxXattr, []byte(label), 0)
}
