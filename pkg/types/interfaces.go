package types

import (
	"io/fs"
)

// FS is the read-side filesystem interface consumed by the module
// scanner. Implementations live in pkg/filesystem.
type FS interface {
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)
	ReadDir(name string) ([]fs.DirEntry, error)
	ReadFile(name string) ([]byte, error)
	Readlink(name string) (string, error)
}
