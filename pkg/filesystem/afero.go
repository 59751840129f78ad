package filesystem

import (
	"io/fs"

	"github.com/spf13/afero"

	"github.com/sysmod/magicmount/pkg/types"
)

// aferoFS implements types.FS using afero
type aferoFS struct {
	fs afero.Fs
}

// NewAferoFS creates a new afero filesystem implementation
func NewAferoFS(fs afero.Fs) types.FS {
	return &aferoFS{fs: fs}
}

func (a *aferoFS) Stat(name string) (fs.FileInfo, error) {
	return a.fs.Stat(name)
}

func (a *aferoFS) Lstat(name string) (fs.FileInfo, error) {
	if lr, ok := a.fs.(afero.Lstater); ok {
		info, _, err := lr.LstatIfPossible(name)
		return info, err
	}
	// MemMapFs has no symlinks, so Stat is equivalent.
	return a.fs.Stat(name)
}

func (a *aferoFS) ReadDir(name string) ([]fs.DirEntry, error) {
	entries, err := afero.ReadDir(a.fs, name)
	if err != nil {
		return nil, err
	}
	dirEntries := make([]fs.DirEntry, len(entries))
	for i, entry := range entries {
		dirEntries[i] = fs.FileInfoToDirEntry(entry)
	}
	return dirEntries, nil
}

func (a *aferoFS) ReadFile(name string) ([]byte, error) {
	return afero.ReadFile(a.fs, name)
}

func (a *aferoFS) Readlink(name string) (string, error) {
	if lr, ok := a.fs.(afero.LinkReader); ok {
		return lr.ReadlinkIfPossible(name)
	}
	return "", afero.ErrNoReadlink
}
