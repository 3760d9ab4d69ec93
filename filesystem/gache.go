package filesystem

import (
	"io"
	"os"
)

// GacheFs routes gache persistence through the swappable backend so that
// history records land in MemMapFs under test.
type GacheFs struct{}

func (GacheFs) OpenFile(name string, flag int, perm os.FileMode) (io.ReadWriteCloser, error) {
	return API().OpenFile(name, flag, perm)
}

func (GacheFs) MkdirAll(path string, perm os.FileMode) error {
	return API().MkdirAll(path, perm)
}
