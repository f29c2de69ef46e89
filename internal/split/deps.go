package split

import "os"

// fileOps abstracts the filesystem operations the materializer needs, so
// tests can observe deletions without touching disk.
type fileOps interface {
	MkdirAll(path string, perm os.FileMode) error
	Remove(name string) error
}

// osFileOps implements fileOps with the real filesystem.
type osFileOps struct{}

func (osFileOps) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (osFileOps) Remove(name string) error {
	return os.Remove(name)
}
