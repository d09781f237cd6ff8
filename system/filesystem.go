package system

import (
	"io/fs"
	"net/http"
	"os"
)

type VirtualFS interface {
	fs.FS
}

// Client is the part of *http.Client used to fetch HTTP based references.
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}

type FileSystem struct{}

var _ VirtualFS = (*FileSystem)(nil)

func (fs *FileSystem) Open(name string) (fs.File, error) {
	return os.Open(name)
}
