package hostapp

import (
	"fmt"
	"path/filepath"
)

// Directory codes understood by DirectoryList.Path.
const (
	DirRoot  = "root"
	DirApp   = "app"
	DirEtc   = "etc"
	DirVar   = "var"
	DirLog   = "log"
	DirMedia = "media"
)

var directories = map[string]string{
	DirRoot:  "",
	DirApp:   "app",
	DirEtc:   "app/etc",
	DirVar:   "var",
	DirLog:   "var/log",
	DirMedia: "pub/media",
}

// DirectoryList resolves well-known directories under the application root.
type DirectoryList struct {
	root string
}

// NewDirectoryList returns a DirectoryList for root.
func NewDirectoryList(root string) *DirectoryList {
	return &DirectoryList{root: filepath.Clean(root)}
}

// Root returns the application root.
func (d *DirectoryList) Root() string { return d.root }

// Path returns the absolute path for a directory code.
func (d *DirectoryList) Path(code string) (string, error) {
	rel, ok := directories[code]
	if !ok {
		return "", fmt.Errorf("hostapp: unknown directory code %q", code)
	}
	return filepath.Join(d.root, rel), nil
}
