package ui

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed dist
var distFS embed.FS

// GetFileSystem returns the embedded dashboard filesystem rooted at dist/
func GetFileSystem() (http.FileSystem, error) {
	fsys, err := fs.Sub(distFS, "dist")
	if err != nil {
		return nil, err
	}
	return http.FS(fsys), nil
}
