// Package web provides the embedded assets for the `umdl serve` status page.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed all:assets
var embeddedFiles embed.FS

// GetFileSystem returns an http.FileSystem serving the embedded status page.
func GetFileSystem() http.FileSystem {
	page, err := fs.Sub(embeddedFiles, "assets")
	if err != nil {
		panic(err)
	}
	return http.FS(page)
}
