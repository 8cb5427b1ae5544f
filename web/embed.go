// Package web embeds the browser front end served by the tracker.
package web

import (
	"embed"
	"io/fs"
)

//go:embed index.html static
var assets embed.FS

// FS returns the embedded assets rooted at the web directory
func FS() fs.FS {
	return assets
}

// Static returns the static/ subtree for mounting under /static/
func Static() (fs.FS, error) {
	return fs.Sub(assets, "static")
}
