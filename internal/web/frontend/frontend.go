// Package frontend embeds the browser upload UI.
package frontend

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var staticFS embed.FS

// FS returns the embedded UI files rooted at the static directory.
func FS() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Handler serves the embedded UI; index.html answers the root path.
func Handler() http.Handler {
	return http.FileServer(http.FS(FS()))
}
