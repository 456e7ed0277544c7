// Package web embeds the browser dashboard served by the API at "/".
//
// The dashboard is a static page that calls the /api/v1 endpoints and
// listens on /api/v1/ws for ranking progress.
package web

import (
	"embed"
	"io/fs"
)

//go:embed all:out
var dist embed.FS

// DistFS returns a filesystem rooted at the embedded out/ directory.
func DistFS() fs.FS {
	sub, err := fs.Sub(dist, "out")
	if err != nil {
		// out/ is embedded at compile time, so this cannot fail at runtime.
		panic("web: " + err.Error())
	}
	return sub
}
