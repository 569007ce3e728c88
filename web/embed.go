// Package web embeds the browser application shell.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var files embed.FS

// Static returns the shell rooted at static/, so "index.html" is at the top.
func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		// static is compiled in, Sub only fails on a malformed name
		panic(err)
	}
	return sub
}
