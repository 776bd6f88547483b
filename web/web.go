// Package web holds the views and static assets served by the application.
package web

import (
	"embed"
	"io/fs"
)

//go:embed all:Views wwwroot
var files embed.FS

// Views returns the view templates rooted at Views/.
func Views() fs.FS {
	return sub("Views")
}

// Static returns the static assets rooted at wwwroot/.
func Static() fs.FS {
	return sub("wwwroot")
}

func sub(dir string) fs.FS {
	fsys, err := fs.Sub(files, dir)
	if err != nil {
		panic(err)
	}
	return fsys
}
