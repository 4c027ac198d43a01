// Package web embeds the HTML templates and stylesheet served by internal/web.
package web

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed static/*.css templates/*.html
var content embed.FS

// StaticFS returns the static assets.
func StaticFS() fs.FS { return mustSub("static") }

// TemplatesFS returns the page templates.
func TemplatesFS() fs.FS { return mustSub("templates") }

func mustSub(dir string) fs.FS {
	sub, err := fs.Sub(content, dir)
	if err != nil {
		panic(fmt.Sprintf("embedded %s directory: %v", dir, err))
	}
	return sub
}
