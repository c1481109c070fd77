// Package web carries the storefront front end.
package web

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed index.html assets
var embedded embed.FS

// Files returns dir when set, otherwise the embedded assets.
func Files(dir string) fs.FS {
	if dir != "" {
		return os.DirFS(dir)
	}
	return embedded
}
