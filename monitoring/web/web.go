// Package web holds the static page served by the monitoring server.
package web

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// DevModeEnv names the variable that makes the page load from the source
// tree, so that edits show up without rebuilding.
const DevModeEnv = "MEMSIM_MONITOR_DEV"

//go:embed dist/*
var staticAssets embed.FS

// GetAssets returns the page files, embedded or from the source tree.
func GetAssets() http.FileSystem {
	if dir, ok := sourceDir(); ok {
		fmt.Fprintf(os.Stderr, "Monitor page served from %s\n", dir)
		return http.Dir(dir)
	}

	dist, err := fs.Sub(staticAssets, "dist")
	if err != nil {
		panic(err)
	}

	return http.FS(dist)
}

// Handler serves the page. In development mode responses are not cached.
func Handler() http.Handler {
	files := http.FileServer(GetAssets())

	if _, dev := sourceDir(); !dev {
		return files
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		files.ServeHTTP(w, r)
	})
}

func sourceDir() (string, bool) {
	switch strings.ToLower(os.Getenv(DevModeEnv)) {
	case "1", "true":
	default:
		return "", false
	}

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		panic("cannot locate the monitor page sources")
	}

	return filepath.Join(filepath.Dir(file), "dist"), true
}
