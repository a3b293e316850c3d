// Package client embeds the browser script that connects the server rendered
// navbar to its live component.
package client

import (
	"embed"
	"io/fs"
	"net/http"
)

// ScriptName is the file name of the live navbar script.
const ScriptName = "navbar.js"

//go:embed src/*.js
var assets embed.FS

// Assets returns the embedded scripts rooted at src.
func Assets() fs.FS {
	fsys, err := fs.Sub(assets, "src")
	if err != nil {
		panic(err)
	}
	return fsys
}

// Handler serves the embedded scripts. Mount it behind http.StripPrefix.
func Handler() http.Handler {
	return http.FileServer(http.FS(Assets()))
}

// Script returns the live navbar script.
func Script() []byte {
	data, err := assets.ReadFile("src/" + ScriptName)
	if err != nil {
		panic(err)
	}
	return data
}
