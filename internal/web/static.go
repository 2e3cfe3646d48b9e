package web

import (
	"embed"
)

// staticFiles holds the embedded planning page and its stylesheet.
// The final binary includes all files under static/.
//
//go:embed static/*
var staticFiles embed.FS
