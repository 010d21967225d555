package catalog

import (
	"embed"
	"io/fs"
)

//go:embed templates/*
var embeddedTemplates embed.FS

// BuiltinFS returns the bundled sample templates.
func BuiltinFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		// The embed directive guarantees the subpath exists.
		panic(err)
	}
	return sub
}

// Builtin loads the bundled sample templates.
func Builtin(options ...LoadOption) (*Store, error) {
	return LoadFS(BuiltinFS(), options...)
}
