// Package file provides file-backed configuration and prompt storage.
// Configuration lives in a TOML file, prompts in user-editable text
// files, both under the per-user intellidoc directory.
package file
