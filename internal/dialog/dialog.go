// Package dialog opens native file and folder pickers.
package dialog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/justyntemme/mark/internal/debug"
	"github.com/sqweek/dialog"
)

// Native implements the picker with the operating system's dialogs.
// Calls block until the dialog closes; run them off the UI goroutine.
// A dismissed dialog returns an empty path and a nil error.
type Native struct {
	// Extensions offered by the document filter, without leading dots
	Extensions []string
}

// NewNative creates a picker filtering on the given extensions (".md" or "md").
func NewNative(extensions []string) *Native {
	exts := make([]string, 0, len(extensions))
	for _, e := range extensions {
		if e = strings.TrimPrefix(e, "."); e != "" {
			exts = append(exts, e)
		}
	}
	return &Native{Extensions: exts}
}

// OpenFile asks for an existing document.
func (n *Native) OpenFile(startDir string) (string, error) {
	b := dialog.File().Title("Öffnen").SetStartDir(startDir)
	if len(n.Extensions) > 0 {
		b = b.Filter("Markdown", n.Extensions...)
	}
	path, err := b.Load()
	return n.result("open file", path, err)
}

// SaveFile asks for a target path for a document.
func (n *Native) SaveFile(startDir string) (string, error) {
	b := dialog.File().Title("Speichern unter").SetStartDir(startDir)
	if len(n.Extensions) > 0 {
		b = b.Filter("Markdown", n.Extensions...)
	}
	path, err := b.Save()
	return n.result("save file", path, err)
}

// OpenFolder asks for a workspace directory.
func (n *Native) OpenFolder(startDir string) (string, error) {
	path, err := dialog.Directory().Title("Ordner öffnen").SetStartDir(startDir).Browse()
	return n.result("open folder", path, err)
}

func (n *Native) result(op, path string, err error) (string, error) {
	switch {
	case err == nil:
		debug.Log(debug.DIALOG, "%s: %s", op, path)
		return path, nil
	case errors.Is(err, dialog.ErrCancelled):
		debug.Log(debug.DIALOG, "%s: cancelled", op)
		return "", nil
	default:
		return "", fmt.Errorf("%s: %w", op, err)
	}
}
