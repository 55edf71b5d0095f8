//go:build debug

// Package debug is mark's development log. Messages are grouped by
// category and written to stderr through zerolog; release builds compile
// every call away.
//
// MARK_DEBUG selects categories: "all", "none", or a comma list such as
// "menu,event". A leading "-" removes a category, so "all,-workspace"
// keeps everything but the scanner noise.
package debug

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

type Category string

const (
	APP       Category = "APP"       // Window lifecycle, startup handoff
	ARGS      Category = "ARGS"      // Command-line path resolution
	MENU      Category = "MENU"      // Menu construction and activation
	EVENT     Category = "EVENT"     // Forwarding to the UI layer
	CONFIG    Category = "CONFIG"    // Configuration file
	STORE     Category = "STORE"     // Settings and recents database
	UI        Category = "UI"        // Frontend state changes
	WORKSPACE Category = "WORKSPACE" // Scanning, watching, find bar
	DIALOG    Category = "DIALOG"    // Native dialogs
)

// Noisy categories stay off unless asked for.
var defaults = map[Category]bool{
	APP: true, ARGS: true, MENU: true, EVENT: true,
	CONFIG: true, STORE: true, UI: true,
	WORKSPACE: false, DIALOG: false,
}

var (
	mu      sync.RWMutex
	enabled = parseCategories(os.Getenv("MARK_DEBUG"))
	logger  = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000"}).
		With().Timestamp().Logger()
)

// parseCategories applies a MARK_DEBUG value on top of the defaults.
// Unknown names are ignored.
func parseCategories(spec string) map[Category]bool {
	out := make(map[Category]bool, len(defaults))
	for c, on := range defaults {
		out[c] = on
	}
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return out
	}

	// A plain list replaces the defaults; only "-name" entries amend them.
	replace := false
	for _, f := range strings.Split(spec, ",") {
		f = strings.TrimSpace(f)
		if f != "" && !strings.HasPrefix(f, "-") {
			replace = true
		}
	}
	if replace {
		for c := range out {
			out[c] = false
		}
	}

	for _, f := range strings.Split(spec, ",") {
		f = strings.ToUpper(strings.TrimSpace(f))
		on := !strings.HasPrefix(f, "-")
		name := Category(strings.TrimPrefix(f, "-"))
		switch name {
		case "":
		case "ALL", "NONE":
			for c := range out {
				out[c] = on && name == "ALL"
			}
		default:
			if _, known := out[name]; known {
				out[name] = on
			}
		}
	}
	return out
}

// Log writes a message when cat is enabled.
func Log(cat Category, format string, args ...any) {
	mu.RLock()
	on := enabled[cat]
	mu.RUnlock()
	if !on {
		return
	}
	logger.Debug().Str("cat", string(cat)).Msg(fmt.Sprintf(format, args...))
}

// EnableAll turns on every category, as --debug does.
func EnableAll() {
	mu.Lock()
	for c := range enabled {
		enabled[c] = true
	}
	mu.Unlock()
}
