//go:build !debug

// Package debug is mark's development log. This build carries no logging;
// build with -tags debug to enable it.
package debug

type Category string

const (
	APP       Category = "APP"
	ARGS      Category = "ARGS"
	MENU      Category = "MENU"
	EVENT     Category = "EVENT"
	CONFIG    Category = "CONFIG"
	STORE     Category = "STORE"
	UI        Category = "UI"
	WORKSPACE Category = "WORKSPACE"
	DIALOG    Category = "DIALOG"
)

func Log(cat Category, format string, args ...any) {}

func EnableAll() {}
