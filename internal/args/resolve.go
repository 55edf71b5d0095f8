// Package args turns raw command-line tokens into absolute document paths.
//
// Resolution never fails: a token that cannot be canonicalized (most often a
// file that does not exist yet) resolves to its lexical absolute form instead.
package args

import (
	"path/filepath"
	"strings"

	"github.com/justyntemme/mark/internal/debug"
)

// FlagPrefix marks tokens that are flags rather than paths.
const FlagPrefix = "-"

// Resolution is the outcome of resolving a single argument.
type Resolution struct {
	Arg  string // The raw token as given on the command line
	Path string // Absolute result, canonical when Canonical is set

	// Canonical reports which branch produced Path. When false, Path is the
	// lexical candidate and Err holds the canonicalization failure.
	Canonical bool
	Err       error
}

// IsFlag reports whether a token is excluded from resolution.
func IsFlag(arg string) bool {
	return strings.HasPrefix(arg, FlagPrefix)
}

// Resolve returns the absolute path for every non-flag argument, in order.
// Duplicates are kept.
func Resolve(args []string, cwd string) []string {
	resolved := ResolveEach(args, cwd)
	paths := make([]string, len(resolved))
	for i, r := range resolved {
		paths[i] = r.Path
	}
	return paths
}

// ResolveEach is Resolve with the branch taken for each argument exposed.
func ResolveEach(args []string, cwd string) []Resolution {
	out := make([]Resolution, 0, len(args))
	for _, arg := range args {
		if IsFlag(arg) {
			debug.Log(debug.ARGS, "skipping flag %q", arg)
			continue
		}
		out = append(out, resolveOne(arg, cwd))
	}
	return out
}

// ResolvePath resolves a single path the way Resolve does, without the flag
// filter. Used for paths that come from dialogs rather than the command line.
func ResolvePath(path, cwd string) string {
	return resolveOne(path, cwd).Path
}

func resolveOne(arg, cwd string) Resolution {
	candidate := Candidate(arg, cwd)

	canonical, err := Canonicalize(candidate)
	if err != nil {
		debug.Log(debug.ARGS, "%q: using lexical path %q (%v)", arg, candidate, err)
		return Resolution{Arg: arg, Path: candidate, Err: err}
	}

	debug.Log(debug.ARGS, "%q: canonical path %q", arg, canonical)
	return Resolution{Arg: arg, Path: canonical, Canonical: true}
}

// Candidate is the lexical absolute form of arg: arg itself when absolute,
// otherwise arg joined onto cwd. It never touches the filesystem.
func Candidate(arg, cwd string) string {
	if filepath.IsAbs(arg) {
		return arg
	}
	return filepath.Join(cwd, arg)
}

// Canonicalize resolves symlinks and collapses . and .. in path. It fails
// when the path does not exist.
func Canonicalize(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", err
	}
	return filepath.Abs(resolved)
}
