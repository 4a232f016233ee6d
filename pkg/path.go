package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/ardnew/mung"
)

// PathEnv is the environment variable listing extra directories searched for
// relative binding file names.
const PathEnv = "VSCRIPT_PATH"

// Prefix returns the base prefix string used to construct the path to the
// configuration directory and the cache directory.
//
// By default, Prefix is the base name of the executable file unless it matches
// one of the following substitution rules:
//   - "__debug_bin" (default output of the dlv debugger): replaced with [Name]
//   - "^\.+" (dot-prefixed names): remove the dot prefix
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		exe, err := os.Executable()
		if err == nil {
			id = exe
		}

		ext := filepath.Ext(filepath.Base(id))
		id = strings.TrimSuffix(filepath.Base(id), ext)

		for rex, rep := range map[*regexp.Regexp]string{
			regexp.MustCompile(`^__debug_bin\d+$`): Name, // default output from dlv
			regexp.MustCompile(`^\.+`):             "",   // remove leading dot(s)
		} {
			id = rex.ReplaceAllString(id, rep)
		}

		if id == "" {
			return Name
		}

		return id
	},
)

// ConfigDir returns the configuration directory path.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(
	func() string {
		return filepath.Join(userDir(os.UserConfigDir, ".config"), Prefix())
	},
)

// CacheDir returns the cache directory path used for transient files such as
// REPL history and profiles.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(
	func() string {
		return filepath.Join(userDir(os.UserCacheDir, ".cache"), Prefix())
	},
)

// userDir returns the directory reported by lookup, falling back to a hidden
// directory in the user's home and then to the working directory.
func userDir(lookup func() (string, error), hidden string) string {
	dir, err := lookup()
	if err == nil {
		return dir
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, hidden)
	}

	if wd, err := os.Getwd(); err == nil {
		return wd
	}

	return "."
}

// SearchPath returns the directories searched for relative binding files:
// the working directory and [ConfigDir] followed by each directory listed in
// the given PATH-like value (normally the content of [PathEnv]).
// Duplicates and entries that are not existing directories are removed.
func SearchPath(list string) []string {
	munged := mung.Make(
		mung.WithSubjectItems(list),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(".", ConfigDir()),
	).String()

	var dirs []string

	for _, dir := range filepath.SplitList(munged) {
		if isDir(dir) && !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}

	return dirs
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}
