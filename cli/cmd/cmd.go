package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/vscript/pkg"
)

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file.
	ConfigIdentifier = "config"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	stdoutKey   struct{}
	stdinKey    struct{}
	bindingsKey struct{}
)

// WithStdout returns a new context.Context whose commands write their results
// to w instead of [os.Stdout].
func WithStdout(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, stdoutKey{}, w)
}

// Stdout returns the writer stored by [WithStdout], or [os.Stdout].
func Stdout(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(stdoutKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}

// WithStdin returns a new context.Context whose commands read expressions and
// "-" binding files from r instead of [os.Stdin].
func WithStdin(ctx context.Context, r io.Reader) context.Context {
	return context.WithValue(ctx, stdinKey{}, r)
}

// Stdin returns the reader stored by [WithStdin], or [os.Stdin].
func Stdin(ctx context.Context) io.Reader {
	if r, ok := ctx.Value(stdinKey{}).(io.Reader); ok && r != nil {
		return r
	}

	return os.Stdin
}

// WithBindings returns a new context.Context containing the global binding
// flags shared by every evaluating command.
func WithBindings(ctx context.Context, b *Bindings) context.Context {
	return context.WithValue(ctx, bindingsKey{}, b)
}

func bindingsFrom(ctx context.Context) *Bindings {
	if b, ok := ctx.Value(bindingsKey{}).(*Bindings); ok && b != nil {
		return b
	}

	return &Bindings{}
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// bindingFile is one resolved binding file, opened for reading.
type bindingFile struct {
	io.ReadCloser

	name string
}

// resolveBindingFiles opens the binding files named by sources in order.
//
// Relative names not found in the working directory are searched along
// [pkg.SearchPath] of the [pkg.PathEnv] environment variable. The same file
// named twice, through symlinks or different relative and absolute paths, is
// opened once. All occurrences of "-" collapse into a single stdin reader
// placed last, so files are applied first and stdin overrides them.
func resolveBindingFiles(ctx context.Context, sources []string) ([]bindingFile, error) {
	files := make([]bindingFile, 0, len(sources))
	seen := make(map[fileKey]struct{})
	hasStdin := false

	for _, src := range sources {
		if src == stdinSource {
			hasStdin = true

			continue
		}

		path, err := searchBindingFile(src)
		if err != nil {
			closeAll(files)

			return nil, ErrReadBindings.Wrap(err).With(fileAttr(src))
		}

		file, ok, err := openUniqueFile(path, seen)
		if err != nil {
			closeAll(files)

			return nil, ErrReadBindings.Wrap(err).With(fileAttr(path))
		}

		if ok {
			files = append(files, bindingFile{ReadCloser: file, name: path})
		}
	}

	if hasStdin {
		files = append(files, bindingFile{
			ReadCloser: io.NopCloser(Stdin(ctx)),
			name:       stdinSource,
		})
	}

	return files, nil
}

// searchBindingFile returns the path of the binding file named src.
func searchBindingFile(src string) (string, error) {
	if filepath.IsAbs(src) {
		return src, nil
	}

	if _, err := os.Stat(src); err == nil {
		return src, nil
	}

	for _, dir := range pkg.SearchPath(os.Getenv(pkg.PathEnv)) {
		candidate := filepath.Join(dir, src)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", &os.PathError{Op: "open", Path: src, Err: os.ErrNotExist}
}

// openUniqueFile opens the file at path if it hasn't been seen before.
// It resolves symlinks and uses device/inode to detect duplicates.
// It reports false without error when the file is a duplicate.
func openUniqueFile(path string, seen map[fileKey]struct{}) (io.ReadCloser, bool, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, false, err
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, false, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, false, err
	}

	if key, ok := makeFileKey(info); ok {
		if _, exists := seen[key]; exists {
			return nil, false, nil
		}

		seen[key] = struct{}{}
	}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, false, err
	}

	return file, true, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}

func closeAll(files []bindingFile) {
	for _, f := range files {
		_ = f.Close()
	}
}
