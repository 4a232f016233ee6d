package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

func readAll(t *testing.T, files []bindingFile) []string {
	t.Helper()

	out := make([]string, len(files))

	for i, f := range files {
		data, err := io.ReadAll(f)
		if err != nil {
			t.Fatalf("reading %s: %v", f.name, err)
		}

		out[i] = string(data)
	}

	return out
}

func TestStdioDefaults(t *testing.T) {
	ctx := context.Background()

	if Stdout(ctx) != os.Stdout {
		t.Error("Stdout should default to os.Stdout")
	}

	if Stdin(ctx) != os.Stdin {
		t.Error("Stdin should default to os.Stdin")
	}

	var buf bytes.Buffer

	r := strings.NewReader("x")

	ctx = WithStdin(WithStdout(ctx, &buf), r)

	if Stdout(ctx) != &buf {
		t.Error("Stdout should return the installed writer")
	}

	if Stdin(ctx) != r {
		t.Error("Stdin should return the installed reader")
	}
}

func TestBindingsFromDefault(t *testing.T) {
	b := bindingsFrom(context.Background())
	if b == nil || len(b.Vars) != 0 || b.Now != "" {
		t.Errorf("bindingsFrom() = %+v, want empty bindings", b)
	}

	want := &Bindings{Now: "0"}
	if got := bindingsFrom(WithBindings(context.Background(), want)); got != want {
		t.Errorf("bindingsFrom() = %p, want %p", got, want)
	}
}

func TestResolveBindingFilesEmpty(t *testing.T) {
	files, err := resolveBindingFiles(t.Context(), nil)
	if err != nil {
		t.Fatal(err)
	}

	if len(files) != 0 {
		t.Errorf("got %d files, want 0", len(files))
	}
}

func TestResolveBindingFilesOrder(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.yaml", "first")
	b := writeFile(t, dir, "b.yaml", "second")

	files, err := resolveBindingFiles(t.Context(), []string{a, b})
	if err != nil {
		t.Fatal(err)
	}
	defer closeAll(files)

	got := readAll(t, files)
	if len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Errorf("got %q, want [first second]", got)
	}
}

func TestResolveBindingFilesDuplicates(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "vars.yaml", "content")

	link := filepath.Join(dir, "link.yaml")
	if err := os.Symlink(path, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	t.Chdir(dir)

	files, err := resolveBindingFiles(t.Context(),
		[]string{path, "vars.yaml", "./vars.yaml", link})
	if err != nil {
		t.Fatal(err)
	}
	defer closeAll(files)

	if len(files) != 1 {
		t.Errorf("got %d files, want 1 after deduplication", len(files))
	}
}

func TestResolveBindingFilesStdinLast(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "vars.yaml", "file")

	ctx := WithStdin(t.Context(), strings.NewReader("stdin"))

	files, err := resolveBindingFiles(ctx, []string{"-", path, "-"})
	if err != nil {
		t.Fatal(err)
	}
	defer closeAll(files)

	got := readAll(t, files)
	if len(got) != 2 || got[0] != "file" || got[1] != "stdin" {
		t.Errorf("got %q, want [file stdin]", got)
	}

	if files[1].name != stdinSource {
		t.Errorf("last file name = %q, want %q", files[1].name, stdinSource)
	}
}

func TestResolveBindingFilesNonexistent(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "vars.yaml", "file")

	_, err := resolveBindingFiles(t.Context(),
		[]string{path, filepath.Join(dir, "missing.yaml")})
	if err == nil {
		t.Fatal("expected error for nonexistent file")
	}

	if !errors.Is(err, ErrReadBindings) {
		t.Errorf("error %v should match ErrReadBindings", err)
	}

	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error %v should wrap os.ErrNotExist", err)
	}
}

func TestResolveBindingFilesSearchPath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "shared.yaml", "shared")

	t.Chdir(t.TempDir())
	t.Setenv("VSCRIPT_PATH", dir)

	files, err := resolveBindingFiles(t.Context(), []string{"shared.yaml"})
	if err != nil {
		t.Fatal(err)
	}
	defer closeAll(files)

	if len(files) != 1 {
		t.Fatalf("got %d files, want 1", len(files))
	}

	if got := readAll(t, files); got[0] != "shared" {
		t.Errorf("got %q, want shared", got[0])
	}
}
