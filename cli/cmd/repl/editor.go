package repl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/vscript/lang"
	"github.com/ardnew/vscript/log"
)

const defaultEditor = "vi"

// Decoder parses a YAML or JSON binding document into a new store.
type Decoder func(ctx context.Context, r io.Reader) (lang.MapStore, error)

// editStoreCommand implements [tea.ExecCommand] for the store
// edit-decode-retry loop. It writes the current bindings as YAML to a temp
// file, opens the user's editor, and decodes the result. On a decode error
// the user is prompted to re-edit; declining exits the program.
type editStoreCommand struct {
	store    lang.MapStore
	decode   Decoder
	ctxFunc  func() context.Context
	newStore lang.MapStore
	logger   log.Logger
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editStoreCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editStoreCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editStoreCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-decode-retry loop. An emptied file cancels the edit
// and leaves newStore nil. If the user declines to re-edit after a decode
// error, it returns [ErrEditDeclined].
func (c *editStoreCommand) Run() error {
	if c.decode == nil {
		return ErrNoDecoder
	}

	ctx := c.ctxFunc()

	var buf bytes.Buffer
	if err := lang.EncodeYAML(ctx, &buf, c.store, 2); err != nil {
		return fmt.Errorf("encode bindings: %w", err)
	}

	f, err := os.CreateTemp(os.TempDir(), "vscript-repl-*.yaml")
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	if err := f.Close(); err != nil {
		return err
	}

	content := buf.Bytes()

	for {
		if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
			return err
		}

		data, err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath)
		if err != nil {
			return err
		}

		if len(bytes.TrimSpace(data)) == 0 {
			return nil
		}

		store, decodeErr := c.decode(ctx, bytes.NewReader(data))
		c.logger.TraceContext(
			ctx,
			"editor decode attempt",
			slog.Int("content_length", len(data)),
			slog.Bool("success", decodeErr == nil),
		)

		if decodeErr == nil {
			c.newStore = store

			return nil
		}

		fmt.Fprintf(c.stderr, "\nBinding error: %s\n", decodeErr)
		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		switch strings.TrimSpace(strings.ToLower(scanner.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}

		content = data
	}
}

// runEditor launches the user's editor on the given file path and returns the
// edited file content.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) ([]byte, error) {
	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}

	if editor == "" {
		editor = defaultEditor
	}

	// Allow editors configured with arguments, e.g. "code --wait".
	args := strings.Fields(editor)

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return nil, err
	}

	return os.ReadFile(path)
}
