package cmd

import (
	"context"
	"fmt"

	"github.com/ardnew/vscript/pkg"
)

// Version prints the program version.
type Version struct {
	Verbose bool `help:"Include the program description and authors." short:"v"`
}

// Run executes the version command.
func (v *Version) Run(ctx context.Context) error {
	w := Stdout(ctx)

	if _, err := fmt.Fprintf(w, "%s %s\n", pkg.Name, pkg.Version); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	if !v.Verbose {
		return nil
	}

	if _, err := fmt.Fprintln(w, pkg.Description); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	for _, a := range pkg.Author {
		if _, err := fmt.Fprintf(w, "%s <%s>\n", a.Name, a.Email); err != nil {
			return ErrWriteOutput.Wrap(err)
		}
	}

	return nil
}
