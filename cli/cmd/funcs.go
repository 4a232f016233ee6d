package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ardnew/vscript/lang"
)

var (
	funcsHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	funcsCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	funcsNameStyle   = funcsCellStyle.Foreground(lipgloss.Color("6"))
)

// Funcs lists the built-in functions.
type Funcs struct {
	Names bool `help:"Print only function names, one per line." short:"n"`
}

// Run executes the funcs command.
func (f *Funcs) Run(ctx context.Context) error {
	w := Stdout(ctx)

	if f.Names {
		for b := range lang.Builtins() {
			if _, err := fmt.Fprintln(w, b.Name); err != nil {
				return ErrWriteOutput.Wrap(err)
			}
		}

		return nil
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("NAME", "ARITY", "SIGNATURE", "DESCRIPTION").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return funcsHeaderStyle
			case col == 0:
				return funcsNameStyle
			default:
				return funcsCellStyle
			}
		})

	for b := range lang.Builtins() {
		t.Row(b.Name, b.Arity(), b.Signature(), b.Doc)
	}

	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
