package ui

import (
	"io"

	"github.com/muesli/termenv"
	"github.com/pterm/pterm"
)

// StartIndicator shows a spinner on w while a request is in flight. It
// returns the stop function, or nil when w is not a terminal.
func StartIndicator(w io.Writer, text string) func() {
	if w == nil || !IsTTY(w) {
		return nil
	}
	spinner, err := pterm.DefaultSpinner.WithWriter(w).WithRemoveWhenDone(true).Start(text)
	if err != nil {
		return nil
	}
	return func() {
		_ = spinner.Stop()
	}
}

func IsTTY(out io.Writer) bool {
	output := termenv.NewOutput(out)
	return output.ColorProfile() != termenv.Ascii
}
