package ui

import (
	"context"
	"os"
	"strings"

	crdb "github.com/cockroachdb/errors"
	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
)

// ErrNotInteractive is returned when a prompt is needed but stdin is not a
// terminal.
var ErrNotInteractive = crdb.New("stdin is not a terminal")

// Confirmer asks yes/no questions on the terminal.
type Confirmer struct {
	// AssumeYes answers every question with yes without prompting.
	AssumeYes bool
	Input     *os.File

	ask func(prompt string) (bool, error)
}

func NewConfirmer(assumeYes bool) *Confirmer {
	return &Confirmer{AssumeYes: assumeYes, Input: os.Stdin}
}

func (c *Confirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	if c.AssumeYes {
		return true, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if c.ask != nil {
		return c.ask(prompt)
	}
	if !Interactive(c.Input) {
		return false, crdb.WithHint(ErrNotInteractive, "pass --yes to confirm without a prompt")
	}
	return pterm.DefaultInteractiveConfirm.WithDefaultValue(false).Show(prompt)
}

// Interactive reports whether f is attached to a terminal.
func Interactive(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ReadPassword prompts for a secret with masked input.
func ReadPassword(label string) (string, error) {
	if !Interactive(os.Stdin) {
		return "", crdb.WithHint(ErrNotInteractive, "pass --password or set VACANCYCTL_PASSWORD")
	}
	value, err := pterm.DefaultInteractiveTextInput.WithMask("*").Show(label)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(value, "\r\n"), nil
}

// ReadLine prompts for a plain value.
func ReadLine(label string) (string, error) {
	if !Interactive(os.Stdin) {
		return "", ErrNotInteractive
	}
	value, err := pterm.DefaultInteractiveTextInput.Show(label)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}
