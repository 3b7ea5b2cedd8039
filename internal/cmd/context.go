package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	crdb "github.com/cockroachdb/errors"
	"github.com/jimezsa/vacancyctl/internal/config"
	"github.com/jimezsa/vacancyctl/internal/export"
	"github.com/jimezsa/vacancyctl/internal/nav"
	"github.com/jimezsa/vacancyctl/internal/query"
	"github.com/jimezsa/vacancyctl/internal/session"
	"github.com/jimezsa/vacancyctl/internal/ui"
	"github.com/jimezsa/vacancyctl/internal/vacancy"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// Service is everything the commands need from the vacancy service.
// *api.Client satisfies it.
type Service interface {
	vacancy.API
	session.Authenticator
}

type Context struct {
	Base       context.Context
	Out        io.Writer
	Err        io.Writer
	UI         *ui.UI
	Config     config.Config
	ConfigDir  string
	Logger     zerolog.Logger
	Verbose    bool
	JSONOutput bool
	PlainText  bool
	Version    string
	ColorMode  ui.ColorMode

	Session *session.Store
	Service Service
	Nav     *nav.Recorder
	Clock   clockwork.Clock
	Engine  *query.Engine

	// NewConfirmer, ReadLine and ReadPassword default to the terminal
	// prompts in package ui.
	NewConfirmer func(assumeYes bool) vacancy.Confirmer
	ReadLine     func(label string) (string, error)
	ReadPassword func(label string) (string, error)
}

func (c *Context) base() context.Context {
	if c.Base != nil {
		return c.Base
	}
	return context.Background()
}

func (c *Context) clock() clockwork.Clock {
	if c.Clock != nil {
		return c.Clock
	}
	return clockwork.NewRealClock()
}

func (c *Context) engine() *query.Engine {
	if c.Engine != nil {
		return c.Engine
	}
	return query.NewEngine(c.Config.Locale, c.Config.SearchFields)
}

func (c *Context) confirmer(assumeYes bool) vacancy.Confirmer {
	if c.NewConfirmer != nil {
		return c.NewConfirmer(assumeYes)
	}
	return ui.NewConfirmer(assumeYes)
}

func (c *Context) navigator() nav.Navigator {
	if c.Nav == nil {
		c.Nav = &nav.Recorder{}
	}
	return c.Nav
}

// requireSession gates protected commands.
func (c *Context) requireSession() error {
	if c.Session == nil {
		return session.ErrNotAuthenticated
	}
	return session.Guard{Store: c.Session, Navigator: c.navigator()}.Require()
}

// startIndicator shows a spinner on stderr unless output is machine-readable.
func (c *Context) startIndicator(text string) func() {
	if c.JSONOutput || c.PlainText {
		return func() {}
	}
	if stop := ui.StartIndicator(c.Err, text); stop != nil {
		return stop
	}
	return func() {}
}

func (c *Context) writeOptions(w io.Writer) export.WriteOptions {
	if c.UI == nil {
		return export.WriteOptions{}
	}
	return export.WriteOptions{
		Hyperlinks: c.UI.ColorEnabled && ui.IsTTY(w),
		Badge:      c.UI.Badge,
		Link:       c.UI.LinkText,
	}
}

// outputFormat resolves --json, --plain and --format. Files default to CSV,
// terminals to a table.
func (c *Context) outputFormat(flag string, toFile bool) (export.Format, error) {
	if c.JSONOutput {
		return export.FormatJSON, nil
	}
	if c.PlainText {
		return export.FormatTSV, nil
	}
	if strings.TrimSpace(flag) != "" {
		return export.ParseFormat(flag)
	}
	if !toFile && ui.IsTTY(c.Out) {
		return export.FormatTable, nil
	}
	return export.FormatCSV, nil
}

// openOutput returns stdout, or the file at path when one is given.
func (c *Context) openOutput(path string) (io.Writer, func() error, error) {
	if strings.TrimSpace(path) == "" {
		return c.Out, func() error { return nil }, nil
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return file, file.Close, nil
}

// SuggestNext prints the command matching the last route a view navigated to.
func (c *Context) SuggestNext() {
	if c.JSONOutput || c.PlainText || c.Nav == nil || c.UI == nil {
		return
	}
	route, ok := c.Nav.Last()
	if !ok {
		return
	}
	c.UI.Hint("next: %s", CommandFor(route))
}

// CommandFor maps a route to the command that shows it.
func CommandFor(route nav.Route) string {
	switch route.Kind {
	case nav.KindLogin:
		return "vacancyctl login"
	case nav.KindCreate:
		return "vacancyctl create"
	case nav.KindDetail:
		return fmt.Sprintf("vacancyctl show %d", route.ID)
	case nav.KindEdit:
		return fmt.Sprintf("vacancyctl edit %d", route.ID)
	default:
		return "vacancyctl list"
	}
}

// viewError is a failure already turned into the text a view shows. The
// underlying error stays reachable for errors.Is and hints.
type viewError struct {
	msg   string
	cause error
}

func (e *viewError) Error() string { return e.msg }

func (e *viewError) Unwrap() error { return e.cause }

// failure returns the error a command reports: the view's message when it
// has one, else err itself.
func failure(err error, msg string) error {
	if err == nil {
		return nil
	}
	var verr *vacancy.ValidationError
	if msg == "" || errors.As(err, &verr) {
		return err
	}
	return &viewError{msg: msg, cause: err}
}

// Hints returns every hint attached to err. kong joins the command's error
// with its hook errors, so each branch of a join is searched too.
func Hints(err error) []string {
	if err == nil {
		return nil
	}
	hints := crdb.GetAllHints(err)
	for cur := err; cur != nil; cur = crdb.UnwrapOnce(cur) {
		joined, ok := cur.(interface{ Unwrap() []error })
		if !ok {
			continue
		}
		for _, branch := range joined.Unwrap() {
			for _, hint := range Hints(branch) {
				if !slices.Contains(hints, hint) {
					hints = append(hints, hint)
				}
			}
		}
		break
	}
	return hints
}

func notFound(id int64) error {
	return crdb.WithHint(crdb.Newf("vacancy %d not found", id), "run `vacancyctl list` to see existing vacancies")
}
