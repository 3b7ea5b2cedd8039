package cmd

import (
	"fmt"
	"strings"

	crdb "github.com/cockroachdb/errors"
	"github.com/jimezsa/vacancyctl/internal/export"
	"github.com/jimezsa/vacancyctl/internal/nav"
	"github.com/jimezsa/vacancyctl/internal/session"
	"github.com/jimezsa/vacancyctl/internal/ui"
)

type LoginCmd struct {
	Username string `short:"u" help:"Account username." env:"VACANCYCTL_USERNAME"`
	Password string `short:"p" help:"Account password; prompted when omitted." env:"VACANCYCTL_PASSWORD"`
}

func (l *LoginCmd) Run(ctx *Context) error {
	if ctx.Session == nil || ctx.Service == nil {
		return crdb.New("session store is not configured")
	}

	username := strings.TrimSpace(l.Username)
	if username == "" {
		read := ctx.ReadLine
		if read == nil {
			read = ui.ReadLine
		}
		value, err := read("Username")
		if err != nil {
			return crdb.WithHint(err, "pass --username")
		}
		username = strings.TrimSpace(value)
	}
	password := l.Password
	if password == "" {
		read := ctx.ReadPassword
		if read == nil {
			read = ui.ReadPassword
		}
		value, err := read("Password")
		if err != nil {
			return err
		}
		password = value
	}
	if username == "" || password == "" {
		return crdb.New("username and password are required")
	}

	stop := ctx.startIndicator("Logging in...")
	err := ctx.Session.Login(ctx.base(), ctx.Service, username, password)
	stop()
	if err != nil {
		if crdb.Is(err, session.ErrLoginFailed) {
			return crdb.WithHint(err, "check the username and password")
		}
		return err
	}

	name := username
	if identity, ok := ctx.Session.Identity(); ok {
		name = identity.DisplayName
	}
	ctx.navigator().Navigate(nav.Root())
	ctx.UI.Successf("Logged in as %s", name)
	return nil
}

type LogoutCmd struct{}

func (l *LogoutCmd) Run(ctx *Context) error {
	if ctx.Session == nil {
		return nil
	}
	if err := ctx.Session.Logout(); err != nil {
		return err
	}
	ctx.navigator().Navigate(nav.Login())
	ctx.UI.Infof("Logged out")
	return nil
}

type WhoamiCmd struct{}

type whoamiOutput struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

func (w *WhoamiCmd) Run(ctx *Context) error {
	if err := ctx.requireSession(); err != nil {
		return err
	}
	identity, ok := ctx.Session.Identity()
	if !ok {
		ctx.UI.Warnf("Logged in, but the token carries no readable identity")
		return nil
	}
	if ctx.JSONOutput {
		return export.WriteJSON(ctx.Out, whoamiOutput{ID: identity.ID, DisplayName: identity.DisplayName})
	}
	if ctx.PlainText {
		_, err := fmt.Fprintf(ctx.Out, "%s\t%s\n", identity.ID, identity.DisplayName)
		return err
	}
	_, err := fmt.Fprintf(ctx.Out, "%s (%s)\n", identity.DisplayName, identity.ID)
	return err
}
