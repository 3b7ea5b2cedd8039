package cmd

import (
	"fmt"
	"strings"

	"github.com/jimezsa/vacancyctl/internal/config"
	"github.com/jimezsa/vacancyctl/internal/export"
)

type ConfigCmd struct {
	Init InitConfigCmd `cmd:"" help:"Write the default config file."`
	Path PathConfigCmd `cmd:"" help:"Print config directory."`
	Show ShowConfigCmd `cmd:"" help:"Print the effective configuration."`
}

type InitConfigCmd struct{}

type PathConfigCmd struct{}

type ShowConfigCmd struct{}

func (c *InitConfigCmd) Run(ctx *Context) error {
	paths, err := config.Init()
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		ctx.UI.Infof("Config already initialized at %s", ctx.ConfigDir)
		return nil
	}
	ctx.UI.Infof("Created: %s", strings.Join(paths, ", "))
	return nil
}

func (c *PathConfigCmd) Run(ctx *Context) error {
	_, err := fmt.Fprintln(ctx.Out, ctx.ConfigDir)
	return err
}

func (c *ShowConfigCmd) Run(ctx *Context) error {
	if ctx.JSONOutput {
		return export.WriteJSON(ctx.Out, ctx.Config)
	}
	cfg := ctx.Config
	rows := [][2]string{
		{"api_url", cfg.APIURL},
		{"timeout_seconds", fmt.Sprint(cfg.TimeoutSeconds)},
		{"proxy", cfg.Proxy},
		{"locale", cfg.Locale},
		{"search_fields", strings.Join(cfg.SearchFields, ",")},
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(ctx.Out, "%s\t%s\n", row[0], row[1]); err != nil {
			return err
		}
	}
	return nil
}
