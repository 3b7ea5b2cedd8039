package cmd

import (
	"github.com/alecthomas/kong"
)

type CLI struct {
	Color   string `help:"Color output: auto, always, never." enum:"auto,always,never" default:"auto"`
	JSON    bool   `help:"JSON output to stdout; disables colors."`
	Plain   bool   `help:"TSV output to stdout; disables colors."`
	Verbose bool   `help:"Enable debug logging."`
	APIURL  string `name:"api-url" help:"Vacancy service base URL (overrides config)."`

	VersionFlag kong.VersionFlag `help:"Print version."`

	Login   LoginCmd   `cmd:"" help:"Log in and store the session token."`
	Logout  LogoutCmd  `cmd:"" help:"Forget the session token."`
	Whoami  WhoamiCmd  `cmd:"" help:"Show the logged-in identity."`
	List    ListCmd    `cmd:"" aliases:"ls" help:"List vacancies."`
	Show    ShowCmd    `cmd:"" help:"Show one vacancy."`
	Create  CreateCmd  `cmd:"" help:"Create a vacancy manually or import it from HH."`
	Edit    EditCmd    `cmd:"" help:"Edit a vacancy."`
	Delete  DeleteCmd  `cmd:"" aliases:"rm" help:"Delete a vacancy."`
	Refresh RefreshCmd `cmd:"" help:"Re-sync a vacancy from HH."`
	Version VersionCmd `cmd:"" help:"Print version."`
	Config  ConfigCmd  `cmd:"" help:"Manage configuration."`
}

func NewCLI() *CLI {
	return &CLI{}
}
