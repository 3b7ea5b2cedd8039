package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/jimezsa/vacancyctl/internal/api"
	"github.com/jimezsa/vacancyctl/internal/cmd"
	"github.com/jimezsa/vacancyctl/internal/config"
	"github.com/jimezsa/vacancyctl/internal/nav"
	"github.com/jimezsa/vacancyctl/internal/network"
	"github.com/jimezsa/vacancyctl/internal/query"
	"github.com/jimezsa/vacancyctl/internal/session"
	"github.com/jimezsa/vacancyctl/internal/ui"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	cli := cmd.NewCLI()
	applyEnvDefaults(cli)
	versionString := buildVersion()

	parser, err := kong.New(cli,
		kong.Name("vacancyctl"),
		kong.Description("Manage vacancies on the vacancy service."),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": versionString},
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	kctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		fallbackUI := ui.New(os.Stdout, os.Stderr, ui.NormalizeColorMode(os.Getenv("VACANCYCTL_COLOR")), false)
		fallbackUI.Errorf("%v", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if apiURL := strings.TrimSpace(cli.APIURL); apiURL != "" {
		cfg.APIURL = apiURL
	}

	configDir, err := config.ConfigDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	colorMode := ui.NormalizeColorMode(cli.Color)
	disableColor := cli.JSON || cli.Plain
	userInterface := ui.New(os.Stdout, os.Stderr, colorMode, disableColor)

	level := zerolog.InfoLevel
	if cli.Verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	tokenPath, err := config.TokenPath()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	store := session.NewStore(tokenPath, logger)
	if err := store.Load(); err != nil {
		userInterface.Errorf("read session: %v", err)
		os.Exit(1)
	}

	httpClient, err := network.NewClient(network.Options{
		Timeout: cfg.Timeout(),
		Proxy:   cfg.Proxy,
		Logger:  logger,
	})
	if err != nil {
		userInterface.Errorf("%v", err)
		os.Exit(1)
	}

	recorder := &nav.Recorder{}
	service, err := api.New(api.Options{
		BaseURL:     cfg.APIURL,
		Doer:        httpClient,
		Credentials: store,
		Navigator:   recorder,
		Logger:      logger,
	})
	if err != nil {
		userInterface.Errorf("%v", err)
		os.Exit(1)
	}

	base, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runCtx := &cmd.Context{
		Base:       base,
		Out:        os.Stdout,
		Err:        os.Stderr,
		UI:         userInterface,
		Config:     cfg,
		ConfigDir:  configDir,
		Logger:     logger,
		Verbose:    cli.Verbose,
		JSONOutput: cli.JSON,
		PlainText:  cli.Plain,
		Version:    versionString,
		ColorMode:  colorMode,
		Session:    store,
		Service:    service,
		Nav:        recorder,
		Clock:      clockwork.NewRealClock(),
		Engine:     query.NewEngine(cfg.Locale, cfg.SearchFields),
	}

	if err := kctx.Run(runCtx); err != nil {
		userInterface.Errorf("%v", err)
		for _, hint := range cmd.Hints(err) {
			userInterface.Hint("hint: %s", hint)
		}
		stop()
		os.Exit(1)
	}
	runCtx.SuggestNext()
}

func buildVersion() string {
	if commit == "" && date == "" {
		return version
	}
	if commit == "" {
		return fmt.Sprintf("%s (%s)", version, date)
	}
	if date == "" {
		return fmt.Sprintf("%s (%s)", version, commit)
	}
	return fmt.Sprintf("%s (%s, %s)", version, commit, date)
}

func applyEnvDefaults(cli *cmd.CLI) {
	if envBool("VACANCYCTL_JSON") {
		cli.JSON = true
	}
	if envBool("VACANCYCTL_VERBOSE") {
		cli.Verbose = true
	}
	if value := os.Getenv("VACANCYCTL_COLOR"); value != "" {
		cli.Color = value
	}
}

func envBool(key string) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return false
	}
	switch strings.ToLower(value) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
