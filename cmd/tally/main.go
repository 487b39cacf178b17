package main

import (
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/tally-app/tally-cli/internal/api"
	"github.com/tally-app/tally-cli/internal/cache"
	"github.com/tally-app/tally-cli/internal/cli"
	"github.com/tally-app/tally-cli/internal/cli/auth"
	"github.com/tally-app/tally-cli/internal/cli/habits"
	"github.com/tally-app/tally-cli/internal/cli/insights"
	"github.com/tally-app/tally-cli/internal/cli/system"
	"github.com/tally-app/tally-cli/internal/constants"
	"github.com/tally-app/tally-cli/internal/errors"
	"github.com/tally-app/tally-cli/internal/keyring"
	"github.com/tally-app/tally-cli/internal/logger"
	"github.com/tally-app/tally-cli/internal/store"
)

var CLI struct {
	Version   kong.VersionFlag
	APIURL    string `help:"Base URL of the tally service." env:"TALLY_API_URL" default:"${api_url}"`
	ConfigDir string `help:"Config and cache directory." env:"TALLY_CONFIG_DIR" default:"${config_dir}"`
	Debug     bool   `help:"Enable debug logging to stderr."`

	Tui      system.TuiCmd        `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Habit    habits.HabitCmd      `cmd:"" help:"Manage habits."`
	Insights insights.InsightsCmd `cmd:"" help:"Show habit statistics."`
	Login    auth.LoginCmd        `cmd:"" help:"Store an API session token."`
	Logout   auth.LogoutCmd       `cmd:"" help:"Remove the stored session token."`
	Whoami   auth.WhoamiCmd       `cmd:"" help:"Show session status."`
	Doctor   system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Terminal client for the tally habit-tracking service"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":    constants.Version,
			"api_url":    constants.DefaultAPIBaseURL,
			"config_dir": constants.DefaultConfigDir,
		},
	)

	configDir := cli.ExpandPath(CLI.ConfigDir)
	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir}); err != nil {
		errors.Fatalf("failed to initialize logging: %v", err)
	}

	// A broken cache degrades to cold starts; it never blocks the command.
	c, err := cache.Open(filepath.Join(configDir, constants.CacheFileName))
	if err != nil {
		logger.Warn("Cache unavailable", "error", err)
		c = nil
	} else {
		defer c.Close()
	}

	client := api.New(CLI.APIURL, api.WithTokenSource(sessionToken))

	appCtx := &cli.Context{
		Store:     store.New(client),
		Client:    client,
		Cache:     c,
		ConfigDir: configDir,
	}

	if err := ctx.Run(appCtx); err != nil {
		errors.Fatal(err)
	}
}

// sessionToken feeds the gateway from the OS keyring. A missing token sends
// requests unauthenticated so the service can answer with a proper 401.
func sessionToken() (string, error) {
	token, err := keyring.GetToken()
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", nil
		}
		return "", err
	}
	return token, nil
}
