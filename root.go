package main

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/tonimelisma/gdrive-go/internal/config"
	"github.com/tonimelisma/gdrive-go/internal/drive"
	"github.com/tonimelisma/gdrive-go/internal/tree"
)

// version is set at build time via ldflags.
var version = "dev"

// Global persistent flags, bound in newRootCmd().
var (
	flagConfigPath string
	flagToken      string
	flagVerbose    bool
	flagQuiet      bool
)

// resolvedCfg holds the effective configuration loaded by
// PersistentPreRunE, available to all subcommands afterwards.
var resolvedCfg *config.Config

// errNoToken is returned when no bearer token is configured anywhere
// in the override chain.
var errNoToken = errors.New("no token configured: set GDRIVE_TOKEN, --token, or token in the config file")

// httpClientTimeout bounds every remote call so a hung connection
// cannot block a CLI command indefinitely.
const httpClientTimeout = 60 * time.Second

// newRootCmd builds and returns the fully-assembled root command with
// all subcommands registered. Called once from main().
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "gdrive",
		Short:   "Google Drive remote tree client",
		Long:    "A client for managing folder trees and file batches in Google Drive.",
		Version: version,
		// Silence Cobra's default error/usage printing — we handle it ourselves.
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Resolve(config.ReadEnvOverrides(), config.CLIOverrides{
				Token:      flagToken,
				ConfigPath: flagConfigPath,
			})
			if err != nil {
				return err
			}

			resolvedCfg = cfg

			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "config file path")
	cmd.PersistentFlags().StringVar(&flagToken, "token", "", "bearer token for the Drive API")
	cmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress informational output")

	cmd.AddCommand(newLsCmd())
	cmd.AddCommand(newMkdirCmd())
	cmd.AddCommand(newRmCmd())
	cmd.AddCommand(newPutCmd())
	cmd.AddCommand(newSyncCmd())

	return cmd
}

// buildLogger creates an slog.Logger configured by the resolved config
// and CLI flags. Text output on a terminal, JSON otherwise, so piped
// output stays machine-readable.
func buildLogger() *slog.Logger {
	level := slog.LevelInfo

	if resolvedCfg != nil {
		switch resolvedCfg.LogLevel {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}

	// CLI flags override config.
	if flagVerbose {
		level = slog.LevelDebug
	}

	if flagQuiet {
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if isatty.IsTerminal(os.Stderr.Fd()) {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}

	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

// buildTree assembles the engine from the resolved configuration.
func buildTree() (*tree.Tree, error) {
	if resolvedCfg.Token == "" {
		return nil, errNoToken
	}

	logger := buildLogger()

	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: resolvedCfg.Token})
	client := drive.NewClient(
		resolvedCfg.BaseURL,
		resolvedCfg.UploadURL,
		&http.Client{Timeout: httpClientTimeout},
		drive.OAuth2TokenSource(src),
		logger,
	)

	return tree.New(client, logger), nil
}
