// Command autohub-inventory lists the marketplace catalog and exports snapshots of it.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"autohub.ng/autohub-web/internal/api"
	"autohub.ng/autohub-web/internal/config"
	"autohub.ng/autohub-web/internal/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCLI(os.Stdout).RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "autohub-inventory: %v\n", err)
		os.Exit(1)
	}
}

func newCLI(out io.Writer) *cli.App {
	return &cli.App{
		Name:   "autohub-inventory",
		Usage:  "inspect and snapshot the marketplace catalog",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env-file", Value: ".env", Usage: "dotenv file read after the process environment"},
			&cli.StringFlag{Name: "api-base-url", Usage: "marketplace API root, overrides AUTOHUB_API_BASE_URL"},
			&cli.StringFlag{Name: "log-level", Value: "warn", Usage: "debug, info, warn or error"},
		},
		Commands: []*cli.Command{
			listCommand(),
			exportCommand(),
		},
	}
}

// env bundles what every subcommand needs.
type env struct {
	cfg    config.Config
	client *api.Client
	logger *zap.Logger
}

func setup(c *cli.Context) (*env, error) {
	overrides := map[string]string{}
	if u := c.String("api-base-url"); u != "" {
		overrides["AUTOHUB_API_BASE_URL"] = u
	}
	cfg, err := config.Load(c.Context, config.WithEnvFile(c.String("env-file")), config.WithEnvMap(overrides))
	if err != nil {
		return nil, err
	}
	logger, err := observability.NewLogger(c.String("log-level"))
	if err != nil {
		return nil, err
	}
	client, err := api.NewClient(cfg.API.BaseURL, api.WithTimeout(cfg.API.Timeout))
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, client: client, logger: logger}, nil
}
