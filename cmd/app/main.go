package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/mkraev/pantry/internal"
	"github.com/mkraev/pantry/internal/catalog"
	"github.com/mkraev/pantry/internal/convert"
	"github.com/mkraev/pantry/internal/index"
	"github.com/mkraev/pantry/internal/inventory"
	"github.com/mkraev/pantry/internal/mcpserver"
	pkgconfig "github.com/mkraev/pantry/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func runConvert(ctx context.Context, cmd *cli.Command) error {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	return convert.Convert(cmd.String("input"), cmd.String("output"), logger)
}

// runMCP serves the pantry tools over stdio. Logs go to stderr so they
// do not corrupt the protocol stream on stdout.
func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("load recipe catalog: %w", err)
	}

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	if err := index.Sync(db, cat, logger); err != nil {
		return fmt.Errorf("index sync: %w", err)
	}

	srv := mcpserver.New(inventory.New(), catalog.NewHolder(cat), db)
	return srv.ServeStdio()
}

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("PANTRY_CONFIG_FILE"),
	}
}

func main() {
	cmd := &cli.Command{
		Name:   "pantry",
		Usage:  "Household pantry tracker with expiry tagging and recipe suggestions",
		Action: runServe,
		Flags:  []cli.Flag{configFlag()},
		Commands: []*cli.Command{
			{
				Name:   "convert",
				Usage:  "Convert a CSV or XLSX recipe dataset into the JSON catalog format",
				Action: runConvert,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "Input dataset (.csv or .xlsx)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "output",
						Aliases:  []string{"o"},
						Usage:    "Output catalog JSON path",
						Required: true,
					},
				},
			},
			{
				Name:   "mcp",
				Usage:  "Serve pantry tools over the Model Context Protocol on stdio",
				Action: runMCP,
				Flags:  []cli.Flag{configFlag()},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
