// Command chartview renders charts headlessly and edits the layer display
// settings used by the chart compositor.
package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli"

	rlidisplay "github.com/zappa672/RLIDisplay"
	"github.com/zappa672/RLIDisplay/config"
)

func main() {
	// A missing .env is normal.
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		slog.Error("chartview failed", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "chartview"
	app.Usage = "render S-52 charts and edit layer display settings"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "config",
			Usage:  "Path to the YAML configuration (created with defaults when missing)",
			Value:  "rli.yaml",
			EnvVar: "RLI_CONFIG",
		},
		cli.StringFlag{
			Name:   "log-level",
			Usage:  "Override log.level: debug, info, warn or error",
			EnvVar: "RLI_LOG_LEVEL",
		},
	}
	app.Commands = []cli.Command{
		renderCommand(),
		layersCommand(),
		toggleCommand(),
		moveCommand(),
		soundingsCommand(),
		chartsCommand(),
	}
	return app
}

// setup loads the configuration and installs the logger.
func setup(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.GlobalString("config"))
	if err != nil {
		return nil, err
	}
	if lvl := c.GlobalString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	installLogger(os.Stderr, cfg.LogLevel())
	return cfg, nil
}

func installLogger(w io.Writer, level slog.Level) {
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	rlidisplay.SetLogger(logger)
}
