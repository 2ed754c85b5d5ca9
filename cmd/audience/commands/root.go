package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	audience "github.com/reoring/audience"
	"github.com/reoring/audience/i18n"
	"github.com/reoring/audience/internal/config"
	drvgojson "github.com/reoring/audience/source/gojson"
)

// NewRootCommand returns the top-level CLI command.
func NewRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "audience",
		Usage: "Validate, format and evaluate push audience selectors",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file (default $" + config.EnvConfigPath + ")",
			},
			&cli.StringFlag{
				Name:  "lang",
				Usage: "Message language (en, ja); overrides the config file",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Commands: []*cli.Command{
			NewCheckCommand(),
			NewFmtCommand(),
			NewMatchCommand(),
		},
	}
}

// runtime is the per-invocation state shared by subcommands.
type runtime struct {
	cfg *config.Config
	opt audience.ParseOpt
	log *logrus.Logger
	out io.Writer
}

// setup loads the config and applies global flags. The message language and
// JSON driver are process-wide settings.
func setup(cmd *cli.Command) (*runtime, error) {
	cfg, err := config.Load(config.Path(cmd.String("config")))
	if err != nil {
		return nil, err
	}
	if lang := cmd.String("lang"); lang != "" {
		cfg.Lang = lang
	}

	log := logrus.New()
	log.SetOutput(errWriter(cmd))
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	level, err := logrus.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	log.SetLevel(level)
	if cmd.Bool("debug") {
		log.SetLevel(logrus.DebugLevel)
	}

	i18n.SetLanguage(cfg.Lang)
	switch cfg.Driver {
	case "encoding/json":
		audience.UseDefaultJSONDriver()
	default:
		audience.SetJSONDriver(drvgojson.Driver())
	}
	log.WithFields(logrus.Fields{
		"driver":         audience.CurrentJSONDriver().Name(),
		"max_depth":      cfg.MaxDepth,
		"duplicate_keys": cfg.DuplicateKeys,
	}).Debug("configuration loaded")

	return &runtime{cfg: cfg, opt: cfg.ParseOpt(), log: log, out: outWriter(cmd)}, nil
}

func outWriter(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func errWriter(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}
