package commands

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	audience "github.com/reoring/audience"
)

// NewFmtCommand returns the fmt subcommand.
func NewFmtCommand() *cli.Command {
	return &cli.Command{
		Name:      "fmt",
		Usage:     "Print a selector in canonical form (implicit ORs become explicit)",
		ArgsUsage: "[FILE]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "indent",
				Usage: "Indent JSON output",
			},
			&cli.StringFlag{
				Name:  "output",
				Usage: "Output format: json or yaml",
				Value: "json",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			rt, err := setup(cmd)
			if err != nil {
				return err
			}
			name := cmd.Args().First()
			if name == "" {
				name = stdinName
			}
			sel, err := rt.parseFile(ctx, name)
			if err != nil {
				return err
			}
			out, err := render(sel, cmd.String("output"), cmd.Bool("indent"))
			if err != nil {
				return err
			}
			_, err = rt.out.Write(out)
			return err
		},
	}
}

func (rt *runtime) parseFile(ctx context.Context, name string) (audience.Selector, error) {
	data, err := readInput(name, rt.cfg.MaxBytes)
	if err != nil {
		return nil, err
	}
	sel, err := audience.ParseFrom(ctx, newSource(detectFormat(name), data), rt.opt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return sel, nil
}

func render(sel audience.Selector, output string, indent bool) ([]byte, error) {
	switch output {
	case "yaml":
		return yaml.Marshal(audience.ToValue(sel))
	case "json", "":
		b, err := audience.Marshal(sel)
		if err != nil {
			return nil, err
		}
		if indent {
			var buf bytes.Buffer
			if err := json.Indent(&buf, b, "", "  "); err != nil {
				return nil, err
			}
			b = buf.Bytes()
		}
		return append(b, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", output)
	}
}
