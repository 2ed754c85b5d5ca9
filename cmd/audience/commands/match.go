package commands

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	audience "github.com/reoring/audience"
)

// NewMatchCommand returns the match subcommand.
func NewMatchCommand() *cli.Command {
	return &cli.Command{
		Name:      "match",
		Usage:     "Report whether a device is selected by a selector",
		ArgsUsage: "SELECTOR_FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "device",
				Aliases:  []string{"d"},
				Usage:    "Path to device JSON file",
				Required: true,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			rt, err := setup(cmd)
			if err != nil {
				return err
			}
			name := cmd.Args().First()
			if name == "" {
				return fmt.Errorf("selector file is required")
			}
			sel, err := rt.parseFile(ctx, name)
			if err != nil {
				return err
			}
			raw, err := readInput(cmd.String("device"), 0)
			if err != nil {
				return fmt.Errorf("read device: %w", err)
			}
			dev, err := decodeDevice(raw)
			if err != nil {
				return err
			}
			ok := audience.Match(sel, dev)
			rt.log.WithField("selector", sel.String()).Debugf("match=%v", ok)
			_, err = fmt.Fprintln(rt.out, ok)
			return err
		},
	}
}

// deviceFile is the on-disk device description.
type deviceFile struct {
	Tags      map[string][]string `json:"tags"`
	Aliases   []string            `json:"aliases"`
	Segments  []string            `json:"segments"`
	NamedUser string              `json:"named_user"`
	IDs       map[string]string   `json:"ids"`
	Triggered bool                `json:"triggered"`
}

// decodeDevice decodes a device description. IDs are keyed by selector
// keyword ("apid", "ios_channel", ...).
func decodeDevice(data []byte) (audience.Device, error) {
	var df deviceFile
	if err := json.Unmarshal(data, &df); err != nil {
		return audience.Device{}, fmt.Errorf("decode device: %w", err)
	}
	dev := audience.Device{
		Tags:      df.Tags,
		Aliases:   df.Aliases,
		Segments:  df.Segments,
		NamedUser: df.NamedUser,
		Triggered: df.Triggered,
	}
	if len(df.IDs) > 0 {
		dev.IDs = make(map[audience.SelectorType]string, len(df.IDs))
		for k, v := range df.IDs {
			t, ok := audience.LookupType(k)
			if !ok || t.Category() != audience.CategoryValue {
				return audience.Device{}, fmt.Errorf("decode device: %q is not a value selector keyword", k)
			}
			dev.IDs[t] = v
		}
	}
	return dev, nil
}
