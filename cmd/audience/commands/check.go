package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	audience "github.com/reoring/audience"
)

// NewCheckCommand returns the check subcommand.
func NewCheckCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Validate one or more selector files (JSON, JSONC or YAML; - for stdin)",
		ArgsUsage: "FILE...",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			rt, err := setup(cmd)
			if err != nil {
				return err
			}
			files := cmd.Args().Slice()
			if len(files) == 0 {
				files = []string{stdinName}
			}
			return rt.checkFiles(ctx, files)
		},
	}
}

// checkFiles validates every file and aggregates the failures; one bad file
// does not stop the others from being checked.
func (rt *runtime) checkFiles(ctx context.Context, files []string) error {
	var errs *multierror.Error
	for _, name := range files {
		if err := rt.checkFile(ctx, name); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errs.ErrorOrNil()
}

func (rt *runtime) checkFile(ctx context.Context, name string) error {
	log := rt.log.WithField("file", name)
	data, err := readInput(name, rt.cfg.MaxBytes)
	if err != nil {
		log.Errorf("Error reading %s", name)
		return err
	}
	f := detectFormat(name)
	log.Debugf("Checking %s as %s", name, f)

	if rt.opt.Strictness.OnDuplicateKey == audience.Warn {
		dups, err := audience.DetectDuplicateKeys(newSource(f, data), audience.Strictness{OnDuplicateKey: audience.Warn}, 0)
		if err != nil {
			log.WithError(err).Debug("duplicate key scan stopped")
		}
		for _, d := range dups {
			if d.Code != audience.CodeDuplicateKey {
				log.WithFields(logrus.Fields{"path": d.Path, "code": d.Code}).Debugf("duplicate key scan stopped: %s", d.Message)
				continue
			}
			log.WithField("path", d.Path).Warn(d.Message)
		}
	}

	sel, err := audience.ParseFrom(ctx, newSource(f, data), rt.opt)
	if err != nil {
		var iss audience.Issues
		if errors.As(err, &iss) {
			for _, is := range iss {
				log.WithFields(logrus.Fields{"path": is.Path, "code": is.Code}).Debug(is.Message)
				fmt.Fprintf(rt.out, "%s:%s: %s: %s\n", name, is.Path, is.Code, is.Message)
			}
		}
		return err
	}
	log.WithField("type", sel.Type().String()).Debug("selector is valid")
	fmt.Fprintf(rt.out, "%s: ok\n", name)
	return nil
}
