package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spacemeshos/go-governance/config/presets"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "govctl",
		Short:         "Majority voting governance over a local state",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			if err := a.configure(c); err != nil {
				return err
			}
			return a.start(c.Context())
		},
	}
	root.SetOut(a.out)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "load configuration from file")
	flags.StringVarP(&a.conf.Preset, "preset", "p", "",
		fmt.Sprintf("preset overwrites default values of the config. options %+s", presets.Options()))
	flags.StringVarP(&a.conf.DataDir, "data-dir", "d", a.conf.DataDir, "directory with the governance state")
	flags.StringVar(&a.conf.Logging.Level, "log-level", a.conf.Logging.Level, "log level")
	flags.StringVar(&a.conf.Logging.Encoder, "log-encoder", a.conf.Logging.Encoder, "log encoder, console or json")
	flags.StringVar(&a.actingAs, "as", "", "0x prefixed address of the acting account")

	root.AddCommand(
		newSettingsCmd(a),
		newPowerCmd(a),
		newProposalCmd(a),
		newVoteCmd(a),
		newExecuteCmd(a),
		newServeCmd(a),
	)
	return root
}

// run executes the command line and releases resources of the app even if the
// command failed.
func run(ctx context.Context, a *app, args []string) error {
	root := newRootCmd(a)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return errors.Join(err, a.close())
}
