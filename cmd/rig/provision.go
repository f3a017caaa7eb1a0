package rig

import (
	"github.com/arthur-debert/rig/pkg/commands"
	"github.com/arthur-debert/rig/pkg/logging"
	"github.com/spf13/cobra"
)

func newProvisionCmd(g *globals) *cobra.Command {
	var maintenance bool
	cmd := &cobra.Command{
		Use:               "provision [profiles...]",
		Short:             MsgProvisionShort,
		Long:              MsgProvisionLong,
		Example:           MsgProvisionExample,
		GroupID:           "core",
		ValidArgsFunction: profileCompletion(g),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cmd.provision")
			logger.Info().Strs("profiles", args).Bool("maintenance", maintenance).Msg("Starting provision")

			env, err := g.env(cmd)
			if err != nil {
				return err
			}
			res, err := commands.Provision(cmd.Context(), env, commands.ProvisionOptions{
				Profiles:       args,
				RunMaintenance: maintenance,
			})
			if res != nil {
				if rerr := g.render(cmd, res); rerr != nil && err == nil {
					err = rerr
				}
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&maintenance, "maintenance", false, MsgFlagMaintenance)
	return cmd
}
