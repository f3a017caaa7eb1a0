package rig

import (
	"fmt"

	"github.com/arthur-debert/rig/pkg/commands"
	"github.com/spf13/cobra"
)

func newStatusCmd(g *globals) *cobra.Command {
	var pull bool
	cmd := &cobra.Command{
		Use:     "status",
		Short:   MsgStatusShort,
		Long:    MsgStatusLong,
		Example: MsgStatusExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := g.env(cmd)
			if err != nil {
				return err
			}
			res, err := commands.Status(cmd.Context(), env, commands.StatusOptions{Pull: pull})
			if res != nil {
				if rerr := g.render(cmd, res); rerr != nil && err == nil {
					err = rerr
				}
			}
			if err != nil {
				return err
			}
			if res.Failed() {
				failed := 0
				for _, row := range res.Rows {
					if row.Error != "" {
						failed++
					}
				}
				return fmt.Errorf(MsgErrStatusFailed, failed)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&pull, "pull", false, MsgFlagPull)
	return cmd
}
