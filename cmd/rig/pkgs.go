package rig

import (
	"github.com/arthur-debert/rig/pkg/commands"
	"github.com/spf13/cobra"
)

func newPkgsCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pkgs",
		Short:   MsgPkgsShort,
		Long:    MsgPkgsLong,
		GroupID: "core",
	}
	cmd.AddCommand(newAddCmd(g))
	cmd.AddCommand(newReplaceCmd(g))
	cmd.AddCommand(newUpdateCmd(g))
	cmd.AddCommand(newResolveCmd(g))
	cmd.AddCommand(newProfilesCmd(g))
	return cmd
}

func newAddCmd(g *globals) *cobra.Command {
	complete := profileCompletion(g)
	return &cobra.Command{
		Use:   "add <package> <profiles...>",
		Short: MsgAddShort,
		Args:  cobra.MinimumNArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return complete(cmd, args[1:], toComplete)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := g.env(cmd)
			if err != nil {
				return err
			}
			res, err := commands.AddPackage(env, commands.AddPackageOptions{Package: args[0], Profiles: args[1:]})
			if err != nil {
				return err
			}
			return g.render(cmd, res)
		},
	}
}

func newReplaceCmd(g *globals) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:               "replace <profile>",
		Short:             MsgReplaceShort,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: profileCompletion(g),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := g.env(cmd)
			if err != nil {
				return err
			}
			res, err := commands.ReplacePackages(cmd.Context(), env, commands.ReplacePackagesOptions{Profile: args[0], DryRun: dryRun})
			if err != nil {
				return err
			}
			return g.render(cmd, res)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, MsgFlagDryRun)
	return cmd
}

func newUpdateCmd(g *globals) *cobra.Command {
	var dryRun, onlyNew bool
	cmd := &cobra.Command{
		Use:               "update <profile>",
		Short:             MsgUpdateShort,
		Long:              MsgUpdateLong,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: profileCompletion(g),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := g.env(cmd)
			if err != nil {
				return err
			}
			res, err := commands.UpdatePackages(cmd.Context(), env, commands.UpdatePackagesOptions{
				Profile: args[0],
				DryRun:  dryRun,
				New:     onlyNew,
			})
			if err != nil {
				return err
			}
			return g.render(cmd, res)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, MsgFlagDryRun)
	cmd.Flags().BoolVar(&onlyNew, "new", false, MsgFlagNew)
	cmd.MarkFlagsMutuallyExclusive("dry-run", "new")
	return cmd
}

func newResolveCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:               "resolve [profiles...]",
		Short:             MsgResolveShort,
		ValidArgsFunction: profileCompletion(g),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := g.env(cmd)
			if err != nil {
				return err
			}
			res, err := commands.ResolvePackages(env, args)
			if err != nil {
				return err
			}
			return g.render(cmd, res)
		},
	}
}

func newProfilesCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: MsgProfilesShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := g.env(cmd)
			if err != nil {
				return err
			}
			res, err := commands.ListProfiles(env)
			if err != nil {
				return err
			}
			return g.render(cmd, res)
		},
	}
}
