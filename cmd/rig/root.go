// Package rig implements the rig command-line interface.
package rig

import (
	"context"
	"fmt"

	"github.com/arthur-debert/rig/internal/version"
	"github.com/arthur-debert/rig/pkg/core"
	"github.com/arthur-debert/rig/pkg/logging"
	"github.com/arthur-debert/rig/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// globals holds the persistent flags shared by every command
type globals struct {
	verbosity  int
	root       string
	configFile string
	format     string
}

// env builds the runtime for one command. In JSON mode the progress lines
// and prompts go to stderr so stdout stays a single document.
func (g *globals) env(cmd *cobra.Command) (*core.Env, error) {
	format, err := ui.ParseFormat(g.format)
	if err != nil {
		return nil, err
	}
	out := cmd.OutOrStdout()
	if format == ui.FormatJSON {
		out = cmd.ErrOrStderr()
	}
	return core.NewEnv(core.Options{
		Root:       g.root,
		ConfigFile: g.configFile,
		In:         cmd.InOrStdin(),
		Out:        out,
		ErrOut:     cmd.ErrOrStderr(),
	})
}

func (g *globals) renderer(cmd *cobra.Command) (ui.Renderer, error) {
	format, err := ui.ParseFormat(g.format)
	if err != nil {
		return nil, err
	}
	return ui.NewRenderer(format, cmd.OutOrStdout()), nil
}

// render writes result with the selected renderer
func (g *globals) render(cmd *cobra.Command, result interface{}) error {
	r, err := g.renderer(cmd)
	if err != nil {
		return err
	}
	return r.RenderResult(result)
}

// Execute runs rootCmd and reports a failure on its error stream in the
// format selected by --format, JSON included. It returns the exit code.
func Execute(ctx context.Context, rootCmd *cobra.Command) int {
	defer func() { _ = logging.Close() }()
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	format := ui.FormatAuto
	if name, ferr := rootCmd.PersistentFlags().GetString("format"); ferr == nil {
		if parsed, perr := ui.ParseFormat(name); perr == nil {
			format = parsed
		}
	}
	if rerr := ui.NewRenderer(format, rootCmd.ErrOrStderr()).RenderError(err); rerr != nil {
		log.Error().Err(rerr).Msg("Failed to render error")
	}
	return 1
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	g := &globals{}

	rootCmd := &cobra.Command{
		Use:     "rig",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(g.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf(MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&g.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&g.root, "root", "", MsgFlagRoot)
	rootCmd.PersistentFlags().StringVar(&g.configFile, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVar(&g.format, "format", "auto", MsgFlagFormat)
	_ = rootCmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "term", "text", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newProvisionCmd(g))
	rootCmd.AddCommand(newStatusCmd(g))
	rootCmd.AddCommand(newPkgsCmd(g))
	rootCmd.AddCommand(newConfigCmd(g))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	return rootCmd
}

// profileCompletion completes profile folder names
func profileCompletion(g *globals) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		env, err := g.env(cmd)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		profiles, err := env.Store().Profiles()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}

		taken := make(map[string]bool, len(args))
		for _, a := range args {
			taken[a] = true
		}
		var names []string
		for _, p := range profiles {
			if !taken[p] {
				names = append(names, p)
			}
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	}
}
