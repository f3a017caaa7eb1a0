package rig

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	MsgRootShort       = "Provision a machine from package profiles and a repository manifest"
	MsgPkgsShort       = "Maintain package profiles"
	MsgAddShort        = "Track a package in one or more profiles"
	MsgReplaceShort    = "Replace a profile's tracked list with the installed packages"
	MsgUpdateShort     = "Grow a profile's tracked list with the installed packages"
	MsgResolveShort    = "Print the packages a profile selection installs"
	MsgProfilesShort   = "List the package profiles"
	MsgProvisionShort  = "Install packages and clone repositories"
	MsgStatusShort     = "Show the working copy status of every repository"
	MsgConfigShort     = "Print the effective configuration as TOML"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate man pages into a directory"

	// Flag descriptions
	MsgFlagVerbose     = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagRoot        = "rig root directory (default: RIG_ROOT, git toplevel or cwd)"
	MsgFlagConfig      = "configuration file to use instead of <root>/rig.toml"
	MsgFlagFormat      = "output format: auto, term, text or json"
	MsgFlagDryRun      = "print the result without writing the profile"
	MsgFlagNew         = "print only installed packages the profile does not know"
	MsgFlagMaintenance = "run the maintenance scripts after provisioning"
	MsgFlagPull        = "ask to pull each repository instead of reporting status"
	MsgFlagDefaults    = "print the built-in defaults instead of the effective configuration"

	// Error messages
	MsgErrNoCommand    = "no command specified"
	MsgErrStatusFailed = "%d repositories could not be inspected"
	MsgErrManDir       = "failed to create man page directory: %w"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/pkgs-long.txt
	msgPkgsLongRaw string
	MsgPkgsLong    = strings.TrimSpace(msgPkgsLongRaw)

	//go:embed msgs/update-long.txt
	msgUpdateLongRaw string
	MsgUpdateLong    = strings.TrimSpace(msgUpdateLongRaw)

	//go:embed msgs/provision-long.txt
	msgProvisionLongRaw string
	MsgProvisionLong    = strings.TrimSpace(msgProvisionLongRaw)

	//go:embed msgs/provision-example.txt
	msgProvisionExampleRaw string
	MsgProvisionExample    = strings.TrimRight(msgProvisionExampleRaw, "\n")

	//go:embed msgs/status-long.txt
	msgStatusLongRaw string
	MsgStatusLong    = strings.TrimSpace(msgStatusLongRaw)

	//go:embed msgs/status-example.txt
	msgStatusExampleRaw string
	MsgStatusExample    = strings.TrimRight(msgStatusExampleRaw, "\n")

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw) + "\n"
)
