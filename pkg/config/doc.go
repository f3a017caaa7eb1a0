// Package config loads rig's configuration.
//
// Configuration is layered with koanf, later layers overriding earlier ones:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. the user file, $XDG_CONFIG_HOME/rig/rig.toml
//  3. the root file, <root>/rig.toml, or the file given with --config
//  4. RIG_ environment variables, with a double underscore between
//     section and key: RIG_PROVISION__SUBMODULE_BRANCH=main
//  5. overrides passed by the caller (command line flags)
//
// Relative paths in the [paths] section are resolved against the rig root
// once all layers are merged.
package config
