package config

import (
	_ "embed"
	stderrors "errors"
	"os"
	"strings"

	"github.com/arthur-debert/rig/pkg/errors"
	"github.com/arthur-debert/rig/pkg/logging"
	"github.com/arthur-debert/rig/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// EnvPrefix is the prefix for environment overrides
const EnvPrefix = "RIG_"

// Config is the effective rig configuration
type Config struct {
	Paths     PathsConfig     `koanf:"paths" toml:"paths"`
	Packages  PackagesConfig  `koanf:"packages" toml:"packages"`
	Provision ProvisionConfig `koanf:"provision" toml:"provision"`
}

// PathsConfig locates the files rig reads and writes
type PathsConfig struct {
	Profiles string `koanf:"profiles" toml:"profiles"`
	Manifest string `koanf:"manifest" toml:"manifest"`
	Scripts  string `koanf:"scripts" toml:"scripts"`
}

// PackagesConfig configures the package reconciler
type PackagesConfig struct {
	DefaultProfile string     `koanf:"default_profile" toml:"default_profile"`
	Enumerator     []string   `koanf:"enumerator" toml:"enumerator"`
	System         CommandSet `koanf:"system" toml:"system"`
	Python         CommandSet `koanf:"python" toml:"python"`
}

// CommandSet holds the argv templates for one package kind. The package
// name is appended as the last argument.
type CommandSet struct {
	Install []string `koanf:"install" toml:"install"`
	Check   []string `koanf:"check" toml:"check"`
}

// ProvisionConfig configures the repository provisioner
type ProvisionConfig struct {
	SubmoduleBranch     string `koanf:"submodule_branch" toml:"submodule_branch"`
	IgnoreScriptFailure bool   `koanf:"ignore_script_failure" toml:"ignore_script_failure"`
}

// LoadOptions controls where configuration is read from
type LoadOptions struct {
	// Paths supplies the root and XDG locations. Required.
	Paths *paths.Paths
	// ConfigFile replaces the root config file lookup. It must exist.
	ConfigFile string
	// Overrides are applied last, keyed by dotted path ("provision.submodule_branch").
	Overrides map[string]interface{}
}

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// Load merges every configuration layer and returns the validated result
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")

	if opts.Paths == nil {
		return nil, errors.New(errors.ErrInternal, "config.Load requires paths")
	}

	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. User config
	if err := loadOptionalFile(k, opts.Paths.UserConfigFile()); err != nil {
		return nil, err
	}

	// 3. Root config, or the explicit file
	if opts.ConfigFile != "" {
		path := paths.ExpandHome(opts.ConfigFile)
		if _, err := os.Stat(path); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "config file %s", path)
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path)
		}
		logger.Debug().Str("path", path).Msg("Loaded explicit config file")
	} else if err := loadOptionalFile(k, opts.Paths.RootConfigFile()); err != nil {
		return nil, err
	}

	// 4. Environment
	err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 5. Caller overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
	}

	cfg, err := decode(k)
	if err != nil {
		return nil, err
	}

	cfg.resolvePaths(opts.Paths)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns the embedded defaults anchored at root, ignoring every
// file and environment layer.
func Default(root string) (*Config, error) {
	p, err := paths.New(root)
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	cfg, err := decode(k)
	if err != nil {
		return nil, err
	}
	cfg.resolvePaths(p)
	return cfg, nil
}

func decode(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}
	return &cfg, nil
}

func loadOptionalFile(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, errors.ErrConfigLoad, "failed to stat config %s", path)
	}
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path)
	}
	logger := logging.GetLogger("config")
	logger.Debug().Str("path", path).Msg("Loaded config file")
	return nil
}

// envKey maps RIG_PROVISION__SUBMODULE_BRANCH to provision.submodule_branch
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

func (c *Config) resolvePaths(p *paths.Paths) {
	c.Paths.Profiles = p.Resolve(c.Paths.Profiles)
	c.Paths.Manifest = p.Resolve(c.Paths.Manifest)
	c.Paths.Scripts = p.Resolve(c.Paths.Scripts)
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	switch {
	case c.Paths.Profiles == "":
		return errors.New(errors.ErrConfigValid, "paths.profiles is required")
	case c.Paths.Manifest == "":
		return errors.New(errors.ErrConfigValid, "paths.manifest is required")
	case c.Packages.DefaultProfile == "":
		return errors.New(errors.ErrConfigValid, "packages.default_profile is required")
	case len(c.Packages.Enumerator) == 0:
		return errors.New(errors.ErrConfigValid, "packages.enumerator is required")
	case c.Provision.SubmoduleBranch == "":
		return errors.New(errors.ErrConfigValid, "provision.submodule_branch is required")
	}

	for name, set := range map[string]CommandSet{"system": c.Packages.System, "python": c.Packages.Python} {
		if len(set.Install) == 0 || len(set.Check) == 0 {
			return errors.Newf(errors.ErrConfigValid, "packages.%s needs both install and check commands", name)
		}
	}

	return nil
}
