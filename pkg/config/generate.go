package config

import (
	"bytes"

	"github.com/arthur-debert/rig/pkg/errors"
	toml "github.com/pelletier/go-toml/v2"
)

// Render returns the configuration as TOML, in the same shape rig.toml uses.
func Render(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to render configuration")
	}
	return buf.Bytes(), nil
}

// Defaults returns the embedded default configuration file.
func Defaults() []byte {
	return append([]byte(nil), defaultConfig...)
}
