// Package manifest loads the JSON list of repositories rig provisions.
//
// The file is an array of objects:
//
//	[{"name": "dot", "repo": "https://example/dot.git", "location": "~/dot",
//	  "enabled": true, "script": "install.sh"}]
//
// name, repo and location are required on every enabled entry. A missing
// "enabled" reads as false. Disabled entries are never validated.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/rig/pkg/errors"
	"github.com/arthur-debert/rig/pkg/logging"
	"github.com/arthur-debert/rig/pkg/paths"
	"github.com/arthur-debert/rig/pkg/types"
)

// Declaration is one repository entry
type Declaration struct {
	Name string
	Repo string
	// Location is absolute once loaded: ~ expanded, relative paths anchored
	// at the manifest's base directory.
	Location string
	Enabled  bool
	// Script is relative to Location; nil when the entry has none.
	Script *string
}

// HasScript reports whether a post-clone script is declared
func (d Declaration) HasScript() bool {
	return d.Script != nil && *d.Script != ""
}

// ScriptPath returns the script resolved against the location
func (d Declaration) ScriptPath() string {
	if !d.HasScript() {
		return ""
	}
	if filepath.IsAbs(*d.Script) {
		return *d.Script
	}
	return filepath.Join(d.Location, *d.Script)
}

func (d Declaration) String() string {
	return fmt.Sprintf("%s (%s -> %s)", d.Name, d.Repo, d.Location)
}

type entry struct {
	Name     *string `json:"name"`
	Repo     *string `json:"repo"`
	Location *string `json:"location"`
	Enabled  *bool   `json:"enabled"`
	Script   *string `json:"script"`
}

// Load reads and validates the manifest at path. Relative locations are
// resolved against baseDir. Any invalid enabled entry fails the whole load.
func Load(fs types.FS, path, baseDir string) ([]Declaration, error) {
	logger := logging.GetLogger("manifest")

	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestLoad, "failed to read manifest %s", path)
	}

	decls, err := Parse(data, baseDir)
	if err != nil {
		if rerr, ok := err.(*errors.RigError); ok {
			rerr.WithDetail("path", path)
		}
		return nil, err
	}

	logger.Debug().
		Str("path", path).
		Int("entries", len(decls)).
		Int("enabled", len(Enabled(decls))).
		Msg("Loaded manifest")
	return decls, nil
}

// Parse decodes manifest JSON
func Parse(data []byte, baseDir string) ([]Declaration, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	var entries []entry
	if err := dec.Decode(&entries); err != nil {
		return nil, errors.Wrap(err, errors.ErrManifestInvalid, "manifest must be a JSON array of repository objects")
	}

	decls := make([]Declaration, 0, len(entries))
	for i, e := range entries {
		d, err := e.declaration(baseDir)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrManifestInvalid, "manifest entry %d", i).
				WithDetail("index", i)
		}
		decls = append(decls, d)
	}
	return decls, nil
}

func (e entry) declaration(baseDir string) (Declaration, error) {
	d := Declaration{
		Name:     deref(e.Name),
		Repo:     deref(e.Repo),
		Location: deref(e.Location),
		Enabled:  e.Enabled != nil && *e.Enabled,
	}
	if e.Script != nil && strings.TrimSpace(*e.Script) != "" {
		script := strings.TrimSpace(*e.Script)
		d.Script = &script
	}

	if !d.Enabled {
		return d, nil
	}

	var missing []string
	for _, f := range []struct {
		key   string
		value string
	}{{"name", d.Name}, {"repo", d.Repo}, {"location", d.Location}} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.key)
		}
	}
	if len(missing) > 0 {
		label := d.Name
		if label == "" {
			label = "<unnamed>"
		}
		return d, errors.Newf(errors.ErrManifestInvalid, "%s: missing required key(s): %s", label, strings.Join(missing, ", "))
	}

	d.Location = resolveLocation(d.Location, baseDir)
	return d, nil
}

func resolveLocation(location, baseDir string) string {
	location = paths.ExpandHome(location)
	if !filepath.IsAbs(location) && baseDir != "" {
		location = filepath.Join(baseDir, location)
	}
	return filepath.Clean(location)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Enabled returns the enabled declarations in manifest order
func Enabled(decls []Declaration) []Declaration {
	out := make([]Declaration, 0, len(decls))
	for _, d := range decls {
		if d.Enabled {
			out = append(out, d)
		}
	}
	return out
}
