package packages

import (
	"bytes"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/arthur-debert/rig/pkg/errors"
	"github.com/arthur-debert/rig/pkg/filesystem"
	"github.com/arthur-debert/rig/pkg/logging"
	"github.com/arthur-debert/rig/pkg/types"
	"github.com/rs/zerolog"
)

// List file names inside a profile folder
const (
	TrackedList       = "tracked"
	IgnoreList        = "ignore"
	PythonTrackedList = "python_tracked"
)

// Store reads and writes profile lists under a profiles root
type Store struct {
	fs     types.FS
	root   string
	logger zerolog.Logger
}

// NewStore creates a store for the profiles under root
func NewStore(fs types.FS, root string) *Store {
	return &Store{
		fs:     fs,
		root:   root,
		logger: logging.GetLogger("packages.store"),
	}
}

// Root returns the profiles root
func (s *Store) Root() string {
	return s.root
}

func (s *Store) profileDir(profile string) string {
	return filepath.Join(s.root, profile)
}

// Profiles returns the names of every profile folder, sorted
func (s *Store) Profiles() ([]string, error) {
	isDir, err := filesystem.IsDir(s.fs, s.root)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to access profiles root %s", s.root)
	}
	if !isDir {
		return []string{}, nil
	}

	entries, err := s.fs.ReadDir(s.root)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to list profiles in %s", s.root)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Validate returns PROFILE_NOT_FOUND for the first name with no folder
func (s *Store) Validate(profiles ...string) error {
	for _, p := range profiles {
		if p == "" || strings.ContainsRune(p, filepath.Separator) || p == "." || p == ".." {
			return errors.Newf(errors.ErrInvalidInput, "invalid profile name %q", p)
		}
		isDir, err := filesystem.IsDir(s.fs, s.profileDir(p))
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "failed to access profile %s", p)
		}
		if !isDir {
			return errors.Newf(errors.ErrProfileNotFound, "profile %q not found in %s", p, s.root).
				WithDetail("profile", p)
		}
	}
	return nil
}

// ReadList reads one list of a profile. A missing file is an empty set.
func (s *Store) ReadList(profile, list string) (Set, error) {
	path := filepath.Join(s.profileDir(profile), list)

	exists, err := filesystem.Exists(s.fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to access %s", path)
	}
	if !exists {
		s.logger.Trace().Str("path", path).Msg("List file absent, reading as empty")
		return NewSet(), nil
	}

	data, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", path)
	}

	names, err := parseList(data)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrProfileMalformed, "malformed package list %s", path).
			WithDetail("profile", profile).
			WithDetail("list", list)
	}

	s.logger.Debug().
		Str("profile", profile).
		Str("list", list).
		Int("count", len(names)).
		Msg("Read package list")
	return NewSet(names...), nil
}

func parseList(data []byte) ([]string, error) {
	if !utf8.Valid(data) {
		return nil, errors.New(errors.ErrProfileMalformed, "not valid UTF-8 text")
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return nil, errors.New(errors.ErrProfileMalformed, "contains NUL bytes")
	}

	var names []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		names = append(names, line)
	}
	return names, nil
}

// Persist replaces a profile's tracked list with packages, one per line
func (s *Store) Persist(profile string, packages Set) error {
	if err := s.Validate(profile); err != nil {
		return err
	}

	var buf strings.Builder
	for _, name := range packages.Sorted() {
		buf.WriteString(name)
		buf.WriteByte('\n')
	}

	path := filepath.Join(s.profileDir(profile), TrackedList)
	if err := s.fs.WriteFile(path, []byte(buf.String()), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrProfileWrite, "failed to write %s", path)
	}

	s.logger.Info().
		Str("profile", profile).
		Int("count", packages.Len()).
		Msg("Persisted tracked packages")
	return nil
}

// AddPackage adds pkg to the tracked list of every named profile. All
// profiles are validated before any list is written.
func (s *Store) AddPackage(pkg string, profiles []string) error {
	pkg = strings.TrimSpace(pkg)
	if pkg == "" || strings.ContainsAny(pkg, " \t\r\n") {
		return errors.Newf(errors.ErrInvalidInput, "invalid package name %q", pkg)
	}
	if len(profiles) == 0 {
		return errors.New(errors.ErrInvalidInput, "at least one profile is required")
	}
	if err := s.Validate(profiles...); err != nil {
		return err
	}

	for _, p := range profiles {
		tracked, err := s.ReadList(p, TrackedList)
		if err != nil {
			return err
		}
		if tracked.Contains(pkg) {
			s.logger.Debug().Str("profile", p).Str("package", pkg).Msg("Package already tracked")
			continue
		}
		tracked.Add(pkg)
		if err := s.Persist(p, tracked); err != nil {
			return err
		}
	}
	return nil
}
