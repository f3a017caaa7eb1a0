package packages

import (
	"context"

	"github.com/arthur-debert/rig/pkg/logging"
	"github.com/rs/zerolog"
)

// Reconciler combines profile lists with the installed snapshot
type Reconciler struct {
	store          *Store
	lister         Lister
	defaultProfile string
	logger         zerolog.Logger
}

// NewReconciler creates a reconciler. defaultProfile is used when a caller
// names no profiles.
func NewReconciler(store *Store, lister Lister, defaultProfile string) *Reconciler {
	return &Reconciler{
		store:          store,
		lister:         lister,
		defaultProfile: defaultProfile,
		logger:         logging.GetLogger("packages"),
	}
}

// Store returns the underlying profile store
func (r *Reconciler) Store() *Store {
	return r.store
}

// ResolveProfilePackages computes the OS packages to install (tracked minus
// ignore, both unioned across profiles) and the python packages to install
// (python_tracked unioned; python has no ignore list).
func (r *Reconciler) ResolveProfilePackages(profiles []string) (install Set, python Set, err error) {
	if len(profiles) == 0 {
		profiles = []string{r.defaultProfile}
	}
	if err := r.store.Validate(profiles...); err != nil {
		return nil, nil, err
	}

	tracked, ignored, python := NewSet(), NewSet(), NewSet()
	for _, p := range profiles {
		t, err := r.store.ReadList(p, TrackedList)
		if err != nil {
			return nil, nil, err
		}
		i, err := r.store.ReadList(p, IgnoreList)
		if err != nil {
			return nil, nil, err
		}
		py, err := r.store.ReadList(p, PythonTrackedList)
		if err != nil {
			return nil, nil, err
		}
		tracked = tracked.Union(t)
		ignored = ignored.Union(i)
		python = python.Union(py)
	}

	install = tracked.Difference(ignored)
	r.logger.Info().
		Strs("profiles", profiles).
		Int("install", install.Len()).
		Int("ignored", ignored.Len()).
		Int("python", python.Len()).
		Msg("Resolved profile packages")
	return install, python, nil
}

// DiffAgainstInstalled returns the profile's tracked list grown with every
// installed package. Nothing is ever removed and nothing is written.
func (r *Reconciler) DiffAgainstInstalled(ctx context.Context, profile string) (Set, error) {
	tracked, installed, err := r.trackedAndInstalled(ctx, profile)
	if err != nil {
		return nil, err
	}
	return tracked.Union(installed), nil
}

// NewPackages returns installed packages the profile does not track yet
func (r *Reconciler) NewPackages(ctx context.Context, profile string) (Set, error) {
	tracked, installed, err := r.trackedAndInstalled(ctx, profile)
	if err != nil {
		return nil, err
	}
	return installed.Difference(tracked), nil
}

// Update persists DiffAgainstInstalled as the profile's tracked list
func (r *Reconciler) Update(ctx context.Context, profile string) (Set, error) {
	updated, err := r.DiffAgainstInstalled(ctx, profile)
	if err != nil {
		return nil, err
	}
	if err := r.store.Persist(profile, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Installed returns the current installed snapshot
func (r *Reconciler) Installed(ctx context.Context) (Set, error) {
	return r.lister.Installed(ctx)
}

// Replace persists the installed snapshot as the profile's tracked list
func (r *Reconciler) Replace(ctx context.Context, profile string) (Set, error) {
	if err := r.store.Validate(profile); err != nil {
		return nil, err
	}
	installed, err := r.lister.Installed(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.store.Persist(profile, installed); err != nil {
		return nil, err
	}
	return installed, nil
}

func (r *Reconciler) trackedAndInstalled(ctx context.Context, profile string) (Set, Set, error) {
	if err := r.store.Validate(profile); err != nil {
		return nil, nil, err
	}
	tracked, err := r.store.ReadList(profile, TrackedList)
	if err != nil {
		return nil, nil, err
	}
	installed, err := r.lister.Installed(ctx)
	if err != nil {
		return nil, nil, err
	}
	return tracked, installed, nil
}
