// Package app implements the application layer for shed.
package app

import (
	"context"
	"fmt"

	"github.com/shedtool/shed/internal/adapters/index"
	"github.com/shedtool/shed/internal/core/domain"
	"github.com/shedtool/shed/internal/core/ports"
	"github.com/shedtool/shed/internal/engine/resolver"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	loader    ports.ManifestLoader
	resolver  *resolver.Resolver
	lockStore ports.LockStore
	activator ports.Activator
	logger    ports.Logger
	tracer    ports.Tracer
}

// New creates a new App instance.
func New(
	loader ports.ManifestLoader,
	res *resolver.Resolver,
	lockStore ports.LockStore,
	activator ports.Activator,
	log ports.Logger,
	tracer ports.Tracer,
) *App {
	return &App{
		loader:    loader,
		resolver:  res,
		lockStore: lockStore,
		activator: activator,
		logger:    log,
		tracer:    tracer,
	}
}

// RunOptions configuration for resolution commands.
type RunOptions struct {
	// ManifestPath is the manifest file to load.
	ManifestPath string

	// IndexPath, when set, resolves against a static index snapshot file
	// instead of the registry.
	IndexPath string

	// LockPath is where the lockfile is read from and written to.
	LockPath string

	// NoLock skips reading and writing the lockfile.
	NoLock bool
}

func (o RunOptions) withDefaults() RunOptions {
	if o.ManifestPath == "" {
		o.ManifestPath = domain.ManifestFileName
	}
	if o.LockPath == "" {
		o.LockPath = domain.DefaultLockPath()
	}
	return o
}

// Resolve loads the manifest and resolves it into an environment descriptor.
// A fresh lockfile short-circuits resolution; otherwise the index is queried
// and, unless opts.NoLock is set, the lockfile is rewritten.
func (a *App) Resolve(ctx context.Context, opts RunOptions) (*domain.EnvironmentDescriptor, error) {
	opts = opts.withDefaults()

	m, err := a.loader.Load(opts.ManifestPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load manifest")
	}

	fingerprint := m.Fingerprint()

	_, span := a.tracer.Start(ctx, "resolve environment")

	// A lockfile whose fingerprint matches the manifest is the descriptor:
	// resolution is deterministic, so re-resolving could only differ if the
	// index moved underneath us, which is exactly what the lock pins against.
	if !opts.NoLock {
		if lock, readErr := a.lockStore.Read(opts.LockPath); readErr == nil {
			if lock.Version == domain.LockVersion && lock.Fingerprint == fingerprint {
				span.Cached()
				span.Complete(nil)
				return &lock.Descriptor, nil
			}
			a.logger.Info("lockfile is stale, re-resolving")
		}
	}

	res := a.resolver
	if opts.IndexPath != "" {
		static, loadErr := index.LoadStatic(opts.IndexPath)
		if loadErr != nil {
			span.Complete(loadErr)
			return nil, loadErr
		}
		res = resolver.New(static)
	}

	desc, err := res.Resolve(ctx, m)
	span.Complete(err)
	if err != nil {
		return nil, err
	}

	if !opts.NoLock {
		if err := a.writeLock(ctx, opts.LockPath, fingerprint, desc); err != nil {
			return nil, err
		}
	}

	return desc, nil
}

// Enter resolves the environment and replaces the current session with an
// interactive shell inside it. Activation happens exactly once, after the
// pure resolve step.
func (a *App) Enter(ctx context.Context, opts RunOptions) error {
	desc, err := a.Resolve(ctx, opts)
	if err != nil {
		return err
	}

	a.logger.Info(fmt.Sprintf("entering environment %s", shortEnvID(desc)))

	_, span := a.tracer.Start(ctx, "enter shell")
	err = a.activator.Enter(ctx, desc)
	span.Complete(err)
	if err != nil {
		return zerr.Wrap(err, "failed to enter environment")
	}
	return nil
}

func (a *App) writeLock(ctx context.Context, path, fingerprint string, desc *domain.EnvironmentDescriptor) error {
	_, span := a.tracer.Start(ctx, "write lockfile")
	err := a.lockStore.Write(path, domain.Lockfile{
		Version:     domain.LockVersion,
		Fingerprint: fingerprint,
		Descriptor:  *desc,
	})
	span.Complete(err)
	if err != nil {
		return zerr.Wrap(err, "failed to write lockfile")
	}
	return nil
}

func shortEnvID(desc *domain.EnvironmentDescriptor) string {
	id := desc.EnvID()
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
