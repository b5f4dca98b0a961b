// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package launch assembles the framework services in a container and drives
// them to ACTIVE.
package launch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"go.jbosgi.org/framework"
	"go.jbosgi.org/framework/bundle"
	"go.jbosgi.org/framework/logging"
	"go.jbosgi.org/framework/msc"
	"go.jbosgi.org/framework/plugin"
)

// ErrFrameworkStopped is returned when using a stopped framework.
var ErrFrameworkStopped = errors.New("ErrFrameworkStopped")

// Config configures a Framework.
type Config struct {
	// Name of the service container.
	Name string
	// Workers of the service container.
	Workers int
	// StartTimeout bounds Start when it is given no timeout.
	StartTimeout time.Duration
}

const defaultStartTimeout = 10 * time.Second

// Phase is the value published by the framework lifecycle services.
type Phase struct {
	Name msc.ServiceName
}

func (p *Phase) String() string {
	return p.Name.SimpleName()
}

// Framework owns the service container and the framework services.
type Framework struct {
	cfg       Config
	container *msc.ServiceContainer
	manager   *bundle.Manager
	installer *plugin.DefaultBundleInstallPlugin

	mu        sync.Mutex
	installed bool
	stopped   bool
	active    *msc.ServiceController
}

// New returns a framework whose services are not installed yet.
func New(cfg Config) *Framework {
	if cfg.StartTimeout <= 0 {
		cfg.StartTimeout = defaultStartTimeout
	}
	container := msc.NewServiceContainer(msc.Config{Name: cfg.Name, Workers: cfg.Workers})
	return &Framework{
		cfg:       cfg,
		container: container,
		manager:   bundle.NewManager(container),
		installer: plugin.NewDefaultBundleInstallPlugin(),
	}
}

// Container returns the service container.
func (f *Framework) Container() *msc.ServiceContainer {
	return f.container
}

// BundleManager returns the bundle manager service.
func (f *Framework) BundleManager() *bundle.Manager {
	return f.manager
}

// Integration returns the bundle integration point of this framework.
func (f *Framework) Integration() framework.Integration {
	return f.manager.Integration()
}

// Install installs the framework services. It is called by Start and may be
// called earlier to add services depending on them.
func (f *Framework) Install() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stopped {
		return ErrFrameworkStopped
	}
	if f.installed {
		return nil
	}

	if _, err := f.container.AddService(framework.FrameworkCreate, newPhaseService(framework.FrameworkCreate)).
		Install(); err != nil {
		return err
	}
	if _, err := f.container.AddService(framework.BundleManager, f.manager).
		AddDependency(framework.FrameworkCreate).
		Install(); err != nil {
		return err
	}
	if _, err := f.installer.Install(f.container); err != nil {
		return err
	}
	if _, err := f.container.AddService(framework.FrameworkInit, newPhaseService(framework.FrameworkInit)).
		AddDependency(framework.FrameworkCreate).
		AddDependency(framework.BundleInstallPlugin).
		Install(); err != nil {
		return err
	}
	active, err := f.container.AddService(framework.FrameworkActive, msc.NewValueService(f)).
		AddDependency(framework.FrameworkInit).
		AddDependency(framework.BundleManager).
		Install()
	if err != nil {
		return err
	}

	f.active = active
	f.installed = true
	return nil
}

// Start installs the framework services and blocks until the framework is
// ACTIVE or timeout elapses. A zero timeout uses Config.StartTimeout.
func (f *Framework) Start(timeout time.Duration) error {
	if timeout <= 0 {
		timeout = f.cfg.StartTimeout
	}
	start := time.Now()
	if err := f.Install(); err != nil {
		return err
	}

	future, err := framework.NewFutureServiceValue[*Framework](f.active)
	if err != nil {
		return err
	}
	if _, err := future.GetWithTimeout(timeout); err != nil {
		return fmt.Errorf("cannot start framework: %w", err)
	}
	log.WithField(logging.ComponentField, "launch").
		WithField("elapsed", logging.Since(start)).
		Info("Framework active")
	return nil
}

// InstallBundle installs dep through the bundle install plugin.
func (f *Framework) InstallBundle(dep *framework.Deployment) error {
	return f.installer.InstallBundle(dep)
}

// UninstallBundle uninstalls dep through the bundle install plugin.
func (f *Framework) UninstallBundle(dep *framework.Deployment) error {
	return f.installer.UninstallBundle(dep)
}

// Stop removes every service and stops the container.
func (f *Framework) Stop(ctx context.Context) error {
	f.mu.Lock()
	f.stopped = true
	f.mu.Unlock()

	err := f.container.Shutdown(ctx)
	if err != nil {
		log.WithError(err).Warn("Framework did not stop cleanly")
		return err
	}
	log.WithField(logging.ComponentField, "launch").Info("Framework stopped")
	return nil
}

type phaseService struct {
	phase *Phase
}

func newPhaseService(name msc.ServiceName) *phaseService {
	return &phaseService{phase: &Phase{Name: name}}
}

func (s *phaseService) Start(*msc.StartContext) error {
	log.Debugf("Framework %s", s.phase)
	return nil
}

func (s *phaseService) Stop(*msc.StopContext) {}

func (s *phaseService) Value() (any, error) {
	return s.phase, nil
}
