// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package bundle keeps track of installed bundles, each backed by a service.
package bundle

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.jbosgi.org/framework"
	"go.jbosgi.org/framework/msc"
	"go.jbosgi.org/framework/plugin"
)

// ErrBundleAlreadyInstalled is returned when a location is installed twice.
var ErrBundleAlreadyInstalled = errors.New("ErrBundleAlreadyInstalled")

// ErrBundleNotInstalled is returned when uninstalling an unknown deployment.
var ErrBundleNotInstalled = errors.New("ErrBundleNotInstalled")

// Bundle is the value of an installed bundle service.
type Bundle struct {
	Deployment  *framework.Deployment
	ServiceName msc.ServiceName
	InstalledAt time.Time
}

// Description is a JSON friendly view of an installed bundle.
type Description struct {
	ID           uuid.UUID `json:"id"`
	Location     string    `json:"location"`
	SymbolicName string    `json:"symbolicName"`
	Version      string    `json:"version"`
	ServiceName  string    `json:"serviceName"`
	State        string    `json:"state"`
}

type installed struct {
	bundle     *Bundle
	controller *msc.ServiceController
}

// Manager is the bundle manager service. Its value is the manager itself.
type Manager struct {
	target msc.ServiceTarget

	mu         sync.RWMutex
	byID       map[uuid.UUID]*installed
	byLocation map[string]uuid.UUID
}

var (
	_ msc.Service                = (*Manager)(nil)
	_ plugin.BundleManagerPlugin = (*Manager)(nil)
)

// NewManager returns a manager installing bundle services into target unless
// InstallBundle is given another one.
func NewManager(target msc.ServiceTarget) *Manager {
	return &Manager{
		target:     target,
		byID:       make(map[uuid.UUID]*installed),
		byLocation: make(map[string]uuid.UUID),
	}
}

func (m *Manager) Start(ctx *msc.StartContext) error {
	log.Debugf("Bundle manager started with %d bundles", m.count())
	return nil
}

func (m *Manager) Stop(ctx *msc.StopContext) {
	log.Debugf("Bundle manager stopped with %d bundles", m.count())
}

// Value returns the manager.
func (m *Manager) Value() (any, error) {
	return m, nil
}

func (m *Manager) count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID)
}

// InstallBundle installs a service for dep, ACTIVE when dep.AutoStart is set
// and ON_DEMAND otherwise. A nil target means the manager's own target.
func (m *Manager) InstallBundle(dep *framework.Deployment, target msc.ServiceTarget) (msc.ServiceName, error) {
	if dep == nil {
		return msc.ServiceName{}, fmt.Errorf("%w: deployment is nil", framework.ErrIllegalArgument)
	}
	if err := dep.Validate(); err != nil {
		return msc.ServiceName{}, err
	}
	if target == nil {
		target = m.target
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.byLocation[dep.Location]; ok {
		return msc.ServiceName{}, fmt.Errorf("%w: %s as %s", ErrBundleAlreadyInstalled, dep.Location, id)
	}
	if dep.ID == uuid.Nil {
		dep.ID = uuid.New()
	}

	b := &Bundle{Deployment: dep, ServiceName: dep.ServiceName(), InstalledAt: time.Now()}
	mode := msc.ModeOnDemand
	if dep.AutoStart {
		mode = msc.ModeActive
	}
	controller, err := target.AddService(b.ServiceName, &bundleService{bundle: b}).
		AddDependency(framework.BundleManager).
		SetInitialMode(mode).
		Install()
	if err != nil {
		return msc.ServiceName{}, err
	}

	m.byID[dep.ID] = &installed{bundle: b, controller: controller}
	m.byLocation[dep.Location] = dep.ID
	log.Infof("Installed bundle %s:%s from %s", dep.SymbolicName, dep.Version, dep.Location)
	return b.ServiceName, nil
}

// UninstallBundle removes the service backing dep and waits until it is gone
// from the container, so the same bundle can be installed again right away.
// The deployment is looked up by ID, then by location.
func (m *Manager) UninstallBundle(dep *framework.Deployment) error {
	if dep == nil {
		return fmt.Errorf("%w: deployment is nil", framework.ErrIllegalArgument)
	}

	m.mu.Lock()
	id := dep.ID
	if _, ok := m.byID[id]; !ok {
		id = m.byLocation[dep.Location]
	}
	entry, ok := m.byID[id]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrBundleNotInstalled, dep.Location)
	}
	delete(m.byID, id)
	delete(m.byLocation, entry.bundle.Deployment.Location)
	m.mu.Unlock()

	if err := entry.controller.Remove(); err != nil {
		if !errors.Is(err, msc.ErrServiceRemoved) {
			return err
		}
	} else if err := awaitRemoved(entry.controller); err != nil {
		return err
	}
	log.Infof("Uninstalled bundle %s from %s", entry.bundle.ServiceName.CanonicalName(), entry.bundle.Deployment.Location)
	return nil
}

func awaitRemoved(controller *msc.ServiceController) error {
	future, err := framework.NewFutureServiceValue[any](controller, framework.WithExpectedState(msc.StateRemoved))
	if err != nil {
		return err
	}
	_, err = future.GetWithTimeout(framework.DefaultTimeout)
	return err
}

// Deployment returns the deployment installed with id.
func (m *Manager) Deployment(id uuid.UUID) (*framework.Deployment, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.byID[id]
	if !ok {
		return nil, false
	}
	return entry.bundle.Deployment, true
}

// Bundles describes every installed bundle, ordered by location.
func (m *Manager) Bundles() []Description {
	m.mu.RLock()
	entries := make([]*installed, 0, len(m.byID))
	for _, entry := range m.byID {
		entries = append(entries, entry)
	}
	m.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].bundle.Deployment.Location < entries[j].bundle.Deployment.Location
	})
	res := make([]Description, 0, len(entries))
	for _, entry := range entries {
		dep := entry.bundle.Deployment
		res = append(res, Description{
			ID:           dep.ID,
			Location:     dep.Location,
			SymbolicName: dep.SymbolicName,
			Version:      dep.Version,
			ServiceName:  entry.bundle.ServiceName.CanonicalName(),
			State:        entry.controller.State().String(),
		})
	}
	return res
}

// Integration returns the manager as a framework.Integration.
func (m *Manager) Integration() framework.Integration {
	return integration{manager: m}
}

type integration struct {
	manager *Manager
}

func (i integration) InstallBundle(target msc.ServiceTarget, dep *framework.Deployment) (msc.ServiceName, error) {
	return i.manager.InstallBundle(dep, target)
}

func (i integration) UninstallBundle(dep *framework.Deployment) error {
	return i.manager.UninstallBundle(dep)
}

// bundleService publishes an installed bundle.
type bundleService struct {
	bundle *Bundle
}

func (s *bundleService) Start(ctx *msc.StartContext) error {
	log.Debugf("Bundle %s started", s.bundle.ServiceName.CanonicalName())
	return nil
}

func (s *bundleService) Stop(ctx *msc.StopContext) {
	log.Debugf("Bundle %s stopped", s.bundle.ServiceName.CanonicalName())
}

func (s *bundleService) Value() (any, error) {
	return s.bundle, nil
}
