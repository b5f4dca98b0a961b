// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package msc

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// ErrServiceNotFound is returned when a required service is not installed.
var ErrServiceNotFound = errors.New("ErrServiceNotFound")

// ErrContainerShutdown is returned when installing into a container that is shutting down.
var ErrContainerShutdown = errors.New("ErrContainerShutdown")

const defaultWorkers = 4

// Config configures a ServiceContainer.
type Config struct {
	// Name identifies the container in dumps and logs.
	Name string
	// Workers is the number of goroutines running service tasks and listener callbacks.
	Workers int
}

// ServiceContainer owns a set of service controllers.
type ServiceContainer struct {
	name string
	exec *executor

	mu           sync.Mutex
	services     map[ServiceName]*ServiceController
	shuttingDown bool
	terminated   chan struct{}
	inFlight     int
	stable       chan struct{}
}

var _ ServiceTarget = (*ServiceContainer)(nil)

// NewServiceContainer starts the worker pool of a new, empty container.
func NewServiceContainer(cfg Config) *ServiceContainer {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.Name == "" {
		cfg.Name = "jbosgi"
	}
	stable := make(chan struct{})
	close(stable)
	return &ServiceContainer{
		name:       cfg.Name,
		exec:       newExecutor(cfg.Workers),
		services:   make(map[ServiceName]*ServiceController),
		terminated: make(chan struct{}),
		stable:     stable,
	}
}

// Name returns the container name.
func (sc *ServiceContainer) Name() string {
	return sc.name
}

// AddService starts building a service to be installed in this container.
func (sc *ServiceContainer) AddService(name ServiceName, service Service) *ServiceBuilder {
	return &ServiceBuilder{container: sc, name: name, service: service, mode: ModeActive}
}

// Service returns the controller installed under name.
func (sc *ServiceContainer) Service(name ServiceName) (*ServiceController, bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	c, ok := sc.services[name]
	return c, ok
}

// RequiredService returns the controller installed under name, or ErrServiceNotFound.
func (sc *ServiceContainer) RequiredService(name ServiceName) (*ServiceController, error) {
	if c, ok := sc.Service(name); ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrServiceNotFound, name.CanonicalName())
}

// ServiceNames returns the installed names in canonical order.
func (sc *ServiceContainer) ServiceNames() []ServiceName {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sortedNamesUnsafe()
}

func (sc *ServiceContainer) sortedNamesUnsafe() []ServiceName {
	names := make([]ServiceName, 0, len(sc.services))
	for name := range sc.services {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return names[i].CanonicalName() < names[j].CanonicalName()
	})
	return names
}

func (sc *ServiceContainer) install(b *ServiceBuilder) (*ServiceController, error) {
	sc.mu.Lock()
	if sc.shuttingDown {
		sc.mu.Unlock()
		return nil, ErrContainerShutdown
	}
	if _, exists := sc.services[b.name]; exists {
		sc.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrDuplicateService, b.name.CanonicalName())
	}
	c := &ServiceController{
		container:         sc,
		name:              b.name,
		service:           b.service,
		dependencies:      append([]dependency(nil), b.dependencies...),
		mode:              b.mode,
		state:             StateDown,
		stateLastModified: time.Now(),
		installing:        true,
	}
	for _, other := range sc.services {
		if other.demanding && other.dependsOn(b.name) {
			c.demand++
		}
	}
	sc.services[b.name] = c
	sc.mu.Unlock()

	log.Debugf("Installed %s (mode %s)", b.name, b.mode)

	// Builder listeners hear about installation synchronously, before any transition.
	for _, l := range b.listeners {
		c.notify(func() { l.ListenerAdded(c) })
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()
	c.installing = false
	c.listeners = append(c.listeners, b.listeners...)
	c.update()
	sc.updateDependents(c)
	return c, nil
}

func (c *ServiceController) dependsOn(name ServiceName) bool {
	for _, d := range c.dependencies {
		if d.name == name {
			return true
		}
	}
	return false
}

func (sc *ServiceContainer) updateDependents(c *ServiceController) {
	for _, name := range sc.sortedNamesUnsafe() {
		if other := sc.services[name]; other != c && other.dependsOn(c.name) {
			other.update()
		}
	}
}

func (sc *ServiceContainer) remove(c *ServiceController) {
	if sc.services[c.name] != c {
		return
	}
	delete(sc.services, c.name)
	log.Debugf("Removed %s", c.name)
	sc.updateDependents(c)
	if sc.shuttingDown && len(sc.services) == 0 {
		sc.closeTerminated()
	}
}

func (sc *ServiceContainer) closeTerminated() {
	select {
	case <-sc.terminated:
	default:
		close(sc.terminated)
	}
}

// busy and idle track in-flight start, stop and notification tasks.
func (sc *ServiceContainer) busy() {
	if sc.inFlight == 0 {
		sc.stable = make(chan struct{})
	}
	sc.inFlight++
}

func (sc *ServiceContainer) idle() {
	sc.inFlight--
	if sc.inFlight == 0 {
		close(sc.stable)
	}
}

// AwaitStability blocks until no start, stop or listener callback is in flight.
func (sc *ServiceContainer) AwaitStability(ctx context.Context) error {
	for {
		sc.mu.Lock()
		if sc.inFlight == 0 {
			sc.mu.Unlock()
			return nil
		}
		stable := sc.stable
		sc.mu.Unlock()

		select {
		case <-stable:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Shutdown removes every service and stops the workers once the container is empty.
// Services still installed when ctx is done are abandoned, and so are workers
// blocked in a Start or Stop.
func (sc *ServiceContainer) Shutdown(ctx context.Context) error {
	sc.mu.Lock()
	if !sc.shuttingDown {
		sc.shuttingDown = true
		log.Debugf("Shutting down container %s with %d services", sc.name, len(sc.services))
		for _, name := range sc.sortedNamesUnsafe() {
			if c, ok := sc.services[name]; ok && c.mode != ModeRemove {
				c.mode = ModeRemove
				c.update()
			}
		}
		if len(sc.services) == 0 {
			sc.closeTerminated()
		}
	}
	sc.mu.Unlock()

	var err error
	select {
	case <-sc.terminated:
	case <-ctx.Done():
		err = fmt.Errorf("container %s did not terminate: %w", sc.name, ctx.Err())
	}
	if cerr := sc.exec.close(ctx); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
