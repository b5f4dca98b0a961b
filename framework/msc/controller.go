// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package msc

import (
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	log "github.com/sirupsen/logrus"
)

// ErrServiceRemoved is returned when a removed controller is modified.
var ErrServiceRemoved = errors.New("ErrServiceRemoved")

// ServiceController manages the lifecycle of one installed service.
// All mutable fields are guarded by the container mutex.
type ServiceController struct {
	container    *ServiceContainer
	name         ServiceName
	service      Service
	dependencies []dependency

	mode              Mode
	state             State
	stateLastModified time.Time
	listeners         []Listener
	startException    *StartException
	demand            int
	demanding         bool
	installing        bool

	pending   []func()
	notifying bool
}

var _ Controller = (*ServiceController)(nil)

// Name returns the service name.
func (c *ServiceController) Name() ServiceName {
	return c.name
}

// Service returns the installed service.
func (c *ServiceController) Service() Service {
	return c.service
}

// Dependencies returns the names of the declared dependencies.
func (c *ServiceController) Dependencies() []ServiceName {
	names := make([]ServiceName, 0, len(c.dependencies))
	for _, d := range c.dependencies {
		names = append(names, d.name)
	}
	return names
}

// Container returns the owning container.
func (c *ServiceController) Container() Dumper {
	return c.container
}

// State returns the current state.
func (c *ServiceController) State() State {
	c.container.mu.Lock()
	defer c.container.mu.Unlock()
	return c.state
}

// Mode returns the current mode.
func (c *ServiceController) Mode() Mode {
	c.container.mu.Lock()
	defer c.container.mu.Unlock()
	return c.mode
}

// SetMode changes the mode and drives the controller towards it.
func (c *ServiceController) SetMode(mode Mode) error {
	c.container.mu.Lock()
	defer c.container.mu.Unlock()
	if c.state == StateRemoved {
		return fmt.Errorf("%w: %s", ErrServiceRemoved, c.name.CanonicalName())
	}
	if c.mode == ModeRemove || c.mode == mode {
		return nil
	}
	log.Debugf("%s mode %s => %s", c.name, c.mode, mode)
	c.mode = mode
	c.update()
	return nil
}

// Remove stops the service if needed and removes it from the container.
func (c *ServiceController) Remove() error {
	return c.SetMode(ModeRemove)
}

// Retry restarts a service in START_FAILED.
func (c *ServiceController) Retry() {
	c.container.mu.Lock()
	defer c.container.mu.Unlock()
	if c.state != StateStartFailed {
		return
	}
	if c.wanted() && c.dependenciesUp() {
		c.startAsync()
		return
	}
	c.transition(StateDown)
	c.update()
}

// Value returns the service value while the service is UP.
func (c *ServiceController) Value() (any, error) {
	if state := c.State(); state != StateUp {
		return nil, fmt.Errorf("%w: %s is %s", ErrServiceNotUp, c.name.CanonicalName(), state)
	}
	return c.service.Value()
}

// StartException returns the cause of the last failed start, or nil.
func (c *ServiceController) StartException() *StartException {
	c.container.mu.Lock()
	defer c.container.mu.Unlock()
	return c.startException
}

// ImmediateUnavailableDependencies returns the dependencies not installed in the container.
func (c *ServiceController) ImmediateUnavailableDependencies() []ServiceName {
	c.container.mu.Lock()
	defer c.container.mu.Unlock()
	var missing []ServiceName
	for _, d := range c.dependencies {
		if _, ok := c.container.services[d.name]; !ok {
			missing = append(missing, d.name)
		}
	}
	return missing
}

// AddListener registers l. ListenerAdded is delivered after registration,
// ahead of any transition that happens afterwards. It panics if l is not
// comparable.
func (c *ServiceController) AddListener(l Listener) {
	MustBeComparable(l)
	c.container.mu.Lock()
	defer c.container.mu.Unlock()
	c.listeners = append(c.listeners, l)
	c.enqueue(func() { l.ListenerAdded(c) })
}

// RemoveListener unregisters l. Callbacks already queued may still be delivered.
func (c *ServiceController) RemoveListener(l Listener) {
	c.container.mu.Lock()
	defer c.container.mu.Unlock()
	for i, registered := range c.listeners {
		if registered == l {
			c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
			return
		}
	}
}

func (c *ServiceController) wanted() bool {
	switch c.mode {
	case ModeActive:
		return true
	case ModeOnDemand:
		return c.demand > 0
	}
	return false
}

func (c *ServiceController) dependenciesUp() bool {
	for _, d := range c.dependencies {
		dep, ok := c.container.services[d.name]
		if !ok || dep.state != StateUp {
			return false
		}
	}
	return true
}

func (c *ServiceController) demandDependencies() {
	if c.demanding {
		return
	}
	c.demanding = true
	for _, d := range c.dependencies {
		if dep, ok := c.container.services[d.name]; ok {
			dep.demand++
			if dep.demand == 1 {
				dep.update()
			}
		}
	}
}

func (c *ServiceController) undemandDependencies() {
	if !c.demanding {
		return
	}
	c.demanding = false
	for _, d := range c.dependencies {
		if dep, ok := c.container.services[d.name]; ok && dep.demand > 0 {
			dep.demand--
			if dep.demand == 0 {
				dep.update()
			}
		}
	}
}

// update drives the controller one step towards what its mode, demand and
// dependencies ask for.
func (c *ServiceController) update() {
	if c.installing {
		return
	}
	switch c.state {
	case StateDown:
		if c.mode == ModeRemove {
			c.undemandDependencies()
			c.transition(StateRemoving)
			c.transition(StateRemoved)
			c.container.remove(c)
			return
		}
		if !c.wanted() {
			c.undemandDependencies()
			return
		}
		c.demandDependencies()
		if c.dependenciesUp() {
			c.startAsync()
		} else {
			c.transition(StateWaiting)
		}
	case StateWaiting:
		if !c.wanted() {
			c.transition(StateDown)
			c.update()
			return
		}
		if c.dependenciesUp() {
			c.startAsync()
		}
	case StateUp:
		if !c.wanted() || !c.dependenciesUp() {
			c.stopAsync()
		}
	case StateStartFailed:
		if !c.wanted() {
			c.transition(StateDown)
			c.update()
		}
	}
}

func (c *ServiceController) transition(to State) {
	t := Transition{From: c.state, To: to}
	if c.state == StateStartFailed && to != StateStarting {
		c.startException = nil
	}
	c.state = to
	c.stateLastModified = time.Now()
	log.Tracef("%s %s", c.name, t)
	for _, l := range c.listeners {
		l := l
		c.enqueue(func() { l.Transition(c, t) })
	}
}

func (c *ServiceController) startAsync() {
	c.startException = nil
	c.transition(StateStarting)
	c.container.busy()
	if err := c.container.exec.submit(c.doStart); err != nil {
		c.container.idle()
		c.startException = toStartException(err)
		c.transition(StateStartFailed)
	}
}

func (c *ServiceController) doStart() {
	err := c.injectDependencies()
	if err == nil {
		err = c.invokeStart()
	}

	c.container.mu.Lock()
	defer c.container.mu.Unlock()
	defer c.container.idle()

	if err != nil {
		c.uninjectDependencies()
		c.startException = toStartException(err)
		log.Warnf("%s failed to start: %s", c.name, err)
		c.transition(StateStartFailed)
		c.update()
		return
	}
	c.transition(StateUp)
	c.container.updateDependents(c)
	c.update()
}

func (c *ServiceController) invokeStart() (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Debugf("%s panicked during start: %v\n%s", c.name, r, debug.Stack())
			if perr, ok := r.(error); ok {
				err = perr
				return
			}
			err = &PanicError{Value: r}
		}
	}()
	return c.service.Start(&StartContext{controller: c})
}

func (c *ServiceController) stopAsync() {
	c.transition(StateStopping)
	c.container.updateDependents(c)
	c.container.busy()
	if err := c.container.exec.submit(c.doStop); err != nil {
		c.container.idle()
		log.Warnf("%s stopped without running Stop: %s", c.name, err)
		c.transition(StateDown)
	}
}

func (c *ServiceController) doStop() {
	c.invokeStop()
	c.uninjectDependencies()

	c.container.mu.Lock()
	defer c.container.mu.Unlock()
	defer c.container.idle()

	c.transition(StateDown)
	c.update()
}

func (c *ServiceController) invokeStop() {
	defer func() {
		if r := recover(); r != nil {
			log.Warnf("%s panicked during stop: %v", c.name, r)
		}
	}()
	c.service.Stop(&StopContext{controller: c})
}

func (c *ServiceController) injectDependencies() error {
	c.container.mu.Lock()
	services := make([]Service, len(c.dependencies))
	for i, d := range c.dependencies {
		if dep, ok := c.container.services[d.name]; ok {
			services[i] = dep.service
		}
	}
	c.container.mu.Unlock()

	for i, d := range c.dependencies {
		if d.injector == nil {
			continue
		}
		if services[i] == nil {
			return fmt.Errorf("dependency %s is not installed", d.name.CanonicalName())
		}
		v, err := services[i].Value()
		if err != nil {
			return fmt.Errorf("cannot obtain value of %s: %w", d.name.CanonicalName(), err)
		}
		if err := d.injector.Inject(v); err != nil {
			return fmt.Errorf("cannot inject %s: %w", d.name.CanonicalName(), err)
		}
	}
	return nil
}

func (c *ServiceController) uninjectDependencies() {
	for _, d := range c.dependencies {
		if d.injector != nil {
			d.injector.Uninject()
		}
	}
}

// enqueue appends a listener callback to this controller's notification queue.
// The queue is drained by at most one worker at a time.
func (c *ServiceController) enqueue(fn func()) {
	c.pending = append(c.pending, fn)
	if c.notifying {
		return
	}
	c.notifying = true
	c.container.busy()
	if err := c.container.exec.submit(c.drainNotifications); err != nil {
		log.Debugf("%s dropping %d notifications: %s", c.name, len(c.pending), err)
		c.pending = nil
		c.notifying = false
		c.container.idle()
	}
}

func (c *ServiceController) drainNotifications() {
	for {
		c.container.mu.Lock()
		if len(c.pending) == 0 {
			c.notifying = false
			c.container.idle()
			c.container.mu.Unlock()
			return
		}
		fn := c.pending[0]
		c.pending[0] = nil
		c.pending = c.pending[1:]
		c.container.mu.Unlock()

		c.notify(fn)
	}
}

func (c *ServiceController) notify(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("%s listener panicked: %v", c.name, r)
		}
	}()
	fn()
}
