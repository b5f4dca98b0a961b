// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package tracker follows a set of services until every one of them has
// started or failed to start.
package tracker

import (
	"sync"

	log "github.com/sirupsen/logrus"
	"go.jbosgi.org/framework/msc"
)

type trackState int

const (
	pending trackState = iota
	started
	failed
)

// Callbacks customize a ServiceTracker. Every field is optional.
type Callbacks struct {
	// AllServicesAdded reports whether every service of interest is tracked.
	// Defaults to true, so the tracker completes once the services tracked so
	// far have settled.
	AllServicesAdded func(tracked map[msc.ServiceName]struct{}) bool
	// ServiceStarted is called once per service reaching UP.
	ServiceStarted func(c msc.Controller)
	// ServiceStartFailed is called once per failed start.
	ServiceStartFailed func(c msc.Controller, cause *msc.StartException)
	// Complete is called exactly once.
	Complete func()
}

// ServiceTracker is an msc.Listener added to many controllers.
type ServiceTracker struct {
	callbacks Callbacks

	mu       sync.Mutex
	services map[msc.ServiceName]trackState
	complete bool
	done     chan struct{}
}

var _ msc.Listener = (*ServiceTracker)(nil)

// New returns a tracker invoking callbacks.
func New(callbacks Callbacks) *ServiceTracker {
	return &ServiceTracker{
		callbacks: callbacks,
		services:  make(map[msc.ServiceName]trackState),
		done:      make(chan struct{}),
	}
}

// ListenerAdded tracks c.
func (t *ServiceTracker) ListenerAdded(c msc.Controller) {
	switch c.State() {
	case msc.StateUp:
		t.settle(c, started)
	case msc.StateStartFailed:
		t.settle(c, failed)
	default:
		t.mu.Lock()
		if _, ok := t.services[c.Name()]; !ok {
			t.services[c.Name()] = pending
		}
		t.mu.Unlock()
	}
	t.checkComplete()
}

// Transition moves c between pending and settled.
func (t *ServiceTracker) Transition(c msc.Controller, tr msc.Transition) {
	switch tr {
	case msc.StartingToUp:
		t.settle(c, started)
	case msc.StartingToStartFailed:
		t.settle(c, failed)
	case msc.StartFailedToStarting:
		t.mu.Lock()
		if _, ok := t.services[c.Name()]; ok && !t.complete {
			t.services[c.Name()] = pending
		}
		t.mu.Unlock()
	case msc.RemovingToRemoved:
		t.mu.Lock()
		if state, ok := t.services[c.Name()]; ok && state == pending {
			delete(t.services, c.Name())
		}
		t.mu.Unlock()
	}
	t.checkComplete()
}

func (t *ServiceTracker) settle(c msc.Controller, to trackState) {
	t.mu.Lock()
	if state, ok := t.services[c.Name()]; ok && state == to {
		t.mu.Unlock()
		return
	}
	t.services[c.Name()] = to
	t.mu.Unlock()

	switch to {
	case started:
		log.Tracef("Tracker: %s started", c.Name())
		if t.callbacks.ServiceStarted != nil {
			t.callbacks.ServiceStarted(c)
		}
	case failed:
		log.Tracef("Tracker: %s failed", c.Name())
		if t.callbacks.ServiceStartFailed != nil {
			t.callbacks.ServiceStartFailed(c, c.StartException())
		}
	}
}

func (t *ServiceTracker) checkComplete() {
	t.mu.Lock()
	if t.complete {
		t.mu.Unlock()
		return
	}
	tracked := make(map[msc.ServiceName]struct{}, len(t.services))
	for name, state := range t.services {
		if state == pending {
			t.mu.Unlock()
			return
		}
		tracked[name] = struct{}{}
	}
	if t.callbacks.AllServicesAdded != nil && !t.callbacks.AllServicesAdded(tracked) {
		t.mu.Unlock()
		return
	}
	t.complete = true
	close(t.done)
	t.mu.Unlock()

	log.Debugf("Tracker complete with %d services", len(tracked))
	if t.callbacks.Complete != nil {
		t.callbacks.Complete()
	}
}

// Tracked returns the names of every tracked service.
func (t *ServiceTracker) Tracked() []msc.ServiceName {
	t.mu.Lock()
	defer t.mu.Unlock()
	names := make([]msc.ServiceName, 0, len(t.services))
	for name := range t.services {
		names = append(names, name)
	}
	return names
}

// Done is closed once the tracker completed.
func (t *ServiceTracker) Done() <-chan struct{} {
	return t.done
}
