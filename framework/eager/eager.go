// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package eager provides a two-phase service listener. Pre-publish callbacks
// run synchronously inside the service start, before the container marks the
// service UP; post-publish callbacks arrive through the ordinary asynchronous
// listener channel.
package eager

import (
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
	"go.jbosgi.org/framework/msc"
)

// ErrNotEager is returned when registering an eager listener on a controller
// whose service was not wrapped with Wrap.
var ErrNotEager = errors.New("ErrNotEager")

// Listener is notified before and after a service is published.
type Listener interface {
	msc.Listener
	// Starting is called on the container worker starting the service, after
	// the wrapped service started and before the controller moves to UP.
	// Returning an error fails the start.
	Starting(c *msc.ServiceController) error
}

// Service wraps a service and runs pre-publish listeners at the end of Start.
type Service struct {
	delegate msc.Service

	mu        sync.Mutex
	listeners []Listener
}

var _ msc.Service = (*Service)(nil)

// Wrap returns delegate wrapped for eager listeners.
func Wrap(delegate msc.Service) *Service {
	return &Service{delegate: delegate}
}

// AddListener registers l for pre-publish callbacks. Adding twice has no effect.
// It panics if l is not comparable.
func (s *Service) AddListener(l Listener) {
	msc.MustBeComparable(l)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, registered := range s.listeners {
		if registered == l {
			return
		}
	}
	s.listeners = append(s.listeners, l)
}

// RemoveListener unregisters l.
func (s *Service) RemoveListener(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, registered := range s.listeners {
		if registered == l {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			return
		}
	}
}

func (s *Service) snapshot() []Listener {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Listener(nil), s.listeners...)
}

// Start starts the delegate, then runs every pre-publish listener.
func (s *Service) Start(ctx *msc.StartContext) error {
	if err := s.delegate.Start(ctx); err != nil {
		return err
	}
	for _, l := range s.snapshot() {
		if err := l.Starting(ctx.Controller()); err != nil {
			log.Warnf("Pre-publish listener failed for %s: %s", ctx.Controller().Name(), err)
			return msc.NewStartException(fmt.Sprintf("pre-publish listener failed for %s", ctx.Controller().Name().CanonicalName()), err)
		}
	}
	return nil
}

// Stop stops the delegate.
func (s *Service) Stop(ctx *msc.StopContext) {
	s.delegate.Stop(ctx)
}

// Value returns the value of the delegate.
func (s *Service) Value() (any, error) {
	return s.delegate.Value()
}

// Delegate returns the wrapped service.
func (s *Service) Delegate() msc.Service {
	return s.delegate
}

// AddEagerListener registers l on both phases of controller.
func AddEagerListener(controller *msc.ServiceController, l Listener) error {
	svc, ok := controller.Service().(*Service)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotEager, controller.Name().CanonicalName())
	}
	svc.AddListener(l)
	controller.AddListener(l)
	return nil
}

// RemoveEagerListener unregisters l from both phases of controller.
func RemoveEagerListener(controller *msc.ServiceController, l Listener) error {
	svc, ok := controller.Service().(*Service)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotEager, controller.Name().CanonicalName())
	}
	svc.RemoveListener(l)
	controller.RemoveListener(l)
	return nil
}
