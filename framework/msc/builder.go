// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package msc

import "errors"

// ErrDuplicateService is returned when a service name is installed twice.
var ErrDuplicateService = errors.New("ErrDuplicateService")

// ErrInvalidService is returned when a builder has no name or no service.
var ErrInvalidService = errors.New("ErrInvalidService")

// ServiceTarget is the destination of newly built services.
type ServiceTarget interface {
	AddService(name ServiceName, service Service) *ServiceBuilder
}

type dependency struct {
	name     ServiceName
	injector Injector
}

// ServiceBuilder collects the definition of a service before installation.
type ServiceBuilder struct {
	container    *ServiceContainer
	name         ServiceName
	service      Service
	dependencies []dependency
	listeners    []Listener
	mode         Mode
}

// AddDependency adds a dependency that must be UP before the service starts.
func (b *ServiceBuilder) AddDependency(name ServiceName) *ServiceBuilder {
	return b.AddInjectedDependency(name, nil)
}

// AddInjectedDependency adds a dependency whose value is injected into inj
// before the service starts.
func (b *ServiceBuilder) AddInjectedDependency(name ServiceName, inj Injector) *ServiceBuilder {
	for i, d := range b.dependencies {
		if d.name == name {
			if inj != nil {
				b.dependencies[i].injector = inj
			}
			return b
		}
	}
	b.dependencies = append(b.dependencies, dependency{name: name, injector: inj})
	return b
}

// AddListener adds a listener registered as part of installation.
// It panics if l is not comparable.
func (b *ServiceBuilder) AddListener(l Listener) *ServiceBuilder {
	MustBeComparable(l)
	b.listeners = append(b.listeners, l)
	return b
}

// SetInitialMode sets the mode the service is installed with. Defaults to ModeActive.
func (b *ServiceBuilder) SetInitialMode(mode Mode) *ServiceBuilder {
	b.mode = mode
	return b
}

// Install installs the service into the container.
func (b *ServiceBuilder) Install() (*ServiceController, error) {
	if b.name.IsEmpty() || b.service == nil {
		return nil, ErrInvalidService
	}
	return b.container.install(b)
}
