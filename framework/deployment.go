// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package framework

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.jbosgi.org/framework/msc"
)

// ErrInvalidDeployment is returned for deployments without location or symbolic name.
var ErrInvalidDeployment = errors.New("ErrInvalidDeployment")

const defaultBundleVersion = "0.0.0"

// Deployment describes a bundle to be installed.
type Deployment struct {
	ID           uuid.UUID `json:"id"`
	Location     string    `json:"location"`
	SymbolicName string    `json:"symbolicName"`
	Version      string    `json:"version"`
	AutoStart    bool      `json:"autoStart"`
}

// NewDeployment returns a deployment with a fresh ID.
func NewDeployment(location, symbolicName, version string) *Deployment {
	if version == "" {
		version = defaultBundleVersion
	}
	return &Deployment{
		ID:           uuid.New(),
		Location:     location,
		SymbolicName: symbolicName,
		Version:      version,
		AutoStart:    true,
	}
}

// ParseDeployment parses "location=symbolicName:version"; the version is optional.
func ParseDeployment(spec string) (*Deployment, error) {
	location, bundle, ok := strings.Cut(spec, "=")
	if !ok || location == "" || bundle == "" {
		return nil, ErrInvalidDeployment
	}
	symbolicName, version, _ := strings.Cut(bundle, ":")
	dep := NewDeployment(location, symbolicName, version)
	return dep, dep.Validate()
}

// Validate checks the mandatory fields.
func (d *Deployment) Validate() error {
	if d.Location == "" || d.SymbolicName == "" {
		return ErrInvalidDeployment
	}
	return nil
}

// ServiceName returns the name of the service backing the deployed bundle.
func (d *Deployment) ServiceName() msc.ServiceName {
	version := d.Version
	if version == "" {
		version = defaultBundleVersion
	}
	return BundleServiceName(d.SymbolicName, version)
}

// Integration is the integration point for bundle management.
type Integration interface {
	// InstallBundle installs a bundle from the given deployment into target.
	InstallBundle(target msc.ServiceTarget, dep *Deployment) (msc.ServiceName, error)
	// UninstallBundle uninstalls the given deployment.
	UninstallBundle(dep *Deployment) error
}
