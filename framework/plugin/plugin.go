// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package plugin holds the pluggable framework services an embedding
// environment may replace.
package plugin

import (
	"errors"

	"go.jbosgi.org/framework"
	"go.jbosgi.org/framework/msc"
)

// ErrPluginNotStarted is returned when a plugin is used while its
// dependencies are not injected.
var ErrPluginNotStarted = errors.New("ErrPluginNotStarted")

// BundleManagerPlugin installs and uninstalls bundle services.
type BundleManagerPlugin interface {
	// InstallBundle installs the bundle service for dep into target, or into
	// the manager's own container when target is nil.
	InstallBundle(dep *framework.Deployment, target msc.ServiceTarget) (msc.ServiceName, error)
	UninstallBundle(dep *framework.Deployment) error
}

// BundleInstallPlugin is the integration point for installing bundle deployments.
type BundleInstallPlugin interface {
	InstallBundle(dep *framework.Deployment) error
	UninstallBundle(dep *framework.Deployment) error
}

// IntegrationService is a service installed by default that may be replaced.
type IntegrationService[T any] interface {
	ServiceName() msc.ServiceName
	Install(target msc.ServiceTarget) (*msc.ServiceController, error)
}
