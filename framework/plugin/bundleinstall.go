// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package plugin

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"go.jbosgi.org/framework"
	"go.jbosgi.org/framework/msc"
)

// DefaultBundleInstallPlugin hands deployments to the bundle manager.
type DefaultBundleInstallPlugin struct {
	bundleManager msc.InjectedValue[BundleManagerPlugin]
}

var (
	_ BundleInstallPlugin                     = (*DefaultBundleInstallPlugin)(nil)
	_ IntegrationService[BundleInstallPlugin] = (*DefaultBundleInstallPlugin)(nil)
	_ msc.Service                             = (*DefaultBundleInstallPlugin)(nil)
)

// NewDefaultBundleInstallPlugin returns a plugin ready to be installed.
func NewDefaultBundleInstallPlugin() *DefaultBundleInstallPlugin {
	return &DefaultBundleInstallPlugin{}
}

// ServiceName returns framework.BundleInstallPlugin.
func (p *DefaultBundleInstallPlugin) ServiceName() msc.ServiceName {
	return framework.BundleInstallPlugin
}

// Install adds the plugin as an on demand service depending on the bundle
// manager and the created framework.
func (p *DefaultBundleInstallPlugin) Install(target msc.ServiceTarget) (*msc.ServiceController, error) {
	return target.AddService(p.ServiceName(), p).
		AddInjectedDependency(framework.BundleManager, &p.bundleManager).
		AddDependency(framework.FrameworkCreate).
		SetInitialMode(msc.ModeOnDemand).
		Install()
}

func (p *DefaultBundleInstallPlugin) Start(ctx *msc.StartContext) error {
	log.Debugf("Starting %s", ctx.Controller().Name())
	return nil
}

func (p *DefaultBundleInstallPlugin) Stop(ctx *msc.StopContext) {
	log.Debugf("Stopping %s", ctx.Controller().Name())
}

// Value returns the plugin itself.
func (p *DefaultBundleInstallPlugin) Value() (any, error) {
	return BundleInstallPlugin(p), nil
}

// InstallBundle installs dep through the injected bundle manager.
func (p *DefaultBundleInstallPlugin) InstallBundle(dep *framework.Deployment) error {
	manager, err := p.manager()
	if err != nil {
		return err
	}
	_, err = manager.InstallBundle(dep, nil)
	return err
}

// UninstallBundle uninstalls dep through the injected bundle manager.
func (p *DefaultBundleInstallPlugin) UninstallBundle(dep *framework.Deployment) error {
	manager, err := p.manager()
	if err != nil {
		return err
	}
	return manager.UninstallBundle(dep)
}

func (p *DefaultBundleInstallPlugin) manager() (BundleManagerPlugin, error) {
	manager, err := p.bundleManager.Value()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrPluginNotStarted, p.ServiceName().CanonicalName(), err)
	}
	return manager, nil
}
