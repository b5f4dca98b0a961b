// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package framework

import "go.jbosgi.org/framework/msc"

// JBOSGIPrefix is the first segment of every framework service name.
const JBOSGIPrefix = "jbosgi"

// Public service names.
var (
	// JBOSGIBaseName is the prefix for all OSGi services
	JBOSGIBaseName = msc.Of(JBOSGIPrefix)
	// JBOSGIServiceBaseName is the prefix for all OSGi services registered through the OSGi layer
	JBOSGIServiceBaseName = JBOSGIBaseName.Append("service")
	// JBOSGIXServiceBaseName is the base name of framework services registered outside the OSGi layer
	JBOSGIXServiceBaseName = JBOSGIBaseName.Append("xservice")
	// BundleBaseName is the prefix for all bundle services
	BundleBaseName = JBOSGIBaseName.Append("bundle")
	// BundleManager names the bundle manager service
	BundleManager = JBOSGIBaseName.Append("bundlemanager")
	// FrameworkBaseName is the base name of all framework services
	FrameworkBaseName = JBOSGIBaseName.Append("framework")
	// FrameworkCreate names the created framework
	FrameworkCreate = FrameworkBaseName.Append("CREATED")
	// FrameworkInit names the initialized framework
	FrameworkInit = FrameworkBaseName.Append("INITIALIZED")
	// FrameworkActive names the started framework
	FrameworkActive = FrameworkBaseName.Append("ACTIVE")
	// InstallHandler names the install handler
	InstallHandler = JBOSGIBaseName.Append("installhandler")
	// PackageAdmin names the package admin service
	PackageAdmin = JBOSGIBaseName.Append("packageadmin")
	// StartLevel names the start level service
	StartLevel = JBOSGIBaseName.Append("startlevel")
	// SystemBundle names the system bundle
	SystemBundle = JBOSGIBaseName.Append("systembundle")
	// SystemContext names the system bundle context
	SystemContext = JBOSGIBaseName.Append("systemcontext")
	// FrameworkModuleProvider names the framework module provider
	FrameworkModuleProvider = JBOSGIBaseName.Append("frameworkmoduleprovider")
	// ModuleLoaderProvider names the module loader provider
	ModuleLoaderProvider = JBOSGIBaseName.Append("moduleloaderprovider")
	// SystemModuleProvider names the system module provider
	SystemModuleProvider = JBOSGIBaseName.Append("systemmoduleprovider")
	// AutoInstallProvider names the auto install provider
	AutoInstallProvider = JBOSGIBaseName.Append("autoinstallprovider")
	// FrameworkIntegrationName names the Integration service
	FrameworkIntegrationName = JBOSGIBaseName.Append("frameworkext")
)

// Integration service names. These are installed by default and may be
// replaced by an embedding environment.
var (
	// BundleInstallPlugin names the plugin that installs bundle deployments
	BundleInstallPlugin = FrameworkBaseName.Append("bundleinstall")
)

// BundleServiceName returns the name of the service backing a bundle.
func BundleServiceName(symbolicName, version string) msc.ServiceName {
	return BundleBaseName.Append(symbolicName, version)
}
