// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package framework

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.jbosgi.org/framework/msc"
)

func TestServiceNames(t *testing.T) {
	assert.Equal(t, "jbosgi", JBOSGIBaseName.CanonicalName())
	assert.Equal(t, "jbosgi.service", JBOSGIServiceBaseName.CanonicalName())
	assert.Equal(t, "jbosgi.xservice", JBOSGIXServiceBaseName.CanonicalName())
	assert.Equal(t, "jbosgi.bundlemanager", BundleManager.CanonicalName())
	assert.Equal(t, "jbosgi.framework.CREATED", FrameworkCreate.CanonicalName())
	assert.Equal(t, "jbosgi.framework.INITIALIZED", FrameworkInit.CanonicalName())
	assert.Equal(t, "jbosgi.framework.ACTIVE", FrameworkActive.CanonicalName())
	assert.Equal(t, "jbosgi.frameworkext", FrameworkIntegrationName.CanonicalName())
	assert.Equal(t, "jbosgi.framework.bundleinstall", BundleInstallPlugin.CanonicalName())
	assert.Equal(t, "service jbosgi.framework.ACTIVE", FrameworkActive.String())
}

func TestServiceNamesHierarchy(t *testing.T) {
	names := []msc.ServiceName{
		JBOSGIServiceBaseName, JBOSGIXServiceBaseName, BundleBaseName, BundleManager,
		FrameworkBaseName, InstallHandler, PackageAdmin, StartLevel, SystemBundle, SystemContext,
		FrameworkModuleProvider, ModuleLoaderProvider, SystemModuleProvider, AutoInstallProvider,
		FrameworkIntegrationName,
	}
	seen := map[msc.ServiceName]bool{}
	for _, n := range names {
		assert.True(t, JBOSGIBaseName.IsParentOf(n), n.CanonicalName())
		assert.False(t, seen[n], "duplicate %s", n.CanonicalName())
		seen[n] = true
	}
	for _, n := range []msc.ServiceName{FrameworkCreate, FrameworkInit, FrameworkActive, BundleInstallPlugin} {
		assert.Equal(t, FrameworkBaseName, n.Parent())
	}
}

func TestBundleServiceName(t *testing.T) {
	name := BundleServiceName("org.acme.foo", "1.0")
	assert.Equal(t, "jbosgi.bundle.org.acme.foo.1.0", name.CanonicalName())
	assert.True(t, BundleBaseName.IsParentOf(name))
}

func TestParseDeployment(t *testing.T) {
	dep, err := ParseDeployment("file:/tmp/foo.jar=org.acme.foo:1.2.3")
	require.NoError(t, err)
	assert.Equal(t, "file:/tmp/foo.jar", dep.Location)
	assert.Equal(t, "org.acme.foo", dep.SymbolicName)
	assert.Equal(t, "1.2.3", dep.Version)
	assert.True(t, dep.AutoStart)
	assert.NotEmpty(t, dep.ID.String())
	assert.Equal(t, "jbosgi.bundle.org.acme.foo.1.2.3", dep.ServiceName().CanonicalName())

	dep, err = ParseDeployment("bar.jar=bar")
	require.NoError(t, err)
	assert.Equal(t, "0.0.0", dep.Version)

	for _, invalid := range []string{"", "bar.jar", "=bar", "bar.jar=", "bar.jar=:1.0"} {
		_, err = ParseDeployment(invalid)
		assert.Equal(t, ErrInvalidDeployment, err, invalid)
	}
}

func TestDeploymentsHaveDistinctIDs(t *testing.T) {
	a := NewDeployment("a.jar", "a", "")
	b := NewDeployment("a.jar", "a", "")
	assert.NotEqual(t, a.ID, b.ID)
	assert.NoError(t, a.Validate())
	assert.Equal(t, ErrInvalidDeployment, (&Deployment{Location: "x"}).Validate())
}
