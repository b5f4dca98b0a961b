// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package launch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.jbosgi.org/framework"
	"go.jbosgi.org/framework/msc"
	"go.jbosgi.org/framework/plugin"
)

func newFramework(t *testing.T) *Framework {
	f := New(Config{Name: t.Name(), Workers: 2})
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = f.Stop(ctx)
	})
	return f
}

func TestStart(t *testing.T) {
	f := newFramework(t)
	require.NoError(t, f.Start(time.Second))

	for _, name := range []msc.ServiceName{
		framework.FrameworkCreate, framework.BundleManager, framework.BundleInstallPlugin,
		framework.FrameworkInit, framework.FrameworkActive,
	} {
		ctrl, err := f.Container().RequiredService(name)
		require.NoError(t, err)
		assert.Equal(t, msc.StateUp, ctrl.State(), name.CanonicalName())
	}

	ctrl, err := f.Container().RequiredService(framework.FrameworkInit)
	require.NoError(t, err)
	v, err := ctrl.Value()
	require.NoError(t, err)
	assert.Equal(t, "INITIALIZED", v.(*Phase).String())

	// starting twice is harmless
	require.NoError(t, f.Start(0))
}

func TestInstallBundleThroughPlugin(t *testing.T) {
	f := newFramework(t)
	dep := framework.NewDeployment("file:a.jar", "a", "1.0")
	assert.True(t, errors.Is(f.InstallBundle(dep), plugin.ErrPluginNotStarted))

	require.NoError(t, f.Start(time.Second))
	require.NoError(t, f.InstallBundle(dep))

	ctrl, err := f.Container().RequiredService(dep.ServiceName())
	require.NoError(t, err)
	future, err := framework.NewFutureServiceValue[any](ctrl)
	require.NoError(t, err)
	_, err = future.GetWithTimeout(time.Second)
	require.NoError(t, err)
	assert.Len(t, f.BundleManager().Bundles(), 1)

	require.NoError(t, f.UninstallBundle(dep))
	assert.Empty(t, f.BundleManager().Bundles())
}

func TestIntegration(t *testing.T) {
	f := newFramework(t)
	require.NoError(t, f.Start(time.Second))

	dep := framework.NewDeployment("file:b.jar", "b", "")
	name, err := f.Integration().InstallBundle(f.Container(), dep)
	require.NoError(t, err)
	assert.Equal(t, dep.ServiceName(), name)
}

func TestStartTimesOut(t *testing.T) {
	f := newFramework(t)
	require.NoError(t, f.Install())

	// block the framework from becoming active
	ctrl, err := f.Container().RequiredService(framework.FrameworkInit)
	require.NoError(t, err)
	require.NoError(t, ctrl.SetMode(msc.ModeNever))
	active, err := f.Container().RequiredService(framework.FrameworkActive)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return active.State() == msc.StateWaiting }, time.Second, time.Millisecond)

	err = f.Start(50 * time.Millisecond)
	assert.True(t, errors.Is(err, framework.ErrTimeoutGettingService))
}

func TestStop(t *testing.T) {
	f := New(Config{Name: t.Name()})
	require.NoError(t, f.Start(time.Second))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, f.Stop(ctx))

	assert.Empty(t, f.Container().ServiceNames())
	assert.True(t, errors.Is(f.Install(), ErrFrameworkStopped))
}
