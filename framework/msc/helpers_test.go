// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package msc

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testService struct {
	mu       sync.Mutex
	value    any
	startErr error
	release  chan struct{}
	starts   int
	stops    int
}

func (s *testService) Start(*StartContext) error {
	if s.release != nil {
		<-s.release
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.starts++
	return s.startErr
}

func (s *testService) Stop(*StopContext) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stops++
}

func (s *testService) Value() (any, error) {
	return s.value, nil
}

func (s *testService) counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.starts, s.stops
}

type recordingListener struct {
	mu          sync.Mutex
	added       int
	transitions []Transition
}

func (l *recordingListener) ListenerAdded(Controller) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.added++
}

func (l *recordingListener) Transition(_ Controller, t Transition) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.transitions = append(l.transitions, t)
}

func (l *recordingListener) recorded() (int, []Transition) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.added, append([]Transition(nil), l.transitions...)
}

func newTestContainer(t *testing.T) *ServiceContainer {
	sc := NewServiceContainer(Config{Name: t.Name(), Workers: 2})
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = sc.Shutdown(ctx)
	})
	return sc
}

func awaitState(t *testing.T, c *ServiceController, state State) {
	t.Helper()
	require.Eventually(t, func() bool { return c.State() == state }, 2*time.Second, time.Millisecond,
		"%s never reached %s, last state %s", c.Name(), state, c.State())
}

func awaitStable(t *testing.T, sc *ServiceContainer) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, sc.AwaitStability(ctx))
}
