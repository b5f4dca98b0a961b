// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrGateIntegrity is returned when a party walks through a gate that is already open.
var ErrGateIntegrity = errors.New("ErrGateIntegrity")

// ErrGateCanceled is returned from awaits on a gate canceled without an error.
var ErrGateCanceled = errors.New("ErrGateCanceled")

// ErrGateTimeout is returned when the gate condition is not met before the deadline.
var ErrGateTimeout = errors.New("ErrGateTimeout")

// Gate is a count-down synchronization aid. Awaiting parties are released
// once the expected number of parties walked through, or the gate is canceled.
type Gate interface {
	WalkThrough() error
	AwaitGateCondition() error
	AwaitGateConditionWithDeadline(ctx context.Context) error
	AwaitGateConditionWithTimeout(timeout time.Duration) error
	CancelWithError(error)
	IsOpen() bool
}

type gateImpl struct {
	mu       sync.Mutex
	count    uint16
	arrived  uint16
	open     chan struct{}
	canceled bool
	err      error
}

// NewGate returns a gate that opens after count parties walked through.
// A gate with zero count is open from the start.
func NewGate(count uint16) Gate {
	g := &gateImpl{
		count: count,
		open:  make(chan struct{}),
	}
	if count == 0 {
		close(g.open)
	}
	return g
}

// NewLatch returns a one-shot gate.
func NewLatch() Gate {
	return NewGate(1)
}

// WalkThrough walks through this gate without awaiting others.
func (g *gateImpl) WalkThrough() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.arrived == g.count || g.canceled {
		return ErrGateIntegrity
	}

	g.arrived++
	if g.arrived == g.count {
		close(g.open)
	}

	return nil
}

// AwaitGateCondition blocks until the gate condition is met or the gate is canceled.
func (g *gateImpl) AwaitGateCondition() error {
	<-g.open
	return g.result()
}

// AwaitGateConditionWithDeadline blocks until the gate condition is met, the gate
// is canceled or ctx is done. ctx expiry yields ErrGateTimeout and leaves the gate intact.
func (g *gateImpl) AwaitGateConditionWithDeadline(ctx context.Context) error {
	select {
	case <-g.open:
		return g.result()
	case <-ctx.Done():
		return ErrGateTimeout
	}
}

// AwaitGateConditionWithTimeout is AwaitGateConditionWithDeadline with a single
// absolute deadline computed from timeout.
func (g *gateImpl) AwaitGateConditionWithTimeout(timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-g.open:
		return g.result()
	case <-timer.C:
		return ErrGateTimeout
	}
}

// CancelWithError cancels gate condition with error and awakes suspended parties.
func (g *gateImpl) CancelWithError(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.canceled || g.arrived == g.count {
		return
	}
	g.canceled = true
	g.err = err
	close(g.open)
}

// IsOpen reports whether awaiting parties would be released immediately.
func (g *gateImpl) IsOpen() bool {
	select {
	case <-g.open:
		return true
	default:
		return false
	}
}

func (g *gateImpl) result() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.canceled {
		if g.err != nil {
			return g.err
		}
		return ErrGateCanceled
	}
	return nil
}
