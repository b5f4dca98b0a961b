// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package msc

import (
	"fmt"
	"io"
	"reflect"
)

// Controller is the view of a service controller available to observers.
type Controller interface {
	Name() ServiceName
	State() State
	Value() (any, error)
	// StartException returns the cause of the last failed start, or nil.
	StartException() *StartException
	// ImmediateUnavailableDependencies returns dependencies that are not installed.
	ImmediateUnavailableDependencies() []ServiceName
	AddListener(l Listener)
	RemoveListener(l Listener)
	Container() Dumper
}

// Dumper writes a human readable report of every service in a container.
type Dumper interface {
	DumpServices(w io.Writer)
}

// Listener observes a controller. Callbacks run on container workers; the
// callbacks for one controller are delivered one at a time in transition order.
// Listeners are compared by identity, so use pointer receivers.
type Listener interface {
	// ListenerAdded is delivered once after the listener is registered,
	// even if the controller settled before registration completed.
	ListenerAdded(c Controller)
	// Transition is delivered for every state change after registration.
	Transition(c Controller, t Transition)
}

// MustBeComparable panics unless l can be compared by identity. Registration
// calls it so that a listener of a non-comparable type fails when it is added
// rather than when it is removed.
func MustBeComparable(l any) {
	if l == nil {
		panic("msc: nil listener")
	}
	if !reflect.TypeOf(l).Comparable() {
		panic(fmt.Sprintf("msc: listener of type %T is not comparable, register a pointer", l))
	}
}

// AbstractListener provides no-op callbacks for embedding.
type AbstractListener struct{}

func (AbstractListener) ListenerAdded(Controller) {}

func (AbstractListener) Transition(Controller, Transition) {}

// ListenerFuncs adapts plain functions to a Listener. Use a pointer to it.
type ListenerFuncs struct {
	OnAdded      func(c Controller)
	OnTransition func(c Controller, t Transition)
}

func (l *ListenerFuncs) ListenerAdded(c Controller) {
	if l.OnAdded != nil {
		l.OnAdded(c)
	}
}

func (l *ListenerFuncs) Transition(c Controller, t Transition) {
	if l.OnTransition != nil {
		l.OnTransition(c, t)
	}
}
