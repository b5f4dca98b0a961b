// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package msc

import (
	"errors"
	"fmt"
	"sync"
)

// ErrNotInjected is returned by InjectedValue.Value before injection or after uninjection.
var ErrNotInjected = errors.New("ErrNotInjected")

// Injector receives the value of a dependency before the dependent starts,
// and is uninjected after the dependent stopped.
type Injector interface {
	Inject(v any) error
	Uninject()
}

// InjectedValue is an Injector holding a value of type T.
type InjectedValue[T any] struct {
	mu       sync.RWMutex
	value    T
	injected bool
}

func (v *InjectedValue[T]) Inject(value any) error {
	typed, ok := value.(T)
	if !ok {
		return fmt.Errorf("cannot inject value of type %T", value)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.value = typed
	v.injected = true
	return nil
}

func (v *InjectedValue[T]) Uninject() {
	v.mu.Lock()
	defer v.mu.Unlock()
	var zero T
	v.value = zero
	v.injected = false
}

// Value returns the injected value, or ErrNotInjected.
func (v *InjectedValue[T]) Value() (T, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if !v.injected {
		var zero T
		return zero, ErrNotInjected
	}
	return v.value, nil
}
