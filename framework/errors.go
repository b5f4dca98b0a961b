// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package framework

import (
	"errors"
	"fmt"
)

// ErrIllegalArgument is returned when a required argument is missing.
var ErrIllegalArgument = errors.New("ErrIllegalArgument")

// ErrTimeoutGettingService is returned when a service does not settle in time.
var ErrTimeoutGettingService = errors.New("timeout getting service")

// ErrUnexpectedValueType is returned when a service value does not have the requested type.
var ErrUnexpectedValueType = errors.New("unexpected service value type")

func illegalArgumentNull(name string) error {
	return fmt.Errorf("%w: %s is nil", ErrIllegalArgument, name)
}

// ExecutionError is returned when a service value cannot be obtained because
// the service settled somewhere other than the expected state.
type ExecutionError struct {
	ServiceName string
	Cause       error
}

func (e *ExecutionError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("cannot get service value for: %s", e.ServiceName)
	}
	return fmt.Sprintf("cannot get service value for: %s: %s", e.ServiceName, e.Cause)
}

func (e *ExecutionError) Unwrap() error {
	return e.Cause
}
