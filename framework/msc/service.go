// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package msc

import (
	"errors"
	"fmt"
)

// ErrServiceNotUp is returned when the value of a service that is not UP is requested.
var ErrServiceNotUp = errors.New("ErrServiceNotUp")

// Service is a unit of work managed by the container.
type Service interface {
	// Start is called on a container worker once all dependencies are UP.
	// Returning an error moves the controller to START_FAILED.
	Start(ctx *StartContext) error
	// Stop is called on a container worker when the service goes down.
	Stop(ctx *StopContext)
	// Value returns the value published by the service while it is UP.
	Value() (any, error)
}

// StartContext is passed to Service.Start.
type StartContext struct {
	controller *ServiceController
}

// Controller returns the controller of the starting service.
func (c *StartContext) Controller() *ServiceController {
	return c.controller
}

// Target returns a target for installing additional services during start.
func (c *StartContext) Target() ServiceTarget {
	return c.controller.container
}

// StopContext is passed to Service.Stop.
type StopContext struct {
	controller *ServiceController
}

// Controller returns the controller of the stopping service.
func (c *StopContext) Controller() *ServiceController {
	return c.controller
}

// StartException records why a service failed to start.
type StartException struct {
	Message string
	Cause   error

	// raw is set when the container created the exception around an error
	// or panic returned by the service itself.
	raw bool
}

// NewStartException returns a start exception a service can return from
// Start to report an expected failure.
func NewStartException(message string, cause error) *StartException {
	return &StartException{Message: message, Cause: cause}
}

func (e *StartException) Error() string {
	switch {
	case e.Message != "" && e.Cause != nil:
		return fmt.Sprintf("%s: %s", e.Message, e.Cause)
	case e.Cause != nil:
		return e.Cause.Error()
	case e.Message != "":
		return e.Message
	}
	return "start failed"
}

func (e *StartException) Unwrap() error {
	return e.Cause
}

// Raw reports whether the cause was returned by the service directly rather
// than through an explicit StartException.
func (e *StartException) Raw() bool {
	return e.raw
}

// PanicError is the cause recorded when Service.Start panics.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic during start: %v", e.Value)
}

func toStartException(err error) *StartException {
	var se *StartException
	if errors.As(err, &se) {
		return se
	}
	return &StartException{Cause: err, raw: true}
}

// ValueService publishes a constant value.
type ValueService struct {
	value any
}

// NewValueService returns a service whose value is v.
func NewValueService(v any) *ValueService {
	return &ValueService{value: v}
}

func (s *ValueService) Start(*StartContext) error { return nil }

func (s *ValueService) Stop(*StopContext) {}

func (s *ValueService) Value() (any, error) { return s.value, nil }
