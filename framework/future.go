// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package framework

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.jbosgi.org/framework/core"
	"go.jbosgi.org/framework/msc"
)

// DefaultTimeout bounds Get.
const DefaultTimeout = 5 * time.Second

// settlingTransitions lists, per expected state, the edges that end a wait.
var settlingTransitions = map[msc.State][]msc.Transition{
	msc.StateUp:      {msc.StartingToUp, msc.StartingToStartFailed},
	msc.StateDown:    {msc.StoppingToDown, msc.RemovingToDown, msc.WaitingToDown},
	msc.StateRemoved: {msc.RemovingToRemoved},
}

// TimeoutReport is produced when a wait times out, for post-mortem debugging
// of stuck or slow dependency graphs.
type TimeoutReport struct {
	ServiceName             string
	UnavailableDependencies []msc.ServiceName
	ServiceDump             string
	WorkerStacks            []string
}

// TimeoutReporter consumes a TimeoutReport.
type TimeoutReporter func(report *TimeoutReport)

// LogTimeoutReport is the default TimeoutReporter.
func LogTimeoutReport(report *TimeoutReport) {
	log.Debugf("Cannot get service value for: %s\nUnavailable dependencies: %v\n%s",
		report.ServiceName, report.UnavailableDependencies, report.ServiceDump)
	for _, stack := range report.WorkerStacks {
		log.Errorf("ThreadInfo: %s", stack)
	}
}

type futureOptions struct {
	expectedState msc.State
	reporter      TimeoutReporter
	getTimeout    time.Duration
}

// Option configures a FutureServiceValue.
type Option func(*futureOptions)

// WithExpectedState makes the future wait for state instead of UP.
func WithExpectedState(state msc.State) Option {
	return func(o *futureOptions) {
		o.expectedState = state
	}
}

// WithGetTimeout replaces DefaultTimeout as the bound of Get.
func WithGetTimeout(timeout time.Duration) Option {
	return func(o *futureOptions) {
		o.getTimeout = timeout
	}
}

// WithTimeoutReporter replaces LogTimeoutReport.
func WithTimeoutReporter(reporter TimeoutReporter) Option {
	return func(o *futureOptions) {
		o.reporter = reporter
	}
}

// FutureServiceValue waits for a service controller to reach an expected state
// and returns the service value.
//
// Use cautiously and only if there is no way to use direct service dependencies instead.
type FutureServiceValue[T any] struct {
	controller    msc.Controller
	expectedState msc.State
	reporter      TimeoutReporter
	getTimeout    time.Duration
}

// NewFutureServiceValue returns a future for controller, waiting for UP unless
// WithExpectedState says otherwise.
func NewFutureServiceValue[T any](controller msc.Controller, opts ...Option) (*FutureServiceValue[T], error) {
	o := futureOptions{expectedState: msc.StateUp, reporter: LogTimeoutReport, getTimeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	if controller == nil {
		return nil, illegalArgumentNull("controller")
	}
	if o.expectedState == msc.StateUnknown {
		return nil, illegalArgumentNull("state")
	}
	if o.reporter == nil {
		o.reporter = LogTimeoutReport
	}
	if o.getTimeout <= 0 {
		o.getTimeout = DefaultTimeout
	}
	return &FutureServiceValue[T]{
		controller:    controller,
		expectedState: o.expectedState,
		reporter:      o.reporter,
		getTimeout:    o.getTimeout,
	}, nil
}

// Cancel is not supported and always returns false.
func (f *FutureServiceValue[T]) Cancel() bool {
	return false
}

// IsCancelled always returns false.
func (f *FutureServiceValue[T]) IsCancelled() bool {
	return false
}

// IsDone reports whether the controller is in the expected state.
func (f *FutureServiceValue[T]) IsDone() bool {
	return f.controller.State() == f.expectedState
}

// Get waits up to DefaultTimeout, or the WithGetTimeout bound. A timeout is
// returned as an *ExecutionError wrapping ErrTimeoutGettingService.
func (f *FutureServiceValue[T]) Get() (T, error) {
	v, err := f.GetWithTimeout(f.getTimeout)
	if errors.Is(err, ErrTimeoutGettingService) {
		return v, &ExecutionError{ServiceName: f.controller.Name().CanonicalName(), Cause: err}
	}
	return v, err
}

// GetWithTimeout blocks until the controller reaches the expected state, fails
// to start, or timeout elapses.
//
// A start failure the service reported with a plain error is returned as is;
// an explicit msc.StartException is wrapped in an *ExecutionError. A timeout
// produces a TimeoutReport before ErrTimeoutGettingService is returned.
func (f *FutureServiceValue[T]) GetWithTimeout(timeout time.Duration) (T, error) {
	if f.controller.State() == f.expectedState {
		return f.value()
	}

	serviceName := f.controller.Name().CanonicalName()
	listener := &futureListener{
		future:        f,
		serviceName:   serviceName,
		expectedState: f.expectedState,
		latch:         core.NewLatch(),
	}
	f.controller.AddListener(listener)
	awaitErr := listener.latch.AwaitGateConditionWithTimeout(timeout)
	f.controller.RemoveListener(listener)

	if f.controller.State() == f.expectedState {
		return f.value()
	}

	var zero T
	if se := f.controller.StartException(); se != nil {
		if se.Raw() {
			return zero, se.Cause
		}
		cause := se.Cause
		if cause == nil {
			cause = se
		}
		return zero, &ExecutionError{ServiceName: serviceName, Cause: cause}
	}

	if awaitErr != nil {
		f.reporter(f.timeoutReport(serviceName))
		return zero, fmt.Errorf("%w: %s", ErrTimeoutGettingService, serviceName)
	}
	return zero, &ExecutionError{ServiceName: serviceName}
}

func (f *FutureServiceValue[T]) value() (T, error) {
	var zero T
	if f.expectedState != msc.StateUp {
		return zero, nil
	}
	v, err := f.controller.Value()
	if err != nil {
		return zero, &ExecutionError{ServiceName: f.controller.Name().CanonicalName(), Cause: err}
	}
	if v == nil {
		return zero, nil
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s has %T, want %T", ErrUnexpectedValueType,
			f.controller.Name().CanonicalName(), v, zero)
	}
	return typed, nil
}

func (f *FutureServiceValue[T]) timeoutReport(serviceName string) *TimeoutReport {
	report := &TimeoutReport{
		ServiceName:             serviceName,
		UnavailableDependencies: f.controller.ImmediateUnavailableDependencies(),
		WorkerStacks:            msc.WorkerStacks(),
	}
	if dumper := f.controller.Container(); dumper != nil {
		var buf bytes.Buffer
		dumper.DumpServices(&buf)
		report.ServiceDump = buf.String()
	}
	return report
}

func (f *FutureServiceValue[T]) String() string {
	return fmt.Sprintf("FutureServiceValue[%s => %s]", f.controller.Name().CanonicalName(), f.expectedState)
}

// futureListener opens its latch once the controller settles.
type futureListener struct {
	future        fmt.Stringer
	serviceName   string
	expectedState msc.State
	latch         core.Gate
}

func (l *futureListener) ListenerAdded(c msc.Controller) {
	state := c.State()
	if state == l.expectedState || state == msc.StateStartFailed {
		l.done()
	}
}

func (l *futureListener) Transition(c msc.Controller, t msc.Transition) {
	log.Tracef("transition %s %s => %s", l.future, l.serviceName, t)
	for _, settling := range settlingTransitions[l.expectedState] {
		if t == settling {
			l.done()
			return
		}
	}
}

func (l *futureListener) done() {
	// ListenerAdded and Transition may both signal; the second walk through is ignored.
	_ = l.latch.WalkThrough()
}
