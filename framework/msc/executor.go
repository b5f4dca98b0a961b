// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package msc

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ErrExecutorClosed is returned when work is submitted to a closed executor.
var ErrExecutorClosed = errors.New("ErrExecutorClosed")

// executor is a fixed pool of workers draining an unbounded task queue.
// Tasks may submit further tasks without blocking.
type executor struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []func()
	closed bool
	group  errgroup.Group
}

func newExecutor(workers int) *executor {
	e := &executor{}
	e.cond = sync.NewCond(&e.mu)
	for i := 0; i < workers; i++ {
		id := i
		e.group.Go(func() error {
			return e.runWorker(id)
		})
	}
	return e
}

func (e *executor) submit(task func()) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrExecutorClosed
	}
	e.queue = append(e.queue, task)
	e.cond.Signal()
	return nil
}

// runWorker is the worker loop. Its name is matched by WorkerStacks.
func (e *executor) runWorker(id int) error {
	for {
		e.mu.Lock()
		for len(e.queue) == 0 && !e.closed {
			e.cond.Wait()
		}
		if len(e.queue) == 0 {
			e.mu.Unlock()
			return nil
		}
		task := e.queue[0]
		e.queue[0] = nil
		e.queue = e.queue[1:]
		e.mu.Unlock()

		e.run(id, task)
	}
}

func (e *executor) run(id int, task func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("MSC worker %d: task panicked: %v\n%s", id, r, debug.Stack())
		}
	}()
	task()
}

// close stops accepting tasks and waits for queued tasks to drain, or for ctx.
// Workers stuck in a task when ctx is done are left running.
func (e *executor) close(ctx context.Context) error {
	e.mu.Lock()
	e.closed = true
	e.cond.Broadcast()
	e.mu.Unlock()

	drained := make(chan error, 1)
	go func() {
		drained <- e.group.Wait()
	}()
	select {
	case err := <-drained:
		if err != nil {
			return fmt.Errorf("MSC workers: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("MSC workers did not drain: %w", ctx.Err())
	}
}
