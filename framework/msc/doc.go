// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

/*
Package msc is a small in-process modular service container.

# Controllers

Every installed Service gets a ServiceController that implements the state
object pattern:

	DOWN -> WAITING -> STARTING -> UP -> STOPPING -> DOWN
	                   STARTING -> START_FAILED
	DOWN -> REMOVING -> REMOVED

A controller starts its service when its Mode asks for it (ACTIVE, or
ON_DEMAND while another service demands it) and every dependency is UP. It
waits in WAITING while a dependency is missing or down.

# Listeners

Listeners observe controllers. Callbacks run on the container worker pool, one
at a time per controller, in transition order. ListenerAdded is always
delivered after registration, ahead of later transitions, so an observer can
re-check the state there without racing a concurrent settlement.

# Diagnostics

DumpServices writes a human readable report of all controllers, Describe
returns the same information as statejson, and WorkerStacks returns the stacks
of the goroutines running the worker pool.
*/
package msc
