// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

/*
Package core provides synchronization primitives shared by the framework packages.

# Gates

Gate is a synchronization aid that allows one or more goroutines to wait until a
set of operations being performed in other goroutines completes.

[waiter] g := core.NewLatch()
[waiter] // register g.WalkThrough with whatever completes the operation ...
[waiter] g.AwaitGateConditionWithTimeout(timeout)
[waiter] // blocked until the gate opens, is canceled, or the timeout elapses

[worker] g.WalkThrough()
[worker] // not blocked

A latch is a gate with a count of one. Walking through an open gate returns
ErrGateIntegrity, which callers that may signal more than once can ignore.
*/
package core
