// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

/*
Package framework binds the OSGi bundle layer to the msc service container.

It holds the public service names, the Integration contract used by embedding
environments, and FutureServiceValue, which turns the asynchronous settlement
of a service controller into a blocking call:

	future, err := framework.NewFutureServiceValue[*bundle.Manager](controller)
	if err != nil {
		return err
	}
	manager, err := future.GetWithTimeout(10 * time.Second)

The wait registers a listener, re-checks the state when the listener is
added, and always removes the listener before returning. On timeout the
unavailable dependencies, a dump of the container and the stacks of the
container workers are logged.
*/
package framework
