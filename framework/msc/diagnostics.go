// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package msc

import (
	"bytes"
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"go.jbosgi.org/framework/msc/statejson"
)

// workerFrame identifies goroutines running the container worker loop.
const workerFrame = "msc.(*executor).runWorker"

// DumpServices writes one line per installed service to w.
func (sc *ServiceContainer) DumpServices(w io.Writer) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	names := sc.sortedNamesUnsafe()
	fmt.Fprintf(w, "Services for %s:\n", sc.name)
	for _, name := range names {
		c := sc.services[name]
		fmt.Fprintf(w, "Service %q (mode %s) state=%s", name.CanonicalName(), c.mode, c.state)
		if len(c.dependencies) > 0 {
			deps := make([]string, 0, len(c.dependencies))
			for _, d := range c.dependencies {
				if dep, ok := sc.services[d.name]; ok {
					deps = append(deps, fmt.Sprintf("%s (%s)", d.name.CanonicalName(), dep.state))
				} else {
					deps = append(deps, d.name.CanonicalName()+" (missing)")
				}
			}
			fmt.Fprintf(w, " dependencies=[%s]", strings.Join(deps, ", "))
		}
		if c.startException != nil {
			fmt.Fprintf(w, " failure=%q", c.startException.Error())
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "%d services displayed\n", len(names))
}

// Describe returns a JSON friendly description of every installed service.
func (sc *ServiceContainer) Describe() statejson.ContainerDescription {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	res := statejson.ContainerDescription{
		Name:     sc.name,
		Services: []statejson.ServiceDescription{},
	}
	for _, name := range sc.sortedNamesUnsafe() {
		res.Services = append(res.Services, sc.services[name].describeUnsafe())
	}
	return res
}

// Describe returns a JSON friendly description of the controller.
func (c *ServiceController) Describe() statejson.ServiceDescription {
	c.container.mu.Lock()
	defer c.container.mu.Unlock()
	return c.describeUnsafe()
}

func (c *ServiceController) describeUnsafe() statejson.ServiceDescription {
	res := statejson.ServiceDescription{
		Name: c.name.CanonicalName(),
		Mode: c.mode.String(),
		State: statejson.StateDescription{
			Name:         c.state.String(),
			LastModified: c.stateLastModified.UnixNano() / int64(time.Millisecond),
		},
		Dependencies: []string{},
	}
	for _, d := range c.dependencies {
		res.Dependencies = append(res.Dependencies, d.name.CanonicalName())
		if _, ok := c.container.services[d.name]; !ok {
			res.UnavailableDependencies = append(res.UnavailableDependencies, d.name.CanonicalName())
		}
	}
	if c.startException != nil {
		res.StartFailure = c.startException.Error()
	}
	return res
}

// WorkerStacks returns the stack of every goroutine currently running a
// container worker loop, in any container of this process.
func WorkerStacks() []string {
	buf := make([]byte, 64<<10)
	for {
		n := runtime.Stack(buf, true)
		if n < len(buf) {
			buf = buf[:n]
			break
		}
		buf = make([]byte, 2*len(buf))
	}

	var stacks []string
	for _, block := range bytes.Split(buf, []byte("\n\n")) {
		if bytes.Contains(block, []byte(workerFrame)) {
			stacks = append(stacks, string(block))
		}
	}
	return stacks
}
