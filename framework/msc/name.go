// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package msc

import "strings"

// ServiceName is a hierarchical, dot separated service name such as
// "jbosgi.framework.ACTIVE". The zero value is the empty name.
type ServiceName struct {
	segments string
}

// Of returns the name made of the given segments. Empty segments are skipped.
func Of(segments ...string) ServiceName {
	return ServiceName{}.Append(segments...)
}

// ParseServiceName parses a canonical name.
func ParseServiceName(canonical string) ServiceName {
	return Of(strings.Split(canonical, ".")...)
}

// Append returns a child name of n.
func (n ServiceName) Append(segments ...string) ServiceName {
	parts := make([]string, 0, len(segments)+1)
	if n.segments != "" {
		parts = append(parts, n.segments)
	}
	for _, s := range segments {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return ServiceName{segments: strings.Join(parts, ".")}
}

// Parent returns the parent name, or the empty name for a root name.
func (n ServiceName) Parent() ServiceName {
	idx := strings.LastIndexByte(n.segments, '.')
	if idx < 0 {
		return ServiceName{}
	}
	return ServiceName{segments: n.segments[:idx]}
}

// SimpleName returns the last segment.
func (n ServiceName) SimpleName() string {
	return n.segments[strings.LastIndexByte(n.segments, '.')+1:]
}

// IsParentOf reports whether other is a strict descendant of n.
func (n ServiceName) IsParentOf(other ServiceName) bool {
	if n.segments == "" {
		return other.segments != ""
	}
	return strings.HasPrefix(other.segments, n.segments+".")
}

// IsEmpty reports whether n is the empty name.
func (n ServiceName) IsEmpty() bool {
	return n.segments == ""
}

// CanonicalName returns the dotted form of the name.
func (n ServiceName) CanonicalName() string {
	return n.segments
}

func (n ServiceName) String() string {
	return "service " + n.segments
}
