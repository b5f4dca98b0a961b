// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package model

// InstallBundleRequest is the body of POST /bundles.
type InstallBundleRequest struct {
	Location     string `json:"location"`
	SymbolicName string `json:"symbolicName"`
	Version      string `json:"version,omitempty"`
	// AutoStart defaults to true.
	AutoStart *bool `json:"autoStart,omitempty"`
}

// InstallBundleResponse describes an installed bundle.
type InstallBundleResponse struct {
	ID          string `json:"id"`
	ServiceName string `json:"serviceName"`
}
