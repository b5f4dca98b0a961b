// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package model

// AwaitResponse is returned once a service reached the awaited state.
type AwaitResponse struct {
	Service string `json:"service"`
	State   string `json:"state"`
}
