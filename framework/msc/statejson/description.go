// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package statejson

import (
	"encoding/json"

	log "github.com/sirupsen/logrus"
)

// StateDescription ...
type StateDescription struct {
	Name         string `json:"name"`
	LastModified int64  `json:"lastModified"`
}

// ServiceDescription describes one controller for debugging purposes
type ServiceDescription struct {
	Name                    string           `json:"name"`
	Mode                    string           `json:"mode"`
	State                   StateDescription `json:"state"`
	Dependencies            []string         `json:"dependencies"`
	UnavailableDependencies []string         `json:"unavailableDependencies,omitempty"`
	StartFailure            string           `json:"startFailure,omitempty"`
}

// ContainerDescription describes every controller of a container
type ContainerDescription struct {
	Name     string               `json:"name"`
	Services []ServiceDescription `json:"services"`
}

func (s *ContainerDescription) AsJSON() []byte {
	bytes, err := json.Marshal(s)
	if err != nil {
		log.Panicf("Failed to marshall container description: %s", err)
	}
	return bytes
}
