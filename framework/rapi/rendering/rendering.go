// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package rendering

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

const (
	// ErrorTypeInternalServerError error type for internal server error
	ErrorTypeInternalServerError = "InternalServerError"
	// ErrorTypeInvalidRequest error type for malformed requests
	ErrorTypeInvalidRequest = "InvalidRequest"
	// ErrorTypeServiceNotFound error type for unknown services
	ErrorTypeServiceNotFound = "ServiceNotFound"
	// ErrorTypeBundleNotFound error type for unknown bundles
	ErrorTypeBundleNotFound = "BundleNotFound"
	// ErrorTypeBundleConflict error type for bundles installed twice
	ErrorTypeBundleConflict = "BundleConflict"
	// ErrorTypeTimeout error type for waits that timed out
	ErrorTypeTimeout = "Timeout"
	// ErrorTypeStartFailed error type for services that did not reach the awaited state
	ErrorTypeStartFailed = "StartFailed"
)

// RenderJSON renders payload as JSON with the given status code.
func RenderJSON(status int, w http.ResponseWriter, r *http.Request, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.WithError(err).Warn("Error while writing response body")
	}
	return nil
}
