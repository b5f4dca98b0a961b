// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package rendering

import (
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"
	"go.jbosgi.org/framework/rapi/model"
)

// RenderErrorWithTypeMsg renders an error response with the given status.
func RenderErrorWithTypeMsg(w http.ResponseWriter, r *http.Request, status int, errorType string, format string, args ...interface{}) {
	if err := RenderJSON(status, w, r, &model.ErrorResponse{
		ErrorType:    errorType,
		ErrorMessage: fmt.Sprintf(format, args...),
	}); err != nil {
		log.WithError(err).Warn("Error while rendering response")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// RenderInternalServerError method for rendering error response
func RenderInternalServerError(w http.ResponseWriter, r *http.Request, err error) {
	log.WithError(err).Warn("Internal server error")
	RenderErrorWithTypeMsg(w, r, http.StatusInternalServerError, ErrorTypeInternalServerError, "Internal Server Error")
}

// RenderInvalidRequest renders a malformed request error response
func RenderInvalidRequest(w http.ResponseWriter, r *http.Request, format string, args ...interface{}) {
	RenderErrorWithTypeMsg(w, r, http.StatusBadRequest, ErrorTypeInvalidRequest, format, args...)
}

// RenderServiceNotFound renders unknown service error response
func RenderServiceNotFound(w http.ResponseWriter, r *http.Request, name string) {
	RenderErrorWithTypeMsg(w, r, http.StatusNotFound, ErrorTypeServiceNotFound, "Service %s not found", name)
}

// RenderBundleNotFound renders unknown bundle error response
func RenderBundleNotFound(w http.ResponseWriter, r *http.Request, id string) {
	RenderErrorWithTypeMsg(w, r, http.StatusNotFound, ErrorTypeBundleNotFound, "Bundle %s not found", id)
}

// RenderBundleConflict renders bundle already installed error response
func RenderBundleConflict(w http.ResponseWriter, r *http.Request, err error) {
	RenderErrorWithTypeMsg(w, r, http.StatusConflict, ErrorTypeBundleConflict, "%s", err)
}

// RenderTimeout renders timed out wait error response
func RenderTimeout(w http.ResponseWriter, r *http.Request, err error) {
	RenderErrorWithTypeMsg(w, r, http.StatusGatewayTimeout, ErrorTypeTimeout, "%s", err)
}

// RenderStartFailed renders failed wait error response
func RenderStartFailed(w http.ResponseWriter, r *http.Request, err error) {
	RenderErrorWithTypeMsg(w, r, http.StatusBadGateway, ErrorTypeStartFailed, "%s", err)
}
