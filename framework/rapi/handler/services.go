// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package handler

import (
	"net/http"

	"github.com/go-chi/chi"
	"go.jbosgi.org/framework/msc"
	"go.jbosgi.org/framework/rapi/rendering"
)

// ServiceNameParam is the route parameter holding a canonical service name.
const ServiceNameParam = "name"

type servicesHandler struct {
	container *msc.ServiceContainer
}

func (h *servicesHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	description := h.container.Describe()
	writer.Header().Set("Content-Type", "application/json")
	writer.Write(description.AsJSON())
}

// NewServicesHandler returns a new instance of http handler
// for serving /services.
func NewServicesHandler(container *msc.ServiceContainer) http.Handler {
	return &servicesHandler{container: container}
}

type serviceHandler struct {
	container *msc.ServiceContainer
}

func (h *serviceHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	name := chi.URLParam(request, ServiceNameParam)
	controller, ok := h.container.Service(msc.ParseServiceName(name))
	if !ok {
		rendering.RenderServiceNotFound(writer, request, name)
		return
	}
	if err := rendering.RenderJSON(http.StatusOK, writer, request, controller.Describe()); err != nil {
		rendering.RenderInternalServerError(writer, request, err)
	}
}

// NewServiceHandler returns a new instance of http handler
// for serving /services/{name}.
func NewServiceHandler(container *msc.ServiceContainer) http.Handler {
	return &serviceHandler{container: container}
}

type dumpHandler struct {
	container *msc.ServiceContainer
}

func (h *dumpHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	writer.Header().Set("Content-Type", "text/plain; charset=utf-8")
	h.container.DumpServices(writer)
}

// NewDumpHandler returns a new instance of http handler
// for serving /dump.
func NewDumpHandler(container *msc.ServiceContainer) http.Handler {
	return &dumpHandler{container: container}
}
