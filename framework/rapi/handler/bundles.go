// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"go.jbosgi.org/framework"
	"go.jbosgi.org/framework/bundle"
	"go.jbosgi.org/framework/msc"
	"go.jbosgi.org/framework/rapi/model"
	"go.jbosgi.org/framework/rapi/rendering"
)

// BundleIDParam is the route parameter holding a bundle id.
const BundleIDParam = "id"

// BundleRegistry looks up installed bundles.
type BundleRegistry interface {
	Deployment(id uuid.UUID) (*framework.Deployment, bool)
	Bundles() []bundle.Description
}

type bundlesHandler struct {
	registry BundleRegistry
}

func (h *bundlesHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	if err := rendering.RenderJSON(http.StatusOK, writer, request, h.registry.Bundles()); err != nil {
		rendering.RenderInternalServerError(writer, request, err)
	}
}

// NewBundlesHandler returns a new instance of http handler
// for serving GET /bundles.
func NewBundlesHandler(registry BundleRegistry) http.Handler {
	return &bundlesHandler{registry: registry}
}

type bundleInstallHandler struct {
	target      msc.ServiceTarget
	integration framework.Integration
}

func (h *bundleInstallHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	var req model.InstallBundleRequest
	if err := render.DecodeJSON(request.Body, &req); err != nil {
		rendering.RenderInvalidRequest(writer, request, "Invalid bundle request: %s", err)
		return
	}

	dep := framework.NewDeployment(req.Location, req.SymbolicName, req.Version)
	if req.AutoStart != nil {
		dep.AutoStart = *req.AutoStart
	}
	if err := dep.Validate(); err != nil {
		rendering.RenderInvalidRequest(writer, request, "Bundle location and symbolicName are required")
		return
	}

	name, err := h.integration.InstallBundle(h.target, dep)
	if err != nil {
		if errors.Is(err, bundle.ErrBundleAlreadyInstalled) || errors.Is(err, msc.ErrDuplicateService) {
			rendering.RenderBundleConflict(writer, request, err)
			return
		}
		rendering.RenderInternalServerError(writer, request, err)
		return
	}

	render.Status(request, http.StatusCreated)
	render.JSON(writer, request, &model.InstallBundleResponse{
		ID:          dep.ID.String(),
		ServiceName: name.CanonicalName(),
	})
}

// NewBundleInstallHandler returns a new instance of http handler
// for serving POST /bundles.
func NewBundleInstallHandler(target msc.ServiceTarget, integration framework.Integration) http.Handler {
	return &bundleInstallHandler{target: target, integration: integration}
}

type bundleUninstallHandler struct {
	registry    BundleRegistry
	integration framework.Integration
}

func (h *bundleUninstallHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	param := chi.URLParam(request, BundleIDParam)
	id, err := uuid.Parse(param)
	if err != nil {
		rendering.RenderInvalidRequest(writer, request, "Invalid bundle id %q", param)
		return
	}

	dep, ok := h.registry.Deployment(id)
	if !ok {
		rendering.RenderBundleNotFound(writer, request, param)
		return
	}
	if err := h.integration.UninstallBundle(dep); err != nil {
		if errors.Is(err, bundle.ErrBundleNotInstalled) {
			rendering.RenderBundleNotFound(writer, request, param)
			return
		}
		rendering.RenderInternalServerError(writer, request, err)
		return
	}
	writer.WriteHeader(http.StatusNoContent)
}

// NewBundleUninstallHandler returns a new instance of http handler
// for serving DELETE /bundles/{id}.
func NewBundleUninstallHandler(registry BundleRegistry, integration framework.Integration) http.Handler {
	return &bundleUninstallHandler{registry: registry, integration: integration}
}
