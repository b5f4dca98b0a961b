// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package rapi

import (
	"net/http"

	"github.com/go-chi/chi"
	"go.jbosgi.org/framework"
	"go.jbosgi.org/framework/msc"
	"go.jbosgi.org/framework/rapi/handler"
)

// NewRouter returns a new instance of chi router serving the
// container introspection and bundle API.
func NewRouter(container *msc.ServiceContainer, integration framework.Integration, registry handler.BundleRegistry) http.Handler {
	router := chi.NewRouter()
	router.Use(accessLogMiddleware)

	router.Get("/ping", handler.NewPingHandler().ServeHTTP)

	router.Get("/services", handler.NewServicesHandler(container).ServeHTTP)
	router.Get("/services/{"+handler.ServiceNameParam+"}", handler.NewServiceHandler(container).ServeHTTP)
	router.Get("/services/{"+handler.ServiceNameParam+"}/await", handler.NewAwaitHandler(container).ServeHTTP)
	router.Get("/dump", handler.NewDumpHandler(container).ServeHTTP)

	router.Get("/bundles", handler.NewBundlesHandler(registry).ServeHTTP)
	router.Post("/bundles", handler.NewBundleInstallHandler(container, integration).ServeHTTP)
	router.Delete("/bundles/{"+handler.BundleIDParam+"}",
		handler.NewBundleUninstallHandler(registry, integration).ServeHTTP)

	return router
}
