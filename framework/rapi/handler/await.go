// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	log "github.com/sirupsen/logrus"
	"go.jbosgi.org/framework"
	"go.jbosgi.org/framework/msc"
	"go.jbosgi.org/framework/rapi/model"
	"go.jbosgi.org/framework/rapi/rendering"
)

const (
	stateQueryParam   = "state"
	timeoutQueryParam = "timeout"
)

// MaxAwaitTimeout bounds the timeout a client may ask for.
const MaxAwaitTimeout = time.Minute

type awaitHandler struct {
	container *msc.ServiceContainer
}

func (h *awaitHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	name := chi.URLParam(request, ServiceNameParam)
	controller, ok := h.container.Service(msc.ParseServiceName(name))
	if !ok {
		rendering.RenderServiceNotFound(writer, request, name)
		return
	}

	state := msc.StateUp
	if s := request.URL.Query().Get(stateQueryParam); s != "" {
		if state = msc.ParseState(s); state == msc.StateUnknown {
			rendering.RenderInvalidRequest(writer, request, "Invalid state %q", s)
			return
		}
	}

	timeout := framework.DefaultTimeout
	if t := request.URL.Query().Get(timeoutQueryParam); t != "" {
		var err error
		if timeout, err = time.ParseDuration(t); err != nil || timeout <= 0 || timeout > MaxAwaitTimeout {
			rendering.RenderInvalidRequest(writer, request, "Invalid timeout %q", t)
			return
		}
	}

	future, err := framework.NewFutureServiceValue[any](controller, framework.WithExpectedState(state))
	if err != nil {
		rendering.RenderInternalServerError(writer, request, err)
		return
	}

	if _, err := future.GetWithTimeout(timeout); err != nil {
		log.WithError(err).Debugf("Await %s %s failed", name, state)
		if errors.Is(err, framework.ErrTimeoutGettingService) {
			rendering.RenderTimeout(writer, request, err)
			return
		}
		rendering.RenderStartFailed(writer, request, err)
		return
	}

	render.Status(request, http.StatusOK)
	render.JSON(writer, request, &model.AwaitResponse{
		Service: controller.Name().CanonicalName(),
		State:   state.String(),
	})
}

// NewAwaitHandler returns a new instance of http handler
// for serving /services/{name}/await.
func NewAwaitHandler(container *msc.ServiceContainer) http.Handler {
	return &awaitHandler{container: container}
}
