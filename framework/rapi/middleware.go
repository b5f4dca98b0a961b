// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package rapi

import (
	"net/http"

	"github.com/go-chi/chi/middleware"
	log "github.com/sirupsen/logrus"
)

func accessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Debugf("rapi: -> %s %s", r.Method, r.URL)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := http.StatusOK
		if ww.Status() != 0 {
			status = ww.Status()
		}

		if status/100 == 5 {
			log.Warnf("rapi: <- %s %s %d", r.Method, r.URL, status)
		} else {
			log.Debugf("rapi: <- %s %s %d", r.Method, r.URL, status)
		}
	})
}
