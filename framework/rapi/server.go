// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package rapi

import (
	"context"
	"fmt"
	"net"
	"net/http"

	log "github.com/sirupsen/logrus"
)

// Server is the introspection API server
type Server struct {
	host     string
	port     int
	server   *http.Server
	listener net.Listener
}

// NewServer creates a new API server for handler.
//
// Unlike net/http server's ListenAndServe, we separate Listen()
// and Serve(), so the bound port is known before serving starts.
//
// When port is 0, OS will dynamically allocate the listening port.
func NewServer(host string, port int, handler http.Handler) *Server {
	return &Server{
		host:   host,
		port:   port,
		server: &http.Server{Handler: handler},
	}
}

// Listen on port
func (s *Server) Listen() error {
	addr := net.JoinHostPort(s.host, fmt.Sprint(s.port))

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	s.listener = ln
	if s.port == 0 {
		s.port = ln.Addr().(*net.TCPAddr).Port
		log.WithField("port", s.port).Info("Listening port was dynamically allocated")
	}

	log.Debugf("API Server listening on %s", s.listener.Addr())
	return nil
}

// Serve requests until ctx is done
func (s *Server) Serve(ctx context.Context) error {
	errs := make(chan error, 1)
	go func() {
		errs <- s.server.Serve(s.listener)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		if err := s.Shutdown(context.Background()); err != nil {
			log.WithError(err).Warn("API Server shutdown failed")
		}
		return ctx.Err()
	}
}

// Port is server's port
func (s *Server) Port() int {
	return s.port
}

// URL is full server url for specified endpoint
func (s *Server) URL(endpoint string) string {
	return fmt.Sprintf("http://%s%s", net.JoinHostPort(s.host, fmt.Sprint(s.port)), endpoint)
}

// Shutdown gracefully shuts down server
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.server.Shutdown(ctx)
	if err == nil {
		log.Info("API Server closed")
	}
	return err
}
