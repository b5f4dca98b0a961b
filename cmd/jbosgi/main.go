// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	log "github.com/sirupsen/logrus"
	"go.jbosgi.org/framework"
	"go.jbosgi.org/framework/launch"
	"go.jbosgi.org/framework/logging"
	"go.jbosgi.org/framework/rapi"
)

const shutdownTimeout = 10 * time.Second

type options struct {
	LogLevel     string        `long:"log-level" env:"JBOSGI_LOG_LEVEL" default:"info" description:"log level"`
	Address      string        `long:"address" default:"127.0.0.1:9090" description:"address of the introspection API"`
	Workers      int           `long:"workers" default:"4" description:"service container worker goroutines"`
	StartTimeout time.Duration `long:"start-timeout" default:"10s" description:"time to wait for the framework to become active"`
	Bundles      []string      `long:"bundle" description:"bundle to install as location=symbolicName:version, may be repeated"`
}

func main() {
	opts, _ := getCLIArgs()
	if err := logging.SetLogLevel(opts.LogLevel); err != nil {
		log.WithError(err).Fatal("Failed to set log level. Valid log levels are:", log.AllLevels)
	}

	deployments, err := parseBundles(opts.Bundles)
	if err != nil {
		log.WithError(err).Fatal("Invalid --bundle argument")
	}
	host, port, err := splitAddress(opts.Address)
	if err != nil {
		log.WithError(err).Fatal("Invalid --address argument")
	}

	fw := launch.New(launch.Config{Name: "jbosgi", Workers: opts.Workers, StartTimeout: opts.StartTimeout})
	if err := fw.Start(opts.StartTimeout); err != nil {
		log.WithError(err).Fatal("Failed to start framework")
	}
	for _, dep := range deployments {
		if err := fw.InstallBundle(dep); err != nil {
			log.WithError(err).Errorf("Failed to install bundle %s", dep.Location)
		}
	}

	server := rapi.NewServer(host, port, rapi.NewRouter(fw.Container(), fw.Integration(), fw.BundleManager()))
	if err := server.Listen(); err != nil {
		log.WithError(err).Fatal("Failed to listen")
	}
	log.Infof("Listening on %s", server.URL(""))

	ctx, cancel := context.WithCancel(context.Background())
	go signalHandler(cancel)
	if err := server.Serve(ctx); err != nil && err != context.Canceled {
		log.WithError(err).Error("API Server failed")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := fw.Stop(shutdownCtx); err != nil {
		os.Exit(1)
	}
}

func getCLIArgs() (options, []string) {
	opts, args, err := parseArgs(os.Args)
	if err != nil {
		log.WithError(err).Fatal("Failed to parse command line arguments:", os.Args)
	}
	return opts, args
}

func parseArgs(argv []string) (options, []string, error) {
	var opts options
	parser := flags.NewParser(&opts, flags.IgnoreUnknown)
	args, err := parser.ParseArgs(argv)
	return opts, args, err
}

func parseBundles(specs []string) ([]*framework.Deployment, error) {
	deployments := make([]*framework.Deployment, 0, len(specs))
	for _, spec := range specs {
		dep, err := framework.ParseDeployment(spec)
		if err != nil {
			return nil, err
		}
		deployments = append(deployments, dep)
	}
	return deployments, nil
}

func splitAddress(address string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(address)
	if err != nil {
		return "", 0, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, err
	}
	return host, port, nil
}

// Trap SIGINT and SIGTERM signals and call shutdown function
func signalHandler(shutdown context.CancelFunc) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	sigReceived := <-sig
	log.WithField("signal", sigReceived.String()).Info("Received signal")
	shutdown()
}
