// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package rapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.jbosgi.org/framework"
	"go.jbosgi.org/framework/launch"
	"go.jbosgi.org/framework/msc"
	"go.jbosgi.org/framework/msc/statejson"
	"go.jbosgi.org/framework/rapi/model"
	"go.jbosgi.org/framework/rapi/rendering"
)

func startFramework(t *testing.T) (*launch.Framework, http.Handler) {
	f := launch.New(launch.Config{Name: t.Name(), Workers: 2})
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = f.Stop(ctx)
	})
	require.NoError(t, f.Start(time.Second))
	return f, NewRouter(f.Container(), f.Integration(), f.BundleManager())
}

// Make a test request
func makeTestRequest(t *testing.T, router http.Handler, request *http.Request) *httptest.ResponseRecorder {
	responseRecorder := httptest.NewRecorder()
	router.ServeHTTP(responseRecorder, request)
	t.Logf("test(%v) = %v", request.URL, responseRecorder.Code)
	return responseRecorder
}

// Verify response error type
func assertResponseErrorType(t *testing.T, expectedErrorType string, response *httptest.ResponseRecorder) {
	errResp := model.ErrorResponse{}
	err := json.Unmarshal(response.Body.Bytes(), &errResp)
	assert.Nil(t, err)
	assert.Equal(t, expectedErrorType, errResp.ErrorType)
}

type failingService struct {
	msc.ValueService
}

func (s *failingService) Start(*msc.StartContext) error {
	return errors.New("boom")
}

func TestPing(t *testing.T) {
	_, router := startFramework(t)
	response := makeTestRequest(t, router, httptest.NewRequest("GET", "/ping", nil))
	assert.Equal(t, http.StatusOK, response.Code)
	assert.Equal(t, "pong", response.Body.String())
}

func TestServices(t *testing.T) {
	_, router := startFramework(t)
	response := makeTestRequest(t, router, httptest.NewRequest("GET", "/services", nil))
	require.Equal(t, http.StatusOK, response.Code)
	assert.Equal(t, "application/json", response.Header().Get("Content-Type"))

	var description statejson.ContainerDescription
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &description))
	assert.Equal(t, t.Name(), description.Name)

	states := map[string]string{}
	for _, s := range description.Services {
		states[s.Name] = s.State.Name
	}
	assert.Equal(t, "UP", states["jbosgi.framework.ACTIVE"])
	assert.Equal(t, "UP", states["jbosgi.framework.bundleinstall"])
	assert.Len(t, states, 5)
}

func TestService(t *testing.T) {
	_, router := startFramework(t)
	response := makeTestRequest(t, router, httptest.NewRequest("GET", "/services/jbosgi.framework.ACTIVE", nil))
	require.Equal(t, http.StatusOK, response.Code)

	var description statejson.ServiceDescription
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &description))
	assert.Equal(t, "jbosgi.framework.ACTIVE", description.Name)
	assert.Equal(t, "ACTIVE", description.Mode)
	assert.Equal(t, "UP", description.State.Name)
	assert.ElementsMatch(t, []string{"jbosgi.framework.INITIALIZED", "jbosgi.bundlemanager"}, description.Dependencies)

	response = makeTestRequest(t, router, httptest.NewRequest("GET", "/services/no.such.service", nil))
	assert.Equal(t, http.StatusNotFound, response.Code)
	assertResponseErrorType(t, rendering.ErrorTypeServiceNotFound, response)
}

func TestAwait(t *testing.T) {
	_, router := startFramework(t)
	response := makeTestRequest(t, router, httptest.NewRequest("GET", "/services/jbosgi.framework.ACTIVE/await?timeout=1s", nil))
	require.Equal(t, http.StatusOK, response.Code)
	test.AssertJsonsEqual(t, []byte(`{"service":"jbosgi.framework.ACTIVE","state":"UP"}`), response.Body.Bytes())
}

func TestAwaitTimeout(t *testing.T) {
	f, router := startFramework(t)
	_, err := f.Container().AddService(msc.Of("stuck"), msc.NewValueService("s")).
		AddDependency(msc.Of("missing")).
		Install()
	require.NoError(t, err)

	response := makeTestRequest(t, router, httptest.NewRequest("GET", "/services/stuck/await?timeout=50ms", nil))
	assert.Equal(t, http.StatusGatewayTimeout, response.Code)
	assertResponseErrorType(t, rendering.ErrorTypeTimeout, response)
}

func TestAwaitStartFailed(t *testing.T) {
	f, router := startFramework(t)
	_, err := f.Container().AddService(msc.Of("broken"), &failingService{}).Install()
	require.NoError(t, err)

	response := makeTestRequest(t, router, httptest.NewRequest("GET", "/services/broken/await?state=UP&timeout=1s", nil))
	assert.Equal(t, http.StatusBadGateway, response.Code)
	test.AssertJsonsEqual(t, []byte(`{"errorType":"StartFailed","errorMessage":"boom"}`), response.Body.Bytes())
}

func TestAwaitInvalidRequest(t *testing.T) {
	_, router := startFramework(t)
	for _, query := range []string{"state=RUNNING", "timeout=soon", "timeout=-1s", "timeout=1h"} {
		response := makeTestRequest(t, router, httptest.NewRequest("GET", "/services/jbosgi.framework.ACTIVE/await?"+query, nil))
		assert.Equal(t, http.StatusBadRequest, response.Code, query)
		assertResponseErrorType(t, rendering.ErrorTypeInvalidRequest, response)
	}
}

func TestInstallAndUninstallBundle(t *testing.T) {
	f, router := startFramework(t)

	body := []byte(`{"location":"file:a.jar","symbolicName":"org.acme.a","version":"1.0"}`)
	response := makeTestRequest(t, router, httptest.NewRequest("POST", "/bundles", bytes.NewReader(body)))
	require.Equal(t, http.StatusCreated, response.Code)

	var installed model.InstallBundleResponse
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &installed))
	assert.Equal(t, "jbosgi.bundle.org.acme.a.1.0", installed.ServiceName)

	response = makeTestRequest(t, router, httptest.NewRequest("GET",
		"/services/jbosgi.bundle.org.acme.a.1.0/await?timeout=1s", nil))
	require.Equal(t, http.StatusOK, response.Code)

	response = makeTestRequest(t, router, httptest.NewRequest("GET", "/bundles", nil))
	require.Equal(t, http.StatusOK, response.Code)
	test.AssertJsonsEqual(t, []byte(fmt.Sprintf(`[{
		"id":%q,
		"location":"file:a.jar",
		"symbolicName":"org.acme.a",
		"version":"1.0",
		"serviceName":"jbosgi.bundle.org.acme.a.1.0",
		"state":"UP"
	}]`, installed.ID)), response.Body.Bytes())

	response = makeTestRequest(t, router, httptest.NewRequest("POST", "/bundles", bytes.NewReader(body)))
	assert.Equal(t, http.StatusConflict, response.Code)
	assertResponseErrorType(t, rendering.ErrorTypeBundleConflict, response)

	response = makeTestRequest(t, router, httptest.NewRequest("DELETE", "/bundles/"+installed.ID, nil))
	assert.Equal(t, http.StatusNoContent, response.Code)
	assert.Empty(t, f.BundleManager().Bundles())

	response = makeTestRequest(t, router, httptest.NewRequest("DELETE", "/bundles/"+installed.ID, nil))
	assert.Equal(t, http.StatusNotFound, response.Code)
	assertResponseErrorType(t, rendering.ErrorTypeBundleNotFound, response)
}

func TestInstallBundleLazily(t *testing.T) {
	f, router := startFramework(t)
	body := []byte(`{"location":"file:b.jar","symbolicName":"b","autoStart":false}`)
	response := makeTestRequest(t, router, httptest.NewRequest("POST", "/bundles", bytes.NewReader(body)))
	require.Equal(t, http.StatusCreated, response.Code)

	ctrl, err := f.Container().RequiredService(framework.BundleServiceName("b", "0.0.0"))
	require.NoError(t, err)
	assert.Equal(t, msc.ModeOnDemand, ctrl.Mode())
}

func TestInstallBundleInvalidRequest(t *testing.T) {
	_, router := startFramework(t)
	for _, body := range []string{"", "{", `{"location":"file:a.jar"}`, `{"symbolicName":"a"}`} {
		response := makeTestRequest(t, router, httptest.NewRequest("POST", "/bundles", bytes.NewReader([]byte(body))))
		assert.Equal(t, http.StatusBadRequest, response.Code, body)
		assertResponseErrorType(t, rendering.ErrorTypeInvalidRequest, response)
	}

	response := makeTestRequest(t, router, httptest.NewRequest("DELETE", "/bundles/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, response.Code)
	assertResponseErrorType(t, rendering.ErrorTypeInvalidRequest, response)
}

// TestAcceptXML tests that responses are rendered as JSON
// regardless of the Accept header of the request.
func TestAcceptXML(t *testing.T) {
	_, router := startFramework(t)
	request := httptest.NewRequest("GET", "/services/jbosgi.framework.ACTIVE/await", nil)
	request.Header.Add("Accept", "application/xml")
	response := makeTestRequest(t, router, request)
	require.Equal(t, http.StatusOK, response.Code)
	assert.Contains(t, response.Header().Get("Content-Type"), "application/json")
	assert.True(t, json.Valid(response.Body.Bytes()))
}

func TestDump(t *testing.T) {
	_, router := startFramework(t)
	response := makeTestRequest(t, router, httptest.NewRequest("GET", "/dump", nil))
	require.Equal(t, http.StatusOK, response.Code)
	assert.Contains(t, response.Body.String(), `Service "jbosgi.framework.ACTIVE" (mode ACTIVE) state=UP`)
	assert.Contains(t, response.Body.String(), "5 services displayed")
}

func TestServer(t *testing.T) {
	_, router := startFramework(t)
	server := NewServer("127.0.0.1", 0, router)
	require.NoError(t, server.Listen())
	assert.NotZero(t, server.Port())

	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() { served <- server.Serve(ctx) }()

	resp, err := http.Get(server.URL("/ping"))
	require.NoError(t, err)
	body, err := ioutil.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "pong", string(body))

	cancel()
	assert.Equal(t, context.Canceled, <-served)
}
