/***************************************************************
 *
 * Copyright (C) 2026, Pelican Project, Morgridge Institute for Research
 *
 * Licensed under the Apache License, Version 2.0 (the "License"); you
 * may not use this file except in compliance with the License.  You may
 * obtain a copy of the License at
 *
 *    http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 ***************************************************************/

package test_utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

type (
	// TransferServiceMockup is a minimal in-memory stand-in for the Storage
	// Transfer Service REST API. Pages are served in order; the page token
	// is the index of the next page. An empty page omits its collection key,
	// as the real service does.
	TransferServiceMockup struct {
		Server *httptest.Server

		JobPages       [][]map[string]interface{}
		OperationPages [][]map[string]interface{}
		// FailWith, when non-zero, makes every request fail with that status.
		FailWith int

		mu       sync.Mutex
		requests []RecordedRequest
	}

	RecordedRequest struct {
		Method        string
		Path          string
		Filter        string
		PageToken     string
		PageSize      string
		Authorization string
		UserAgent     string
		Body          map[string]interface{}
	}
)

// NewTransferServiceMockup starts the mockup; it is closed when the test ends.
func NewTransferServiceMockup(t *testing.T) *TransferServiceMockup {
	mock := &TransferServiceMockup{}
	mock.Server = httptest.NewServer(http.HandlerFunc(mock.serve))
	t.Cleanup(mock.Server.Close)
	return mock
}

// Endpoint is suitable for option.WithEndpoint.
func (m *TransferServiceMockup) Endpoint() string {
	return m.Server.URL + "/"
}

func (m *TransferServiceMockup) Requests() []RecordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RecordedRequest(nil), m.requests...)
}

// RequestsFor returns the recorded requests with the given method and path.
func (m *TransferServiceMockup) RequestsFor(method, path string) []RecordedRequest {
	var result []RecordedRequest
	for _, req := range m.Requests() {
		if req.Method == method && req.Path == path {
			result = append(result, req)
		}
	}
	return result
}

func (m *TransferServiceMockup) serve(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	recorded := RecordedRequest{
		Method:        r.Method,
		Path:          r.URL.Path,
		Filter:        query.Get("filter"),
		PageToken:     query.Get("pageToken"),
		PageSize:      query.Get("pageSize"),
		Authorization: r.Header.Get("Authorization"),
		UserAgent:     r.Header.Get("User-Agent"),
	}
	if r.Body != nil && (r.Method == http.MethodPost || r.Method == http.MethodPatch) {
		body := map[string]interface{}{}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			recorded.Body = body
		}
	}
	m.mu.Lock()
	m.requests = append(m.requests, recorded)
	failWith := m.FailWith
	m.mu.Unlock()

	if failWith != 0 {
		writeJSON(w, failWith, map[string]interface{}{
			"error": map[string]interface{}{"code": failWith, "message": http.StatusText(failWith)},
		})
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/v1/transferJobs":
		writeJSON(w, http.StatusOK, pageResponse("transferJobs", m.JobPages, recorded.PageToken, nil))
	case r.Method == http.MethodGet && r.URL.Path == "/v1/transferOperations":
		writeJSON(w, http.StatusOK, pageResponse("operations", m.OperationPages, recorded.PageToken, wrapOperation))
	case r.Method == http.MethodPatch && strings.HasPrefix(r.URL.Path, "/v1/transferJobs/"):
		job := map[string]interface{}{"name": strings.TrimPrefix(r.URL.Path, "/v1/")}
		if recorded.Body != nil {
			job["projectId"] = recorded.Body["projectId"]
			if update, ok := recorded.Body["transferJob"].(map[string]interface{}); ok {
				job["status"] = update["status"]
			}
		}
		writeJSON(w, http.StatusOK, job)
	case r.Method == http.MethodPost && r.URL.Path == "/v1/transferJobs":
		created := recorded.Body
		if created == nil {
			created = map[string]interface{}{}
		}
		created["creationTime"] = "2024-05-01T00:00:00Z"
		writeJSON(w, http.StatusOK, created)
	default:
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"error": map[string]interface{}{"code": http.StatusNotFound, "message": "no route for " + r.URL.Path},
		})
	}
}

func wrapOperation(metadata map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{"name": metadata["name"], "metadata": metadata}
}

func pageResponse(key string, pages [][]map[string]interface{}, token string, wrap func(map[string]interface{}) map[string]interface{}) map[string]interface{} {
	resp := map[string]interface{}{}
	idx := 0
	if token != "" {
		idx, _ = strconv.Atoi(token)
	}
	if idx >= len(pages) {
		return resp
	}
	if idx+1 < len(pages) {
		resp["nextPageToken"] = strconv.Itoa(idx + 1)
	}
	if len(pages[idx]) == 0 {
		return resp
	}
	items := make([]map[string]interface{}, 0, len(pages[idx]))
	for _, item := range pages[idx] {
		if wrap != nil {
			item = wrap(item)
		}
		items = append(items, item)
	}
	resp[key] = items
	return resp
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
