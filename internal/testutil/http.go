package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"
)

// DoRequest performs an HTTP request against a test server, optionally with
// a bearer token and a JSON body, and returns the response with its body
// fully read.
func DoRequest(t *testing.T, baseURL, method, path, token string, body interface{}) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, baseURL+path, reader)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request %s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	return resp, data
}

// DecodeJSON unmarshals a response body into out
func DecodeJSON(t *testing.T, data []byte, out interface{}) {
	t.Helper()

	if err := json.Unmarshal(data, out); err != nil {
		t.Fatalf("Failed to decode response %q: %v", string(data), err)
	}
}
