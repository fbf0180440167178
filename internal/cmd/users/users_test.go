package users

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type MockRoundTripper struct {
	Response *http.Response
	Err      error
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Response, nil
}

func newTestClient(body string, statusCode int, err error) *Client {
	transport := &MockRoundTripper{
		Response: &http.Response{
			StatusCode: statusCode,
			Body:       io.NopCloser(bytes.NewBufferString(body)),
			Header:     make(http.Header),
		},
		Err: err,
	}
	return &Client{
		httpClient: &http.Client{Transport: transport, Timeout: 10 * time.Second},
		token:      "mock-token",
		baseURL:    "https://mock-users.test",
	}
}

func TestCountUsers(t *testing.T) {
	mockResponse := `[
		{"id": "u1", "status": "active"},
		{"id": "u2", "status": "active"},
		{"id": "u3", "status": "inactive"},
		{"id": "u4", "status": "active"}
	]`
	client := newTestClient(mockResponse, http.StatusOK, nil)

	counts, err := client.CountUsers(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, Counts{Active: 3, Total: 4}, counts)
}

func TestCountUsers_Empty(t *testing.T) {
	client := newTestClient(`[]`, http.StatusOK, nil)

	counts, err := client.CountUsers(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, Counts{}, counts)
}

func TestCountUsers_Error(t *testing.T) {
	client := newTestClient("", 0, errors.New("dns failure"))

	_, err := client.CountUsers(context.Background())
	assert.Error(t, err)
}

func TestCountUsers_BadStatus(t *testing.T) {
	client := newTestClient(`{"error": "forbidden"}`, http.StatusForbidden, nil)

	_, err := client.CountUsers(context.Background())
	assert.Error(t, err)
}
