package cloudinary

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	dto "guardianearth/internal/entity"

	"github.com/stretchr/testify/assert"
)

type MockRoundTripper struct {
	Response *http.Response
	Err      error
	LastReq  *http.Request
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	m.LastReq = req
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Response, nil
}

func newTestClient(body string, statusCode int, err error) (*Client, *MockRoundTripper) {
	transport := &MockRoundTripper{
		Response: &http.Response{
			StatusCode: statusCode,
			Body:       io.NopCloser(bytes.NewBufferString(body)),
			Header:     make(http.Header),
		},
		Err: err,
	}
	client := &Client{
		httpClient:   &http.Client{Transport: transport, Timeout: 30 * time.Second},
		cloudName:    "demo",
		uploadPreset: "unsigned_slips",
		baseURL:      "https://mock-cloudinary.test",
	}
	return client, transport
}

func TestStore_ReturnsSecureURL(t *testing.T) {
	mockResponse := `{"secure_url": "https://res.cloudinary.com/demo/image/upload/slip.png"}`
	client, transport := newTestClient(mockResponse, http.StatusOK, nil)

	url, err := client.Store(context.Background(), "slip.png", strings.NewReader("png-bytes"))
	assert.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/slip.png", url)
	assert.Contains(t, transport.LastReq.URL.Path, "/v1_1/demo/auto/upload")
	assert.Contains(t, transport.LastReq.Header.Get("Content-Type"), "multipart/form-data")
}

func TestStore_NetworkError(t *testing.T) {
	client, _ := newTestClient("", 0, errors.New("connection reset"))

	_, err := client.Store(context.Background(), "slip.png", strings.NewReader("png-bytes"))
	assert.ErrorIs(t, err, dto.ErrUploadFailed)
}

func TestStore_RejectedUpload(t *testing.T) {
	client, _ := newTestClient(`{"error": {"message": "Invalid upload preset"}}`, http.StatusBadRequest, nil)

	_, err := client.Store(context.Background(), "slip.png", strings.NewReader("png-bytes"))
	assert.ErrorIs(t, err, dto.ErrUploadFailed)
}

func TestStore_MissingURL(t *testing.T) {
	client, _ := newTestClient(`{}`, http.StatusOK, nil)

	_, err := client.Store(context.Background(), "slip.png", strings.NewReader("png-bytes"))
	assert.ErrorIs(t, err, dto.ErrUploadFailed)
}
