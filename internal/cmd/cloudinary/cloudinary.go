package cloudinary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"guardianearth/internal/config"
	dto "guardianearth/internal/entity"
)

type Storage interface {
	Store(ctx context.Context, filename string, file io.Reader) (string, error)
}

type Client struct {
	httpClient   *http.Client
	cloudName    string
	uploadPreset string
	baseURL      string
}

func New(cfg *config.Config) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		cloudName:    cfg.Cloudinary.CloudName,
		uploadPreset: cfg.Cloudinary.UploadPreset,
		baseURL:      "https://api.cloudinary.com",
	}
}

// Store uploads a proof-of-deposit file and returns its public URL.
func (c *Client) Store(ctx context.Context, filename string, file io.Reader) (string, error) {
	endpoint := fmt.Sprintf("%s/v1_1/%s/auto/upload", c.baseURL, c.cloudName)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("could not build multipart body: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("could not read evidence file: %w", err)
	}
	if err := writer.WriteField("upload_preset", c.uploadPreset); err != nil {
		return "", fmt.Errorf("could not build multipart body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("could not finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("could not build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", dto.ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: error reading response: %v", dto.ErrUploadFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: unexpected status %s: %s", dto.ErrUploadFailed, resp.Status, string(raw))
	}

	var parsed struct {
		SecureURL string `json:"secure_url"`
		URL       string `json:"url"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("invalid JSON structure: %w", err)
	}

	if parsed.SecureURL != "" {
		return parsed.SecureURL, nil
	}
	if parsed.URL != "" {
		return parsed.URL, nil
	}
	return "", fmt.Errorf("%w: response missing url", dto.ErrUploadFailed)
}
