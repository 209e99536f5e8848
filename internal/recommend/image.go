package recommend

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	imageFetchTimeout = 10 * time.Second
	// Vision models reject absurdly large payloads anyway; cap the read so a
	// misbehaving source can't exhaust memory.
	maxImageBytes = 20 << 20
)

// ImageEncoder fetches a source image and encodes it as a base64 data URL
// for multimodal model input.
type ImageEncoder struct {
	httpClient *http.Client
}

// NewImageEncoder constructs an encoder; a nil client gets a sane default.
func NewImageEncoder(httpClient *http.Client) *ImageEncoder {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: imageFetchTimeout}
	}
	return &ImageEncoder{httpClient: httpClient}
}

// EncodeFromURL retrieves the image and returns a data URL. The MIME type is
// inferred from the file extension: .png maps to image/png, everything else
// to image/jpeg.
func (e *ImageEncoder) EncodeFromURL(ctx context.Context, imageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", &UpstreamFetchError{URL: imageURL, Err: err}
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", &UpstreamFetchError{URL: imageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &UpstreamFetchError{URL: imageURL, Status: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return "", &UpstreamFetchError{URL: imageURL, Err: err}
	}

	return fmt.Sprintf("data:%s;base64,%s", mimeTypeFor(imageURL), base64.StdEncoding.EncodeToString(data)), nil
}

func mimeTypeFor(imageURL string) string {
	trimmed := imageURL
	if idx := strings.IndexAny(trimmed, "?#"); idx != -1 {
		trimmed = trimmed[:idx]
	}
	if strings.HasSuffix(strings.ToLower(trimmed), ".png") {
		return "image/png"
	}
	return "image/jpeg"
}
