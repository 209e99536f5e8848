package recommend

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeFromURL(t *testing.T) {
	payload := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(payload)
	}))
	defer server.Close()

	encoder := NewImageEncoder(nil)
	got, err := encoder.EncodeFromURL(context.Background(), server.URL+"/photo.jpg")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "data:image/jpeg;base64,"))
	assert.Contains(t, got, base64.StdEncoding.EncodeToString(payload))
}

func TestEncodeFromURLNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	encoder := NewImageEncoder(nil)
	_, err := encoder.EncodeFromURL(context.Background(), server.URL+"/gone.jpg")

	var fetchErr *UpstreamFetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.Status)
}

func TestEncodeFromURLNetworkError(t *testing.T) {
	encoder := NewImageEncoder(nil)

	_, err := encoder.EncodeFromURL(context.Background(), "http://127.0.0.1:1/photo.jpg")

	var fetchErr *UpstreamFetchError
	assert.ErrorAs(t, err, &fetchErr)
}

func TestMimeTypeFor(t *testing.T) {
	assert.Equal(t, "image/png", mimeTypeFor("https://cdn.example.com/a.png"))
	assert.Equal(t, "image/png", mimeTypeFor("https://cdn.example.com/a.PNG?size=large"))
	assert.Equal(t, "image/jpeg", mimeTypeFor("https://cdn.example.com/a.jpg"))
	assert.Equal(t, "image/jpeg", mimeTypeFor("https://cdn.example.com/photo"))
	assert.Equal(t, "image/png", mimeTypeFor("https://cdn.example.com/a.png#frag"))
}
