package internal

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/rm-hull/wasm-image-filters/internal/canvas"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ImageSource retrieves encoded images from remote locations.
type ImageSource interface {
	Get(url string) (io.ReadCloser, error)
}

type HTTPImageSource struct {
	userAgent string
	client    HTTPClient
}

func NewImageSource(userAgent string) ImageSource {
	return &HTTPImageSource{
		userAgent: userAgent,
		client:    &http.Client{},
	}
}

func IsRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func (src *HTTPImageSource) Get(url string) (io.ReadCloser, error) {
	log.Printf("Retrieving: %s", url)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", src.userAgent)
	req.Header.Set("Accept", "image/png, image/jpeg, image/webp, image/bmp")

	res, err := src.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from %s: %w", url, err)
	}

	if res.StatusCode > 299 {
		_ = res.Body.Close()
		return nil, fmt.Errorf("http status response from %s: %s", url, res.Status)
	}

	return res.Body, nil
}

const maxRemoteBytes = 64 << 20

// LoadImage decodes an image from a local path, or through source when the
// location is an http(s) URL.
func LoadImage(source ImageSource, location string) (*canvas.Canvas, error) {
	if !IsRemote(location) {
		return canvas.Open(location)
	}

	body, err := source.Get(location)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = body.Close()
	}()
	return canvas.NewFromReader(io.LimitReader(body, maxRemoteBytes))
}
