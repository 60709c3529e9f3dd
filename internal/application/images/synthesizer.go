package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"dreamstay-backend/internal/domain"
)

const promptPrefix = "Generate a realistic image of a rental housing listing. " +
	"The image must not be abstract - it is housing for real people. Description: "

// DefaultSize is the fixed image size requested from the image service.
const DefaultSize = "256x256"

// maxImageBytes bounds a single downloaded asset.
const maxImageBytes = 20 << 20

// Result statuses.
const (
	StatusStored = "stored"
	StatusFailed = "failed"
)

// ImageGenerator is the image-generation service port.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req domain.ImageRequest) ([]domain.GeneratedImage, error)
}

// Store holds image bytes under a key such as "{id}.png".
type Store interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// Result is the tagged outcome of one synthesis. Err is set only when Status is StatusFailed.
type Result struct {
	Status string
	Key    string
	Err    error
}

// OK reports whether the image was stored.
func (r Result) OK() bool {
	return r.Status == StatusStored
}

func failed(key string, err error) Result {
	return Result{Status: StatusFailed, Key: key, Err: err}
}

// Synthesizer produces and stores one image per listing.
type Synthesizer struct {
	Generator ImageGenerator
	Store     Store
	Client    *http.Client
	Size      string
}

// Prompt returns the image prompt for a listing.
func Prompt(l *domain.Listing) string {
	return promptPrefix + l.Description
}

// Synthesize asks the image service for one image of the listing, downloads the first
// result and stores it under ImageKey(listing.ID). It never returns an error: every
// failure is reported in the Result.
func (s *Synthesizer) Synthesize(ctx context.Context, l *domain.Listing) Result {
	key := domain.ImageKey(l.ID)
	size := s.Size
	if size == "" {
		size = DefaultSize
	}

	imgs, err := s.Generator.GenerateImage(ctx, domain.ImageRequest{Prompt: Prompt(l), Size: size})
	if err != nil {
		return failed(key, &domain.UpstreamError{Service: "image", Err: err})
	}
	if len(imgs) == 0 || imgs[0].URL == "" {
		return failed(key, domain.ErrMissingAssetURL)
	}

	data, err := s.fetch(ctx, imgs[0].URL)
	if err != nil {
		return failed(key, &domain.NetworkError{Op: "fetch", Err: err})
	}
	if err := s.Store.Put(ctx, key, data); err != nil {
		return failed(key, &domain.NetworkError{Op: "write", Err: err})
	}
	return Result{Status: StatusStored, Key: key}
}

func (s *Synthesizer) fetch(ctx context.Context, url string) ([]byte, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("asset download: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxImageBytes {
		return nil, errors.New("asset download: image too large")
	}
	if len(data) == 0 {
		return nil, errors.New("asset download: empty body")
	}
	return data, nil
}
