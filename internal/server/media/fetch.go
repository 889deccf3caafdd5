package media

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// maxPhotoSize bounds downloads and local reads.
const maxPhotoSize = 20 << 20

// SourceFetcher resolves http(s) references with resty and treats anything
// else as a local file path.
type SourceFetcher struct {
	client *resty.Client
}

func NewSourceFetcher(timeout time.Duration) *SourceFetcher {
	c := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond)

	return &SourceFetcher{client: c}
}

func isURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

func (f *SourceFetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if isURL(ref) {
		return f.fetchURL(ctx, ref)
	}
	return fetchFile(ref)
}

func (f *SourceFetcher) fetchURL(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("download request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("download status %d", resp.StatusCode())
	}
	body := resp.Body()
	if len(body) > maxPhotoSize {
		return nil, fmt.Errorf("photo is larger than %d bytes", maxPhotoSize)
	}
	return body, nil
}

func fetchFile(path string) ([]byte, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if fi.Size() > maxPhotoSize {
		return nil, fmt.Errorf("photo is larger than %d bytes", maxPhotoSize)
	}
	return os.ReadFile(path)
}
