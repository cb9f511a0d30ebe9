package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// maxDownloadSize caps presigned downloads so a misbehaving endpoint cannot
// exhaust memory.
const maxDownloadSize = 64 << 20

// DownloadPresignedURL fetches the object behind a presigned GET URL.
// A nil client means http.DefaultClient.
func DownloadPresignedURL(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
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

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("download failed: %s; body: %s", resp.Status, string(b))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxDownloadSize {
		return nil, fmt.Errorf("download failed: object larger than %d bytes", maxDownloadSize)
	}
	return data, nil
}
