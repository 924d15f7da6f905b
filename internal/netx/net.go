// Package netx contains HTTP helpers for talking to object storage.
package netx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// Uploader performs HTTP PUTs to presigned object-storage URLs.
type Uploader struct {
	Client *http.Client
}

func NewUploader(c *http.Client) *Uploader {
	if c == nil {
		c = http.DefaultClient
	}
	return &Uploader{Client: c}
}

// Put uploads body to a presigned URL. Any non-2xx response is an error
// carrying the status and up to 1 KiB of the response body.
func (u *Uploader) Put(ctx context.Context, url, contentType string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = int64(len(body))

	resp, err := u.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("upload failed: %s; body: %s", resp.Status, string(b))
	}
	return nil
}
