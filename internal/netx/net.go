// Package netx moves object bodies to and from presigned storage URLs.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// PutPresigned uploads body with a single PUT to a presigned URL. A nil
// client means http.DefaultClient.
func PutPresigned(ctx context.Context, client *http.Client, url string, body io.Reader) error {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("upload failed: %s; body: %s", resp.Status, string(b))
	}
	return nil
}
