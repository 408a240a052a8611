package corpus

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"time"
)

const (
	// MaxFetchSize caps a fetched collection.
	MaxFetchSize = 10 * 1024 * 1024
	fetchTimeout = 30 * time.Second
)

// Fetch downloads a collection once and decodes it according to its content
// type, falling back to the URL's extension.
func Fetch(ctx context.Context, rawURL string) ([]Poem, error) {
	return fetch(ctx, &http.Client{Timeout: fetchTimeout}, rawURL)
}

func fetch(ctx context.Context, client *http.Client, rawURL string) ([]Poem, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv,application/json,text/html;q=0.9,text/plain;q=0.8,*/*;q=0.5")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}
	if resp.ContentLength > MaxFetchSize {
		return nil, fmt.Errorf("%w: content-length %d", ErrTooLarge, resp.ContentLength)
	}

	// Read one byte past the cap to tell "exactly at the limit" from "over".
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxFetchSize+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(data) > MaxFetchSize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, MaxFetchSize)
	}

	format, err := formatOfContentType(resp.Header.Get("Content-Type"))
	if err != nil {
		if format, err = FormatOf(u.Path); err != nil {
			return nil, err
		}
	}
	return Decode(data, format, u)
}

func formatOfContentType(ct string) (Format, error) {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", fmt.Errorf("%w: content type %q", ErrUnknownFormat, ct)
	}
	switch mt {
	case "text/csv":
		return FormatCSV, nil
	case "application/json":
		return FormatJSON, nil
	case "text/html", "application/xhtml+xml":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("%w: content type %q", ErrUnknownFormat, mt)
}
