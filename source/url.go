package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"sync"
)

// HTTPClient performs requests for URL handles. It can be replaced in tests
// with an httptest server-backed client.
var HTTPClient httpDoer = http.DefaultClient

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// FromURL returns a handle over rawURL. It sends a single GET: the
// response headers provide the metadata and the body becomes the stream of
// the first Open. Later Opens issue a fresh GET. Response headers take
// precedence over hints, except that a hinted size is kept when the server
// does not send Content-Length. Call Close to drop a body that was never opened.
func FromURL(ctx context.Context, rawURL string, hints ...Hint) (*Handle, error) {
	resp, err := get(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		pending = resp.Body
	)
	take := func() io.ReadCloser {
		mu.Lock()
		defer mu.Unlock()
		body := pending
		pending = nil
		return body
	}

	return &Handle{
		kind: KindURL,
		meta: metadataFromResponse(resp, rawURL, firstHint(hints)),
		open: func(ctx context.Context) (io.ReadCloser, error) {
			if body := take(); body != nil {
				return body, nil
			}
			resp, err := get(ctx, rawURL)
			if err != nil {
				return nil, err
			}
			return resp.Body, nil
		},
		release: func() error {
			if body := take(); body != nil {
				return body.Close()
			}
			return nil
		},
	}, nil
}

func get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", rawURL, err)
	}
	resp, err := HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", rawURL, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("get %s: status %d", rawURL, resp.StatusCode)
	}
	return resp, nil
}

func metadataFromResponse(resp *http.Response, rawURL string, hint Hint) Metadata {
	m := Metadata{URL: rawURL}
	m.apply(hint)

	if name := ParseContentDisposition(resp.Header.Get("Content-Disposition")); name != "" {
		m.Name = name
	} else if m.Name == "" {
		m.Name = filenameFromURL(rawURL)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		m.MimeType = ct
	}
	if cl := resp.Header.Get("Content-Length"); cl != "" {
		if n, err := strconv.ParseInt(cl, 10, 64); err == nil && n > 0 {
			m.Size = n
		}
	}
	if lm := resp.Header.Get("Last-Modified"); lm != "" {
		if t, err := http.ParseTime(lm); err == nil {
			m.LastModified = t
		}
	}
	m.guessType()
	return m
}

// filenameFromURL extracts the last path element of a URL, returning empty
// if it cannot be determined.
func filenameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	base := path.Base(u.Path)
	if base == "" || base == "/" || base == "." {
		return ""
	}
	return base
}
