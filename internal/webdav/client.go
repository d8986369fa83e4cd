package webdav

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/MrSnakeDoc/resnav/internal/domain"
)

// Client speaks the minimal WebDAV surface the sync protocol needs:
// PROPFIND for probing and listing, GET for retrieval, PUT for storage.
type Client struct {
	cfg        domain.SyncConfig
	httpClient *http.Client
}

// NewClient creates a client for the given remote configuration.
func NewClient(cfg domain.SyncConfig) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// BaseURL joins the endpoint URL and the configured path, with a single
// trailing slash.
func (c *Client) BaseURL() string {
	url := c.cfg.URL
	if !strings.HasSuffix(url, "/") {
		url += "/"
	}
	if c.cfg.Path != "" {
		url += strings.TrimPrefix(c.cfg.Path, "/")
		if !strings.HasSuffix(url, "/") {
			url += "/"
		}
	}
	return url
}

func (c *Client) setAuth(req *http.Request) {
	if c.cfg.Username != "" && c.cfg.Password != "" {
		credentials := base64.StdEncoding.EncodeToString([]byte(c.cfg.Username + ":" + c.cfg.Password))
		req.Header.Set("Authorization", "Basic "+credentials)
	}
}

// propfindOK reports whether a PROPFIND response status counts as success.
// WebDAV servers answer listings with 207 Multi-Status.
func propfindOK(status int) bool {
	return (status >= 200 && status < 300) || status == http.StatusMultiStatus
}

// Probe checks that the configured endpoint and path are reachable.
func (c *Client) Probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "PROPFIND", c.BaseURL(), nil)
	if err != nil {
		return fmt.Errorf("failed to build probe request: %w", err)
	}
	req.Header.Set("Depth", "0")
	req.Header.Set("Content-Type", "application/xml")
	c.setAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("connection error: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if !propfindOK(resp.StatusCode) {
		return fmt.Errorf("connection failed: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return nil
}

// multistatus is the subset of the PROPFIND response body we read: one
// href per listed entry.
type multistatus struct {
	XMLName   xml.Name `xml:"multistatus"`
	Responses []struct {
		Href string `xml:"href"`
	} `xml:"response"`
}

// List returns the hrefs of all entries under the configured path.
func (c *Client) List(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, "PROPFIND", c.BaseURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build listing request: %w", err)
	}
	req.Header.Set("Depth", "1")
	req.Header.Set("Content-Type", "application/xml")
	c.setAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("listing error: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if !propfindOK(resp.StatusCode) {
		return nil, fmt.Errorf("listing failed: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read listing response: %w", err)
	}

	var ms multistatus
	if err := xml.Unmarshal(body, &ms); err != nil {
		return nil, fmt.Errorf("failed to parse listing response: %w", err)
	}

	hrefs := make([]string, 0, len(ms.Responses))
	for _, r := range ms.Responses {
		if href := strings.TrimSpace(r.Href); href != "" {
			hrefs = append(hrefs, href)
		}
	}
	return hrefs, nil
}

// Get downloads one entry. href may be absolute or server-relative, as
// returned by List.
func (c *Client) Get(ctx context.Context, href string) ([]byte, error) {
	url := href
	if !strings.HasPrefix(href, "http") {
		base := c.cfg.URL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		url = base + strings.TrimPrefix(href, "/")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build download request: %w", err)
	}
	c.setAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download error: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("download failed: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read download response: %w", err)
	}
	return body, nil
}

// Put uploads one entry under the configured path, overwriting any prior
// entry with the same name.
func (c *Client) Put(ctx context.Context, filename string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.BaseURL()+filename, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload error: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("upload failed: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return nil
}

// Basename extracts the file name from an href.
func Basename(href string) string {
	return path.Base(strings.TrimSuffix(href, "/"))
}
