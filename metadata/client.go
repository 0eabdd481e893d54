// Package metadata uploads asset metadata and images to an IPFS pinning
// service so assets can reference them by content-addressed ipfs:// URI.
// The engine itself treats these URIs as opaque; this package is the thin
// collaborator that produces them.
package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// HTTPClient defines the interface for HTTP requests.
// This allows tests to mock HTTP calls.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to a Pinata-compatible pinning API using a JWT bearer token.
type Client struct {
	baseURL string
	jwt     string
	http    HTTPClient
}

// NewClient returns a pinning client for the given base URL and JWT.
func NewClient(baseURL, jwt string) *Client {
	return &Client{baseURL: baseURL, jwt: jwt, http: http.DefaultClient}
}

// NewClientWithHTTP returns a pinning client using the provided HTTP client.
func NewClientWithHTTP(baseURL, jwt string, hc HTTPClient) *Client {
	return &Client{baseURL: baseURL, jwt: jwt, http: hc}
}

// pinResponse is the JSON body returned by the pinning endpoints.
type pinResponse struct {
	IpfsHash string `json:"IpfsHash"`
}

// PinFile uploads file content under the given name and returns its CID.
func (c *Client) PinFile(name string, content io.Reader) (string, error) {
	if c.jwt == "" {
		return "", ErrMissingCredentials
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return "", fmt.Errorf("metadata: build multipart form: %w", err)
	}
	n, err := io.Copy(part, content)
	if err != nil {
		return "", fmt.Errorf("metadata: read content: %w", err)
	}
	if n == 0 {
		return "", ErrEmptyContent
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("metadata: finalize multipart form: %w", err)
	}

	return c.pin("/pinning/pinFileToIPFS", mw.FormDataContentType(), &body)
}

// PinJSON uploads v as pretty JSON and returns its CID.
func (c *Client) PinJSON(name string, v interface{}) (string, error) {
	if c.jwt == "" {
		return "", ErrMissingCredentials
	}

	content, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("metadata: marshal content: %w", err)
	}
	payload, err := json.Marshal(map[string]interface{}{
		"pinataMetadata": map[string]string{"name": name},
		"pinataContent":  json.RawMessage(content),
	})
	if err != nil {
		return "", fmt.Errorf("metadata: marshal payload: %w", err)
	}

	return c.pin("/pinning/pinJSONToIPFS", "application/json", bytes.NewReader(payload))
}

func (c *Client) pin(path, contentType string, body io.Reader) (string, error) {
	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return "", fmt.Errorf("metadata: build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+c.jwt)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: POST %s: %v", ErrPinFailed, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: POST %s returned status %d", ErrPinFailed, path, resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", ErrPinFailed, err)
	}

	var pr pinResponse
	if err := json.Unmarshal(respBody, &pr); err != nil {
		return "", fmt.Errorf("%w: parsing JSON: %v", ErrPinFailed, err)
	}
	if pr.IpfsHash == "" {
		return "", fmt.Errorf("%w: empty CID in response", ErrPinFailed)
	}
	return pr.IpfsHash, nil
}

// URI turns a CID into an ipfs:// URI.
func URI(cid string) string { return "ipfs://" + cid }
