package metadata

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
)

// TokenMetadata is the ARC-3 metadata document pinned alongside an asset.
// The asset's URL field points at it as ipfs://<cid>#arc3.
type TokenMetadata struct {
	Name           string            `json:"name"`
	Description    string            `json:"description,omitempty"`
	Image          string            `json:"image,omitempty"` // ipfs:// URI
	ImageIntegrity string            `json:"image_integrity,omitempty"`
	ImageMimetype  string            `json:"image_mimetype,omitempty"`
	Properties     map[string]string `json:"properties,omitempty"`
}

// Integrity computes the ARC-3 integrity string (sha256-<base64 digest>)
// of the given content.
func Integrity(content io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, content); err != nil {
		return "", fmt.Errorf("metadata: hash content: %w", err)
	}
	return "sha256-" + base64.StdEncoding.EncodeToString(h.Sum(nil)), nil
}

// PinToken pins the metadata document and returns the asset URL for it.
func (c *Client) PinToken(meta TokenMetadata) (string, error) {
	cid, err := c.PinJSON(meta.Name, meta)
	if err != nil {
		return "", err
	}
	return URI(cid) + "#arc3", nil
}
