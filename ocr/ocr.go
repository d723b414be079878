//go:build ocr

// Package ocr recognizes text in rendered page images of scanned legal
// instruments.
//
// It wraps the Tesseract engine via gosseract and requires Tesseract to be
// installed on the system. On macOS, install via:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package ocr

import (
	"fmt"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// Client wraps Tesseract for text recognition. The underlying engine holds
// one image at a time, so recognition calls are serialized; a single
// Client can be shared across goroutines.
type Client struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// New creates a recognition client. Close it to release engine resources.
func New() (*Client, error) {
	return &Client{client: gosseract.NewClient()}, nil
}

// NewHeaderReader creates a client tuned for page-header crops: sparse
// text mode finds the scattered exhibit labels and schedule titles that a
// block-layout analysis misses on a narrow strip.
func NewHeaderReader() (*Client, error) {
	client := gosseract.NewClient()
	if err := client.SetPageSegMode(gosseract.PSM_SPARSE_TEXT); err != nil {
		client.Close()
		return nil, fmt.Errorf("setting sparse text mode: %w", err)
	}
	return &Client{client: client}, nil
}

// Close releases engine resources.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// RecognizeImage performs OCR on image data (PNG, TIFF, JPEG, etc.).
// Returns the recognized text with surrounding whitespace trimmed.
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}

	return strings.TrimSpace(text), nil
}

// SetLanguage sets the recognition language(s). Multiple languages are "+"
// separated ("eng+fra"); the default is "eng".
func (c *Client) SetLanguage(lang string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client.SetLanguage(lang)
}

// SetPageSegMode sets the page segmentation mode, which controls how the
// engine analyzes page layout.
func (c *Client) SetPageSegMode(mode gosseract.PageSegMode) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client.SetPageSegMode(mode)
}
