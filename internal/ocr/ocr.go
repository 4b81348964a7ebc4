// Package ocr reads scale displays from photos through the OCR.space API.
package ocr

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"qc-tracking-backend/config"
	"qc-tracking-backend/internal/parse"
)

// ErrNoNumber is returned when the recognised text contains no number.
var ErrNoNumber = errors.New("no number found in recognised text")

type parsedResult struct {
	ParsedText string `json:"ParsedText"`
}

type response struct {
	ParsedResults         []parsedResult `json:"ParsedResults"`
	IsErroredOnProcessing bool           `json:"IsErroredOnProcessing"`
	ErrorMessage          any            `json:"ErrorMessage"` // a string or a list of strings
}

// Client calls the OCR endpoint.
type Client struct {
	http     *resty.Client
	url      string
	language string
	engine   int
	logger   *zap.Logger
}

// New creates a client from the ocr config section.
func New(cfg config.OCRConfig, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	httpClient := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		httpClient.SetHeader("apikey", cfg.APIKey)
	}
	return &Client{
		http:     httpClient,
		url:      cfg.URL,
		language: cfg.Language,
		engine:   cfg.Engine,
		logger:   logger,
	}
}

// Text returns the text recognised in image.
func (c *Client) Text(ctx context.Context, image []byte) (string, error) {
	dataURI := fmt.Sprintf("data:%s;base64,%s", http.DetectContentType(image), base64.StdEncoding.EncodeToString(image))

	var out response
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"base64Image": dataURI,
			"language":    c.language,
			"scale":       "true",
			"OCREngine":   strconv.Itoa(c.engine),
		}).
		SetResult(&out).
		Post(c.url)
	if err != nil {
		return "", fmt.Errorf("ocr request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("ocr request failed: status %d", resp.StatusCode())
	}
	if out.IsErroredOnProcessing {
		return "", fmt.Errorf("ocr processing failed: %v", out.ErrorMessage)
	}
	if len(out.ParsedResults) == 0 {
		return "", nil
	}

	c.logger.Debug("ocr text", zap.String("text", out.ParsedResults[0].ParsedText))
	return out.ParsedResults[0].ParsedText, nil
}

// ReadNumber recognises image and returns the first number in it, with a
// decimal comma normalised to a dot, ready for the berat field.
func (c *Client) ReadNumber(ctx context.Context, image []byte) (string, error) {
	text, err := c.Text(ctx, image)
	if err != nil {
		return "", err
	}
	num, ok := parse.ExtractNumber(text)
	if !ok {
		return "", ErrNoNumber
	}
	return num, nil
}
