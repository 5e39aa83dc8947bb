package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/yourusername/trackpull-go/internal/domain"
	"go.uber.org/zap"
)

// Client talks to the collaborator download service. The service is opaque:
// one POST per submission, binary payload on success, structured JSON error
// body on failure.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// DownloadResult is the open payload stream of a successful submission. Body
// already counts bytes and drives the progress callback; the caller owns
// closing it.
type DownloadResult struct {
	Filename      string
	ContentLength int64
	Body          io.ReadCloser
	received      *progressReader
}

// BytesReceived reports how many payload bytes have been consumed so far.
func (r *DownloadResult) BytesReceived() int64 {
	return r.received.Received()
}

// NewClient creates a client for the collaborator service. The overall
// request deadline comes from the caller's context, not from the transport.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// Download submits the request to the provider's endpoint and opens the
// response payload. All failures come back as ClassifiedError values.
func (c *Client) Download(ctx context.Context, req *domain.DownloadRequest, progress domain.ProgressFunc) (*DownloadResult, error) {
	profile, err := domain.ProfileFor(req.Provider)
	if err != nil {
		return nil, domain.NewValidationError("provider", err.Error())
	}

	payload, err := json.Marshal(req.Body())
	if err != nil {
		return nil, domain.NewUnknownError(fmt.Errorf("encode request: %w", err))
	}

	endpoint := c.baseURL + profile.EndpointPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, domain.NewUnknownError(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	c.logger.Debug("Submitting download request",
		zap.String("endpoint", endpoint),
		zap.String("provider", string(req.Provider)),
		zap.String("format", string(req.Format)))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, ClassifyTransport(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		classified := classifyResponse(resp)
		c.logger.Debug("Download request failed",
			zap.Int("status", resp.StatusCode),
			zap.Error(classified))
		return nil, classified
	}

	filename := FilenameFromResponse(resp, profile, req.Format)
	reader := newProgressReader(resp.Body, resp.ContentLength, progress)

	return &DownloadResult{
		Filename:      filename,
		ContentLength: resp.ContentLength,
		Body: struct {
			io.Reader
			io.Closer
		}{reader, resp.Body},
		received: reader,
	}, nil
}
