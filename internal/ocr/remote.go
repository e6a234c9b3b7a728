package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/janasena/aadhaar-intake/internal/common"
)

// RemoteClient calls a hosted recognizer service over HTTP. The service
// accepts a multipart image upload and replies with the recognized lines as
// JSON. The reply is validated against recognizeReplySchema before use.
type RemoteClient struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

type recognizeReply struct {
	Lines []string `json:"lines"`
}

var recognizeReplySchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"required":             []string{"lines"},
	"properties": map[string]any{
		"lines": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
	},
}

func NewRemoteClient(url string, timeout time.Duration, logger *slog.Logger) *RemoteClient {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &RemoteClient{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

func (c *RemoteClient) Recognize(ctx context.Context, image []byte, filename string) ([]string, error) {
	reqID := uuid.New().String()
	start := time.Now()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", orDefault(filename, "upload.jpg"))
	if err != nil {
		return nil, fmt.Errorf("build multipart: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("write multipart: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	c.logger.Info("ocr.remote.request", "req_id", reqID, "url", c.url, "image_bytes", len(image))

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("ocr.remote.send_error", "req_id", reqID, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, common.WrapError(common.ErrUpstreamOCR, err.Error())
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warn("ocr.remote.body_close_error", "req_id", reqID, "error", err)
		}
	}()

	raw, _ := io.ReadAll(resp.Body)
	c.logger.Info("ocr.remote.response",
		"req_id", reqID,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode/100 != 2 {
		return nil, common.NewAppError("OCR_REMOTE", fmt.Sprintf("non-2xx status: %d", resp.StatusCode), common.ErrUpstreamOCR)
	}

	if err := validateReply(raw); err != nil {
		return nil, common.NewAppError("OCR_REMOTE", "malformed recognizer reply", fmt.Errorf("%w: %v", common.ErrUpstreamOCR, err))
	}
	var reply recognizeReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return nil, common.NewAppError("OCR_REMOTE", "decode recognizer reply", err)
	}
	return reply.Lines, nil
}

// Close is a no-op; the remote service owns the engine.
func (c *RemoteClient) Close() error { return nil }

// FetchImage downloads an image by URL so callers can accept image_url
// submissions in addition to direct uploads.
func FetchImage(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, common.WrapError(common.ErrUpstreamOCR, err.Error())
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, common.NewAppError("IMAGE_FETCH", fmt.Sprintf("non-200 status: %d", resp.StatusCode), common.ErrUpstreamOCR)
	}
	return io.ReadAll(resp.Body)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
