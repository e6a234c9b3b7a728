package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/otiai10/gosseract/v2"
)

// TesseractClient runs OCR in-process through the gosseract binding. One
// engine instance is created up front and reused for every request; the
// client must be Closed at shutdown. gosseract clients are not safe for
// concurrent use, so calls are serialized.
type TesseractClient struct {
	mu     sync.Mutex
	engine *gosseract.Client
	logger *slog.Logger
}

func NewTesseractClient(language string, logger *slog.Logger) (*TesseractClient, error) {
	if logger == nil {
		logger = slog.Default()
	}
	engine := gosseract.NewClient()
	if language != "" {
		if err := engine.SetLanguage(language); err != nil {
			_ = engine.Close()
			return nil, fmt.Errorf("set language: %w", err)
		}
	}
	return &TesseractClient{engine: engine, logger: logger}, nil
}

func (c *TesseractClient) Recognize(ctx context.Context, image []byte, filename string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.engine.SetImageFromBytes(image); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}
	text, err := c.engine.Text()
	if err != nil {
		c.logger.Error("ocr.tesseract.failed", "file", filename, "error", err)
		return nil, fmt.Errorf("recognize text: %w", err)
	}

	lines := SplitLines(text)
	c.logger.Debug("ocr.tesseract.ok",
		"file", filename,
		"lines", len(lines),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return lines, nil
}

func (c *TesseractClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.Close()
}
