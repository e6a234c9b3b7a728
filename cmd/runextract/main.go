package main

import (
	"bufio"
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"github.com/janasena/aadhaar-intake/internal/extract"
)

// runextract runs the field extractor over an OCR transcript file (one line
// per OCR line) and prints the resulting record as JSON. Useful for checking
// rule behavior against a transcript without a database or an OCR engine.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "runextract <transcript-file>")
		os.Exit(2)
	}

	f, err := os.Open(os.Args[1])
	if err != nil {
		logger.Error("open transcript", "path", os.Args[1], "error", err)
		os.Exit(1)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		logger.Error("read transcript", "path", os.Args[1], "error", err)
		os.Exit(1)
	}

	start := time.Now()
	fields := extract.ExtractFields(lines)
	out, err := json.MarshalIndent(fields.Map(), "", "  ")
	if err != nil {
		logger.Error("encode record", "error", err)
		os.Exit(1)
	}

	logger.Info("extraction OK",
		"lines", len(lines),
		"aadhaar_found", fields.AadhaarNumber != "",
		"duration_ms", time.Since(start).Milliseconds(),
	)
	os.Stdout.Write(append(out, '\n'))
}
