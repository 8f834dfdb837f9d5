package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/courseflow/internal/domain"
)

// Extract dispatches to the configured extraction mode.
func (e *implExtractor) Extract(ctx context.Context, doc domain.SourceDocument) (*Result, error) {
	if len(doc.Data) == 0 {
		return nil, fmt.Errorf("document %q is empty", doc.Filename)
	}

	start := time.Now()
	e.logger.Info(ctx, "Extracting text from %s (%d bytes, %s)", doc.Filename, len(doc.Data), doc.MimeType)

	var (
		result *Result
		err    error
	)
	switch e.cfg.Mode {
	case "local":
		result, err = e.extractLocal(ctx, doc)
	default:
		result, err = e.extractService(ctx, doc)
	}
	if err != nil {
		return nil, err
	}

	// Empty text is not an extraction failure; the synthesizer's fallback
	// still produces a minimal course from it.
	if strings.TrimSpace(result.Text) == "" {
		e.logger.Warn(ctx, "Extraction produced no text for %s", doc.Filename)
	}

	e.logger.Info(ctx, "Extraction completed: %d pages, %d chars in %s",
		result.PageCount, len(result.Text), time.Since(start))
	return result, nil
}

// extractService posts the document to the extraction HTTP service as a
// multipart request and decodes the {text, pageCount} response.
func (e *implExtractor) extractService(ctx context.Context, doc domain.SourceDocument) (*Result, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", doc.Filename)
	if err != nil {
		return nil, fmt.Errorf("create multipart file: %w", err)
	}
	if _, err := part.Write(doc.Data); err != nil {
		return nil, fmt.Errorf("write document data: %w", err)
	}
	if err := writer.WriteField("mime_type", doc.MimeType); err != nil {
		return nil, fmt.Errorf("write mime field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.ServiceURL, body)
	if err != nil {
		return nil, fmt.Errorf("create extraction request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extraction request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("extraction service: status %d body %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode extraction response: %w", err)
	}

	return &result, nil
}

// extractLocal runs a pdftotext-compatible binary against a temp copy of the
// document and reads plain text from stdout. Pages arrive separated by form
// feeds.
func (e *implExtractor) extractLocal(ctx context.Context, doc domain.SourceDocument) (*Result, error) {
	tmp, err := os.CreateTemp("", "courseflow-*"+filepath.Ext(doc.Filename))
	if err != nil {
		return nil, fmt.Errorf("create temp document: %w", err)
	}
	defer e.cleanupTempFile(ctx, tmp.Name())

	if _, err := tmp.Write(doc.Data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close temp document: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(e.cfg.TimeoutSeconds)*time.Second)
	defer cancel()

	// "-" sends extracted text to stdout
	out, err := e.executor.Execute(ctx, e.cfg.LocalBinary, tmp.Name(), "-")
	if err != nil {
		return nil, fmt.Errorf("local extraction: %w", err)
	}

	return &Result{
		Text:      out,
		PageCount: strings.Count(out, "\f") + 1,
	}, nil
}

// cleanupTempFile removes a temporary file, logs warning if fails
func (e *implExtractor) cleanupTempFile(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil {
		e.logger.Warn(ctx, "Failed to cleanup temp file %s: %v", path, err)
	} else {
		e.logger.Debug(ctx, "Cleaned up temp file: %s", path)
	}
}
