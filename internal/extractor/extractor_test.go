package extractor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nguyentantai21042004/courseflow/internal/config"
	"github.com/nguyentantai21042004/courseflow/internal/domain"
	"github.com/nguyentantai21042004/courseflow/internal/logger"
)

type fakeExecutor struct {
	out string
	err error
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	return f.out, f.err
}

func testDoc() domain.SourceDocument {
	return domain.SourceDocument{
		Title:    "Intro to Databases",
		Filename: "databases.pdf",
		MimeType: "application/pdf",
		Data:     []byte("%PDF-1.4 fake"),
	}
}

func TestExtractService(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm() error = %v", err)
		}
		if got := r.FormValue("mime_type"); got != "application/pdf" {
			t.Errorf("mime_type = %q, want application/pdf", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text": "page one text", "pageCount": 3}`))
	}))
	defer server.Close()

	ext := New(config.ExtractorConfig{
		Mode:           "service",
		ServiceURL:     server.URL,
		TimeoutSeconds: 5,
	}, nil, logger.New("error"))

	result, err := ext.Extract(context.Background(), testDoc())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if result.Text != "page one text" {
		t.Errorf("Text = %q", result.Text)
	}
	if result.PageCount != 3 {
		t.Errorf("PageCount = %d, want 3", result.PageCount)
	}
}

func TestExtractServiceNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "processor unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	ext := New(config.ExtractorConfig{
		Mode:           "service",
		ServiceURL:     server.URL,
		TimeoutSeconds: 5,
	}, nil, logger.New("error"))

	if _, err := ext.Extract(context.Background(), testDoc()); err == nil {
		t.Error("Extract() should fail on non-2xx response")
	}
}

func TestExtractServiceEmptyText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text": "   ", "pageCount": 1}`))
	}))
	defer server.Close()

	ext := New(config.ExtractorConfig{
		Mode:           "service",
		ServiceURL:     server.URL,
		TimeoutSeconds: 5,
	}, nil, logger.New("error"))

	// Empty text is handled downstream by the fallback generator, not here.
	result, err := ext.Extract(context.Background(), testDoc())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if result.Text != "   " {
		t.Errorf("Text = %q", result.Text)
	}
}

func TestExtractEmptyDocument(t *testing.T) {
	ext := New(config.ExtractorConfig{
		Mode:           "service",
		ServiceURL:     "http://localhost:1",
		TimeoutSeconds: 5,
	}, nil, logger.New("error"))

	doc := testDoc()
	doc.Data = nil
	if _, err := ext.Extract(context.Background(), doc); err == nil {
		t.Error("Extract() should fail for an empty document")
	}
}

func TestExtractLocal(t *testing.T) {
	ext := New(config.ExtractorConfig{
		Mode:           "local",
		LocalBinary:    "pdftotext",
		TimeoutSeconds: 5,
	}, &fakeExecutor{out: "page one\fpage two\fpage three"}, logger.New("error"))

	result, err := ext.Extract(context.Background(), testDoc())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if result.PageCount != 3 {
		t.Errorf("PageCount = %d, want 3", result.PageCount)
	}
}
