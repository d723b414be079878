package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const validExtractionJSON = `{
	"document_type": "mineral_deed",
	"document_title": "Mineral Deed",
	"parties": {
		"grantors": [{"name": "SMITH FAMILY TRUST", "role": "grantor"}],
		"grantees": [{"name": "ACME ENERGY LLC", "role": "grantee"}]
	},
	"dates": {"execution": "2019-03-15", "recording": "2019-03-20"},
	"recording_info": {"book": "1234", "page": "567", "county": "WILLIAMS", "state": "ND"},
	"interests": {"conveyed_fraction": "1/2", "interest_type": "mineral"},
	"clauses": {
		"pugh_clause": false,
		"continuous_development": false,
		"surface_damages": false,
		"pooling_unitization": false
	},
	"exhibit_references": [{"name": "EXHIBIT A", "exhibit_type": "legal_descriptions"}],
	"confidence": {"overall": 0.95, "parties": 0.98, "dates": 0.9, "recording_info": 0.92, "interests": 0.88}
}`

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"bare json", validExtractionJSON},
		{"json fence", "```json\n" + validExtractionJSON + "\n```"},
		{"plain fence", "```\n" + validExtractionJSON + "\n```"},
		{"surrounding whitespace", "\n\n  " + validExtractionJSON + "  \n"},
		{"fenced with whitespace", "  ```json\n" + validExtractionJSON + "\n```  \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseResponse(tt.text)
			if err != nil {
				t.Fatalf("parseResponse returned error: %v", err)
			}
			if result.DocumentType != "mineral_deed" {
				t.Errorf("document type = %q; want mineral_deed", result.DocumentType)
			}
			if len(result.Parties.Grantors) != 1 || result.Parties.Grantors[0].Name != "SMITH FAMILY TRUST" {
				t.Errorf("unexpected grantors: %+v", result.Parties.Grantors)
			}
			if result.Confidence.Overall != 0.95 {
				t.Errorf("overall confidence = %v; want 0.95", result.Confidence.Overall)
			}
		})
	}
}

func TestParseResponse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"not json", "the document could not be read"},
		{"missing document_type", `{"parties": {}}`},
		{"empty document_type", `{"document_type": ""}`},
		{"confidence out of range", `{"document_type": "deed", "confidence": {"overall": 1.5}}`},
		{"party without name", `{"document_type": "deed", "parties": {"grantors": [{"role": "grantor"}]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseResponse(tt.text); err == nil {
				t.Error("expected an error, got nil")
			}
		})
	}
}

func TestValidateExtraction(t *testing.T) {
	if err := ValidateExtraction([]byte(validExtractionJSON)); err != nil {
		t.Errorf("valid extraction rejected: %v", err)
	}
	if err := ValidateExtraction([]byte(`{"document_type": "assignment"}`)); err != nil {
		t.Errorf("minimal extraction rejected: %v", err)
	}
	if err := ValidateExtraction([]byte(`{}`)); err == nil {
		t.Error("extraction without document_type accepted")
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2019-03-15", "2019-03-15", true},
		{"03/15/2019", "2019-03-15", true},
		{"March 15, 2019", "2019-03-15", true},
		{"Mar 15, 2019", "2019-03-15", true},
		{"", "", false},
		{"the ides of march", "", false},
		{"15-03-2019", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseDate(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseDate(%q) ok = %v; want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && got.Format("2006-01-02") != tt.want {
			t.Errorf("ParseDate(%q) = %v; want %s", tt.in, got, tt.want)
		}
	}
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		wantNil  bool
		wantErr  bool
		wantName string
	}{
		{"disabled", Config{}, true, false, ""},
		{"anthropic", Config{Provider: "anthropic", APIKey: "k"}, false, false, "anthropic"},
		{"claude alias", Config{Provider: "claude", APIKey: "k"}, false, false, "anthropic"},
		{"openai", Config{Provider: "openai", APIKey: "k"}, false, false, "openai"},
		{"case insensitive", Config{Provider: "Anthropic", APIKey: "k"}, false, false, "anthropic"},
		{"anthropic without key", Config{Provider: "anthropic"}, false, true, ""},
		{"unknown", Config{Provider: "gemini", APIKey: "k"}, false, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(tt.config)
			if tt.wantErr {
				if err == nil {
					t.Error("expected an error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantNil {
				if p != nil {
					t.Errorf("expected nil provider, got %T", p)
				}
				return
			}
			if p == nil {
				t.Fatal("expected a provider, got nil")
			}
			if p.Name() != tt.wantName {
				t.Errorf("provider name = %q; want %q", p.Name(), tt.wantName)
			}
		})
	}
}

// flakyProvider fails a fixed number of times before succeeding.
type flakyProvider struct {
	failures int
	calls    int
}

func (p *flakyProvider) Name() string { return "flaky" }
func (p *flakyProvider) IsAvailable(context.Context) bool { return true }
func (p *flakyProvider) Extract(ctx context.Context, req Request) (*DocumentExtraction, error) {
	p.calls++
	if p.calls <= p.failures {
		return nil, fmt.Errorf("transient failure %d", p.calls)
	}
	return &DocumentExtraction{DocumentType: "deed"}, nil
}

func TestExtractWithRetry(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("succeeds after failures", func(t *testing.T) {
		p := &flakyProvider{failures: 2}
		result, err := ExtractWithRetry(context.Background(), p, Request{}, 3, log)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.DocumentType != "deed" {
			t.Errorf("document type = %q; want deed", result.DocumentType)
		}
		if p.calls != 3 {
			t.Errorf("calls = %d; want 3", p.calls)
		}
	})

	t.Run("exhausts retries", func(t *testing.T) {
		p := &flakyProvider{failures: 10}
		_, err := ExtractWithRetry(context.Background(), p, Request{}, 2, log)
		if err == nil {
			t.Fatal("expected an error, got nil")
		}
		if !strings.Contains(err.Error(), "transient failure 3") {
			t.Errorf("error = %v; want the last attempt's error", err)
		}
		if p.calls != 3 {
			t.Errorf("calls = %d; want 3", p.calls)
		}
	})

	t.Run("context cancellation stops retries", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		p := &flakyProvider{failures: 10}
		_, err := ExtractWithRetry(ctx, p, Request{}, 5, log)
		if err == nil {
			t.Fatal("expected an error, got nil")
		}
		if p.calls != 1 {
			t.Errorf("calls = %d; want 1 (no retries after cancellation)", p.calls)
		}
	})
}

func TestAnthropicProvider_Extract(t *testing.T) {
	var gotHeaders http.Header
	var gotBody anthropicRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		reply := map[string]any{
			"id": "msg_test",
			"content": []map[string]any{
				{"type": "text", "text": "```json\n" + validExtractionJSON + "\n```"},
			},
			"model":       "test-model",
			"stop_reason": "end_turn",
		}
		json.NewEncoder(w).Encode(reply)
	}))
	defer server.Close()

	p, err := NewAnthropicProvider(Config{
		Provider: "anthropic",
		APIKey:   "test-key",
		BaseURL:  server.URL,
		Timeout:  5 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewAnthropicProvider: %v", err)
	}

	result, err := p.Extract(context.Background(), Request{PDF: []byte("%PDF-1.4 fake")})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if result.DocumentType != "mineral_deed" {
		t.Errorf("document type = %q; want mineral_deed", result.DocumentType)
	}

	if got := gotHeaders.Get("x-api-key"); got != "test-key" {
		t.Errorf("x-api-key header = %q; want test-key", got)
	}
	if got := gotHeaders.Get("anthropic-version"); got != "2023-06-01" {
		t.Errorf("anthropic-version header = %q", got)
	}

	if len(gotBody.Messages) != 1 {
		t.Fatalf("messages = %d; want 1", len(gotBody.Messages))
	}
	content := gotBody.Messages[0].Content
	if len(content) != 2 {
		t.Fatalf("content blocks = %d; want 2", len(content))
	}
	if content[0].Type != "document" || content[0].Source == nil {
		t.Errorf("first block should be a document, got %+v", content[0])
	}
	if content[0].Source.MediaType != "application/pdf" {
		t.Errorf("media type = %q; want application/pdf", content[0].Source.MediaType)
	}
	if content[1].Type != "text" || !strings.Contains(content[1].Text, "document_type") {
		t.Errorf("second block should carry the extraction instruction")
	}
}

func TestAnthropicProvider_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"type":  "error",
			"error": map[string]any{"type": "rate_limit_error", "message": "rate limited"},
		})
	}))
	defer server.Close()

	p, err := NewAnthropicProvider(Config{APIKey: "k", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewAnthropicProvider: %v", err)
	}

	_, err = p.Extract(context.Background(), Request{PDF: []byte("x")})
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	if !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("error = %v; want the API message surfaced", err)
	}
}

func TestAnthropicProvider_RequiresPDF(t *testing.T) {
	p, err := NewAnthropicProvider(Config{APIKey: "k"})
	if err != nil {
		t.Fatalf("NewAnthropicProvider: %v", err)
	}
	if _, err := p.Extract(context.Background(), Request{Text: "only text"}); err == nil {
		t.Error("expected an error for a request without PDF bytes")
	}
}

func TestOpenAIProvider_Extract(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"model":  "test-model",
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": validExtractionJSON}},
			},
		})
	}))
	defer server.Close()

	p, err := NewOpenAIProvider(Config{APIKey: "k", BaseURL: server.URL + "/v1", Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("NewOpenAIProvider: %v", err)
	}

	result, err := p.Extract(context.Background(), Request{Text: "THIS MINERAL DEED, dated..."})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if gotPath != "/v1/chat/completions" {
		t.Errorf("request path = %q", gotPath)
	}
	if result.DocumentType != "mineral_deed" {
		t.Errorf("document type = %q; want mineral_deed", result.DocumentType)
	}
}

func TestOpenAIProvider_RequiresText(t *testing.T) {
	p, err := NewOpenAIProvider(Config{APIKey: "k"})
	if err != nil {
		t.Fatalf("NewOpenAIProvider: %v", err)
	}
	if _, err := p.Extract(context.Background(), Request{PDF: []byte("x")}); err == nil {
		t.Error("expected an error for a request without text")
	}
}
