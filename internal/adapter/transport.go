package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// previewLimit bounds how much of an unexpected body ends up in an error.
const previewLimit = 500

// DefaultTimeout is used when NewTransport is given a nil client.
const DefaultTimeout = 30 * time.Second

// Request describes one HTTP call made through a Transport.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Transport performs JSON HTTP calls and maps failures to *Error.
//
// It reads the whole body, turns non-2xx responses into KindStatus
// errors, rejects HTML pages as KindDecode and decodes JSON into the
// caller's target.
type Transport struct {
	client   *http.Client
	platform string
	logger   *slog.Logger
	metrics  *Metrics
}

// NewTransport creates a transport for platform. A nil client gets a
// default client with DefaultTimeout; a nil logger uses slog.Default().
func NewTransport(platform string, client *http.Client, logger *slog.Logger, metrics *Metrics) *Transport {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Transport{client: client, platform: platform, logger: logger, metrics: metrics}
}

// Platform returns the platform name errors are tagged with.
func (t *Transport) Platform() string {
	return t.platform
}

// Logger returns the transport's logger.
func (t *Transport) Logger() *slog.Logger {
	return t.logger
}

// Metrics returns the transport's counters (possibly nil, which is safe).
func (t *Transport) Metrics() *Metrics {
	return t.metrics
}

// DoJSON sends req and decodes the JSON response into out.
func (t *Transport) DoJSON(ctx context.Context, op string, req Request, out any) error {
	body, err := t.do(ctx, op, req)
	if err != nil {
		t.metrics.ObserveRequest(t.platform, op, err)
		return err
	}

	if LooksLikeHTML(body) {
		err := NewError(t.platform, op, KindDecode,
			"received HTML instead of JSON (session expired, stale request template, or rate limited): %s",
			preview(body, 200))
		t.metrics.ObserveRequest(t.platform, op, err)
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		werr := WrapError(t.platform, op, KindDecode, err, "response is not valid JSON: %s", preview(body, previewLimit))
		t.metrics.ObserveRequest(t.platform, op, werr)
		return werr
	}

	t.metrics.ObserveRequest(t.platform, op, nil)
	return nil
}

func (t *Transport) do(ctx context.Context, op string, req Request) ([]byte, error) {
	var reader io.Reader
	if req.Body != nil {
		reader = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, reader)
	if err != nil {
		return nil, WrapError(t.platform, op, KindConfig, err, "build request")
	}
	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		t.logger.Warn("http_error",
			slog.String("platform", t.platform),
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return nil, WrapError(t.platform, op, KindTransport, err, "%s request failed", req.Method)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, WrapError(t.platform, op, KindTransport, err, "read body")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		t.logger.Warn("http_status",
			slog.String("platform", t.platform),
			slog.String("op", op),
			slog.Int("status", resp.StatusCode),
		)
		e := NewError(t.platform, op, KindStatus, "%s", statusDetail(body))
		e.Status = resp.StatusCode
		return nil, e
	}

	return body, nil
}

// LooksLikeHTML reports whether body starts with "<!" or "<html" after
// leading whitespace.
func LooksLikeHTML(body []byte) bool {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	return bytes.HasPrefix(trimmed, []byte("<!")) || bytes.HasPrefix(trimmed, []byte("<html"))
}

// statusDetail extracts error details from an error body. X-style
// {"errors":[{"detail"|"message"}]} payloads are joined; anything else is
// previewed verbatim.
func statusDetail(body []byte) string {
	var payload struct {
		Errors []struct {
			Detail  string `json:"detail"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Errors) > 0 {
		parts := make([]string, 0, len(payload.Errors))
		for _, e := range payload.Errors {
			if e.Detail != "" {
				parts = append(parts, e.Detail)
			} else {
				parts = append(parts, e.Message)
			}
		}
		return strings.Join(parts, ", ")
	}
	return preview(body, previewLimit)
}

// preview returns at most limit bytes of body, cut on a rune boundary.
func preview(body []byte, limit int) string {
	if len(body) <= limit {
		return string(body)
	}
	cut := limit
	for cut > 0 && !isRuneStart(body[cut]) {
		cut--
	}
	return fmt.Sprintf("%s...", body[:cut])
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
