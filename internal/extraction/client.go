package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"

	"imagequery/internal/domain"
	"imagequery/internal/port"
)

// DefaultEndpoint is the extraction service address. It is not configurable at runtime.
const DefaultEndpoint = "http://127.0.0.1:8000/api/extract"

// maxErrorBody caps how much of a non-2xx body is read looking for detail.
const maxErrorBody = 64 << 10

// Client implements port.ExtractionClient over multipart HTTP.
type Client struct {
	endpoint string
	client   *http.Client
	debug    bool
}

// NewClient creates a client for DefaultEndpoint.
func NewClient(debug bool) *Client {
	return newClient(DefaultEndpoint, debug)
}

// NewClientWithEndpoint creates a client pointing at a custom endpoint (for testing).
func NewClientWithEndpoint(endpoint string) *Client {
	return newClient(endpoint, false)
}

func newClient(endpoint string, debug bool) *Client {
	return &Client{
		endpoint: endpoint,
		// No timeout: a submission waits for as long as the service takes.
		client: &http.Client{},
		debug:  debug,
	}
}

func (c *Client) Extract(ctx context.Context, input port.ExtractionInput) (*port.ExtractionOutput, error) {
	body, contentType, err := buildMultipartBody(input)
	if err != nil {
		return nil, fmt.Errorf("building multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	if c.debug {
		log.Printf("extraction.Extract: POST %s (%s, %d bytes, model=%q)",
			c.endpoint, input.FileName, len(input.ImageBytes), input.ModelName)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNoResponse, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &domain.ServerError{StatusCode: resp.StatusCode, Detail: parseDetail(respBody)}
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", domain.ErrNoResponse, err)
	}

	return parseResponse(resp.StatusCode, respBody)
}

func buildMultipartBody(input port.ExtractionInput) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	contentType := input.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, escapeQuotes(fileNameOrDefault(input.FileName))))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(input.ImageBytes); err != nil {
		return nil, "", err
	}

	fields := []struct{ name, value string }{
		{"user_prompt", input.UserPrompt},
		{"system_prompt", input.SystemPrompt},
		{"model_name", input.ModelName},
		{"max_tokens", strconv.Itoa(input.MaxTokens)},
		{"temperature", FormatFloat(input.Temperature)},
		{"top_p", FormatFloat(input.TopP)},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

// FormatFloat renders v in the shortest form that parses back to exactly v.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// apiResponse models the extraction service success body.
type apiResponse struct {
	ExtractedData json.RawMessage `json:"extracted_data"`
}

func parseResponse(status int, body []byte) (*port.ExtractionOutput, error) {
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrUnexpectedResponseFormat, status)
	}

	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnexpectedResponseFormat, err)
	}
	if isEmptyValue(resp.ExtractedData) {
		return nil, fmt.Errorf("%w: extracted_data missing or empty", domain.ErrUnexpectedResponseFormat)
	}

	return &port.ExtractionOutput{ExtractedData: resp.ExtractedData, StatusCode: status}, nil
}

// parseDetail pulls the detail field out of an error body. String details are
// returned verbatim; any other non-empty value as its JSON text.
func parseDetail(body []byte) string {
	var errBody struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &errBody); err != nil {
		return ""
	}
	raw := errBody.Detail
	if isEmptyValue(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return string(raw)
	}
	return compact.String()
}

// isEmptyValue reports whether raw is absent or one of null, false, "" or a
// numeric zero. Such values carry nothing to show. Empty objects and arrays do.
func isEmptyValue(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return true
	}
	switch string(trimmed) {
	case "null", "false", `""`:
		return true
	}
	if f, err := strconv.ParseFloat(string(trimmed), 64); err == nil {
		return f == 0
	}
	return false
}

func fileNameOrDefault(name string) string {
	if name == "" {
		return "image"
	}
	return name
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
