package remote

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
	"strings"
	"time"

	"github.com/google/uuid"

	"stmtview/internal/config"
	"stmtview/internal/domain"
	"stmtview/internal/parser"
)

const (
	defaultFileField = "file"
	defaultPath      = "/parse"
	maxResponseBytes = 10 << 20
)

// Parser implements port.StatementParser against the statement parse HTTP service.
type Parser struct {
	endpoint  string
	fileField string
	userAgent string
	client    *http.Client
}

// NewParser creates a parse service client from the API config.
func NewParser(cfg *config.APIConfig) *Parser {
	apiCfg := *cfg
	if apiCfg.BaseURL == "" {
		apiCfg.BaseURL = config.DefaultBaseURL
	}
	if apiCfg.ParsePath == "" {
		apiCfg.ParsePath = defaultPath
	}
	return newParser(&apiCfg, apiCfg.ParseURL(), &http.Client{Timeout: apiCfg.Timeout()})
}

// NewParserWithClient creates a parser posting to endpoint with a caller-supplied client (for testing).
func NewParserWithClient(cfg *config.APIConfig, endpoint string, client *http.Client) *Parser {
	return newParser(cfg, endpoint, client)
}

func newParser(cfg *config.APIConfig, endpoint string, client *http.Client) *Parser {
	field := cfg.FileField
	if field == "" {
		field = defaultFileField
	}
	return &Parser{
		endpoint:  endpoint,
		fileField: field,
		userAgent: cfg.UserAgent,
		client:    client,
	}
}

// Endpoint returns the URL statements are posted to.
func (p *Parser) Endpoint() string {
	return p.endpoint
}

// Parse posts the file as a single-part multipart form and classifies the settlement.
// Errors are *parser.TransportError or *parser.ServiceError.
func (p *Parser) Parse(ctx context.Context, file domain.SelectedFile) (*domain.ParseResponse, error) {
	body, contentType, err := p.buildBody(file)
	if err != nil {
		return nil, fmt.Errorf("building multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, body)
	if err != nil {
		return nil, &parser.TransportError{URL: p.endpoint, Err: fmt.Errorf("creating request: %w", err)}
	}
	requestID := uuid.New().String()
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		log.Printf("[%s] remoteParser.Parse: %s unreachable after %s: %v", requestID, p.endpoint, time.Since(start), err)
		return nil, &parser.TransportError{URL: p.endpoint, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &parser.TransportError{URL: p.endpoint, Err: fmt.Errorf("reading response: %w", err)}
	}
	log.Printf("[%s] remoteParser.Parse: %s %q -> %d in %s", requestID, p.endpoint, file.Name, resp.StatusCode, time.Since(start))

	return parseResponse(resp.StatusCode, respBody)
}

func (p *Parser) buildBody(file domain.SelectedFile) (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	partType := file.ContentType
	if partType == "" {
		partType = "application/octet-stream"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(p.fileField), escapeQuotes(file.Name)))
	header.Set("Content-Type", partType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return buf, writer.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

func parseResponse(status int, body []byte) (*domain.ParseResponse, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var envelope map[string]any
	if err := dec.Decode(&envelope); err != nil || envelope == nil {
		return nil, &parser.ServiceError{StatusCode: status}
	}

	msg := serviceMessage(envelope)
	if status < 200 || status > 299 {
		return nil, &parser.ServiceError{StatusCode: status, Message: msg}
	}
	if !parser.Truthy(envelope["success"]) {
		return nil, &parser.ServiceError{StatusCode: status, Message: msg}
	}

	return &domain.ParseResponse{
		Success: true,
		Bank:    envelope["bank"],
		Fields:  envelope["fields"],
		Error:   msg,
	}, nil
}

// serviceMessage extracts "error", falling back to a FastAPI-style "detail"
// which is either a string or a list of {"msg": ...} objects.
func serviceMessage(envelope map[string]any) string {
	if s, ok := envelope["error"].(string); ok && s != "" {
		return s
	}
	switch d := envelope["detail"].(type) {
	case string:
		return d
	case []any:
		if len(d) > 0 {
			if item, ok := d[0].(map[string]any); ok {
				if s, ok := item["msg"].(string); ok {
					return s
				}
			}
		}
	}
	return ""
}
