// Package mcpserver exposes the REST surface and the chat relay as MCP
// tools for an LLM-driven agent. Store-backed tools proxy the HTTP API with
// a base URL and client injected at construction, so concurrent MCP
// sessions share no mutable state.
package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Relay is the subset of the chatwoot client the conversation tools need.
type Relay interface {
	Configured() bool
	SendMessage(ctx context.Context, conversationID int64, content string) error
	AddLabels(ctx context.Context, conversationID int64, labels []string) error
	UpdateStatus(ctx context.Context, conversationID int64, status string) error
}

// Config wires the tool registry.
type Config struct {
	// BaseURL is the public origin of this service's own REST API.
	BaseURL    string
	HTTPClient *http.Client
	Relay      Relay
	Logger     *log.Logger
}

type registry struct {
	baseURL string
	httpc   *http.Client
	relay   Relay
	logger  *log.Logger
}

// NewServer builds the MCP server with all tools registered.
func NewServer(cfg Config) *mcpsdk.Server {
	httpc := cfg.HTTPClient
	if httpc == nil {
		httpc = &http.Client{Timeout: 30 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	reg := &registry{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpc:   httpc,
		relay:   cfg.Relay,
		logger:  logger,
	}

	srv := mcpsdk.NewServer(&mcpsdk.Implementation{
		Name:    "cartbridge",
		Version: "1.0.0",
	}, &mcpsdk.ServerOptions{
		Instructions: "Shop assistant tools: browse products, manage a shopping cart, resolve the client session, and talk to the Chatwoot conversation.",
	})
	reg.registerStoreTools(srv)
	reg.registerRelayTools(srv)
	return srv
}

// NewHandler returns the streamable HTTP transport for the tool server,
// ready to mount on the main router.
func NewHandler(cfg Config) http.Handler {
	srv := NewServer(cfg)
	return mcpsdk.NewStreamableHTTPHandler(func(_ *http.Request) *mcpsdk.Server {
		return srv
	}, nil)
}

// restEnvelope is the common REST response shape. raw carries the whole
// body for the endpoints that answer an object without the envelope.
type restEnvelope struct {
	Message string          `json:"message"`
	Count   int             `json:"count"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`

	raw json.RawMessage
}

// callREST performs one request against the service's own REST API. A non-2xx
// response becomes an error carrying the body's error string, so tool
// handlers surface the exact REST validation text.
func (r *registry) callREST(ctx context.Context, method, path string, payload interface{}) (*restEnvelope, error) {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var envelope restEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("unexpected response from %s %s: status %d", method, path, resp.StatusCode)
	}
	envelope.raw = raw

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if envelope.Error != "" {
			return nil, errors.New(envelope.Error)
		}
		return nil, fmt.Errorf("request to %s %s failed with status %d", method, path, resp.StatusCode)
	}
	return &envelope, nil
}

func textResult(text string) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: text}},
	}
}

// errorResult renders a failure the way the agent expects: natural-language
// text prefixed "Error:", not a protocol-level fault.
func errorResult(err error) *mcpsdk.CallToolResult {
	res := textResult("Error: " + err.Error())
	res.IsError = true
	return res
}

func prettyJSON(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "null"
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
