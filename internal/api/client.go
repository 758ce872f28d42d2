// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the localrag backend.
//
// The backend is a thin gateway: it stores chats and documents but answer
// generation runs on the caller's own API keys, which travel as request
// headers on every search. The client therefore reads the credential store
// at call time rather than capturing keys at construction.
//
// API: Secure logging and pre-flight credential validation
package api

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jeranaias/localrag-tui/internal/model"
)

// Configuration constants for the localrag API.
const (
	// DefaultTimeout is the default timeout for API requests. Searches run
	// retrieval plus answer generation server-side, so this is generous.
	DefaultTimeout = 120 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion attacks.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit
)

// Header names the backend reads credentials and search options from.
// Credentials never travel in request bodies.
const (
	HeaderOpenAIKey = "X-OpenAI-Key"
	HeaderExaKey    = "X-Exa-Key"
	HeaderModel     = "X-Model"
	HeaderWebSearch = "X-Web-Search"
)

// =============================================================================
// SETTINGS INJECTION
// =============================================================================

// Settings is the per-call snapshot of the credential store. A fresh snapshot
// is taken for every request so a settings save is visible immediately.
type Settings struct {
	OpenAIKey        string
	ExaKey           string
	Model            string
	WebSearchEnabled bool
}

// SettingsSource supplies the current settings. Injected so tests can drive
// the client without a real config file.
type SettingsSource func() Settings

// =============================================================================
// CLIENT
// =============================================================================

// Client is a client for the localrag backend API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	settings   SettingsSource

	// limiter caps the search submission rate client-side; chat and
	// document CRUD are not limited.
	limiter *rate.Limiter
}

// NewClient creates a client for the backend at baseURL (the /api prefix is
// appended internally). settings must not be nil.
func NewClient(baseURL string, settings SettingsSource) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/") + "/api",
		httpClient: &http.Client{Timeout: DefaultTimeout},
		settings:   settings,
		limiter:    rate.NewLimiter(rate.Every(500*time.Millisecond), 3),
	}
}

// WithTimeout sets the request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.httpClient.Timeout = timeout
	return c
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// BaseURL returns the resolved API base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// =============================================================================
// API: Request/Response Logging (without sensitive data)
// =============================================================================

// logRequest logs an API request without exposing sensitive data.
// API: Secure logging - does not log headers (may contain keys) or body.
func (c *Client) logRequest(req *http.Request) {
	log.Printf("API Request: %s %s", req.Method, req.URL.Path)
}

// logResponse logs an API response with duration.
// API: Secure logging - only logs status code and duration, no response body.
func (c *Client) logResponse(resp *http.Response, duration time.Duration) {
	log.Printf("API Response: %d %s (%v)", resp.StatusCode, resp.Status, duration)
}

// keyFingerprint returns a secure fingerprint of an API key for logging.
// SECURITY: Uses SHA-256 hash to create an identifier without exposing the key.
func keyFingerprint(key string) string {
	if key == "" {
		return "none"
	}
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:4]) // First 8 hex chars (4 bytes)
}

// =============================================================================
// CHAT OPERATIONS
// =============================================================================

// createChatResponse is the body returned by POST /chat.
type createChatResponse struct {
	ID string `json:"id"`
}

// CreateChat creates a new chat with the given title and returns its id.
func (c *Client) CreateChat(ctx context.Context, title string) (string, error) {
	if strings.TrimSpace(title) == "" {
		return "", fmt.Errorf("chat title must not be empty")
	}

	body, err := c.doJSON(ctx, http.MethodPost, "/chat", map[string]string{"title": title}, nil)
	if err != nil {
		return "", err
	}

	var resp createChatResponse
	if err := decode(body, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// GetChats returns chat summaries ordered by recency (server order).
func (c *Client) GetChats(ctx context.Context) ([]model.Chat, error) {
	body, err := c.doJSON(ctx, http.MethodGet, "/chat", nil, nil)
	if err != nil {
		return nil, err
	}

	var chats []model.Chat
	if err := decode(body, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

// GetChat returns the full chat with all messages. An unknown id surfaces as
// a RequestError with a 404 status.
func (c *Client) GetChat(ctx context.Context, id string) (*model.Chat, error) {
	body, err := c.doJSON(ctx, http.MethodGet, "/chat/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, err
	}

	var chat model.Chat
	if err := decode(body, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

// AddMessage appends one message to a chat. Fire-and-forget from the caller's
// perspective; no response body is required.
func (c *Client) AddMessage(ctx context.Context, chatID string, msg model.Message) error {
	_, err := c.doJSON(ctx, http.MethodPost, "/chat/"+url.PathEscape(chatID)+"/messages", msg, nil)
	return err
}

// DeleteChat removes one chat.
func (c *Client) DeleteChat(ctx context.Context, id string) error {
	_, err := c.doJSON(ctx, http.MethodDelete, "/chat/"+url.PathEscape(id), nil, nil)
	return err
}

// DeleteAllChats removes every chat.
func (c *Client) DeleteAllChats(ctx context.Context) error {
	_, err := c.doJSON(ctx, http.MethodDelete, "/chat/all", nil, nil)
	return err
}

// SearchChats searches chat history. Empty queries must be short-circuited by
// the caller; they never reach the network (the history search controller
// enforces this).
func (c *Client) SearchChats(ctx context.Context, query string) ([]model.ChatSearchResult, error) {
	path := "/chat/search?q=" + url.QueryEscape(query)
	body, err := c.doJSON(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var results []model.ChatSearchResult
	if err := decode(body, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// =============================================================================
// SEARCH
// =============================================================================

// SearchRequest is the body of POST /search.
type SearchRequest struct {
	Query      string            `json:"query"`
	ChatID     string            `json:"chat_id,omitempty"`
	Initial    bool              `json:"initial"`
	References []model.Reference `json:"references,omitempty"`
}

// Search runs retrieval-augmented answer generation for one query.
//
// Credential checks happen before any network activity: the primary key is
// always required, and the secondary key is required whenever web search is
// toggled on. Keys travel as headers, never in the body.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*model.SearchResponse, error) {
	s := c.settings()

	if strings.TrimSpace(s.OpenAIKey) == "" {
		return nil, fmt.Errorf("openai key: %w", ErrMissingCredential)
	}
	if s.WebSearchEnabled && strings.TrimSpace(s.ExaKey) == "" {
		return nil, fmt.Errorf("exa key: %w", ErrMissingCredential)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &NetworkError{Err: err}
	}

	headers := http.Header{}
	headers.Set(HeaderOpenAIKey, s.OpenAIKey)
	headers.Set(HeaderModel, s.Model)
	if s.WebSearchEnabled {
		headers.Set(HeaderExaKey, s.ExaKey)
		headers.Set(HeaderWebSearch, "true")
	}

	log.Printf("Search: initial=%v refs=%d key=%s", req.Initial, len(req.References), keyFingerprint(s.OpenAIKey))

	body, err := c.doJSON(ctx, http.MethodPost, "/search", req, headers)
	if err != nil {
		return nil, err
	}

	var resp model.SearchResponse
	if err := decode(body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// =============================================================================
// DOCUMENT OPERATIONS
// =============================================================================

// GetDocuments lists uploaded documents.
func (c *Client) GetDocuments(ctx context.Context) ([]model.Document, error) {
	body, err := c.doJSON(ctx, http.MethodGet, "/documents", nil, nil)
	if err != nil {
		return nil, err
	}

	var docs []model.Document
	if err := decode(body, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// UploadDocument streams a file to the backend as a multipart body under the
// "file" field. Requires the primary credential (the backend embeds the
// document with the caller's key).
func (c *Client) UploadDocument(ctx context.Context, filename string, r io.Reader) (*model.Document, error) {
	s := c.settings()
	if strings.TrimSpace(s.OpenAIKey) == "" {
		return nil, fmt.Errorf("openai key: %w", ErrMissingCredential)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/documents/upload", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set(HeaderOpenAIKey, s.OpenAIKey)

	body, err := c.send(req)
	if err != nil {
		return nil, err
	}

	var doc model.Document
	if err := decode(body, &doc); err != nil {
		return nil, err
	}
	if doc.Name == "" {
		doc.Name = filename
	}
	return &doc, nil
}

// DeleteDocument removes an uploaded document by name.
func (c *Client) DeleteDocument(ctx context.Context, name string) error {
	_, err := c.doJSON(ctx, http.MethodDelete, "/documents/"+url.PathEscape(name), nil, nil)
	return err
}

// DownloadDocument fetches the raw bytes of an uploaded document.
func (c *Client) DownloadDocument(ctx context.Context, name string) ([]byte, error) {
	path := "/documents/" + url.PathEscape(name) + "/download"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.send(req)
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// doJSON builds and sends a JSON request. extra headers are merged onto the
// request; body may be nil.
func (c *Client) doJSON(ctx context.Context, method, path string, reqBody any, extra http.Header) ([]byte, error) {
	var reader io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range extra {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}

	return c.send(req)
}

// send performs the request, classifies failures, and returns the raw body
// of a 2xx response.
func (c *Client) send(req *http.Request) ([]byte, error) {
	c.logRequest(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	// SECURITY: Drop credential headers after the request so they cannot
	// leak through later logging of the request object.
	req.Header.Del(HeaderOpenAIKey)
	req.Header.Del(HeaderExaKey)

	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	c.logResponse(resp, duration)

	body, err := readResponse(resp)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RequestError{
			Status:  resp.StatusCode,
			Message: serverMessage(body),
		}
	}

	return body, nil
}

// readResponse reads the response body with size limits.
// SECURITY: Response size limit prevents memory exhaustion attacks.
func readResponse(resp *http.Response) ([]byte, error) {
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}

	return body, nil
}

// errorBody is the error shape the backend returns: {"error": ...} from the
// gateway itself, {"detail": ...} from FastAPI validation.
type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// serverMessage extracts the server-provided error text from a non-2xx body,
// falling back to the raw text.
func serverMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if eb.Error != "" {
			return eb.Error
		}
		if eb.Detail != "" {
			return eb.Detail
		}
	}
	return strings.TrimSpace(string(body))
}

// decode unmarshals a 2xx body, reporting failures as MalformedResponseError.
func decode(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		snippet := string(body)
		if len(snippet) > 60 {
			snippet = snippet[:60]
		}
		return &MalformedResponseError{Err: err, Snippet: snippet}
	}
	return nil
}
