package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"avtoelon/internal/domain/chat"
	"avtoelon/internal/domain/listing"
	"avtoelon/internal/domain/user"
)

// StatusError is a response with a 4xx/5xx status from the record store.
type StatusError struct {
	Method  string
	Path    string
	Status  int
	Snippet string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api: %s %s returned status %d: %s", e.Method, e.Path, e.Status, e.Snippet)
}

// Config defines record-store client settings.
type Config struct {
	BaseURL string
	Client  *http.Client
}

// Client issues read/write requests against the flat record store: three
// independent collections (users, messages, one per listing category) with
// no shared backend logic. All failures come back as errors for the caller
// to surface; the client never retries.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient validates settings and returns a store client.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("api: base url required")
	}
	httpClient := cfg.Client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpClient,
		logger:  logger,
	}, nil
}

// Users fetches the entire users collection.
func (c *Client) Users(ctx context.Context) ([]user.User, error) {
	var users []user.User
	if err := c.get(ctx, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser registers a new account record.
func (c *Client) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	var created user.User
	if err := c.send(ctx, http.MethodPost, "/users", u, &created); err != nil {
		return user.User{}, err
	}
	return created, nil
}

// UpdateUser replaces the full user representation.
func (c *Client) UpdateUser(ctx context.Context, u user.User) (user.User, error) {
	if u.ID == "" {
		return user.User{}, errors.New("api: user id required for update")
	}
	var updated user.User
	if err := c.send(ctx, http.MethodPut, "/users/"+url.PathEscape(string(u.ID)), u, &updated); err != nil {
		return user.User{}, err
	}
	return updated, nil
}

// Messages fetches the entire message collection, unfiltered by the server.
func (c *Client) Messages(ctx context.Context) ([]chat.Message, error) {
	var messages []chat.Message
	if err := c.get(ctx, "/messages", nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// SendMessage appends one message record.
func (c *Client) SendMessage(ctx context.Context, m chat.Message) (chat.Message, error) {
	var created chat.Message
	if err := c.send(ctx, http.MethodPost, "/messages", m, &created); err != nil {
		return chat.Message{}, err
	}
	return created, nil
}

// Listings fetches one category collection.
func (c *Client) Listings(ctx context.Context, cat listing.Category) ([]listing.Listing, error) {
	if !cat.Valid() {
		return nil, listing.ErrUnknownCategory
	}
	var listings []listing.Listing
	if err := c.get(ctx, "/"+string(cat), nil, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

// ListingsByBrand fetches the category records sharing a brand.
func (c *Client) ListingsByBrand(ctx context.Context, cat listing.Category, brand string) ([]listing.Listing, error) {
	if !cat.Valid() {
		return nil, listing.ErrUnknownCategory
	}
	query := url.Values{"brand": []string{brand}}
	var listings []listing.Listing
	if err := c.get(ctx, "/"+string(cat), query, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

// Listing fetches a single record by id.
func (c *Client) Listing(ctx context.Context, cat listing.Category, id string) (listing.Listing, error) {
	if !cat.Valid() {
		return listing.Listing{}, listing.ErrUnknownCategory
	}
	var item listing.Listing
	if err := c.get(ctx, "/"+string(cat)+"/"+url.PathEscape(id), nil, &item); err != nil {
		return listing.Listing{}, err
	}
	return item, nil
}

// UpdateListing replaces the full listing representation.
func (c *Client) UpdateListing(ctx context.Context, cat listing.Category, l listing.Listing) (listing.Listing, error) {
	if !cat.Valid() {
		return listing.Listing{}, listing.ErrUnknownCategory
	}
	if l.ID == "" {
		return listing.Listing{}, errors.New("api: listing id required for update")
	}
	var updated listing.Listing
	if err := c.send(ctx, http.MethodPut, "/"+string(cat)+"/"+url.PathEscape(l.ID), l, &updated); err != nil {
		return listing.Listing{}, err
	}
	return updated, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	return c.do(request, path, out)
}

func (c *Client) send(ctx context.Context, method, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("api: encode body: %w", err)
	}
	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	return c.do(request, path, out)
}

func (c *Client) do(request *http.Request, path string, out any) error {
	resp, err := c.http.Do(request)
	if err != nil {
		c.logError(request.Method, path, err)
		return fmt.Errorf("api: %s %s: %w", request.Method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		statusErr := &StatusError{
			Method:  request.Method,
			Path:    path,
			Status:  resp.StatusCode,
			Snippet: string(snippet),
		}
		c.logError(request.Method, path, statusErr)
		return statusErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logError(request.Method, path, err)
		return fmt.Errorf("api: decode %s %s response: %w", request.Method, path, err)
	}
	return nil
}

func (c *Client) logError(method, path string, err error) {
	if c.logger == nil {
		return
	}
	c.logger.Error("record store call failed", "method", method, "path", path, "error", err)
}
