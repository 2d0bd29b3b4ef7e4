// Package catalog talks to the hosted tabular record store that holds the
// Events, Staging, Playlists and Users tables. The store is an external
// collaborator: this package exposes only the minimal record-oriented
// contract (paginated list, bounded batch create/update/delete) and leaves
// its internals alone.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// MaxBatchSize is the store's hard limit on records per create, update or
// delete call. Larger inputs are split into sequential calls.
const MaxBatchSize = 10

// Fields is the column/value map of a single record.
type Fields map[string]any

// Record is one stored row with its assigned identifier.
type Record struct {
	ID     string `json:"id"`
	Fields Fields `json:"fields"`
}

// RecordUpdate carries a partial-field patch for one record. Omitted
// fields are left untouched by the store.
type RecordUpdate struct {
	ID     string `json:"id"`
	Fields Fields `json:"fields"`
}

// Page is one page of list results. A non-empty Offset means more pages
// remain and must be fetched with it.
type Page struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset,omitempty"`
}

// APIError is a non-2xx response from the store.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("catalog store: status %d: %s", e.StatusCode, e.Message)
}

// Config holds connection settings for the record store.
type Config struct {
	BaseURL    string // API root, e.g. https://api.airtable.com/v0
	APIKey     string // static bearer token
	BaseID     string
	HTTPClient *http.Client
}

// Client is a thin HTTP client over the record store contract.
type Client struct {
	baseURL string
	apiKey  string
	baseID  string
	http    *http.Client
}

// New validates the configuration and constructs a client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("catalog API key is required")
	}
	if cfg.BaseID == "" {
		return nil, fmt.Errorf("catalog base ID is required")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("catalog base URL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		baseID:  cfg.BaseID,
		http:    httpClient,
	}, nil
}

// ListOptions narrows a list call.
type ListOptions struct {
	Filter string // boolean formula over field equality/membership
	Offset string // continuation token from the previous page
}

// List fetches a single page of records from a table.
func (c *Client) List(ctx context.Context, table string, opts ListOptions) (Page, error) {
	query := url.Values{}
	if opts.Filter != "" {
		query.Set("filterByFormula", opts.Filter)
	}
	if opts.Offset != "" {
		query.Set("offset", opts.Offset)
	}

	endpoint := c.tableURL(table)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var page Page
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
		return Page{}, err
	}
	return page, nil
}

// ListAll drains every page of a filtered table scan.
func (c *Client) ListAll(ctx context.Context, table, filter string) ([]Record, error) {
	var all []Record

	pager := c.NewPager(table, filter)
	for {
		records, more, err := pager.Next(ctx)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)
		if !more {
			return all, nil
		}
	}
}

// Create inserts records and returns them with their assigned identifiers,
// preserving input order. Inputs beyond the store's batch limit are split
// into sequential calls; a failed call aborts with the records created so
// far already committed (the caller's identity-key checks make re-runs safe).
func (c *Client) Create(ctx context.Context, table string, fieldsets []Fields) ([]Record, error) {
	created := make([]Record, 0, len(fieldsets))

	for start := 0; start < len(fieldsets); start += MaxBatchSize {
		end := min(start+MaxBatchSize, len(fieldsets))

		body := struct {
			Records []struct {
				Fields Fields `json:"fields"`
			} `json:"records"`
		}{}
		for _, f := range fieldsets[start:end] {
			body.Records = append(body.Records, struct {
				Fields Fields `json:"fields"`
			}{Fields: f})
		}

		var resp struct {
			Records []Record `json:"records"`
		}
		if err := c.do(ctx, http.MethodPost, c.tableURL(table), body, &resp); err != nil {
			return created, err
		}
		created = append(created, resp.Records...)
	}

	return created, nil
}

// Update applies partial-field patches in batches.
func (c *Client) Update(ctx context.Context, table string, updates []RecordUpdate) error {
	for start := 0; start < len(updates); start += MaxBatchSize {
		end := min(start+MaxBatchSize, len(updates))

		body := struct {
			Records []RecordUpdate `json:"records"`
		}{Records: updates[start:end]}

		if err := c.do(ctx, http.MethodPatch, c.tableURL(table), body, nil); err != nil {
			return err
		}
	}
	return nil
}

// UpdateRecord patches a single record's fields.
func (c *Client) UpdateRecord(ctx context.Context, table, id string, fields Fields) error {
	body := struct {
		Fields Fields `json:"fields"`
	}{Fields: fields}

	return c.do(ctx, http.MethodPatch, c.tableURL(table)+"/"+url.PathEscape(id), body, nil)
}

// Delete removes a single record.
func (c *Client) Delete(ctx context.Context, table, id string) error {
	return c.do(ctx, http.MethodDelete, c.tableURL(table)+"/"+url.PathEscape(id), nil, nil)
}

// DeleteBatch removes up to MaxBatchSize records in one call.
func (c *Client) DeleteBatch(ctx context.Context, table string, ids []string) error {
	if len(ids) > MaxBatchSize {
		return fmt.Errorf("delete batch exceeds %d records", MaxBatchSize)
	}

	query := url.Values{}
	for _, id := range ids {
		query.Add("records[]", id)
	}

	return c.do(ctx, http.MethodDelete, c.tableURL(table)+"?"+query.Encode(), nil, nil)
}

func (c *Client) tableURL(table string) string {
	return fmt.Sprintf("%s/%s/%s", c.baseURL, url.PathEscape(c.baseID), url.PathEscape(table))
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("catalog store request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// readErrorMessage pulls the human-readable message out of an error body,
// falling back to the raw payload.
func readErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return "no error detail"
	}

	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	return string(raw)
}
