package ingestion

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/locol-hq/locol/internal/models"
)

// Connector defines the interface every source adapter implements: fetch
// raw provider records and hand back canonical event drafts.
type Connector interface {
	// Name returns the provider name, which is also the staging dedup partition.
	Name() string

	// Fetch retrieves current listings from the upstream. A provider
	// failure aborts the whole fetch; partial results are discarded.
	Fetch(ctx context.Context) ([]models.EventDraft, error)
}

// fetchFunc runs one provider query and maps the response into drafts.
type fetchFunc func(ctx context.Context, client *http.Client, query string) ([]models.EventDraft, error)

// APIConnector is the one configurable adapter for structured ticketing
// APIs. Historical per-provider sync variants collapse into this shape:
// a provider is a name, a set of regional queries, and a request/decode
// function. Providers return a single ISO date per event, so no date-range
// parsing happens here.
type APIConnector struct {
	name    string
	queries []string
	client  *http.Client
	fetch   fetchFunc
}

func newAPIConnector(name string, queries []string, fetch fetchFunc) *APIConnector {
	return &APIConnector{
		name:    name,
		queries: queries,
		client:  &http.Client{Timeout: 30 * time.Second},
		fetch:   fetch,
	}
}

// Name returns the provider name.
func (c *APIConnector) Name() string {
	return c.name
}

// Fetch runs all regional queries concurrently and joins the results in
// query order. The queries are read-only and order-independent, so they
// may overlap in time; any failure cancels the rest and aborts the fetch.
func (c *APIConnector) Fetch(ctx context.Context) ([]models.EventDraft, error) {
	results := make([][]models.EventDraft, len(c.queries))

	g, ctx := errgroup.WithContext(ctx)
	for i, query := range c.queries {
		i, query := i, query
		g.Go(func() error {
			drafts, err := c.fetch(ctx, c.client, query)
			if err != nil {
				return fmt.Errorf("%s query %q: %w", c.name, query, err)
			}
			results[i] = drafts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []models.EventDraft
	for _, drafts := range results {
		all = append(all, drafts...)
	}
	return all, nil
}

// checkStatus converts a non-2xx provider response into an error.
func checkStatus(resp *http.Response, provider string) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s returned status %d", provider, resp.StatusCode)
	}
	return nil
}
