package catalog

import "context"

// Pager walks a filtered table scan one page at a time, chasing the
// store's continuation token until it is exhausted. Every component that
// reads the store shares this loop instead of reimplementing it.
type Pager struct {
	client *Client
	table  string
	filter string
	offset string
	done   bool
}

// NewPager starts a lazy paginated scan over a table.
func (c *Client) NewPager(table, filter string) *Pager {
	return &Pager{client: c, table: table, filter: filter}
}

// Next fetches the next page. The second return value reports whether
// further pages remain; calling Next after exhaustion returns an empty
// page.
func (p *Pager) Next(ctx context.Context) ([]Record, bool, error) {
	if p.done {
		return nil, false, nil
	}

	page, err := p.client.List(ctx, p.table, ListOptions{Filter: p.filter, Offset: p.offset})
	if err != nil {
		return nil, false, err
	}

	p.offset = page.Offset
	p.done = page.Offset == ""
	return page.Records, !p.done, nil
}
