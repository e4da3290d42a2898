package harvest

import (
	"context"

	"github.com/zescabedo/globalpayments-poc-sub001/internal/domain"
)

// FetchFunc fetches the page that starts after the given cursor. after is
// nil for the first page.
type FetchFunc func(ctx context.Context, after *string) (*domain.ContentPage, error)

// Page is one step of a Pager.
type Page struct {
	Items     []domain.HarvestedItem
	Cursor    domain.PageCursor
	Exhausted bool
}

// Pager walks a cursor-paginated result set one page at a time. Each call
// to Next depends on the previous page's cursor, so a Pager is not safe
// for concurrent use.
type Pager struct {
	fetch     FetchFunc
	cursor    domain.PageCursor
	pages     int
	exhausted bool
}

// NewPager returns a Pager positioned before the first page.
func NewPager(fetch FetchFunc) *Pager {
	return &Pager{fetch: fetch}
}

// Pages returns how many pages were requested, including a failed one.
func (p *Pager) Pages() int {
	return p.pages
}

// Next fetches the next page. Once a page reports no successor, Next
// returns Exhausted with no items. A page that claims a successor without
// advancing the cursor also ends the sequence.
func (p *Pager) Next(ctx context.Context) (Page, error) {
	if p.exhausted {
		return Page{Cursor: p.cursor, Exhausted: true}, nil
	}

	p.pages++
	res, err := p.fetch(ctx, p.cursor.EndCursor)
	if err != nil {
		p.exhausted = true
		return Page{}, err
	}
	if res == nil {
		p.exhausted = true
		return Page{Cursor: p.cursor, Exhausted: true}, nil
	}

	next := res.PageInfo
	stalled := next.EndCursor == nil ||
		(p.cursor.EndCursor != nil && *next.EndCursor == *p.cursor.EndCursor)
	if !next.HasNext || stalled {
		p.exhausted = true
	}
	p.cursor = next

	return Page{Items: res.Results, Cursor: next, Exhausted: p.exhausted}, nil
}
