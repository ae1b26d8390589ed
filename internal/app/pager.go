package app

import (
	"github.com/joacominatel/phonebook/internal/database"
)

// PagerState is a state of the paginated listing.
type PagerState int

// MaxPageSize is the largest page the listing serves.
const MaxPageSize = 10000

const (
	StateAwaitPageSizeAndSort PagerState = iota
	StateShowingPage
	StateDone
)

func (s PagerState) String() string {
	switch s {
	case StateAwaitPageSizeAndSort:
		return "await-page-size-and-sort"
	case StateShowingPage:
		return "showing-page"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Pager walks the contact listing one page at a time. The zero value waits for
// Start; it is Done after Quit or after a page comes back empty.
type Pager struct {
	state PagerState
	size  int
	sort  database.SortColumn
	phone string
	total int64
	page  int
}

// Start validates the page size and sort column and moves to page 1.
func (p *Pager) Start(size int, sort string, total int64) error {
	if size <= 0 || size > MaxPageSize {
		return ErrInvalidPageSize
	}
	col, ok := database.ParseSortColumn(sort)
	if !ok {
		return ErrInvalidSort
	}
	p.size = size
	p.sort = col
	p.total = total
	p.page = 1
	p.state = StateShowingPage
	return nil
}

func (p *Pager) State() PagerState         { return p.state }
func (p *Pager) Page() int                 { return p.page }
func (p *Pager) Size() int                 { return p.size }
func (p *Pager) Total() int64              { return p.total }
func (p *Pager) Sort() database.SortColumn { return p.sort }

// Phone returns the phone LIKE pattern the listing is narrowed to, or "".
func (p *Pager) Phone() string { return p.phone }

// Pages returns ceil(total / size).
func (p *Pager) Pages() int {
	if p.size <= 0 {
		return 0
	}
	size := int64(p.size)
	pages := p.total / size
	if p.total%size != 0 {
		pages++
	}
	return int(pages)
}

// Offset returns the row offset of the current page.
func (p *Pager) Offset() int {
	if p.page < 1 {
		return 0
	}
	return (p.page - 1) * p.size
}

// Query returns the window for the current page.
func (p *Pager) Query() database.PageQuery {
	return database.PageQuery{Limit: p.size, Offset: p.Offset(), Sort: p.sort, Phone: p.phone}
}

// Next moves forward one page, or returns ErrNoMorePages on the last page.
func (p *Pager) Next() error {
	if p.page >= p.Pages() {
		return ErrNoMorePages
	}
	p.page++
	return nil
}

// Prev moves back one page. It reports false on page 1.
func (p *Pager) Prev() bool {
	if p.page <= 1 {
		return false
	}
	p.page--
	return true
}

// SetSort changes the ordering and returns to page 1.
func (p *Pager) SetSort(col database.SortColumn) {
	p.sort = col
	p.page = 1
}

// Quit ends the listing.
func (p *Pager) Quit() {
	p.state = StateDone
}

func (p *Pager) match() database.Match {
	if p.phone == "" {
		return database.MatchAll()
	}
	return database.ByPhonePattern(p.phone)
}

// observe records how many rows the current page returned.
func (p *Pager) observe(rows int) {
	if rows == 0 {
		p.state = StateDone
	}
}
