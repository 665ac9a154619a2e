package domain

// DefaultPageSize is the page size when none is specified.
const DefaultPageSize = 50

// MaxPageSize is the maximum allowed page size.
const MaxPageSize = 500

// PageRequest holds pagination parameters for list operations.
// Page is zero-based: page 0 returns the newest PageSize rows.
type PageRequest struct {
	Page     uint
	PageSize uint
}

// Limit returns the effective page size, clamped to [1, MaxPageSize].
func (p PageRequest) Limit() int {
	if p.PageSize == 0 {
		return DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		return MaxPageSize
	}
	return int(p.PageSize)
}

// Offset returns the row offset for the requested page.
func (p PageRequest) Offset() int {
	return int(p.Page) * p.Limit()
}
