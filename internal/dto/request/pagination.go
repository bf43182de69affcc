package request

import "media-review/pkg/utils"

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// PaginatedRequest holds the page and per_page query values. Out of range
// values are clamped, never rejected.
type PaginatedRequest struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

func (p PaginatedRequest) CurrentPage() int {
	if p.Page < 1 {
		return 1
	}
	return p.Page
}

func (p PaginatedRequest) Limit() int {
	switch {
	case p.PerPage < 1:
		return DefaultPerPage
	case p.PerPage > MaxPerPage:
		return MaxPerPage
	}
	return p.PerPage
}

// Offset is derived from the clamped limit so page N always starts where
// page N-1 ended.
func (p PaginatedRequest) Offset() int {
	return utils.CalculateOffset(p.CurrentPage(), p.Limit())
}
