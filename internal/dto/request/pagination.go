package request

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

type PaginatedRequest struct {
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
	Search string `json:"search"`
}

func (p PaginatedRequest) PageOffset() int {
	if p.Offset < 0 {
		return 0
	}
	return p.Offset
}

func (p PaginatedRequest) PageLimit() int {
	if p.Limit < 1 {
		return DefaultLimit
	}
	if p.Limit > MaxLimit {
		return MaxLimit
	}
	return p.Limit
}
