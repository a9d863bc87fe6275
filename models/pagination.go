package models

// PaginatedUsers is the backend's paginated user listing.
type PaginatedUsers struct {
	Users      []UserInfo `json:"users"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalUsers int        `json:"total_users"`
}

// TotalPages returns the page count by ceiling division. A zero page size is
// treated as a single page to keep templates simple.
func (p *PaginatedUsers) TotalPages() int {
	if p.PageSize <= 0 {
		return 1
	}
	pages := (p.TotalUsers + p.PageSize - 1) / p.PageSize
	if pages == 0 {
		pages = 1
	}
	return pages
}

// PaginatedMedia is the backend's paginated media/digest listing.
type PaginatedMedia struct {
	Media      []Media `json:"media"`
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
	TotalMedia int     `json:"total_media"`
	TotalPages int     `json:"total_pages"`
	HasNext    bool    `json:"has_next"`
	HasPrev    bool    `json:"has_prev"`
}

// NextPage returns the following page number, clamped to the last page.
func (p *PaginatedMedia) NextPage() int {
	if p.Page >= p.TotalPages {
		return p.TotalPages
	}
	return p.Page + 1
}

// PrevPage returns the preceding page number, clamped to the first page.
func (p *PaginatedMedia) PrevPage() int {
	if p.Page <= 1 {
		return 1
	}
	return p.Page - 1
}

// NewPaginatedMedia fills the derived paging fields of a media listing.
func NewPaginatedMedia(media []Media, page, pageSize, totalMedia int) *PaginatedMedia {
	if pageSize <= 0 {
		pageSize = 1
	}
	totalPages := (totalMedia + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}

	return &PaginatedMedia{
		Media:      media,
		Page:       page,
		PageSize:   pageSize,
		TotalMedia: totalMedia,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
