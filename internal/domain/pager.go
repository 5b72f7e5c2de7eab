package domain

// Ellipsis marks a collapsed run of page numbers in a page window.
const Ellipsis = -1

// Pager interprets the backend's pagination metadata for rendering page
// controls.
type Pager struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalCount int64 `json:"total_count"`
	TotalPages int   `json:"total_pages"`
}

// NewPager computes total pages from a total count.
func NewPager(page, pageSize int, totalCount int64) Pager {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	totalPages := int(totalCount) / pageSize
	if int(totalCount)%pageSize > 0 {
		totalPages++
	}

	return Pager{
		Page:       ClampPage(page, totalPages),
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}

// ClampPage restricts a requested page to [1, totalPages]. A total of zero
// pages still clamps to 1 so navigation never lands out of range.
func ClampPage(requested, totalPages int) int {
	if requested < 1 {
		return 1
	}
	if totalPages >= 1 && requested > totalPages {
		return totalPages
	}
	return requested
}

// Window returns the visible page numbers for the pager's current position.
// See VisiblePageWindow.
func (p Pager) Window(siblingCount int) []int {
	return VisiblePageWindow(p.Page, p.TotalPages, siblingCount)
}

// VisiblePageWindow computes the page-number window for pagination controls:
// the first and last page are always present, siblingCount pages surround
// the current page, and a run of more than one skipped page collapses into a
// single Ellipsis marker. With one page or fewer there is nothing to
// paginate and the window is empty. A current page outside [1, total] is
// clamped before the window is computed.
func VisiblePageWindow(current, total, siblingCount int) []int {
	if total <= 1 {
		return nil
	}
	if siblingCount < 0 {
		siblingCount = 0
	}
	current = ClampPage(current, total)

	// Small totals are enumerated outright; windowing would not shorten
	// anything.
	if total <= 2*siblingCount+3 {
		return pageRange(1, total)
	}

	left := current - siblingCount
	if left < 2 {
		left = 2
	}
	right := current + siblingCount
	if right > total-1 {
		right = total - 1
	}

	window := make([]int, 0, 2*siblingCount+5)
	window = append(window, 1)

	if left > 3 {
		window = append(window, Ellipsis)
	} else {
		window = append(window, pageRange(2, left-1)...)
	}

	window = append(window, pageRange(left, right)...)

	if right < total-2 {
		window = append(window, Ellipsis)
	} else {
		window = append(window, pageRange(right+1, total-1)...)
	}

	return append(window, total)
}

func pageRange(from, to int) []int {
	if to < from {
		return nil
	}
	pages := make([]int, 0, to-from+1)
	for p := from; p <= to; p++ {
		pages = append(pages, p)
	}
	return pages
}
