package documents

import (
	"math"
	"time"
)

// DefaultPageSize matches the dashboard's fixed listing page size.
const DefaultPageSize = 10

// Paginate derives the page window for the requested page over an already
// filtered, ordered collection. Out-of-range page numbers are clamped, never
// rejected, and no implicit sort is introduced.
func Paginate(matches []Document, page, pageSize int) PageWindow {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	total := len(matches)
	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))
	if totalPages < 1 {
		totalPages = 1
	}

	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	items := make([]Document, end-start)
	copy(items, matches[start:end])

	return PageWindow{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		Total:      total,
	}
}

// List filters docs by criteria and slices out the requested page. ref
// anchors symbolic date ranges in the criteria.
func List(docs []Document, criteria FilterCriteria, ref time.Time, page, pageSize int) PageWindow {
	return Paginate(Filter(docs, criteria, ref), page, pageSize)
}
