package helpers

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/admission/internal/app/models/dto"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultPage     = 1
)

// MaxPage is the largest page number accepted at any page size
const MaxPage = math.MaxInt / MaxPageSize

// clampPage keeps (page-1)*size inside an int
func clampPage(page, size int) int {
	if page < 1 {
		return DefaultPage
	}
	if limit := math.MaxInt / size; page > limit {
		return limit
	}
	return page
}

// CalculateOffsetLimit turns a 1-based page into a query offset and limit.
// Out-of-range sizes fall back to DefaultPageSize and oversized pages are clamped.
func CalculateOffsetLimit(page, size int) (offset uint64, limit int) {
	if size <= 0 || size > MaxPageSize {
		limit = DefaultPageSize
	} else {
		limit = size
	}

	page = clampPage(page, limit)
	offset = uint64((page - 1) * limit)
	return offset, limit
}

// NewPaginationInfo creates a standard PaginationInfo DTO.
// page should be the 1-based page number.
func NewPaginationInfo(totalItems int64, page, size int) dto.PaginationInfo {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = DefaultPage
	}

	totalPages := 0
	if totalItems > 0 {
		totalPages = int(math.Ceil(float64(totalItems) / float64(size)))
	} else if page == 1 {
		// An empty first page still counts as one page
		totalPages = 1
	}

	currentPage := page
	if totalPages > 0 && currentPage > totalPages {
		currentPage = totalPages
	}

	return dto.PaginationInfo{
		CurrentPage: currentPage,
		TotalPages:  totalPages,
		PageSize:    size,
		TotalItems:  totalItems,
	}
}

// ParsePaginationParams reads page and size from the query string.
// Garbage falls back to the defaults; page is capped at MaxPage.
func ParsePaginationParams(c *gin.Context) (page, size int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(DefaultPage)))
	if err != nil || page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}

	size, err = strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(DefaultPageSize)))
	if err != nil || size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}

	return page, size
}

// CalculateSliceIndices bounds an offset/limit window to a slice of totalItems,
// so items[start:end] never panics.
func CalculateSliceIndices(offset uint64, limit, totalItems int) (start, end int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if totalItems <= 0 {
		return 0, 0
	}
	if offset >= uint64(totalItems) {
		return totalItems, totalItems
	}

	start = int(offset)
	end = totalItems
	if limit < totalItems-start {
		end = start + limit
	}
	return start, end
}
