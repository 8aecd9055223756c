package helpers

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	DefaultPage     = 1 // 1-based
)

// PageInfo describes one page of a listing for templates
type PageInfo struct {
	CurrentPage int
	TotalPages  int
	PageSize    int
	TotalItems  int64
}

// HasPrev reports whether a previous page exists
func (p PageInfo) HasPrev() bool { return p.CurrentPage > 1 }

// HasNext reports whether a next page exists
func (p PageInfo) HasNext() bool { return p.CurrentPage < p.TotalPages }

// PrevPage returns the previous page number
func (p PageInfo) PrevPage() int { return p.CurrentPage - 1 }

// NextPage returns the next page number
func (p PageInfo) NextPage() int { return p.CurrentPage + 1 }

// CalculateOffsetLimit calculates the offset and limit for queries based on 1-based page index.
func CalculateOffsetLimit(page, size int) (offset uint64, limit int) {
	if size <= 0 || size > MaxPageSize {
		limit = DefaultPageSize
	} else {
		limit = size
	}

	if page < 1 {
		page = DefaultPage
	}

	offset = uint64((page - 1) * limit)
	return offset, limit
}

// NewPageInfo creates a PageInfo. page should be the 1-based page number.
func NewPageInfo(totalItems int64, page, size int) PageInfo {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = DefaultPage
	}

	totalPages := 1
	if totalItems > 0 {
		totalPages = int(math.Ceil(float64(totalItems) / float64(size)))
	}

	currentPage := page
	if currentPage > totalPages {
		currentPage = totalPages
	}

	return PageInfo{
		CurrentPage: currentPage,
		TotalPages:  totalPages,
		PageSize:    size,
		TotalItems:  totalItems,
	}
}

// ParsePaginationParams extracts and validates pagination parameters from the request
func ParsePaginationParams(c *gin.Context) (page, size int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = DefaultPage
	}

	size, err = strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(DefaultPageSize)))
	if err != nil || size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}

	return page, size
}
