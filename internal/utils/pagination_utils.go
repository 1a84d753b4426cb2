// package utils provides utility functions to support various operations within the application.
package utils

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage  = 1
	DefaultLimit = 8
	MaxLimit     = 100
	// MaxPage keeps (page-1)*limit within int.
	MaxPage = math.MaxInt / MaxLimit
)

// ParsePaginationParams extracts the 'page' and 'limit' query parameters.
// Missing or invalid values fall back to the defaults, page is capped at MaxPage and limit at MaxLimit.
func ParsePaginationParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.Query(PageParamKey))
	if err != nil || page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}

	limit, err := strconv.Atoi(c.Query(LimitParamKey))
	if err != nil || limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return page, limit
}

// TotalPages returns how many pages of size limit hold total records.
func TotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
