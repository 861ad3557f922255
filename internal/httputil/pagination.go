package httputil

import (
	"fmt"
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/allisson/useradmin/internal/pagination"
)

// MaxPageSize bounds the pageSize query parameter.
const MaxPageSize = 100

// MaxPage bounds the page query parameter so the row offset fits in an int.
const MaxPage = math.MaxInt / MaxPageSize

// ParsePagination parses the page and pageSize query parameters. Missing values
// take the defaults; non-positive values are passed through and normalized by
// the query handler. Non-integers, pages above MaxPage and page sizes above
// MaxPageSize are rejected.
func ParsePagination(c *gin.Context) (page, pageSize int, err error) {
	page, err = queryInt(c, "page", pagination.DefaultPage)
	if err != nil {
		return 0, 0, err
	}
	if page > MaxPage {
		return 0, 0, fmt.Errorf("invalid page parameter: must be at most %d", MaxPage)
	}

	pageSize, err = queryInt(c, "pageSize", pagination.DefaultPageSize)
	if err != nil {
		return 0, 0, err
	}
	if pageSize > MaxPageSize {
		return 0, 0, fmt.Errorf("invalid pageSize parameter: must be at most %d", MaxPageSize)
	}

	return page, pageSize, nil
}

func queryInt(c *gin.Context, name string, fallback int) (int, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s parameter: must be an integer", name)
	}
	return value, nil
}
