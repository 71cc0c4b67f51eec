package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/shelfd/shelfd/internal/bookmarks"
)

var (
	errBadPage  = errors.New("page must be a positive integer")
	errBadLimit = errors.New("limit must be an integer between 1 and 100")
)

// parsePagination extracts page and limit from query parameters.
// Missing parameters take the defaults (page 1, limit 20). Present but
// malformed or out-of-range values are rejected rather than silently fixed.
func parsePagination(r *http.Request) (page, limit int, err error) {
	page = 1
	limit = bookmarks.DefaultPageSize

	if p := r.URL.Query().Get("page"); p != "" {
		parsed, err := strconv.Atoi(p)
		if err != nil || parsed < 1 {
			return 0, 0, errBadPage
		}
		page = parsed
	}

	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 1 || parsed > bookmarks.MaxPageSize {
			return 0, 0, errBadLimit
		}
		limit = parsed
	}

	return page, limit, nil
}
