package api

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/types"
)

// uuidParam parses a path parameter. A malformed id answers 404 like an unknown one.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondNotFound(c)
		return uuid.Nil, false
	}
	return id, true
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		respondNotFound(c)
		return 0, false
	}
	return uint(id), true
}

// intQuery returns the integer query value, or 0 when it is absent or not a number.
func intQuery(c *gin.Context, name string) int {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return n
}

func boolQuery(c *gin.Context, name string) bool {
	switch strings.ToLower(c.Query(name)) {
	case "1", "true":
		return true
	}
	return false
}

func pageQuery(c *gin.Context, defaultLimit int) types.PageQuery {
	return types.PageQuery{Page: intQuery(c, "page"), Limit: intQuery(c, "limit")}.Normalize(defaultLimit)
}

// newPage wraps results with the count and the links to the neighbouring pages.
func newPage[T any](c *gin.Context, results []T, count int64, q types.PageQuery) types.Page[T] {
	if results == nil {
		results = []T{}
	}
	p := types.Page[T]{Count: count, Results: results}
	if int64(q.Page*q.Limit) < count {
		p.Next = pageLink(c, q.Page+1)
	}
	if q.Page > 1 {
		p.Previous = pageLink(c, q.Page-1)
	}
	return p
}

func pageLink(c *gin.Context, page int) *string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	query := c.Request.URL.Query()
	if page == 1 {
		query.Del("page")
	} else {
		query.Set("page", strconv.Itoa(page))
	}
	u := url.URL{
		Scheme:   scheme,
		Host:     c.Request.Host,
		Path:     c.Request.URL.Path,
		RawQuery: query.Encode(),
	}
	link := u.String()
	return &link
}
