package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"catalog/internal/domain"
	"catalog/internal/query"

	"github.com/gin-gonic/gin"
)

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "request body is required", "")
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid JSON payload", "")
		return false
	}
	return true
}

// pathID parses a positive int64 path parameter.
func pathID(c *gin.Context, name string) (int64, error) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ValidationError{Field: name, Msg: name + " must be a positive integer"}
	}
	return id, nil
}

// ListingParams collects page, size, sort and the optional filters from the query
// string. Absent numeric params take their defaults. Malformed page or size is rejected
// here; numeric filter text is parsed later, after bounds and sort pass.
func ListingParams(c *gin.Context) (query.ListingParams, error) {
	p := query.ListingParams{Page: query.DefaultPage, Size: query.DefaultSize}

	var err error
	if p.Page, err = intQuery(c, "page", query.DefaultPage); err != nil {
		return p, err
	}
	if p.Size, err = intQuery(c, "size", query.DefaultSize); err != nil {
		return p, err
	}
	p.Sort = c.QueryArray("sort")
	p.Filter = query.FilterInput{
		Name: c.Query("name"),
		Raw: query.RawFilter{
			MinPrice:   c.Query("minPrice"),
			MaxPrice:   c.Query("maxPrice"),
			CategoryID: c.Query("categoryId"),
		},
	}
	return p, nil
}

func intQuery(c *gin.Context, name string, def int) (int, error) {
	raw, ok := c.GetQuery(name)
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ValidationError{Field: name, Msg: name + " must be an integer"}
	}
	return v, nil
}
