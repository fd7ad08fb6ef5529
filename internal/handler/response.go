// Package handler holds the HTTP handlers of all services. Every response
// carries the {"success": bool} envelope; payload keys are per resource.
package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apperr "github.com/clinichub/clinic-services/pkg/errors"
)

// OK writes a success envelope merged with the given payload keys.
func OK(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// Fail maps the error to its HTTP status and writes the failure envelope.
// Internal errors are logged and masked.
func Fail(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status >= 500 {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	c.JSON(status, gin.H{"success": false, "error": apperr.Message(err)})
}

// FailValidation reports a request binding problem.
func FailValidation(c *gin.Context, err error) {
	Fail(c, apperr.Validation("%s", err.Error()))
}

// IDParam parses the named path parameter as an integer id.
func IDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		Fail(c, apperr.Validation("invalid %s", name))
		return 0, false
	}
	return id, true
}

// Pagination reads page/per_page query parameters with the given default
// page size.
func Pagination(c *gin.Context, defaultPerPage int) (page, perPage int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ = strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(defaultPerPage)))
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	return page, perPage
}

// Pages is the page count reported alongside paginated listings.
func Pages(total, perPage int) int {
	if perPage <= 0 {
		return 0
	}
	pages := total / perPage
	if total%perPage != 0 {
		pages++
	}
	return pages
}
