// Package ctx gives controllers a compact handler context over the raw
// http.ResponseWriter / *http.Request pair.
package ctx

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/bazaar/pkg/bind"
	"github.com/shashiranjanraj/bazaar/pkg/middleware"
	"github.com/shashiranjanraj/bazaar/pkg/orm"
	"github.com/shashiranjanraj/bazaar/pkg/response"
)

// Context bundles the writer and request for one handler invocation.
type Context struct {
	W http.ResponseWriter
	R *http.Request
}

// HandlerFunc is a controller method operating on a Context.
type HandlerFunc func(c *Context)

// Wrap adapts a HandlerFunc to http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h(&Context{W: w, R: r})
	}
}

// Ctx returns the request context.
func (c *Context) Ctx() context.Context { return c.R.Context() }

// Param returns a URL path parameter.
func (c *Context) Param(name string) string {
	return chi.URLParam(c.R, name)
}

// ParamUint parses a URL path parameter as an unsigned integer.
func (c *Context) ParamUint(name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}

// Query returns a query-string value.
func (c *Context) Query(name string) string {
	return c.R.URL.Query().Get(name)
}

// QueryInt returns a query-string value as int, or fallback.
func (c *Context) QueryInt(name string, fallback int) int {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return fallback
	}
	return n
}

// Bind decodes and validates the JSON body into dest. When it returns
// false a response has already been written.
func (c *Context) Bind(dest interface{}) bool {
	errs, err := bind.JSON(c.R, dest)
	if err != nil {
		response.Error(c.W, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if len(errs) > 0 {
		response.ValidationError(c.W, errs)
		return false
	}
	return true
}

// UserID returns the authenticated user's ID (0 when unauthenticated).
func (c *Context) UserID() uint { return middleware.UserIDFromCtx(c.R) }

// Role returns the authenticated user's role.
func (c *Context) Role() string { return middleware.RoleFromCtx(c.R) }

// Response helpers, delegating to the response package.

func (c *Context) Success(data interface{})  { response.Success(c.W, data) }
func (c *Context) Created(data interface{})  { response.Created(c.W, data) }
func (c *Context) Message(msg string)        { response.Message(c.W, msg) }
func (c *Context) Error(status int, msg string) { response.Error(c.W, status, msg) }
func (c *Context) NotFound(msg string)       { response.NotFound(c.W, msg) }
func (c *Context) Unauthorized(msg string)   { response.Unauthorized(c.W, msg) }
func (c *Context) Forbidden(msg string)      { response.Forbidden(c.W, msg) }

func (c *Context) Paginated(data interface{}, p orm.Pagination) {
	response.Paginated(c.W, data, p)
}

// SetCookie attaches a cookie to the response.
func (c *Context) SetCookie(cookie *http.Cookie) {
	http.SetCookie(c.W, cookie)
}
