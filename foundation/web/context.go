package web

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// Context is the per request value handed to every Handler.
type Context struct {
	*gin.Context
	Ctx context.Context

	queryErrs []string
	paramErrs []string
}

// Respond sends data as JSON.
func (c *Context) Respond(data interface{}, status int) error {
	if status == http.StatusNoContent {
		c.Status(status)
		return nil
	}

	c.JSON(status, data)
	return nil
}

// RespondError sends err to the client and hands it back to the App for logging.
func (c *Context) RespondError(err error) error {
	status := StatusOf(err)

	body := map[string]interface{}{
		"error":  err.Error(),
		"status": false,
	}

	var webErr *Error
	if errors.As(err, &webErr) && len(webErr.Fields) > 0 {
		body["fields"] = webErr.Fields
	}

	c.JSON(status, body)
	return err
}

// BindFunc binds the request body (json or form) into dst and checks that
// the listed fields are set.
func (c *Context) BindFunc(dst interface{}, requiredFields ...string) error {
	if err := c.ShouldBind(dst); err != nil {
		return NewRequestError(errors.Wrap(err, "binding request"), http.StatusBadRequest)
	}

	return ValidateStruct(dst, requiredFields...)
}

// GetQueryFunc parses an optional query parameter. It returns a pointer of
// the requested kind, or nil when the parameter is absent or malformed. Parse
// failures are reported by ValidQuery.
func (c *Context) GetQueryFunc(kind reflect.Kind, key string) interface{} {
	raw, ok := c.GetQuery(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}

	switch kind {
	case reflect.Int:
		v, err := strconv.Atoi(raw)
		if err != nil {
			c.queryErrs = append(c.queryErrs, fmt.Sprintf("%s: must be an integer", key))
			return nil
		}
		return &v
	case reflect.Float64:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.queryErrs = append(c.queryErrs, fmt.Sprintf("%s: must be a number", key))
			return nil
		}
		return &v
	case reflect.Bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			c.queryErrs = append(c.queryErrs, fmt.Sprintf("%s: must be a boolean", key))
			return nil
		}
		return &v
	case reflect.String:
		return &raw
	}

	c.queryErrs = append(c.queryErrs, fmt.Sprintf("%s: unsupported kind %s", key, kind))
	return nil
}

// ValidQuery reports the failures collected by GetQueryFunc.
func (c *Context) ValidQuery() error {
	if len(c.queryErrs) == 0 {
		return nil
	}
	return NewRequestError(errors.New("invalid query: "+strings.Join(c.queryErrs, ", ")), http.StatusBadRequest)
}

// GetParam parses a path parameter. It always returns a value of the
// requested kind; failures are reported by ValidParam.
func (c *Context) GetParam(kind reflect.Kind, key string) interface{} {
	raw := c.Param(key)

	switch kind {
	case reflect.Int:
		v, err := strconv.Atoi(raw)
		if err != nil {
			c.paramErrs = append(c.paramErrs, fmt.Sprintf("%s: must be an integer", key))
		}
		return v
	case reflect.String:
		if raw == "" {
			c.paramErrs = append(c.paramErrs, fmt.Sprintf("%s: required", key))
		}
		return raw
	}

	c.paramErrs = append(c.paramErrs, fmt.Sprintf("%s: unsupported kind %s", key, kind))
	return nil
}

// ValidParam reports the failures collected by GetParam.
func (c *Context) ValidParam() error {
	if len(c.paramErrs) == 0 {
		return nil
	}
	return NewRequestError(errors.New("invalid param: "+strings.Join(c.paramErrs, ", ")), http.StatusBadRequest)
}
