package apperr

import (
	"errors"

	"github.com/gin-gonic/gin"
)

type errorDTO struct {
	Error struct {
		Code    Code   `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// JSON writes err as the standard error body with its mapped status.
func JSON(c *gin.Context, err error) {
	var e errorDTO
	e.Error.Code = CodeOf(err)
	e.Error.Message = err.Error()
	var api *APIError
	if errors.As(err, &api) {
		e.Error.Message = api.Message
	}
	c.JSON(ToHTTPStatus(err), e)
}
