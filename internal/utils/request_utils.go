package utils

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"gadget-server/internal/schemas"
)

// WriteAndLogResponse writes the response object as JSON with the provided status code.
func WriteAndLogResponse(c *gin.Context, response interface{}, statusCode int) {
	LogMessageWithFields(c, "info", "Returning response")
	c.JSON(statusCode, response)
}

// WriteAndLogError logs the provided error and sends the custom error with its status code.
// Outside release mode the response carries the stack of err.
func WriteAndLogError(c *gin.Context, customErr *schemas.CustomError, err error) {
	if err == nil {
		err = customErr
	}
	LogMessageWithFields(c, "error", "Error occurred: "+err.Error())
	LogMessageWithFields(c, "error", "Returning "+customErr.Code+" / "+customErr.Message)

	errorDto := &schemas.ErrorDTO{
		Message: customErr.Message,
		Code:    customErr.Code,
	}
	if gin.Mode() != gin.ReleaseMode {
		errorDto.Stack = fmt.Sprintf("%+v", err)
	}
	c.AbortWithStatusJSON(customErr.HttpStatus, errorDto)
}
