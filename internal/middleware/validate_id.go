package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"gadget-server/internal/schemas"
	"gadget-server/internal/utils"
)

// ValidateID rejects requests whose :id parameter is not an identifier of the database backend.
func ValidateID(validID func(string) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param(utils.IdParamKey)
		if !validID(id) {
			utils.WriteAndLogError(c, schemas.InvalidID, errors.New("invalid id "+id))
			return
		}
		c.Next()
	}
}
