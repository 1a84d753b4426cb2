package middleware

import (
	"reflect"

	"github.com/gin-gonic/gin"

	"gadget-server/internal/schemas"
	"gadget-server/internal/utils"
)

// ValidateAndSanitizeStruct binds the request into a fresh value of obj's type,
// sanitizes and validates it and stores it under SanitizedPayloadKey.
func ValidateAndSanitizeStruct(obj interface{}) gin.HandlerFunc {
	objType := reflect.TypeOf(obj)
	if objType.Kind() == reflect.Ptr {
		objType = objType.Elem()
	}

	return func(c *gin.Context) {
		payload := reflect.New(objType).Interface()

		if err := c.ShouldBind(payload); err != nil {
			utils.WriteAndLogError(c, schemas.BadRequest, err)
			return
		}

		validator := utils.GetValidator()
		if err := validator.SanitizeData(payload); err != nil {
			utils.WriteAndLogError(c, schemas.BadRequest, err)
			return
		}

		if err := validator.Validate.Struct(payload); err != nil {
			utils.WriteAndLogError(c, utils.ValidationError(err), err)
			return
		}

		c.Set(utils.SanitizedPayloadKey.String(), payload)
		c.Next()
	}
}

// Payload returns the request body stored by ValidateAndSanitizeStruct.
func Payload[T any](c *gin.Context) *T {
	payload, _ := c.Value(utils.SanitizedPayloadKey.String()).(*T)
	return payload
}
