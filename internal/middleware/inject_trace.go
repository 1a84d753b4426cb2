package middleware

import (
	"github.com/gin-gonic/gin"

	"gadget-server/internal/utils"
)

// InjectTrace tags the request with a fresh trace id, echoed in the X-Trace-Id header.
func InjectTrace() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceId := utils.GenerateTraceId()
		c.Set(utils.TraceIdKey.String(), traceId)
		c.Header("X-Trace-Id", traceId)
		c.Next()
	}
}
