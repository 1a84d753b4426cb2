package middleware

import (
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"gadget-server/internal/utils"
)

func LogRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceId := c.GetString(utils.TraceIdKey.String())
		service := utils.ExtractServiceName()
		message := "Request received: " + c.Request.Method + " " + c.Request.URL.Path
		entry := log.WithFields(log.Fields{
			"traceId":  traceId,
			"service":  service,
			"clientIp": c.ClientIP(),
		})
		utils.LogEntry(entry, "info", message)
		c.Next()
	}
}
