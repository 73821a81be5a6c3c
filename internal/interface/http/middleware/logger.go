package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/xiebiao/bookshelf/pkg/tracing"
)

// RequestLogger 请求日志中间件
// 每个请求分配一个request_id,透传到响应头,方便排查问题
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()

		latency := time.Since(start)
		traceID := tracing.ExtractTraceID(c.Request.Context())

		log.Printf("[HTTP] %s %s | status=%d | latency=%v | request_id=%s | trace_id=%s | client=%s",
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			latency,
			requestID,
			traceID,
			c.ClientIP(),
		)
	}
}
