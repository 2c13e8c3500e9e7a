package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	HeaderRequestID = "X-Request-ID"

	ctxKeyLogger = "logger"
)

// RequestID tags every request with an id, reusing the caller's one when
// present, and stores a logger carrying it in the gin context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(HeaderRequestID, id)

		entry := logrus.WithFields(logrus.Fields{
			"request_id": id,
			"method":     c.Request.Method,
			"path":       c.FullPath(),
		})
		c.Set(ctxKeyLogger, entry)
		c.Next()
	}
}

// Logger returns the request's logger, or the standard logger outside RequestID.
func Logger(c *gin.Context) *logrus.Entry {
	if v, ok := c.Get(ctxKeyLogger); ok {
		if entry, ok := v.(*logrus.Entry); ok {
			return entry
		}
	}
	return logrus.NewEntry(logrus.StandardLogger())
}
