package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderSessionID 购物会话标识
const HeaderSessionID = "X-Session-ID"

const sessionIDKey = "session_id"

// GinSessionMiddleware 读取 X-Session-ID，缺失时生成新的会话 ID 并在响应头中返回
func GinSessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderSessionID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(sessionIDKey, id)
		c.Header(HeaderSessionID, id)
		c.Next()
	}
}

// SessionID 返回当前请求的会话 ID
func SessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}
