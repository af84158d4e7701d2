package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ingredient-engine/internal/pkg/common"
)

// errCodeBodyTooLarge 請求體過大
const errCodeBodyTooLarge = "REQUEST_TOO_LARGE"

// BodySizeLimit 限制請求體大小；maxSize <= 0 表示不限制
//
// 宣告的 Content-Length 超過上限時直接拒絕，
// 其餘情況由 http.MaxBytesReader 在讀取時截斷。
func BodySizeLimit(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxSize <= 0 {
			c.Next()
			return
		}

		if c.Request.ContentLength > maxSize {
			common.LogWarn("Request body too large",
				zap.Int64("content_length", c.Request.ContentLength),
				zap.Int64("max_size", maxSize),
				zap.String("path", c.Request.URL.Path),
			)
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, common.ErrorResponse{
				Code:    errCodeBodyTooLarge,
				Message: "請求體過大",
				Details: fmt.Sprintf("max %d bytes", maxSize),
			})
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}
