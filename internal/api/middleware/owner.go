package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// OwnerHeader 擁有者識別標頭；驗證不在此服務範圍內
	OwnerHeader  = "X-Owner-ID"
	DefaultOwner = "default"

	ownerKey = "owner_id"
)

// Owner 從標頭取得擁有者，未提供時使用預設值
func Owner() gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := strings.TrimSpace(c.GetHeader(OwnerHeader))
		if owner == "" {
			owner = DefaultOwner
		}
		c.Set(ownerKey, owner)
		c.Next()
	}
}

// OwnerID 目前請求的擁有者
func OwnerID(c *gin.Context) string {
	if owner := c.GetString(ownerKey); owner != "" {
		return owner
	}
	return DefaultOwner
}
