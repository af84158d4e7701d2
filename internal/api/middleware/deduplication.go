package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ingredient-engine/internal/pkg/common"
)

// errDuplicateRequest 時間窗內重複送出
var errDuplicateRequest = common.ErrTooManyRequests.Wrap(errors.New("duplicate request"))

// dedupCache 請求指紋與最後出現時間
type dedupCache struct {
	sync.Mutex
	requests  map[string]time.Time
	lastSweep time.Time
}

// sweep 清除超過 10 個時間窗的舊指紋
func (d *dedupCache) sweep(now time.Time, window time.Duration) {
	if now.Sub(d.lastSweep) < 10*window {
		return
	}
	for k, t := range d.requests {
		if now.Sub(t) > 10*window {
			delete(d.requests, k)
		}
	}
	d.lastSweep = now
}

// claim 指紋在時間窗內未出現過時記錄並回傳 true
func (d *dedupCache) claim(fingerprint string, now time.Time, window time.Duration) bool {
	d.Lock()
	defer d.Unlock()
	d.sweep(now, window)
	if last, ok := d.requests[fingerprint]; ok && now.Sub(last) <= window {
		return false
	}
	d.requests[fingerprint] = now
	return true
}

// release 處理失敗的請求不佔用時間窗，讓用戶端可以立即重試
func (d *dedupCache) release(fingerprint string, claimedAt time.Time) {
	d.Lock()
	defer d.Unlock()
	if t, ok := d.requests[fingerprint]; ok && t.Equal(claimedAt) {
		delete(d.requests, fingerprint)
	}
}

// Deduplication 去重中間件：同一擁有者在時間窗內重複送出相同的 POST 會被拒絕
//
// 指紋在處理前先佔用，避免並行的重複送出同時通過；回應不是 2xx 時釋放。
func Deduplication(window time.Duration) gin.HandlerFunc {
	if window <= 0 {
		window = 1 * time.Second
	}
	cache := &dedupCache{requests: make(map[string]time.Time)}

	return func(c *gin.Context) {
		// 只處理 POST 請求
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		// 計算請求體哈希
		bodyHash := ""
		if c.Request.Body != nil {
			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				common.LogError("Failed to read request body", zap.Error(err))
				common.WriteErrorResponse(c, common.ErrInvalidRequest.Wrap(err))
				c.Abort()
				return
			}
			hash := sha256.Sum256(body)
			bodyHash = hex.EncodeToString(hash[:])

			// 恢復請求體
			c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
		}

		// 生成請求指紋
		fingerprint := c.GetString(ownerKey) + ":" + c.Request.Method + ":" + c.Request.URL.Path
		if bodyHash != "" {
			fingerprint += ":" + bodyHash
		}

		now := time.Now()
		if !cache.claim(fingerprint, now, window) {
			common.LogWarn("Duplicate request rejected",
				zap.String("path", c.Request.URL.Path),
				zap.String("owner_id", c.GetString(ownerKey)),
			)
			common.WriteErrorResponse(c, errDuplicateRequest)
			c.Abort()
			return
		}

		c.Next()

		if status := c.Writer.Status(); status < 200 || status >= 300 {
			cache.release(fingerprint, now)
		}
	}
}
