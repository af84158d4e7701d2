package health

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ingredient-engine/internal/core/kb"
	"ingredient-engine/internal/infrastructure/config"
	"ingredient-engine/internal/pkg/common"
)

// readyTimeout 就緒檢查的儲存層探測上限
const readyTimeout = 2 * time.Second

// Pinger 可探測連線狀態的依賴
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Parser    string                 `json:"parser"`
	KBVersion int64                  `json:"kb_version"`
	Runtime   map[string]interface{} `json:"runtime"`
}

// Handler 健康檢查處理程序
type Handler struct {
	cfg   *config.Config
	store Pinger
	kb    kb.Source
}

// NewHandler 創建健康檢查處理程序
func NewHandler(cfg *config.Config, store Pinger, src kb.Source) *Handler {
	return &Handler{cfg: cfg, store: store, kb: src}
}

// HealthCheck 健康檢查處理器
func (h *Handler) HealthCheck(c *gin.Context) {
	// 獲取運行時信息
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.cfg.App.Version,
		Parser:    h.cfg.Parser.Mode,
		KBVersion: h.kb.Current().Version(),
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 儲存層可連線且知識庫已載入才算就緒
func (h *Handler) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		common.LogWarn("儲存層無法連線", zap.Error(err))
		common.WriteErrorResponse(c, common.ErrServiceUnavailable.Wrap(fmt.Errorf("storage unavailable: %w", err)))
		return
	}
	if h.kb.Current().Version() == 0 {
		common.WriteErrorResponse(c, common.ErrServiceUnavailable.Wrap(errors.New("knowledge base not loaded")))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查處理器
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
