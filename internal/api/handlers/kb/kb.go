package kb

import (
	"context"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	corekb "ingredient-engine/internal/core/kb"
	"ingredient-engine/internal/pkg/common"
)

// KnowledgeBase 處理程序所需的知識庫操作
type KnowledgeBase interface {
	Current() *corekb.Snapshot
	Reload(ctx context.Context) (*corekb.Snapshot, error)
	FindOrCreateIngredient(ctx context.Context, name string) (common.KnownIngredient, bool, error)
}

// SnapshotResponse 知識庫內容
type SnapshotResponse struct {
	Version     int64                    `json:"version"`
	Ingredients []common.KnownIngredient `json:"ingredients"`
	Units       []common.KnownUnit       `json:"units"`
	Modifiers   []common.KnownModifier   `json:"modifiers"`
}

// ConflictsResponse 別名衝突
type ConflictsResponse struct {
	Version   int64                  `json:"version"`
	Conflicts []corekb.AliasConflict `json:"conflicts"`
}

// CreateIngredientRequest 找不到時建立食材
type CreateIngredientRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateIngredientResponse 建立結果
type CreateIngredientResponse struct {
	Ingredient common.KnownIngredient `json:"ingredient"`
	Created    bool                   `json:"created"`
	Version    int64                  `json:"version"`
}

// Handler 知識庫處理程序
type Handler struct {
	kb KnowledgeBase
}

// NewHandler 創建知識庫處理程序
func NewHandler(kb KnowledgeBase) *Handler {
	return &Handler{kb: kb}
}

// HandleGet 回傳目前快照
func (h *Handler) HandleGet(c *gin.Context) {
	snap := h.kb.Current()
	c.JSON(http.StatusOK, SnapshotResponse{
		Version:     snap.Version(),
		Ingredients: snap.Ingredients(),
		Units:       snap.Units(),
		Modifiers:   snap.Modifiers(),
	})
}

// HandleConflicts 回傳建立快照時偵測到的別名衝突
func (h *Handler) HandleConflicts(c *gin.Context) {
	snap := h.kb.Current()
	conflicts := snap.Conflicts()
	if conflicts == nil {
		conflicts = []corekb.AliasConflict{}
	}
	c.JSON(http.StatusOK, ConflictsResponse{Version: snap.Version(), Conflicts: conflicts})
}

// HandleFindOrCreate 比對不到時以首字大寫名稱建立
func (h *Handler) HandleFindOrCreate(c *gin.Context) {
	var req CreateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.WriteBadRequest(c, err.Error())
		return
	}

	ing, created, err := h.kb.FindOrCreateIngredient(c.Request.Context(), req.Name)
	if err != nil {
		common.LogError("建立食材失敗", zap.Error(err), zap.String("request_id", requestid.Get(c)))
		common.WriteErrorResponse(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, CreateIngredientResponse{
		Ingredient: ing,
		Created:    created,
		Version:    h.kb.Current().Version(),
	})
}

// HandleReload 重新從儲存層載入
func (h *Handler) HandleReload(c *gin.Context) {
	snap, err := h.kb.Reload(c.Request.Context())
	if err != nil {
		common.WriteErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"version":     snap.Version(),
		"ingredients": len(snap.Ingredients()),
		"units":       len(snap.Units()),
		"modifiers":   len(snap.Modifiers()),
		"conflicts":   len(snap.Conflicts()),
	})
}
