package imports

import (
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ingredient-engine/internal/api/middleware"
	"ingredient-engine/internal/core/importer"
	"ingredient-engine/internal/pkg/common"
)

// maxBatchRecipes 單次匯入的食譜數上限
const maxBatchRecipes = 200

// ImportRequest 批次匯入請求
type ImportRequest struct {
	Recipes []importer.RecipeInput `json:"recipes" binding:"required"`
}

// Handler 匯入處理程序
type Handler struct {
	reconciler *importer.Reconciler
}

// NewHandler 創建匯入處理程序
func NewHandler(r *importer.Reconciler) *Handler {
	return &Handler{reconciler: r}
}

// HandleImport 批次匯入；單一食譜失敗不影響其餘食譜，結果都在報告中
func (h *Handler) HandleImport(c *gin.Context) {
	requestID := requestid.Get(c)

	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效", zap.Error(err), zap.String("request_id", requestID))
		common.WriteBadRequest(c, err.Error())
		return
	}
	if len(req.Recipes) == 0 {
		common.WriteBadRequest(c, "recipes must not be empty")
		return
	}
	if len(req.Recipes) > maxBatchRecipes {
		common.WriteBadRequest(c, "too many recipes")
		return
	}

	owner := middleware.OwnerID(c)
	common.LogInfo("開始處理匯入請求",
		zap.String("request_id", requestID),
		zap.String("owner_id", owner),
		zap.Int("recipes", len(req.Recipes)),
	)

	report := h.reconciler.Reconcile(c.Request.Context(), owner, req.Recipes)
	c.JSON(http.StatusOK, report)
}
