package recipe

import (
	"net/http"
	"strconv"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ingredient-engine/internal/api/middleware"
	recipeService "ingredient-engine/internal/core/recipe"
	"ingredient-engine/internal/pkg/common"
)

// SplitRequest 拆分請求；Parts 為空時依 "and"、"&"、逗號自動拆分
type SplitRequest struct {
	Parts []recipeService.SplitPart `json:"parts"`
}

// Handler 食譜處理程序
type Handler struct {
	recipes *recipeService.Service
}

// NewHandler 創建食譜處理程序
func NewHandler(recipes *recipeService.Service) *Handler {
	return &Handler{recipes: recipes}
}

// HandleList 列出擁有者的食譜
func (h *Handler) HandleList(c *gin.Context) {
	recipes, err := h.recipes.List(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		common.LogError("讀取食譜失敗", zap.Error(err), zap.String("request_id", requestid.Get(c)))
		common.WriteErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// HandleGet 取得單一食譜
func (h *Handler) HandleGet(c *gin.Context) {
	r, err := h.recipes.Get(c.Request.Context(), middleware.OwnerID(c), c.Param("id"))
	if err != nil {
		common.WriteErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// HandleRepair 重算單一食譜的未解析旗標
func (h *Handler) HandleRepair(c *gin.Context) {
	res, err := h.recipes.Repair(c.Request.Context(), middleware.OwnerID(c), c.Param("id"))
	if err != nil {
		common.WriteErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// HandleRepairAll 重算擁有者全部食譜的旗標
func (h *Handler) HandleRepairAll(c *gin.Context) {
	summary, err := h.recipes.RepairAll(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		common.LogError("食譜旗標修復失敗", zap.Error(err), zap.String("request_id", requestid.Get(c)))
		common.WriteErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// HandleSplit 拆分單一食材
func (h *Handler) HandleSplit(c *gin.Context) {
	index, ok := ingredientIndex(c)
	if !ok {
		return
	}

	var req SplitRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			common.WriteBadRequest(c, err.Error())
			return
		}
	}

	r, err := h.recipes.SplitIngredient(c.Request.Context(), middleware.OwnerID(c), c.Param("id"), index, req.Parts)
	if err != nil {
		common.WriteErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// HandleUpdateIngredient 手動修改單一食材
func (h *Handler) HandleUpdateIngredient(c *gin.Context) {
	index, ok := ingredientIndex(c)
	if !ok {
		return
	}

	var edit recipeService.IngredientEdit
	if err := c.ShouldBindJSON(&edit); err != nil {
		common.WriteBadRequest(c, err.Error())
		return
	}

	r, err := h.recipes.UpdateIngredient(c.Request.Context(), middleware.OwnerID(c), c.Param("id"), index, edit)
	if err != nil {
		common.WriteErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func ingredientIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		common.WriteBadRequest(c, "ingredient index must be an integer")
		return 0, false
	}
	return index, true
}
