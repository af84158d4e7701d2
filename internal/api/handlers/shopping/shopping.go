package shopping

import (
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ingredient-engine/internal/api/middleware"
	shoppingService "ingredient-engine/internal/core/shopping"
	"ingredient-engine/internal/pkg/common"
)

// CreateRequest 以食譜建立購物清單
type CreateRequest struct {
	Name      string   `json:"name" binding:"required"`
	RecipeIDs []string `json:"recipe_ids" binding:"required"`
}

// AppendRequest 追加食譜到購物清單
type AppendRequest struct {
	RecipeIDs []string `json:"recipe_ids" binding:"required"`
}

// AppendResponse 追加後的清單與變動項目
type AppendResponse struct {
	List    common.ShoppingList          `json:"list"`
	Changes shoppingService.AppendResult `json:"changes"`
}

// Handler 購物清單處理程序
type Handler struct {
	lists *shoppingService.Service
}

// NewHandler 創建購物清單處理程序
func NewHandler(lists *shoppingService.Service) *Handler {
	return &Handler{lists: lists}
}

// HandleCreate 建立購物清單
func (h *Handler) HandleCreate(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.WriteBadRequest(c, err.Error())
		return
	}

	list, err := h.lists.CreateFromRecipes(c.Request.Context(), middleware.OwnerID(c), req.Name, req.RecipeIDs)
	if err != nil {
		common.LogWarn("建立購物清單失敗", zap.Error(err), zap.String("request_id", requestid.Get(c)))
		common.WriteErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, list)
}

// HandleGet 取得購物清單
func (h *Handler) HandleGet(c *gin.Context) {
	list, err := h.lists.Get(c.Request.Context(), middleware.OwnerID(c), c.Param("id"))
	if err != nil {
		common.WriteErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// HandleAppend 將食譜併入既有清單
func (h *Handler) HandleAppend(c *gin.Context) {
	var req AppendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.WriteBadRequest(c, err.Error())
		return
	}

	list, changes, err := h.lists.AppendRecipes(c.Request.Context(), middleware.OwnerID(c), c.Param("id"), req.RecipeIDs)
	if err != nil {
		common.LogWarn("追加食譜失敗", zap.Error(err), zap.String("request_id", requestid.Get(c)))
		common.WriteErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, AppendResponse{List: list, Changes: changes})
}

// HandleUpdateItem 勾選或編輯項目
func (h *Handler) HandleUpdateItem(c *gin.Context) {
	var patch shoppingService.ItemPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		common.WriteBadRequest(c, err.Error())
		return
	}

	item, err := h.lists.UpdateItem(c.Request.Context(), middleware.OwnerID(c), c.Param("id"), c.Param("itemId"), patch)
	if err != nil {
		common.WriteErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// HandleDeleteItem 刪除項目
func (h *Handler) HandleDeleteItem(c *gin.Context) {
	if err := h.lists.DeleteItem(c.Request.Context(), middleware.OwnerID(c), c.Param("id"), c.Param("itemId")); err != nil {
		common.WriteErrorResponse(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
