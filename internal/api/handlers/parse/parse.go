package parse

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ingredient-engine/internal/core/parser"
	"ingredient-engine/internal/pkg/common"
)

// maxBatchLines 單次批次解析的行數上限
const maxBatchLines = 500

// ParseRequest 單行解析請求
type ParseRequest struct {
	Text string `json:"text"`
}

// BatchRequest 批次解析請求
type BatchRequest struct {
	Lines []string `json:"lines" binding:"required"`
}

// BatchResponse 批次解析結果，順序與輸入一致
type BatchResponse struct {
	Items    []common.ParsedIngredient `json:"items"`
	Parsed   int                       `json:"parsed"`
	Unparsed int                       `json:"unparsed"`
}

// Handler 解析處理程序
type Handler struct {
	parser parser.Parser
}

// NewHandler 創建解析處理程序
func NewHandler(p parser.Parser) *Handler {
	return &Handler{parser: p}
}

// HandleParse 解析單行食材
func (h *Handler) HandleParse(c *gin.Context) {
	var req ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效", zap.Error(err), zap.String("request_id", requestid.Get(c)))
		common.WriteBadRequest(c, err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		common.WriteBadRequest(c, "text is required")
		return
	}

	c.JSON(http.StatusOK, h.parser.Parse(c.Request.Context(), req.Text))
}

// HandleBatch 依序解析多行，遠端解析器會依其間隔限速
func (h *Handler) HandleBatch(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效", zap.Error(err), zap.String("request_id", requestid.Get(c)))
		common.WriteBadRequest(c, err.Error())
		return
	}
	if len(req.Lines) > maxBatchLines {
		common.WriteBadRequest(c, "too many lines")
		return
	}

	items := parser.ParseMany(c.Request.Context(), h.parser, req.Lines)
	resp := BatchResponse{Items: items}
	for _, it := range items {
		if it.Parsed {
			resp.Parsed++
		} else {
			resp.Unparsed++
		}
	}

	common.LogInfo("批次解析完成",
		zap.String("request_id", requestid.Get(c)),
		zap.Int("lines", len(items)),
		zap.Int("unparsed", resp.Unparsed),
	)
	c.JSON(http.StatusOK, resp)
}
