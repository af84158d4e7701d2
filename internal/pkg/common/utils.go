package common

import (
	"net/http"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// WriteErrorResponse 依錯誤類型寫入錯誤響應
func WriteErrorResponse(c *gin.Context, err error) {
	status, code, message := StatusOf(err)
	resp := ErrorResponse{Code: code, Message: message}
	if gin.Mode() == gin.DebugMode && err != nil && err.Error() != message {
		resp.Details = err.Error()
	}
	c.JSON(status, resp)
}

// WriteBadRequest 寫入 400 響應
func WriteBadRequest(c *gin.Context, details string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    ErrCodeInvalidRequest,
		Message: ErrInvalidRequest.Message,
		Details: details,
	})
}

// CollapseSpaces 合併連續空白並去除頭尾空白
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Capitalize 首字母大寫
func Capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// AppendNote 以 "; " 附加備註，逐段比對，完全相同的片段不重複加入
func AppendNote(existing, extra string) string {
	var parts []string
	seen := make(map[string]struct{})
	for _, note := range []string{existing, extra} {
		for _, part := range strings.Split(note, "; ") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if _, ok := seen[part]; ok {
				continue
			}
			seen[part] = struct{}{}
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, "; ")
}
