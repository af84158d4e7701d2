package recipe

import (
	"fmt"
	"regexp"
	"strings"

	"ingredient-engine/internal/core/kb"
	"ingredient-engine/internal/pkg/common"
)

// SplitPart 拆分後的一個項目；IngredientID 為空時預設為未匹配
type SplitPart struct {
	Name         string `json:"name"`
	IngredientID string `json:"ingredient_id,omitempty"`
}

// IngredientEdit 單一食材的手動修改，nil 欄位不變
//
// Text 不為空時整行重新解析；其餘欄位套用在解析結果之上。
type IngredientEdit struct {
	Text         *string          `json:"text"`
	IngredientID *string          `json:"ingredient_id"`
	Name         *string          `json:"name"`
	Quantity     *common.Quantity `json:"quantity"`
	UnitText     *string          `json:"unit_text"`
	Note         *string          `json:"note"`
}

var splitPattern = regexp.MustCompile(`(?i)\s*(?:,|&|\band\b|\bor\b)\s*`)

// SplitName 預設拆分方式："salt and pepper" => ["salt", "pepper"]
func SplitName(name string) []string {
	var parts []string
	for _, p := range splitPattern.Split(name, -1) {
		if p = common.CollapseSpaces(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// Split 以 parts 取代 index 位置的食材，回傳新清單
//
// 新項目都帶原始 RawLine 與 Section；只有指定且存在於知識庫的 IngredientID 才視為已匹配。
func Split(snap *kb.Snapshot, ingredients []common.ParsedIngredient, index int, parts []SplitPart) ([]common.ParsedIngredient, error) {
	if index < 0 || index >= len(ingredients) {
		return nil, common.ErrIndexOutOfRange
	}
	src := ingredients[index]

	if len(parts) == 0 {
		text := src.Name
		if text == "" {
			text = src.OriginalText
		}
		for _, name := range SplitName(text) {
			parts = append(parts, SplitPart{Name: name})
		}
	}
	if len(parts) < 2 {
		return nil, common.NewValidationError("split needs at least two parts")
	}

	rawLine := src.RawLine
	if rawLine == "" {
		rawLine = src.OriginalText
	}

	created := make([]common.ParsedIngredient, 0, len(parts))
	for _, part := range parts {
		name := common.CollapseSpaces(part.Name)
		if name == "" {
			return nil, common.NewValidationError("split part name cannot be empty")
		}
		ing := common.ParsedIngredient{
			OriginalText:   name,
			IngredientText: name,
			Name:           name,
			ModifierTexts:  []string{},
			RawLine:        rawLine,
			Section:        src.Section,
		}
		if part.IngredientID != "" {
			known := lookup(snap, part.IngredientID)
			if known == nil {
				return nil, fmt.Errorf("known ingredient %s: %w", part.IngredientID, common.ErrNotFound)
			}
			ing.SetIngredient(known)
		}
		created = append(created, ing)
	}

	out := make([]common.ParsedIngredient, 0, len(ingredients)+len(created)-1)
	out = append(out, ingredients[:index]...)
	out = append(out, created...)
	out = append(out, ingredients[index+1:]...)
	return out, nil
}

// ApplyEdit 套用手動修改；reparsed 為 Text 重新解析後的結果
func ApplyEdit(snap *kb.Snapshot, current common.ParsedIngredient, reparsed *common.ParsedIngredient, edit IngredientEdit) (common.ParsedIngredient, error) {
	ing := current
	if reparsed != nil {
		ing = *reparsed
		ing.Section = current.Section
		if current.RawLine != "" {
			ing.RawLine = current.RawLine
		}
	}

	if edit.Name != nil {
		name := common.CollapseSpaces(*edit.Name)
		if name == "" {
			return common.ParsedIngredient{}, common.NewValidationError("ingredient name cannot be empty")
		}
		ing.Name = name
	}
	if edit.Quantity != nil {
		ing.Quantity = *edit.Quantity
	}
	if edit.UnitText != nil {
		ing.UnitText = strings.TrimSpace(*edit.UnitText)
		ing.Unit = nil
		if snap != nil && ing.UnitText != "" {
			ing.Unit = snap.MatchUnit(ing.UnitText)
		}
	}
	if edit.Note != nil {
		ing.Note = strings.TrimSpace(*edit.Note)
	}
	if edit.IngredientID != nil {
		if *edit.IngredientID == "" {
			ing.SetIngredient(nil)
		} else {
			known := lookup(snap, *edit.IngredientID)
			if known == nil {
				return common.ParsedIngredient{}, fmt.Errorf("known ingredient %s: %w", *edit.IngredientID, common.ErrNotFound)
			}
			ing.SetIngredient(known)
		}
	}
	return ing, nil
}

func lookup(snap *kb.Snapshot, id string) *common.KnownIngredient {
	if snap == nil {
		return nil
	}
	return snap.IngredientByID(id)
}
