// Package importer 批次匯入食譜並決定新增、更新、略過或失敗
package importer

import (
	"encoding/json"
	"strings"
)

// State 單一食譜在匯入過程中的狀態
type State string

const (
	StateNew                State = "NEW"
	StateDuplicateInBatch   State = "DUPLICATE_IN_BATCH"
	StateExistsFullyParsed  State = "EXISTS_FULLY_PARSED"
	StateExistsWithUnparsed State = "EXISTS_WITH_UNPARSED"
	StateCreate             State = "CREATE"
	StateUpdate             State = "UPDATE"
	StateFailed             State = "FAILED"
)

// 略過原因
const (
	ReasonDuplicateInBatch = "Duplicate in import batch"
	ReasonAlreadyParsed    = "Recipe already exists and is fully parsed"
)

// IngredientLine 匯入的一行食材，可帶區段名稱
type IngredientLine struct {
	Text    string `json:"text"`
	Section string `json:"section,omitempty"`
}

// UnmarshalJSON 接受字串或 {text, section}
func (l *IngredientLine) UnmarshalJSON(data []byte) error {
	if strings.HasPrefix(strings.TrimSpace(string(data)), `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = IngredientLine{Text: s}
		return nil
	}
	type plain IngredientLine
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*l = IngredientLine(p)
	return nil
}

// RecipeInput 匯入來源（其他食譜管理程式匯出、網頁擷取）的一份食譜
type RecipeInput struct {
	Name         string           `json:"name"`
	Description  string           `json:"description,omitempty"`
	SourceURL    string           `json:"source_url,omitempty"`
	Servings     string           `json:"servings,omitempty"`
	Ingredients  []IngredientLine `json:"ingredients"`
	Instructions []string         `json:"instructions"`
}

// Outcome 單一食譜的處理結果，Path 記錄經過的狀態
type Outcome struct {
	Name     string  `json:"name"`
	State    State   `json:"state"`
	Path     []State `json:"path"`
	RecipeID string  `json:"recipe_id,omitempty"`
	Reason   string  `json:"reason,omitempty"`
}

// SkippedRecipe 被略過的食譜
type SkippedRecipe struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// FailedRecipe 處理失敗的食譜
type FailedRecipe struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// IngredientIssue 未能匹配的食材與解析器的猜測
type IngredientIssue struct {
	OriginalText string `json:"original_text"`
	Ingredient   string `json:"ingredient,omitempty"`
	Quantity     string `json:"quantity,omitempty"`
	Unit         string `json:"unit,omitempty"`
	Reason       string `json:"reason"`
}

// ParsingIssues 需要人工檢查的食譜
type ParsingIssues struct {
	RecipeID    string            `json:"recipe_id"`
	Name        string            `json:"name"`
	Ingredients []IngredientIssue `json:"ingredients"`
}

// Report 批次匯入報告
type Report struct {
	Created                  int             `json:"created"`
	Updated                  int             `json:"updated"`
	Skipped                  []SkippedRecipe `json:"skipped"`
	Failed                   []FailedRecipe  `json:"failed"`
	RecipesWithParsingIssues []ParsingIssues `json:"recipes_with_parsing_issues"`
	Outcomes                 []Outcome       `json:"outcomes"`
}

func newReport() Report {
	return Report{
		Skipped:                  []SkippedRecipe{},
		Failed:                   []FailedRecipe{},
		RecipesWithParsingIssues: []ParsingIssues{},
		Outcomes:                 []Outcome{},
	}
}
