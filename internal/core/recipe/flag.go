// Package recipe 食譜食材清單的維護：旗標重算、拆分、編輯
package recipe

import (
	"ingredient-engine/internal/pkg/common"
)

// HasUnparsed 任一食材未匹配時為 true
func HasUnparsed(ingredients []common.ParsedIngredient) bool {
	for _, ing := range ingredients {
		if !ing.Parsed {
			return true
		}
	}
	return false
}

// RecomputeFlag 依食材清單重算 HasUnparsedIngredients，回傳是否有變動
func RecomputeFlag(r *common.Recipe) bool {
	want := HasUnparsed(r.Ingredients)
	if r.HasUnparsedIngredients == want {
		return false
	}
	r.HasUnparsedIngredients = want
	return true
}

// FullyParsed 每個食材都已匹配或帶有已知食材 ID
func FullyParsed(ingredients []common.ParsedIngredient) bool {
	for _, ing := range ingredients {
		if !ing.Parsed && ing.KnownIngredientID == "" {
			return false
		}
	}
	return true
}
