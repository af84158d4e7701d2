package kb

import (
	"github.com/agnivade/levenshtein"

	"ingredient-engine/internal/pkg/common"
)

// SuggestThreshold 低於此相似度不提供建議
const SuggestThreshold = 0.7

// similarity returns a 0.0–1.0 score: 1.0 - distance/max(len(a), len(b)).
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := len([]rune(a))
	if lb := len([]rune(b)); lb > maxLen {
		maxLen = lb
	}
	if maxLen == 0 {
		return 1.0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(maxLen)
}

// Suggest 找出名稱或別名最接近的已知食材，只用於報告中的提示文字
func (s *Snapshot) Suggest(text string) (common.KnownIngredient, float64, bool) {
	k := Key(text)
	if k == "" {
		return common.KnownIngredient{}, 0, false
	}

	best := -1
	bestScore := -1.0
	for i, ing := range s.ingredients {
		score := similarity(k, Key(ing.Name))
		for _, alias := range ing.Aliases {
			if sc := similarity(k, alias); sc > score {
				score = sc
			}
		}
		if score > bestScore {
			bestScore = score
			best = i
		}
	}

	if best < 0 || bestScore < SuggestThreshold {
		return common.KnownIngredient{}, bestScore, false
	}
	return s.ingredients[best], bestScore, true
}
