package parser

import (
	"strings"

	"ingredient-engine/internal/core/kb"
	"ingredient-engine/internal/pkg/common"
)

// maxModifierWords 修飾詞最長比對字數
const maxModifierWords = 3

// Resolve 以知識庫快照補齊切分結果
//
// 完整名稱已知時不剝除修飾詞；否則剝除可辨識的修飾詞，
// 並把整段都是修飾詞的備註片段移回 ModifierTexts。
func Resolve(snap *kb.Snapshot, t Tokens) common.ParsedIngredient {
	p := common.ParsedIngredient{
		OriginalText:  t.Original,
		RawLine:       t.Original,
		Quantity:      t.Quantity,
		UnitText:      t.UnitText,
		Note:          t.Note,
		ModifierTexts: append([]string{}, t.Modifiers...),
	}

	trimmed := strings.TrimSpace(t.Original)
	if trimmed == "" {
		return p
	}

	if p.UnitText != "" {
		p.Unit = snap.MatchUnit(strings.TrimSuffix(p.UnitText, "."))
	}

	name := t.Name
	p.IngredientText = name
	if name == "" {
		p.Name = trimmed
		return p
	}

	if ing := snap.MatchIngredient(name); ing != nil {
		p.Name = name
		p.SetIngredient(ing)
		p.Note = recoverNoteModifiers(snap, &p)
		return p
	}

	cleaned, mods := peelModifiers(snap, name)
	p.ModifierTexts = append(p.ModifierTexts, mods...)
	p.Note = recoverNoteModifiers(snap, &p)
	p.Name = cleaned

	ing := snap.MatchIngredient(cleaned)
	if ing == nil {
		if singular := Singularize(cleaned); singular != cleaned {
			ing = snap.MatchIngredient(singular)
		}
	}
	p.SetIngredient(ing)
	return p
}

// peelModifiers 貪婪比對最多三個字的修飾詞；名稱不會被剝成空字串
func peelModifiers(snap *kb.Snapshot, name string) (string, []string) {
	words := strings.Fields(name)
	var kept, mods []string

	for i := 0; i < len(words); {
		matched := 0
		for n := maxModifierWords; n >= 1; n-- {
			if i+n > len(words) {
				continue
			}
			phrase := strings.Join(words[i:i+n], " ")
			if snap.IsModifier(strings.Trim(phrase, ",.;")) {
				mods = append(mods, strings.Trim(phrase, ",.;"))
				matched = n
				break
			}
		}
		if matched == 0 {
			kept = append(kept, words[i])
			i++
			continue
		}
		i += matched
	}

	if len(kept) == 0 {
		return name, nil
	}
	cleaned := strings.Join(trimConnectors(kept), " ")
	if cleaned == "" {
		return name, nil
	}
	return cleaned, mods
}

// trimConnectors 去掉剝除修飾詞後殘留在頭尾的 "and"、"or"
func trimConnectors(words []string) []string {
	for len(words) > 0 && isConnector(words[0]) {
		words = words[1:]
	}
	for len(words) > 0 && isConnector(words[len(words)-1]) {
		words = words[:len(words)-1]
	}
	return words
}

func isConnector(w string) bool {
	switch strings.ToLower(w) {
	case "and", "or", "&":
		return true
	}
	return false
}

// recoverNoteModifiers 備註中整段都是修飾詞的片段移入 ModifierTexts，回傳剩下的備註
func recoverNoteModifiers(snap *kb.Snapshot, p *common.ParsedIngredient) string {
	if p.Note == "" {
		return ""
	}
	var pieces []string
	for _, piece := range strings.Split(p.Note, "; ") {
		var keptSegs []string
		for _, seg := range strings.Split(piece, ",") {
			seg = strings.TrimSpace(seg)
			if seg == "" {
				continue
			}
			if mods, ok := allModifiers(snap, seg); ok {
				p.ModifierTexts = append(p.ModifierTexts, mods...)
				continue
			}
			keptSegs = append(keptSegs, seg)
		}
		if len(keptSegs) > 0 {
			pieces = append(pieces, strings.Join(keptSegs, ", "))
		}
	}
	return strings.Join(pieces, "; ")
}

// allModifiers 片段是否完全由修飾詞（與連接詞）組成
func allModifiers(snap *kb.Snapshot, seg string) ([]string, bool) {
	words := strings.Fields(seg)
	var mods []string
	for i := 0; i < len(words); {
		if isConnector(words[i]) {
			i++
			continue
		}
		matched := 0
		for n := maxModifierWords; n >= 1; n-- {
			if i+n > len(words) {
				continue
			}
			phrase := strings.Join(words[i:i+n], " ")
			if snap.IsModifier(phrase) {
				mods = append(mods, phrase)
				matched = n
				break
			}
		}
		if matched == 0 {
			return nil, false
		}
		i += matched
	}
	return mods, len(mods) > 0
}

// Singularize 將最後一個字轉為單數，只處理常見英文規則
func Singularize(name string) string {
	words := strings.Fields(name)
	if len(words) == 0 {
		return name
	}
	last := words[len(words)-1]
	lower := strings.ToLower(last)
	switch {
	case len(lower) > 3 && strings.HasSuffix(lower, "ies"):
		last = last[:len(last)-3] + "y"
	case len(lower) > 3 && strings.HasSuffix(lower, "oes"):
		last = last[:len(last)-2]
	case len(lower) > 3 && strings.HasSuffix(lower, "ves"):
		last = last[:len(last)-3] + "f"
	case strings.HasSuffix(lower, "ches"), strings.HasSuffix(lower, "shes"),
		strings.HasSuffix(lower, "xes"), strings.HasSuffix(lower, "sses"):
		last = last[:len(last)-2]
	case len(lower) > 2 && strings.HasSuffix(lower, "s") && !strings.HasSuffix(lower, "ss") && !strings.HasSuffix(lower, "us"):
		last = last[:len(last)-1]
	}
	words[len(words)-1] = last
	return strings.Join(words, " ")
}
