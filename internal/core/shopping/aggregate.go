// Package shopping 合併多份食譜的食材成購物清單
package shopping

import (
	"ingredient-engine/internal/pkg/common"
)

// Key 判斷「同一樣東西」的依據
//
// 有已知食材 ID 時用 ID，否則用正規化名稱；單位一律正規化後比較。
type Key struct {
	Identity string
	Unit     string
}

// Line 合併後的一行，數量尚未化簡
type Line struct {
	Key               Key
	Name              string
	KnownIngredientID string
	Quantity          common.Quantity
	Unit              string
	Note              string
}

// MergeResult 併入既有清單的結果
type MergeResult struct {
	Updates []common.ShoppingListItem
	Creates []Line
}

// AppendResult 追加食譜到既有清單的結果
type AppendResult struct {
	Updated []common.ShoppingListItem `json:"updated"`
	Created []common.ShoppingListItem `json:"created"`
}

func ingredientUnit(p common.ParsedIngredient) string {
	if p.Unit != nil && p.Unit.Name != "" {
		return NormalizeUnit(p.Unit.Name)
	}
	return NormalizeUnit(p.UnitText)
}

// KeyOf 食材的合併鍵
func KeyOf(p common.ParsedIngredient) Key {
	unit := ingredientUnit(p)
	if id := p.IngredientID(); id != "" {
		return Key{Identity: id, Unit: unit}
	}
	return Key{Identity: "name:" + NormalizeName(p.DisplayName()), Unit: unit}
}

// itemKey 既有清單項目的合併鍵
func itemKey(it common.ShoppingListItem) Key {
	unit := NormalizeUnit(it.Unit)
	if it.KnownIngredientID != "" {
		return Key{Identity: it.KnownIngredientID, Unit: unit}
	}
	return Key{Identity: "name:" + NormalizeName(it.Name), Unit: unit}
}

// mergeQuantity 兩邊都是純數字才相加；範圍不參與計算，與數字相遇時取數字，與順序無關
func mergeQuantity(existing, incoming common.Quantity) common.Quantity {
	a, okA := existing.Float()
	b, okB := incoming.Float()
	switch {
	case okA && okB:
		return common.NumberQuantity(a + b)
	case existing.Kind == common.QuantityRange && okB:
		return incoming
	}
	return existing
}

// Aggregate 依首次出現順序合併食材
func Aggregate(ingredients []common.ParsedIngredient) []Line {
	var lines []Line
	index := make(map[Key]int)

	for _, p := range ingredients {
		k := KeyOf(p)
		if i, ok := index[k]; ok {
			lines[i].Quantity = mergeQuantity(lines[i].Quantity, p.Quantity)
			lines[i].Note = common.AppendNote(lines[i].Note, p.Note)
			continue
		}
		index[k] = len(lines)
		lines = append(lines, Line{
			Key:               k,
			Name:              p.DisplayName(),
			KnownIngredientID: p.IngredientID(),
			Quantity:          p.Quantity,
			Unit:              k.Unit,
			Note:              common.AppendNote("", p.Note),
		})
	}
	return lines
}

// MergeIntoExisting 將合併行併入既有項目；命中者重設為未勾選並保留位置
func MergeIntoExisting(items []common.ShoppingListItem, lines []Line) MergeResult {
	var res MergeResult
	index := make(map[Key]int, len(items))
	for i, it := range items {
		k := itemKey(it)
		if _, ok := index[k]; !ok {
			index[k] = i
		}
	}

	updated := make(map[int]int)
	for _, line := range lines {
		i, ok := index[line.Key]
		if !ok {
			res.Creates = append(res.Creates, line)
			continue
		}

		var item common.ShoppingListItem
		if j, seen := updated[i]; seen {
			item = res.Updates[j]
		} else {
			item = copyItem(items[i])
		}

		if item.Quantity != nil {
			merged := mergeQuantity(common.NumberQuantity(*item.Quantity), line.Quantity)
			v, _ := merged.Float()
			item.Quantity = &v
		}
		item.Note = common.AppendNote(item.Note, line.Note)
		item.IsChecked = false

		if j, seen := updated[i]; seen {
			res.Updates[j] = item
		} else {
			updated[i] = len(res.Updates)
			res.Updates = append(res.Updates, item)
		}
	}
	return res
}

// Commit 將合併行轉為清單項目；範圍數量只在這裡化簡
func Commit(line Line, position int, policy common.RangeBound) common.ShoppingListItem {
	item := common.ShoppingListItem{
		Name:              line.Name,
		Unit:              line.Unit,
		Note:              line.Note,
		Position:          position,
		KnownIngredientID: line.KnownIngredientID,
	}
	if v, ok := line.Quantity.Bound(policy); ok {
		item.Quantity = &v
	}
	return item
}

// ForNewList 建立新清單用的項目，位置從 0 開始連續
func ForNewList(recipes []common.Recipe, policy common.RangeBound) []common.ShoppingListItem {
	lines := Aggregate(collect(recipes))
	items := make([]common.ShoppingListItem, len(lines))
	for i, line := range lines {
		items[i] = Commit(line, i, policy)
	}
	return items
}

// ForAppend 追加食譜到既有清單；新項目接在目前最大位置之後
func ForAppend(items []common.ShoppingListItem, recipes []common.Recipe, policy common.RangeBound) AppendResult {
	merge := MergeIntoExisting(items, Aggregate(collect(recipes)))

	next := 0
	for i, it := range items {
		if i == 0 || it.Position+1 > next {
			next = it.Position + 1
		}
	}

	res := AppendResult{Updated: merge.Updates}
	for _, line := range merge.Creates {
		res.Created = append(res.Created, Commit(line, next, policy))
		next++
	}
	return res
}

func collect(recipes []common.Recipe) []common.ParsedIngredient {
	var all []common.ParsedIngredient
	for _, r := range recipes {
		all = append(all, r.Ingredients...)
	}
	return all
}

func copyItem(it common.ShoppingListItem) common.ShoppingListItem {
	if it.Quantity != nil {
		v := *it.Quantity
		it.Quantity = &v
	}
	return it
}
