package kb

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"ingredient-engine/internal/pkg/common"
)

// Source 提供目前的知識庫快照
type Source interface {
	Current() *Snapshot
}

// AliasConflict 兩個實體共用同一個別名（或別名等於另一實體的正式名稱）
type AliasConflict struct {
	Kind   string `json:"kind"`
	Text   string `json:"text"`
	Winner string `json:"winner"`
	Loser  string `json:"loser"`
	Reason string `json:"reason"`
}

const (
	KindIngredient = "ingredient"
	KindUnit       = "unit"
	KindModifier   = "modifier"
)

// index 正式名稱優先於別名；同一層內先插入者勝出
type index struct {
	names   map[string]int
	aliases map[string]int
}

func (ix index) lookup(text string) (int, bool) {
	k := Key(text)
	if k == "" {
		return 0, false
	}
	if i, ok := ix.names[k]; ok {
		return i, true
	}
	i, ok := ix.aliases[k]
	return i, ok
}

type entry struct {
	name    string
	aliases []string
}

func buildIndex(kind string, entries []entry) (index, []AliasConflict) {
	ix := index{names: make(map[string]int, len(entries)), aliases: make(map[string]int)}
	var conflicts []AliasConflict

	for i, e := range entries {
		k := Key(e.name)
		if k == "" {
			continue
		}
		if j, ok := ix.names[k]; ok {
			conflicts = append(conflicts, AliasConflict{
				Kind: kind, Text: k, Winner: entries[j].name, Loser: e.name, Reason: "duplicate canonical name",
			})
			continue
		}
		ix.names[k] = i
	}

	for i, e := range entries {
		for _, alias := range e.aliases {
			k := Key(alias)
			if k == "" {
				continue
			}
			if j, ok := ix.names[k]; ok && j != i {
				conflicts = append(conflicts, AliasConflict{
					Kind: kind, Text: k, Winner: entries[j].name, Loser: e.name, Reason: "alias equals another canonical name",
				})
				continue
			}
			if j, ok := ix.aliases[k]; ok {
				if j != i {
					conflicts = append(conflicts, AliasConflict{
						Kind: kind, Text: k, Winner: entries[j].name, Loser: e.name, Reason: "alias shared by two entries",
					})
				}
				continue
			}
			ix.aliases[k] = i
		}
	}
	return ix, conflicts
}

// Key 比對用的鍵：NFC、小寫、合併空白
func Key(s string) string {
	return strings.ToLower(common.CollapseSpaces(norm.NFC.String(s)))
}

// Snapshot 不可變的知識庫版本
//
// 建立後不再修改，多個 goroutine 可同時讀取。
type Snapshot struct {
	version     int64
	ingredients []common.KnownIngredient
	units       []common.KnownUnit
	modifiers   []common.KnownModifier

	ingredientIdx index
	unitIdx       index
	modifierIdx   index
	conflicts     []AliasConflict
}

// NewSnapshot 以插入順序建立快照並偵測別名衝突
func NewSnapshot(version int64, ingredients []common.KnownIngredient, units []common.KnownUnit, modifiers []common.KnownModifier) *Snapshot {
	s := &Snapshot{
		version:     version,
		ingredients: cloneIngredients(ingredients),
		units:       cloneUnits(units),
		modifiers:   cloneModifiers(modifiers),
	}

	ingEntries := make([]entry, len(s.ingredients))
	for i, ing := range s.ingredients {
		ingEntries[i] = entry{name: ing.Name, aliases: ing.Aliases}
	}
	unitEntries := make([]entry, len(s.units))
	for i, u := range s.units {
		// 縮寫視同別名
		aliases := u.Aliases
		if u.Abbreviation != "" {
			aliases = append([]string{u.Abbreviation}, u.Aliases...)
		}
		unitEntries[i] = entry{name: u.Name, aliases: aliases}
	}
	modEntries := make([]entry, len(s.modifiers))
	for i, m := range s.modifiers {
		modEntries[i] = entry{name: m.Name, aliases: m.Aliases}
	}

	var c []AliasConflict
	s.ingredientIdx, c = buildIndex(KindIngredient, ingEntries)
	s.conflicts = append(s.conflicts, c...)
	s.unitIdx, c = buildIndex(KindUnit, unitEntries)
	s.conflicts = append(s.conflicts, c...)
	s.modifierIdx, c = buildIndex(KindModifier, modEntries)
	s.conflicts = append(s.conflicts, c...)
	return s
}

// Load 從儲存層讀取全部資料建立快照
func Load(ctx context.Context, r Reader, version int64) (*Snapshot, error) {
	ings, err := r.FindKnownIngredientsAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ingredients: %w", err)
	}
	units, err := r.FindKnownUnitsAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load units: %w", err)
	}
	mods, err := r.FindKnownModifiersAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load modifiers: %w", err)
	}
	return NewSnapshot(version, ings, units, mods), nil
}

// Current 讓固定快照也能當作 Source 使用
func (s *Snapshot) Current() *Snapshot { return s }

// Version 快照版本
func (s *Snapshot) Version() int64 { return s.version }

// Conflicts 建立時偵測到的別名衝突
func (s *Snapshot) Conflicts() []AliasConflict {
	return append([]AliasConflict(nil), s.conflicts...)
}

// Ingredients 依插入順序回傳食材（呼叫端不可修改）
func (s *Snapshot) Ingredients() []common.KnownIngredient { return s.ingredients }

// Units 依插入順序回傳單位（呼叫端不可修改）
func (s *Snapshot) Units() []common.KnownUnit { return s.units }

// Modifiers 依插入順序回傳修飾詞（呼叫端不可修改）
func (s *Snapshot) Modifiers() []common.KnownModifier { return s.modifiers }

// MatchIngredient 先比對正式名稱再比對別名
func (s *Snapshot) MatchIngredient(text string) *common.KnownIngredient {
	i, ok := s.ingredientIdx.lookup(text)
	if !ok {
		return nil
	}
	ing := s.ingredients[i]
	return &ing
}

// IngredientByID 依 ID 取得食材，找不到時為 nil
func (s *Snapshot) IngredientByID(id string) *common.KnownIngredient {
	if id == "" {
		return nil
	}
	for _, ing := range s.ingredients {
		if ing.ID == id {
			ing := ing
			return &ing
		}
	}
	return nil
}

// MatchUnit 比對單位名稱、縮寫或別名
func (s *Snapshot) MatchUnit(text string) *common.KnownUnit {
	i, ok := s.unitIdx.lookup(text)
	if !ok {
		return nil
	}
	u := s.units[i]
	return &u
}

// MatchModifier 比對修飾詞
func (s *Snapshot) MatchModifier(text string) *common.KnownModifier {
	i, ok := s.modifierIdx.lookup(text)
	if !ok {
		return nil
	}
	m := s.modifiers[i]
	return &m
}

// IsModifier 是否為已知修飾詞
func (s *Snapshot) IsModifier(text string) bool {
	return s.MatchModifier(text) != nil
}

// withIngredient 複製出包含新食材的下一個版本
func (s *Snapshot) withIngredient(version int64, ing common.KnownIngredient) *Snapshot {
	ings := make([]common.KnownIngredient, 0, len(s.ingredients)+1)
	ings = append(ings, s.ingredients...)
	ings = append(ings, ing)
	return NewSnapshot(version, ings, s.units, s.modifiers)
}

func cloneIngredients(in []common.KnownIngredient) []common.KnownIngredient {
	out := make([]common.KnownIngredient, len(in))
	for i, ing := range in {
		ing.Aliases = lowerAliases(ing.Aliases)
		out[i] = ing
	}
	return out
}

func cloneUnits(in []common.KnownUnit) []common.KnownUnit {
	out := make([]common.KnownUnit, len(in))
	for i, u := range in {
		u.Aliases = lowerAliases(u.Aliases)
		out[i] = u
	}
	return out
}

func cloneModifiers(in []common.KnownModifier) []common.KnownModifier {
	out := make([]common.KnownModifier, len(in))
	for i, m := range in {
		m.Aliases = lowerAliases(m.Aliases)
		out[i] = m
	}
	return out
}

// lowerAliases 小寫並去除實體內重複
func lowerAliases(aliases []string) []string {
	out := make([]string, 0, len(aliases))
	seen := make(map[string]struct{}, len(aliases))
	for _, a := range aliases {
		k := Key(a)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
