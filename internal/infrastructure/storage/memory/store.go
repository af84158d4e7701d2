// Package memory 提供以 map 實作的儲存層，用於開發與測試
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"ingredient-engine/internal/pkg/common"
)

// Store 記憶體儲存，實作知識庫、食譜與購物清單的存取介面
type Store struct {
	mu sync.RWMutex

	ingredients []common.KnownIngredient
	units       []common.KnownUnit
	modifiers   []common.KnownModifier

	recipes     map[string]common.Recipe
	recipeOrder []string

	lists map[string]common.ShoppingList

	now func() time.Time
}

// NewStore 建立空的記憶體儲存
func NewStore() *Store {
	return &Store{
		recipes: make(map[string]common.Recipe),
		lists:   make(map[string]common.ShoppingList),
		now:     time.Now,
	}
}

func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) Close() error { return nil }

// ---- knowledge base ----

func (s *Store) FindKnownIngredientsAll(ctx context.Context) ([]common.KnownIngredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]common.KnownIngredient, len(s.ingredients))
	for i, ing := range s.ingredients {
		ing.Aliases = cloneStrings(ing.Aliases)
		out[i] = ing
	}
	return out, nil
}

func (s *Store) FindKnownUnitsAll(ctx context.Context) ([]common.KnownUnit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]common.KnownUnit, len(s.units))
	for i, u := range s.units {
		u.Aliases = cloneStrings(u.Aliases)
		out[i] = u
	}
	return out, nil
}

func (s *Store) FindKnownModifiersAll(ctx context.Context) ([]common.KnownModifier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]common.KnownModifier, len(s.modifiers))
	for i, m := range s.modifiers {
		m.Aliases = cloneStrings(m.Aliases)
		out[i] = m
	}
	return out, nil
}

func (s *Store) CreateIngredient(ctx context.Context, ing common.KnownIngredient) (common.KnownIngredient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ing.ID == "" {
		ing.ID = common.GenerateUUID()
	}
	ing.Aliases = cloneStrings(ing.Aliases)
	s.ingredients = append(s.ingredients, ing)
	return ing, nil
}

func (s *Store) CreateUnit(ctx context.Context, u common.KnownUnit) (common.KnownUnit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = common.GenerateUUID()
	}
	u.Aliases = cloneStrings(u.Aliases)
	s.units = append(s.units, u)
	return u, nil
}

func (s *Store) CreateModifier(ctx context.Context, m common.KnownModifier) (common.KnownModifier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == "" {
		m.ID = common.GenerateUUID()
	}
	m.Aliases = cloneStrings(m.Aliases)
	s.modifiers = append(s.modifiers, m)
	return m, nil
}

func (s *Store) UpdateIngredientAliases(ctx context.Context, id string, aliases []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.ingredients {
		if s.ingredients[i].ID == id {
			s.ingredients[i].Aliases = cloneStrings(aliases)
			return nil
		}
	}
	return fmt.Errorf("ingredient %s: %w", id, common.ErrNotFound)
}

func (s *Store) UpdateUnitAliases(ctx context.Context, id string, aliases []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.units {
		if s.units[i].ID == id {
			s.units[i].Aliases = cloneStrings(aliases)
			return nil
		}
	}
	return fmt.Errorf("unit %s: %w", id, common.ErrNotFound)
}

func (s *Store) UpdateModifierAliases(ctx context.Context, id string, aliases []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.modifiers {
		if s.modifiers[i].ID == id {
			s.modifiers[i].Aliases = cloneStrings(aliases)
			return nil
		}
	}
	return fmt.Errorf("modifier %s: %w", id, common.ErrNotFound)
}

// ---- recipes ----

// FindRecipeByNameAndOwner 名稱比對不分大小寫
func (s *Store) FindRecipeByNameAndOwner(ctx context.Context, ownerID, name string) (common.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.recipeOrder {
		r := s.recipes[id]
		if r.OwnerID == ownerID && strings.EqualFold(strings.TrimSpace(r.Name), strings.TrimSpace(name)) {
			return cloneRecipe(r), nil
		}
	}
	return common.Recipe{}, fmt.Errorf("recipe %q: %w", name, common.ErrNotFound)
}

func (s *Store) CreateRecipe(ctx context.Context, r common.Recipe) (common.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = common.GenerateUUID()
	}
	if _, ok := s.recipes[r.ID]; ok {
		return common.Recipe{}, fmt.Errorf("recipe %s: %w", r.ID, common.ErrConflict)
	}
	now := s.now()
	r.CreatedAt, r.UpdatedAt = now, now
	s.recipes[r.ID] = cloneRecipe(r)
	s.recipeOrder = append(s.recipeOrder, r.ID)
	return cloneRecipe(r), nil
}

// UpdateRecipe 保留 ID、擁有者與建立時間
func (s *Store) UpdateRecipe(ctx context.Context, r common.Recipe) (common.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.recipes[r.ID]
	if !ok {
		return common.Recipe{}, fmt.Errorf("recipe %s: %w", r.ID, common.ErrNotFound)
	}
	r.OwnerID = existing.OwnerID
	r.CreatedAt = existing.CreatedAt
	r.UpdatedAt = s.now()
	s.recipes[r.ID] = cloneRecipe(r)
	return cloneRecipe(r), nil
}

func (s *Store) GetRecipe(ctx context.Context, id string) (common.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.recipes[id]
	if !ok {
		return common.Recipe{}, fmt.Errorf("recipe %s: %w", id, common.ErrNotFound)
	}
	return cloneRecipe(r), nil
}

// ListRecipes ownerID 為空時回傳全部
func (s *Store) ListRecipes(ctx context.Context, ownerID string) ([]common.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]common.Recipe, 0, len(s.recipeOrder))
	for _, id := range s.recipeOrder {
		r := s.recipes[id]
		if ownerID != "" && r.OwnerID != ownerID {
			continue
		}
		out = append(out, cloneRecipe(r))
	}
	return out, nil
}

// ---- shopping lists ----

func (s *Store) GetListWithItems(ctx context.Context, id string) (common.ShoppingList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.lists[id]
	if !ok {
		return common.ShoppingList{}, fmt.Errorf("shopping list %s: %w", id, common.ErrNotFound)
	}
	return cloneList(l), nil
}

func (s *Store) CreateList(ctx context.Context, l common.ShoppingList) (common.ShoppingList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.ID == "" {
		l.ID = common.GenerateUUID()
	}
	now := s.now()
	l.CreatedAt, l.UpdatedAt = now, now
	items := make([]common.ShoppingListItem, len(l.Items))
	for i, it := range l.Items {
		if it.ID == "" {
			it.ID = common.GenerateUUID()
		}
		it.ListID = l.ID
		items[i] = it
	}
	l.Items = items
	s.lists[l.ID] = cloneList(l)
	return cloneList(l), nil
}

// SaveItems 有 ID 者更新，無 ID 者新增
func (s *Store) SaveItems(ctx context.Context, listID string, items []common.ShoppingListItem) ([]common.ShoppingListItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lists[listID]
	if !ok {
		return nil, fmt.Errorf("shopping list %s: %w", listID, common.ErrNotFound)
	}
	// 在副本上套用，任何一筆失敗都不影響已儲存的清單
	l.Items = append([]common.ShoppingListItem(nil), l.Items...)

	saved := make([]common.ShoppingListItem, 0, len(items))
	for _, it := range items {
		it.ListID = listID
		if it.ID == "" {
			it.ID = common.GenerateUUID()
			l.Items = append(l.Items, it)
			saved = append(saved, it)
			continue
		}
		found := false
		for i := range l.Items {
			if l.Items[i].ID == it.ID {
				l.Items[i] = it
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("shopping list item %s: %w", it.ID, common.ErrNotFound)
		}
		saved = append(saved, it)
	}
	l.UpdatedAt = s.now()
	s.lists[listID] = l
	return saved, nil
}

func (s *Store) DeleteItem(ctx context.Context, listID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lists[listID]
	if !ok {
		return fmt.Errorf("shopping list %s: %w", listID, common.ErrNotFound)
	}
	for i := range l.Items {
		if l.Items[i].ID == itemID {
			l.Items = append(l.Items[:i:i], l.Items[i+1:]...)
			l.UpdatedAt = s.now()
			s.lists[listID] = l
			return nil
		}
	}
	return fmt.Errorf("shopping list item %s: %w", itemID, common.ErrNotFound)
}

func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return append([]string(nil), in...)
}

func cloneRecipe(r common.Recipe) common.Recipe {
	r.Ingredients = append([]common.ParsedIngredient(nil), r.Ingredients...)
	for i := range r.Ingredients {
		r.Ingredients[i].ModifierTexts = cloneStrings(r.Ingredients[i].ModifierTexts)
	}
	r.Instructions = cloneStrings(r.Instructions)
	return r
}

// cloneList 項目依 position 排序
func cloneList(l common.ShoppingList) common.ShoppingList {
	items := make([]common.ShoppingListItem, len(l.Items))
	for i, it := range l.Items {
		if it.Quantity != nil {
			q := *it.Quantity
			it.Quantity = &q
		}
		items[i] = it
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Position < items[j].Position })
	l.Items = items
	return l
}
