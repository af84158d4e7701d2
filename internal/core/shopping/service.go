package shopping

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"ingredient-engine/internal/pkg/common"
)

// Store 購物清單儲存
type Store interface {
	GetListWithItems(ctx context.Context, id string) (common.ShoppingList, error)
	CreateList(ctx context.Context, list common.ShoppingList) (common.ShoppingList, error)
	SaveItems(ctx context.Context, listID string, items []common.ShoppingListItem) ([]common.ShoppingListItem, error)
	DeleteItem(ctx context.Context, listID, itemID string) error
}

// RecipeReader 讀取要加入清單的食譜
type RecipeReader interface {
	GetRecipe(ctx context.Context, id string) (common.Recipe, error)
}

// ItemPatch 使用者對單一項目的修改，nil 欄位不變
type ItemPatch struct {
	Name          *string  `json:"name"`
	Quantity      *float64 `json:"quantity"`
	ClearQuantity bool     `json:"clear_quantity"`
	Unit          *string  `json:"unit"`
	Note          *string  `json:"note"`
	IsChecked     *bool    `json:"is_checked"`
	Position      *int     `json:"position"`
}

// Service 購物清單服務
//
// 讀取-修改-寫入之間不加鎖，同一清單的並行追加可能互相覆蓋。
type Service struct {
	store   Store
	recipes RecipeReader
	policy  common.RangeBound
}

// NewService 創建購物清單服務
func NewService(store Store, recipes RecipeReader, policy common.RangeBound) *Service {
	if policy == "" {
		policy = common.RangeLower
	}
	return &Service{store: store, recipes: recipes, policy: policy}
}

// Get 取得清單；非擁有者視為不存在
func (s *Service) Get(ctx context.Context, ownerID, listID string) (common.ShoppingList, error) {
	list, err := s.store.GetListWithItems(ctx, listID)
	if err != nil {
		return common.ShoppingList{}, err
	}
	if list.OwnerID != ownerID {
		return common.ShoppingList{}, fmt.Errorf("shopping list %s: %w", listID, common.ErrNotFound)
	}
	return list, nil
}

// CreateFromRecipes 以多份食譜建立新清單
func (s *Service) CreateFromRecipes(ctx context.Context, ownerID, name string, recipeIDs []string) (common.ShoppingList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return common.ShoppingList{}, common.NewValidationError("shopping list name is required")
	}

	recipes, err := s.loadRecipes(ctx, ownerID, recipeIDs)
	if err != nil {
		return common.ShoppingList{}, err
	}

	list, err := s.store.CreateList(ctx, common.ShoppingList{
		OwnerID: ownerID,
		Name:    name,
		Items:   ForNewList(recipes, s.policy),
	})
	if err != nil {
		return common.ShoppingList{}, fmt.Errorf("create shopping list: %w", err)
	}

	common.LogInfo("購物清單已建立",
		zap.String("list_id", list.ID),
		zap.Int("recipes", len(recipes)),
		zap.Int("items", len(list.Items)),
	)
	return list, nil
}

// AppendRecipes 將食譜併入既有清單
func (s *Service) AppendRecipes(ctx context.Context, ownerID, listID string, recipeIDs []string) (common.ShoppingList, AppendResult, error) {
	list, err := s.Get(ctx, ownerID, listID)
	if err != nil {
		return common.ShoppingList{}, AppendResult{}, err
	}

	recipes, err := s.loadRecipes(ctx, ownerID, recipeIDs)
	if err != nil {
		return common.ShoppingList{}, AppendResult{}, err
	}

	res := ForAppend(list.Items, recipes, s.policy)
	batch := make([]common.ShoppingListItem, 0, len(res.Updated)+len(res.Created))
	batch = append(batch, res.Updated...)
	batch = append(batch, res.Created...)
	if len(batch) > 0 {
		saved, err := s.store.SaveItems(ctx, listID, batch)
		if err != nil {
			return common.ShoppingList{}, AppendResult{}, fmt.Errorf("save shopping list items: %w", err)
		}
		res.Updated = saved[:len(res.Updated)]
		res.Created = saved[len(res.Updated):]
	}

	common.LogInfo("食譜已加入購物清單",
		zap.String("list_id", listID),
		zap.Int("updated", len(res.Updated)),
		zap.Int("created", len(res.Created)),
	)

	list, err = s.store.GetListWithItems(ctx, listID)
	if err != nil {
		return common.ShoppingList{}, AppendResult{}, err
	}
	return list, res, nil
}

// UpdateItem 勾選、取消勾選或編輯項目
func (s *Service) UpdateItem(ctx context.Context, ownerID, listID, itemID string, patch ItemPatch) (common.ShoppingListItem, error) {
	list, err := s.Get(ctx, ownerID, listID)
	if err != nil {
		return common.ShoppingListItem{}, err
	}

	var item *common.ShoppingListItem
	for i := range list.Items {
		if list.Items[i].ID == itemID {
			item = &list.Items[i]
			break
		}
	}
	if item == nil {
		return common.ShoppingListItem{}, fmt.Errorf("shopping list item %s: %w", itemID, common.ErrNotFound)
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return common.ShoppingListItem{}, common.NewValidationError("item name cannot be empty")
		}
		item.Name = name
	}
	if patch.ClearQuantity {
		item.Quantity = nil
	} else if patch.Quantity != nil {
		v := *patch.Quantity
		item.Quantity = &v
	}
	if patch.Unit != nil {
		item.Unit = strings.TrimSpace(*patch.Unit)
	}
	if patch.Note != nil {
		item.Note = strings.TrimSpace(*patch.Note)
	}
	if patch.IsChecked != nil {
		item.IsChecked = *patch.IsChecked
	}
	if patch.Position != nil {
		item.Position = *patch.Position
	}

	saved, err := s.store.SaveItems(ctx, listID, []common.ShoppingListItem{*item})
	if err != nil {
		return common.ShoppingListItem{}, err
	}
	return saved[0], nil
}

// DeleteItem 刪除項目
func (s *Service) DeleteItem(ctx context.Context, ownerID, listID, itemID string) error {
	if _, err := s.Get(ctx, ownerID, listID); err != nil {
		return err
	}
	return s.store.DeleteItem(ctx, listID, itemID)
}

func (s *Service) loadRecipes(ctx context.Context, ownerID string, ids []string) ([]common.Recipe, error) {
	if len(ids) == 0 {
		return nil, common.NewValidationError("at least one recipe id is required")
	}
	recipes := make([]common.Recipe, 0, len(ids))
	for _, id := range ids {
		r, err := s.recipes.GetRecipe(ctx, id)
		if err != nil {
			return nil, err
		}
		if r.OwnerID != ownerID {
			return nil, fmt.Errorf("recipe %s: %w", id, common.ErrNotFound)
		}
		recipes = append(recipes, r)
	}
	return recipes, nil
}
