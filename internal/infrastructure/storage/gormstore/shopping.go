package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"ingredient-engine/internal/pkg/common"
)

func (s *Store) GetListWithItems(ctx context.Context, id string) (common.ShoppingList, error) {
	var row listRow
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return common.ShoppingList{}, notFound(err, "shopping list "+id)
	}

	var items []itemRow
	if err := s.db.WithContext(ctx).Where("list_id = ?", id).Order("position, id").Find(&items).Error; err != nil {
		return common.ShoppingList{}, fmt.Errorf("list items: %w", err)
	}

	list := common.ShoppingList{
		ID:        row.ID,
		OwnerID:   row.OwnerID,
		Name:      row.Name,
		Items:     make([]common.ShoppingListItem, 0, len(items)),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	for _, it := range items {
		list.Items = append(list.Items, it.model())
	}
	return list, nil
}

func (s *Store) CreateList(ctx context.Context, l common.ShoppingList) (common.ShoppingList, error) {
	if l.ID == "" {
		l.ID = common.GenerateUUID()
	}
	row := listRow{ID: l.ID, OwnerID: l.OwnerID, Name: l.Name}

	items := make([]itemRow, len(l.Items))
	for i, it := range l.Items {
		if it.ID == "" {
			it.ID = common.GenerateUUID()
		}
		items[i] = newItemRow(l.ID, it)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		if len(items) > 0 {
			return tx.Create(&items).Error
		}
		return nil
	})
	if err != nil {
		return common.ShoppingList{}, fmt.Errorf("create shopping list: %w", err)
	}
	return s.GetListWithItems(ctx, l.ID)
}

// SaveItems 有 ID 者更新，無 ID 者新增；同一個交易內完成
func (s *Store) SaveItems(ctx context.Context, listID string, items []common.ShoppingListItem) ([]common.ShoppingListItem, error) {
	saved := make([]common.ShoppingListItem, 0, len(items))

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&listRow{}).Where("id = ?", listID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("shopping list %s: %w", listID, common.ErrNotFound)
		}

		for _, it := range items {
			if it.ID == "" {
				it.ID = common.GenerateUUID()
				row := newItemRow(listID, it)
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
				saved = append(saved, row.model())
				continue
			}

			row := newItemRow(listID, it)
			res := tx.Model(&itemRow{}).
				Where("id = ? AND list_id = ?", it.ID, listID).
				Select("*").
				Updates(&row)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("shopping list item %s: %w", it.ID, common.ErrNotFound)
			}
			saved = append(saved, row.model())
		}

		return tx.Model(&listRow{}).Where("id = ?", listID).Update("updated_at", time.Now()).Error
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("save shopping list items: %w", err)
	}
	return saved, nil
}

func (s *Store) DeleteItem(ctx context.Context, listID, itemID string) error {
	res := s.db.WithContext(ctx).Where("id = ? AND list_id = ?", itemID, listID).Delete(&itemRow{})
	if res.Error != nil {
		return fmt.Errorf("delete shopping list item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("shopping list item %s: %w", itemID, common.ErrNotFound)
	}
	return nil
}
