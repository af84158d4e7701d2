package recipe

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"ingredient-engine/internal/core/kb"
	"ingredient-engine/internal/core/parser"
	"ingredient-engine/internal/pkg/common"
)

// Store 食譜儲存
type Store interface {
	GetRecipe(ctx context.Context, id string) (common.Recipe, error)
	UpdateRecipe(ctx context.Context, r common.Recipe) (common.Recipe, error)
	ListRecipes(ctx context.Context, ownerID string) ([]common.Recipe, error)
}

// RepairResult 單一食譜的旗標修復結果
type RepairResult struct {
	RecipeID string `json:"recipe_id"`
	Changed  bool   `json:"changed"`
	Before   bool   `json:"before"`
	After    bool   `json:"after"`
}

// RepairSummary 批次修復結果
type RepairSummary struct {
	Checked   int      `json:"checked"`
	Repaired  int      `json:"repaired"`
	RecipeIDs []string `json:"recipe_ids"`
}

// Service 食譜服務
type Service struct {
	store  Store
	parser parser.Parser
	kb     kb.Source
}

// NewService 創建食譜服務
func NewService(store Store, p parser.Parser, src kb.Source) *Service {
	return &Service{store: store, parser: p, kb: src}
}

// Get 取得食譜；非擁有者視為不存在
func (s *Service) Get(ctx context.Context, ownerID, id string) (common.Recipe, error) {
	r, err := s.store.GetRecipe(ctx, id)
	if err != nil {
		return common.Recipe{}, err
	}
	if r.OwnerID != ownerID {
		return common.Recipe{}, fmt.Errorf("recipe %s: %w", id, common.ErrNotFound)
	}
	return r, nil
}

// List 列出擁有者的食譜
func (s *Service) List(ctx context.Context, ownerID string) ([]common.Recipe, error) {
	return s.store.ListRecipes(ctx, ownerID)
}

// SplitIngredient 拆分單一食材
func (s *Service) SplitIngredient(ctx context.Context, ownerID, id string, index int, parts []SplitPart) (common.Recipe, error) {
	r, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return common.Recipe{}, err
	}

	ings, err := Split(s.kb.Current(), r.Ingredients, index, parts)
	if err != nil {
		return common.Recipe{}, err
	}
	r.Ingredients = ings
	return s.save(ctx, r)
}

// UpdateIngredient 手動修改單一食材
func (s *Service) UpdateIngredient(ctx context.Context, ownerID, id string, index int, edit IngredientEdit) (common.Recipe, error) {
	r, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return common.Recipe{}, err
	}
	if index < 0 || index >= len(r.Ingredients) {
		return common.Recipe{}, common.ErrIndexOutOfRange
	}

	var reparsed *common.ParsedIngredient
	if edit.Text != nil {
		p := s.parser.Parse(ctx, *edit.Text)
		reparsed = &p
	}

	ing, err := ApplyEdit(s.kb.Current(), r.Ingredients[index], reparsed, edit)
	if err != nil {
		return common.Recipe{}, err
	}
	r.Ingredients[index] = ing
	return s.save(ctx, r)
}

// Repair 重算單一食譜的旗標，已一致時不寫入
func (s *Service) Repair(ctx context.Context, ownerID, id string) (RepairResult, error) {
	r, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return RepairResult{}, err
	}
	return s.repair(ctx, r)
}

// RepairAll 重算擁有者所有食譜的旗標
func (s *Service) RepairAll(ctx context.Context, ownerID string) (RepairSummary, error) {
	recipes, err := s.store.ListRecipes(ctx, ownerID)
	if err != nil {
		return RepairSummary{}, err
	}

	summary := RepairSummary{RecipeIDs: []string{}}
	for _, r := range recipes {
		summary.Checked++
		res, err := s.repair(ctx, r)
		if err != nil {
			return summary, err
		}
		if res.Changed {
			summary.Repaired++
			summary.RecipeIDs = append(summary.RecipeIDs, r.ID)
		}
	}

	common.LogInfo("食譜旗標修復完成",
		zap.String("owner_id", ownerID),
		zap.Int("checked", summary.Checked),
		zap.Int("repaired", summary.Repaired),
	)
	return summary, nil
}

func (s *Service) repair(ctx context.Context, r common.Recipe) (RepairResult, error) {
	res := RepairResult{RecipeID: r.ID, Before: r.HasUnparsedIngredients}
	res.Changed = RecomputeFlag(&r)
	res.After = r.HasUnparsedIngredients
	if !res.Changed {
		return res, nil
	}

	if _, err := s.store.UpdateRecipe(ctx, r); err != nil {
		return RepairResult{}, fmt.Errorf("repair recipe %s: %w", r.ID, err)
	}
	common.LogWarn("食譜旗標不一致，已修復",
		zap.String("recipe_id", r.ID),
		zap.Bool("before", res.Before),
		zap.Bool("after", res.After),
	)
	return res, nil
}

// save 所有修改食材清單的操作都經過這裡，寫入前重算旗標
func (s *Service) save(ctx context.Context, r common.Recipe) (common.Recipe, error) {
	RecomputeFlag(&r)
	return s.store.UpdateRecipe(ctx, r)
}
