package kb

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"ingredient-engine/internal/pkg/common"
)

// Holder 行程內共用的知識庫快照，以原子交換更新版本
type Holder struct {
	store   Store
	current atomic.Pointer[Snapshot]
	version atomic.Int64
	mu      sync.Mutex
}

// NewHolder 建立 Holder，初始為空快照
func NewHolder(store Store) *Holder {
	h := &Holder{store: store}
	h.current.Store(NewSnapshot(0, nil, nil, nil))
	return h
}

// Current 目前的快照，永不為 nil
func (h *Holder) Current() *Snapshot {
	return h.current.Load()
}

// Reload 重新從儲存層讀取並安裝新版本
func (h *Holder) Reload(ctx context.Context) (*Snapshot, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	snap, err := Load(ctx, h.store, h.version.Add(1))
	if err != nil {
		common.LogError("知識庫載入失敗", zap.Error(err))
		return nil, err
	}
	h.current.Store(snap)

	common.LogInfo("知識庫已載入",
		zap.Int64("version", snap.Version()),
		zap.Int("ingredients", len(snap.Ingredients())),
		zap.Int("units", len(snap.Units())),
		zap.Int("modifiers", len(snap.Modifiers())),
	)
	for _, c := range snap.Conflicts() {
		common.LogWarn("知識庫別名衝突",
			zap.String("kind", c.Kind),
			zap.String("text", c.Text),
			zap.String("winner", c.Winner),
			zap.String("loser", c.Loser),
			zap.String("reason", c.Reason),
		)
	}
	return snap, nil
}

// FindOrCreateIngredient 找不到時以首字母大寫名稱建立，分類為 other
//
// 同名並發建立可能產生兩筆資料，這是可接受的競態。
func (h *Holder) FindOrCreateIngredient(ctx context.Context, name string) (common.KnownIngredient, bool, error) {
	name = common.CollapseSpaces(name)
	if name == "" {
		return common.KnownIngredient{}, false, common.NewValidationError("ingredient name is required")
	}
	if ing := h.Current().MatchIngredient(name); ing != nil {
		return *ing, false, nil
	}

	created, err := h.store.CreateIngredient(ctx, common.KnownIngredient{
		Name:     common.Capitalize(name),
		Category: common.CategoryOther,
		Aliases:  []string{},
	})
	if err != nil {
		return common.KnownIngredient{}, false, fmt.Errorf("create ingredient %q: %w", name, err)
	}

	h.mu.Lock()
	next := h.Current().withIngredient(h.version.Add(1), created)
	h.current.Store(next)
	h.mu.Unlock()

	common.LogInfo("新增已知食材",
		zap.String("id", created.ID),
		zap.String("name", created.Name),
		zap.Int64("version", next.Version()),
	)
	return created, true, nil
}
