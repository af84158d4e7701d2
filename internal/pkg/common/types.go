package common

import (
	"strings"
	"time"
)

// Category 食材分類
type Category string

const (
	CategoryProtein Category = "protein"
	CategoryProduce Category = "produce"
	CategoryDairy   Category = "dairy"
	CategoryPantry  Category = "pantry"
	CategoryGrains  Category = "grains"
	CategoryBaking  Category = "baking"
	CategorySpices  Category = "spices"
	CategoryOther   Category = "other"
)

// UnitType 單位類型
type UnitType string

const (
	UnitVolume UnitType = "volume"
	UnitWeight UnitType = "weight"
	UnitCount  UnitType = "count"
	UnitLength UnitType = "length"
)

// ModifierType 修飾詞類型
type ModifierType string

const (
	ModifierPreparation ModifierType = "preparation"
	ModifierState       ModifierType = "state"
	ModifierQuality     ModifierType = "quality"
	ModifierSize        ModifierType = "size"
	ModifierCooking     ModifierType = "cooking"
)

// KnownIngredient 知識庫中的已知食材
type KnownIngredient struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Aliases     []string `json:"aliases"`
	DefaultUnit string   `json:"default_unit,omitempty"`
}

// KnownUnit 知識庫中的已知單位
type KnownUnit struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Abbreviation     string   `json:"abbreviation,omitempty"`
	Aliases          []string `json:"aliases"`
	Type             UnitType `json:"type"`
	BaseUnit         string   `json:"base_unit,omitempty"`
	ConversionToBase float64  `json:"conversion_to_base,omitempty"`
}

// KnownModifier 知識庫中的已知修飾詞（切法、狀態等）
type KnownModifier struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Type    ModifierType `json:"type"`
	Aliases []string     `json:"aliases"`
}

// ParsedIngredient 單行食材文字的解析結果
//
// Parsed 只在 Ingredient 不為 nil 時為 true。
type ParsedIngredient struct {
	OriginalText      string           `json:"original_text"`
	IngredientText    string           `json:"ingredient_text"`
	Name              string           `json:"name"`
	Ingredient        *KnownIngredient `json:"ingredient"`
	KnownIngredientID string           `json:"known_ingredient_id,omitempty"`
	Quantity          Quantity         `json:"quantity"`
	UnitText          string           `json:"unit_text,omitempty"`
	Unit              *KnownUnit       `json:"unit"`
	ModifierTexts     []string         `json:"modifier_texts"`
	Note              string           `json:"note,omitempty"`
	RawLine           string           `json:"raw_line,omitempty"`
	Section           string           `json:"section,omitempty"`
	Parsed            bool             `json:"parsed"`
}

// IngredientID 取得已知食材 ID（未匹配時為空字串）
func (p ParsedIngredient) IngredientID() string {
	if p.Ingredient != nil && p.Ingredient.ID != "" {
		return p.Ingredient.ID
	}
	return p.KnownIngredientID
}

// DisplayName 購物清單顯示用名稱
func (p ParsedIngredient) DisplayName() string {
	if p.Ingredient != nil && p.Ingredient.Name != "" {
		return p.Ingredient.Name
	}
	if p.Name != "" {
		return p.Name
	}
	return strings.TrimSpace(p.OriginalText)
}

// SetIngredient 設定匹配結果並同步 Parsed 旗標
func (p *ParsedIngredient) SetIngredient(ing *KnownIngredient) {
	p.Ingredient = ing
	p.Parsed = ing != nil
	if ing != nil {
		p.KnownIngredientID = ing.ID
	} else {
		p.KnownIngredientID = ""
	}
}

// Recipe 食譜
type Recipe struct {
	ID                     string             `json:"id"`
	OwnerID                string             `json:"owner_id"`
	Name                   string             `json:"name"`
	Description            string             `json:"description,omitempty"`
	SourceURL              string             `json:"source_url,omitempty"`
	Servings               string             `json:"servings,omitempty"`
	Ingredients            []ParsedIngredient `json:"ingredients"`
	Instructions           []string           `json:"instructions"`
	HasUnparsedIngredients bool               `json:"has_unparsed_ingredients"`
	CreatedAt              time.Time          `json:"created_at"`
	UpdatedAt              time.Time          `json:"updated_at"`
}

// ShoppingList 購物清單
type ShoppingList struct {
	ID        string             `json:"id"`
	OwnerID   string             `json:"owner_id"`
	Name      string             `json:"name"`
	Items     []ShoppingListItem `json:"items"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// ShoppingListItem 購物清單項目
type ShoppingListItem struct {
	ID                string   `json:"id"`
	ListID            string   `json:"list_id"`
	Name              string   `json:"name"`
	Quantity          *float64 `json:"quantity"`
	Unit              string   `json:"unit,omitempty"`
	Note              string   `json:"note,omitempty"`
	IsChecked         bool     `json:"is_checked"`
	Position          int      `json:"position"`
	KnownIngredientID string   `json:"known_ingredient_id,omitempty"`
}
