package gormstore

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"ingredient-engine/internal/pkg/common"
)

// ingredientRow 以自增 Seq 保留插入順序，比對時先插入者勝出
type ingredientRow struct {
	Seq         uint           `gorm:"primaryKey;autoIncrement"`
	ID          string         `gorm:"size:36;not null;uniqueIndex"`
	Name        string         `gorm:"not null;index"`
	Category    string         `gorm:"not null;default:'other'"`
	Aliases     datatypes.JSON `gorm:"not null"`
	DefaultUnit string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (ingredientRow) TableName() string { return "known_ingredients" }

type unitRow struct {
	Seq              uint   `gorm:"primaryKey;autoIncrement"`
	ID               string `gorm:"size:36;not null;uniqueIndex"`
	Name             string `gorm:"not null;index"`
	Abbreviation     string
	Aliases          datatypes.JSON `gorm:"not null"`
	Type             string         `gorm:"not null"`
	BaseUnit         string
	ConversionToBase float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (unitRow) TableName() string { return "known_units" }

type modifierRow struct {
	Seq       uint           `gorm:"primaryKey;autoIncrement"`
	ID        string         `gorm:"size:36;not null;uniqueIndex"`
	Name      string         `gorm:"not null;index"`
	Type      string         `gorm:"not null"`
	Aliases   datatypes.JSON `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (modifierRow) TableName() string { return "known_modifiers" }

type recipeRow struct {
	Seq                    uint   `gorm:"primaryKey;autoIncrement"`
	ID                     string `gorm:"size:36;not null;uniqueIndex"`
	OwnerID                string `gorm:"not null;index:idx_recipe_owner_name,priority:1"`
	Name                   string `gorm:"not null"`
	NameKey                string `gorm:"not null;index:idx_recipe_owner_name,priority:2"`
	Description            string
	SourceURL              string
	Servings               string
	Ingredients            datatypes.JSON `gorm:"not null"`
	Instructions           datatypes.JSON `gorm:"not null"`
	HasUnparsedIngredients bool           `gorm:"not null;default:false;index"`
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

func (recipeRow) TableName() string { return "recipes" }

type listRow struct {
	ID        string `gorm:"primaryKey;size:36"`
	OwnerID   string `gorm:"not null;index"`
	Name      string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (listRow) TableName() string { return "shopping_lists" }

type itemRow struct {
	ID                string `gorm:"primaryKey;size:36"`
	ListID            string `gorm:"size:36;not null;index"`
	Name              string `gorm:"not null"`
	Quantity          *float64
	Unit              string
	Note              string
	IsChecked         bool `gorm:"not null;default:false"`
	Position          int  `gorm:"not null;default:0"`
	KnownIngredientID string
}

func (itemRow) TableName() string { return "shopping_list_items" }

func allModels() []interface{} {
	return []interface{}{
		&ingredientRow{}, &unitRow{}, &modifierRow{},
		&recipeRow{},
		&listRow{}, &itemRow{},
	}
}

func toJSON(v interface{}) (datatypes.JSON, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

func fromJSON(raw datatypes.JSON, v interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}

func stringsJSON(in []string) (datatypes.JSON, error) {
	if in == nil {
		in = []string{}
	}
	return toJSON(in)
}

func decodeStrings(raw datatypes.JSON) ([]string, error) {
	out := []string{}
	if err := fromJSON(raw, &out); err != nil {
		return nil, fmt.Errorf("decode aliases: %w", err)
	}
	return out, nil
}

// ---- conversions ----

func newIngredientRow(ing common.KnownIngredient) (ingredientRow, error) {
	aliases, err := stringsJSON(ing.Aliases)
	if err != nil {
		return ingredientRow{}, err
	}
	return ingredientRow{
		ID:          ing.ID,
		Name:        ing.Name,
		Category:    string(ing.Category),
		Aliases:     aliases,
		DefaultUnit: ing.DefaultUnit,
	}, nil
}

func (r ingredientRow) model() (common.KnownIngredient, error) {
	aliases, err := decodeStrings(r.Aliases)
	if err != nil {
		return common.KnownIngredient{}, err
	}
	return common.KnownIngredient{
		ID:          r.ID,
		Name:        r.Name,
		Category:    common.Category(r.Category),
		Aliases:     aliases,
		DefaultUnit: r.DefaultUnit,
	}, nil
}

func newUnitRow(u common.KnownUnit) (unitRow, error) {
	aliases, err := stringsJSON(u.Aliases)
	if err != nil {
		return unitRow{}, err
	}
	return unitRow{
		ID:               u.ID,
		Name:             u.Name,
		Abbreviation:     u.Abbreviation,
		Aliases:          aliases,
		Type:             string(u.Type),
		BaseUnit:         u.BaseUnit,
		ConversionToBase: u.ConversionToBase,
	}, nil
}

func (r unitRow) model() (common.KnownUnit, error) {
	aliases, err := decodeStrings(r.Aliases)
	if err != nil {
		return common.KnownUnit{}, err
	}
	return common.KnownUnit{
		ID:               r.ID,
		Name:             r.Name,
		Abbreviation:     r.Abbreviation,
		Aliases:          aliases,
		Type:             common.UnitType(r.Type),
		BaseUnit:         r.BaseUnit,
		ConversionToBase: r.ConversionToBase,
	}, nil
}

func newModifierRow(m common.KnownModifier) (modifierRow, error) {
	aliases, err := stringsJSON(m.Aliases)
	if err != nil {
		return modifierRow{}, err
	}
	return modifierRow{ID: m.ID, Name: m.Name, Type: string(m.Type), Aliases: aliases}, nil
}

func (r modifierRow) model() (common.KnownModifier, error) {
	aliases, err := decodeStrings(r.Aliases)
	if err != nil {
		return common.KnownModifier{}, err
	}
	return common.KnownModifier{ID: r.ID, Name: r.Name, Type: common.ModifierType(r.Type), Aliases: aliases}, nil
}

func newRecipeRow(r common.Recipe) (recipeRow, error) {
	ings := r.Ingredients
	if ings == nil {
		ings = []common.ParsedIngredient{}
	}
	ingJSON, err := toJSON(ings)
	if err != nil {
		return recipeRow{}, fmt.Errorf("encode ingredients: %w", err)
	}
	stepsJSON, err := stringsJSON(r.Instructions)
	if err != nil {
		return recipeRow{}, fmt.Errorf("encode instructions: %w", err)
	}
	return recipeRow{
		ID:                     r.ID,
		OwnerID:                r.OwnerID,
		Name:                   r.Name,
		NameKey:                nameKey(r.Name),
		Description:            r.Description,
		SourceURL:              r.SourceURL,
		Servings:               r.Servings,
		Ingredients:            ingJSON,
		Instructions:           stepsJSON,
		HasUnparsedIngredients: r.HasUnparsedIngredients,
		CreatedAt:              r.CreatedAt,
		UpdatedAt:              r.UpdatedAt,
	}, nil
}

func (r recipeRow) model() (common.Recipe, error) {
	ings := []common.ParsedIngredient{}
	if err := fromJSON(r.Ingredients, &ings); err != nil {
		return common.Recipe{}, fmt.Errorf("decode ingredients of recipe %s: %w", r.ID, err)
	}
	steps, err := decodeStrings(r.Instructions)
	if err != nil {
		return common.Recipe{}, err
	}
	return common.Recipe{
		ID:                     r.ID,
		OwnerID:                r.OwnerID,
		Name:                   r.Name,
		Description:            r.Description,
		SourceURL:              r.SourceURL,
		Servings:               r.Servings,
		Ingredients:            ings,
		Instructions:           steps,
		HasUnparsedIngredients: r.HasUnparsedIngredients,
		CreatedAt:              r.CreatedAt,
		UpdatedAt:              r.UpdatedAt,
	}, nil
}

func newItemRow(listID string, it common.ShoppingListItem) itemRow {
	return itemRow{
		ID:                it.ID,
		ListID:            listID,
		Name:              it.Name,
		Quantity:          it.Quantity,
		Unit:              it.Unit,
		Note:              it.Note,
		IsChecked:         it.IsChecked,
		Position:          it.Position,
		KnownIngredientID: it.KnownIngredientID,
	}
}

func (r itemRow) model() common.ShoppingListItem {
	return common.ShoppingListItem{
		ID:                r.ID,
		ListID:            r.ListID,
		Name:              r.Name,
		Quantity:          r.Quantity,
		Unit:              r.Unit,
		Note:              r.Note,
		IsChecked:         r.IsChecked,
		Position:          r.Position,
		KnownIngredientID: r.KnownIngredientID,
	}
}
