package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ingredient-engine/internal/core/kb"
	"ingredient-engine/internal/pkg/common"
)

func TestClassify(t *testing.T) {
	t.Parallel()
	snap := kb.NewSnapshot(1, nil, nil, []common.KnownModifier{
		{ID: "chopped", Name: "chopped", Type: common.ModifierPreparation},
		{ID: "finely-chopped", Name: "finely chopped", Type: common.ModifierPreparation},
	})

	tests := []struct {
		line        string
		wantKind    LineKind
		wantSection string
	}{
		{"", LineSeparator, ""},
		{"-----", LineSeparator, ""},
		{"* * *", LineSeparator, ""},
		{"--- Sauce ---", LineHeader, "Sauce"},
		{"== dough ==", LineHeader, "Dough"},
		{"## Topping", LineHeader, "Topping"},
		{"[Filling]", LineHeader, "Filling"},
		{"For the glaze:", LineHeader, "Glaze"},
		{"Marinade:", LineHeader, "Marinade"},
		{"chopped", LineModifier, ""},
		{"  Finely Chopped ", LineModifier, ""},
		{"2 cups", LineMeasurement, ""},
		{"1 1/2 tbsp.", LineMeasurement, ""},
		{"2 cups flour", LineIngredient, ""},
		{"2 eggs", LineIngredient, ""},
		{"salt", LineIngredient, ""},
		{"- 1 onion", LineIngredient, ""},
		{"Salt: to taste", LineIngredient, ""},
		{"2 cups (about 250g)", LineIngredient, ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.line, func(t *testing.T) {
			t.Parallel()
			kind, section := Classify(snap, tt.line)
			assert.Equal(t, tt.wantKind, kind, kind.String())
			assert.Equal(t, tt.wantSection, section)
		})
	}
}
