package shopping

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"ingredient-engine/internal/pkg/common"
)

// unitAliases 縮寫與複數對應到正式長名稱
var unitAliases = map[string]string{
	"tsp": "teaspoon", "tsps": "teaspoon", "teaspoons": "teaspoon",
	"tbsp": "tablespoon", "tbsps": "tablespoon", "tbs": "tablespoon", "tbl": "tablespoon", "tablespoons": "tablespoon",
	"c": "cup", "cups": "cup",
	"fl oz": "fluid ounce", "fl. oz": "fluid ounce", "fluid ounces": "fluid ounce",
	"oz": "ounce", "ounces": "ounce",
	"lb": "pound", "lbs": "pound", "pounds": "pound",
	"g": "gram", "gr": "gram", "grams": "gram",
	"kg": "kilogram", "kilo": "kilogram", "kilos": "kilogram", "kilograms": "kilogram",
	"ml": "milliliter", "milliliters": "milliliter", "millilitre": "milliliter", "millilitres": "milliliter",
	"l": "liter", "liters": "liter", "litre": "liter", "litres": "liter",
	"pt": "pint", "pints": "pint",
	"qt": "quart", "quarts": "quart",
	"gal": "gallon", "gallons": "gallon",
	"cloves": "clove",
	"cans":   "can", "tin": "can", "tins": "can",
	"pkg": "package", "packages": "package", "packet": "package", "packets": "package",
	"slices": "slice",
	"pc":     "piece", "pcs": "piece", "pieces": "piece",
	"pinches":  "pinch",
	"dashes":   "dash",
	"bunches":  "bunch",
	"sticks":   "stick",
	"sprigs":   "sprig",
	"heads":    "head",
	"stalks":   "stalk",
	"handfuls": "handful",
	"inches":   "inch",
	"cm":       "centimeter", "centimeters": "centimeter", "centimetre": "centimeter", "centimetres": "centimeter",
}

// NormalizeUnit 對照表查不到時回傳自身的小寫形式
func NormalizeUnit(unit string) string {
	u := strings.ToLower(common.CollapseSpaces(unit))
	u = strings.TrimSuffix(u, ".")
	if u == "" {
		return ""
	}
	if canonical, ok := unitAliases[u]; ok {
		return canonical
	}
	return u
}

// NormalizeName 去重音、小寫、移除非英數字元並合併空白
func NormalizeName(name string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteRune(' ')
	}
	return common.CollapseSpaces(b.String())
}
