package parser

import (
	"regexp"
	"sort"
	"strings"

	"ingredient-engine/internal/pkg/common"
)

// Tokens 規則式切分的結果，尚未對照知識庫
type Tokens struct {
	Original  string
	Quantity  common.Quantity
	UnitText  string
	Name      string
	Note      string
	Modifiers []string
}

const numberPattern = `(?:\d+(?:[.,]\d+)?(?:\s*/\s*\d+)?[½⅓⅔¼¾⅕⅖⅗⅘⅙⅚⅛⅜⅝⅞]?|[½⅓⅔¼¾⅕⅖⅗⅘⅙⅚⅛⅜⅝⅞])`

var (
	amountPattern = numberPattern + `(?:\s+` + numberPattern + `)*`

	// 範圍優先，例如 "3-4"、"3 – 4"、"1 to 2"
	rangePattern    = regexp.MustCompile(`(?i)^(` + amountPattern + `\s*(?:-|–|—|\s+to\s+)\s*` + amountPattern + `)(?:\s+|$)`)
	quantityPattern = regexp.MustCompile(`^(` + amountPattern + `)(?:\s+|$|[^\d\s\-–—/.,])`)

	parenPattern = regexp.MustCompile(`\(([^()]*)\)`)
	unitPattern  = buildUnitPattern(unitVariants)
)

// unitVariants 可辨識的單位拼法（單複數、縮寫），比對不分大小寫
var unitVariants = []string{
	"teaspoon", "teaspoons", "tsp", "tsps",
	"tablespoon", "tablespoons", "tbsp", "tbsps", "tbs", "tbl",
	"cup", "cups", "c",
	"fluid ounce", "fluid ounces", "fl oz", "fl. oz",
	"pint", "pints", "pt",
	"quart", "quarts", "qt",
	"gallon", "gallons", "gal",
	"milliliter", "milliliters", "millilitre", "millilitres", "ml",
	"liter", "liters", "litre", "litres", "l",
	"ounce", "ounces", "oz",
	"pound", "pounds", "lb", "lbs",
	"gram", "grams", "gr", "g",
	"kilogram", "kilograms", "kilo", "kilos", "kg",
	"pinch", "pinches",
	"dash", "dashes",
	"clove", "cloves",
	"can", "cans", "tin", "tins",
	"package", "packages", "packet", "packets", "pkg",
	"slice", "slices",
	"piece", "pieces", "pc", "pcs",
	"bunch", "bunches",
	"stick", "sticks",
	"sprig", "sprigs",
	"head", "heads",
	"stalk", "stalks",
	"handful", "handfuls",
	"inch", "inches",
	"centimeter", "centimeters", "centimetre", "centimetres", "cm",
}

// buildUnitPattern 依長度由長到短排列，單位後可接 "." 與 "of"
func buildUnitPattern(variants []string) *regexp.Regexp {
	sorted := append([]string(nil), variants...)
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })
	quoted := make([]string, len(sorted))
	for i, v := range sorted {
		quoted[i] = strings.ReplaceAll(regexp.QuoteMeta(v), ` `, `\s+`)
	}
	return regexp.MustCompile(`(?i)^(` + strings.Join(quoted, "|") + `)\.?(?:\s+of)?(?:\s+|$)`)
}

// Tokenize 切出數量、單位、名稱與備註；純函式，不會失敗
func Tokenize(line string) Tokens {
	t := Tokens{Original: line}
	rest := strings.TrimSpace(line)
	if rest == "" {
		return t
	}

	hasQuantity := false
	if m := rangePattern.FindStringSubmatchIndex(rest); m != nil {
		t.Quantity = common.RangeQuantity(strings.TrimSpace(rest[m[2]:m[3]]))
		rest = rest[m[3]:]
		hasQuantity = true
	} else if m := quantityPattern.FindStringSubmatchIndex(rest); m != nil {
		// 全部無法解析時不設定數量
		if v, ok := common.ParseAmount(rest[m[2]:m[3]]); ok {
			t.Quantity = common.NumberQuantity(v)
		}
		rest = rest[m[3]:]
		hasQuantity = true
	}
	rest = strings.TrimSpace(rest)

	var notes []string
	for _, m := range parenPattern.FindAllStringSubmatch(rest, -1) {
		if inner := common.CollapseSpaces(m[1]); inner != "" {
			notes = append(notes, inner)
		}
	}
	rest = common.CollapseSpaces(parenPattern.ReplaceAllString(rest, " "))

	if hasQuantity {
		if m := unitPattern.FindStringSubmatchIndex(rest); m != nil {
			t.UnitText = strings.ToLower(common.CollapseSpaces(rest[m[2]:m[3]]))
			rest = strings.TrimSpace(rest[m[1]:])
		}
	}

	if before, after, found := strings.Cut(rest, ","); found {
		if tail := common.CollapseSpaces(after); tail != "" {
			notes = append(notes, tail)
		}
		rest = before
	}

	t.Name = strings.Trim(common.CollapseSpaces(rest), " -–—:;.")
	t.Note = strings.Join(notes, "; ")
	return t
}
