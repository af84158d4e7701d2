package kb

import "ingredient-engine/internal/pkg/common"

// DefaultSeed 內建的食材、單位與修飾詞
func DefaultSeed() SeedData {
	return SeedData{
		Ingredients: seedIngredients,
		Units:       seedUnits,
		Modifiers:   seedModifiers,
	}
}

func ingredient(name string, cat common.Category, defaultUnit string, aliases ...string) common.KnownIngredient {
	return common.KnownIngredient{Name: name, Category: cat, DefaultUnit: defaultUnit, Aliases: aliases}
}

func unit(name, abbr string, typ common.UnitType, base string, factor float64, aliases ...string) common.KnownUnit {
	return common.KnownUnit{Name: name, Abbreviation: abbr, Type: typ, BaseUnit: base, ConversionToBase: factor, Aliases: aliases}
}

func modifier(name string, typ common.ModifierType, aliases ...string) common.KnownModifier {
	return common.KnownModifier{Name: name, Type: typ, Aliases: aliases}
}

var seedIngredients = []common.KnownIngredient{
	ingredient("Salt", common.CategorySpices, "teaspoon", "table salt", "kosher salt", "sea salt", "fine salt"),
	ingredient("Black Pepper", common.CategorySpices, "teaspoon", "pepper", "ground black pepper", "black peppercorns"),
	ingredient("Garlic", common.CategoryProduce, "clove", "garlic clove", "garlic cloves"),
	ingredient("Onion", common.CategoryProduce, "", "yellow onion", "white onion", "brown onion"),
	ingredient("Red Onion", common.CategoryProduce, "", "purple onion"),
	ingredient("Green Onion", common.CategoryProduce, "", "scallion", "scallions", "spring onion", "spring onions"),
	ingredient("Shallot", common.CategoryProduce, ""),
	ingredient("Carrot", common.CategoryProduce, ""),
	ingredient("Celery", common.CategoryProduce, "stalk", "celery stalk", "celery stalks", "celery rib"),
	ingredient("Potato", common.CategoryProduce, "", "russet potato", "yukon gold potato"),
	ingredient("Sweet Potato", common.CategoryProduce, "", "yam"),
	ingredient("Tomato", common.CategoryProduce, "", "tomatoes", "roma tomato"),
	ingredient("Canned Tomatoes", common.CategoryPantry, "can", "diced tomatoes", "crushed tomatoes", "tinned tomatoes"),
	ingredient("Tomato Paste", common.CategoryPantry, "tablespoon"),
	ingredient("Bell Pepper", common.CategoryProduce, "", "red bell pepper", "green bell pepper", "capsicum"),
	ingredient("Jalapeño", common.CategoryProduce, "", "jalapeno", "jalapeno pepper"),
	ingredient("Spinach", common.CategoryProduce, "cup", "baby spinach"),
	ingredient("Lemon", common.CategoryProduce, ""),
	ingredient("Lemon Juice", common.CategoryProduce, "tablespoon", "fresh lemon juice"),
	ingredient("Lime", common.CategoryProduce, ""),
	ingredient("Parsley", common.CategoryProduce, "", "flat-leaf parsley", "italian parsley"),
	ingredient("Cilantro", common.CategoryProduce, "", "coriander leaves", "fresh coriander"),
	ingredient("Basil", common.CategoryProduce, "", "basil leaves"),
	ingredient("Ginger", common.CategoryProduce, "", "fresh ginger", "ginger root"),
	ingredient("Mushroom", common.CategoryProduce, "", "button mushroom", "cremini mushroom"),
	ingredient("Chicken Breast", common.CategoryProtein, "pound", "chicken breasts", "boneless chicken breast"),
	ingredient("Chicken Thigh", common.CategoryProtein, "pound", "chicken thighs"),
	ingredient("Ground Beef", common.CategoryProtein, "pound", "minced beef", "beef mince"),
	ingredient("Bacon", common.CategoryProtein, "slice", "bacon strips"),
	ingredient("Salmon", common.CategoryProtein, "", "salmon fillet"),
	ingredient("Shrimp", common.CategoryProtein, "pound", "prawns"),
	ingredient("Egg", common.CategoryProtein, "", "eggs", "large egg"),
	ingredient("Tofu", common.CategoryProtein, "", "firm tofu"),
	ingredient("Butter", common.CategoryDairy, "tablespoon", "unsalted butter", "salted butter"),
	ingredient("Milk", common.CategoryDairy, "cup", "whole milk", "2% milk"),
	ingredient("Heavy Cream", common.CategoryDairy, "cup", "heavy whipping cream", "double cream"),
	ingredient("Sour Cream", common.CategoryDairy, "cup"),
	ingredient("Greek Yogurt", common.CategoryDairy, "cup", "plain yogurt", "yogurt"),
	ingredient("Parmesan", common.CategoryDairy, "cup", "parmesan cheese", "parmigiano reggiano"),
	ingredient("Cheddar", common.CategoryDairy, "cup", "cheddar cheese", "sharp cheddar"),
	ingredient("Mozzarella", common.CategoryDairy, "cup", "mozzarella cheese"),
	ingredient("All-Purpose Flour", common.CategoryBaking, "cup", "flour", "plain flour", "ap flour"),
	ingredient("Granulated Sugar", common.CategoryBaking, "cup", "sugar", "white sugar", "caster sugar"),
	ingredient("Brown Sugar", common.CategoryBaking, "cup", "light brown sugar", "dark brown sugar"),
	ingredient("Baking Powder", common.CategoryBaking, "teaspoon"),
	ingredient("Baking Soda", common.CategoryBaking, "teaspoon", "bicarbonate of soda"),
	ingredient("Vanilla Extract", common.CategoryBaking, "teaspoon", "vanilla", "pure vanilla extract"),
	ingredient("Yeast", common.CategoryBaking, "teaspoon", "active dry yeast", "instant yeast"),
	ingredient("Olive Oil", common.CategoryPantry, "tablespoon", "extra virgin olive oil", "evoo"),
	ingredient("Vegetable Oil", common.CategoryPantry, "tablespoon", "canola oil", "neutral oil"),
	ingredient("Soy Sauce", common.CategoryPantry, "tablespoon", "shoyu", "light soy sauce"),
	ingredient("Chicken Broth", common.CategoryPantry, "cup", "chicken stock"),
	ingredient("Honey", common.CategoryPantry, "tablespoon"),
	ingredient("Dijon Mustard", common.CategoryPantry, "teaspoon", "dijon"),
	ingredient("Rice", common.CategoryGrains, "cup", "white rice", "long grain rice"),
	ingredient("Pasta", common.CategoryGrains, "pound", "spaghetti", "penne"),
	ingredient("Bread Crumbs", common.CategoryGrains, "cup", "breadcrumbs", "panko"),
	ingredient("Rolled Oats", common.CategoryGrains, "cup", "oats", "old-fashioned oats"),
	ingredient("Cumin", common.CategorySpices, "teaspoon", "ground cumin"),
	ingredient("Paprika", common.CategorySpices, "teaspoon", "smoked paprika", "sweet paprika"),
	ingredient("Cinnamon", common.CategorySpices, "teaspoon", "ground cinnamon"),
	ingredient("Oregano", common.CategorySpices, "teaspoon", "dried oregano"),
	ingredient("Chili Flakes", common.CategorySpices, "teaspoon", "red pepper flakes", "crushed red pepper"),
	ingredient("Bay Leaf", common.CategorySpices, "", "bay leaves"),
	ingredient("Water", common.CategoryOther, "cup"),
}

var seedUnits = []common.KnownUnit{
	unit("teaspoon", "tsp", common.UnitVolume, "milliliter", 4.92892, "teaspoons", "tsps", "tsp."),
	unit("tablespoon", "tbsp", common.UnitVolume, "milliliter", 14.7868, "tablespoons", "tbsps", "tbs", "tbl", "tbsp."),
	unit("cup", "c", common.UnitVolume, "milliliter", 236.588, "cups"),
	unit("fluid ounce", "fl oz", common.UnitVolume, "milliliter", 29.5735, "fluid ounces", "fl. oz"),
	unit("pint", "pt", common.UnitVolume, "milliliter", 473.176, "pints"),
	unit("quart", "qt", common.UnitVolume, "milliliter", 946.353, "quarts"),
	unit("gallon", "gal", common.UnitVolume, "milliliter", 3785.41, "gallons"),
	unit("milliliter", "ml", common.UnitVolume, "milliliter", 1, "milliliters", "millilitre", "millilitres"),
	unit("liter", "l", common.UnitVolume, "milliliter", 1000, "liters", "litre", "litres"),
	unit("ounce", "oz", common.UnitWeight, "gram", 28.3495, "ounces", "oz."),
	unit("pound", "lb", common.UnitWeight, "gram", 453.592, "pounds", "lbs", "lb."),
	unit("gram", "g", common.UnitWeight, "gram", 1, "grams", "gr"),
	unit("kilogram", "kg", common.UnitWeight, "gram", 1000, "kilograms", "kilo", "kilos"),
	unit("pinch", "", common.UnitCount, "", 0, "pinches"),
	unit("dash", "", common.UnitCount, "", 0, "dashes"),
	unit("clove", "", common.UnitCount, "", 0, "cloves"),
	unit("can", "", common.UnitCount, "", 0, "cans", "tin", "tins"),
	unit("package", "pkg", common.UnitCount, "", 0, "packages", "packet", "packets"),
	unit("slice", "", common.UnitCount, "", 0, "slices"),
	unit("piece", "pc", common.UnitCount, "", 0, "pieces", "pcs"),
	unit("bunch", "", common.UnitCount, "", 0, "bunches"),
	unit("stick", "", common.UnitCount, "", 0, "sticks"),
	unit("sprig", "", common.UnitCount, "", 0, "sprigs"),
	unit("head", "", common.UnitCount, "", 0, "heads"),
	unit("stalk", "", common.UnitCount, "", 0, "stalks"),
	unit("handful", "", common.UnitCount, "", 0, "handfuls"),
	unit("inch", "", common.UnitLength, "centimeter", 2.54, "inches"),
	unit("centimeter", "cm", common.UnitLength, "centimeter", 1, "centimeters", "centimetre", "centimetres"),
}

var seedModifiers = []common.KnownModifier{
	modifier("chopped", common.ModifierPreparation, "chop"),
	modifier("finely chopped", common.ModifierPreparation, "chopped finely"),
	modifier("roughly chopped", common.ModifierPreparation, "coarsely chopped"),
	modifier("diced", common.ModifierPreparation, "dice"),
	modifier("minced", common.ModifierPreparation, "mince"),
	modifier("sliced", common.ModifierPreparation),
	modifier("thinly sliced", common.ModifierPreparation),
	modifier("grated", common.ModifierPreparation),
	modifier("shredded", common.ModifierPreparation),
	modifier("crushed", common.ModifierPreparation),
	modifier("ground", common.ModifierPreparation),
	modifier("peeled", common.ModifierPreparation),
	modifier("seeded", common.ModifierPreparation, "deseeded"),
	modifier("halved", common.ModifierPreparation),
	modifier("quartered", common.ModifierPreparation),
	modifier("cubed", common.ModifierPreparation),
	modifier("julienned", common.ModifierPreparation),
	modifier("trimmed", common.ModifierPreparation),
	modifier("zested", common.ModifierPreparation),
	modifier("juiced", common.ModifierPreparation),
	modifier("sifted", common.ModifierPreparation),
	modifier("beaten", common.ModifierPreparation, "lightly beaten"),
	modifier("packed", common.ModifierPreparation, "firmly packed"),
	modifier("divided", common.ModifierPreparation),
	modifier("fresh", common.ModifierState, "freshly"),
	modifier("frozen", common.ModifierState, "thawed"),
	modifier("dried", common.ModifierState, "dry"),
	modifier("canned", common.ModifierState),
	modifier("raw", common.ModifierState),
	modifier("melted", common.ModifierState),
	modifier("softened", common.ModifierState),
	modifier("room temperature", common.ModifierState, "at room temperature"),
	modifier("cold", common.ModifierState, "chilled"),
	modifier("boneless", common.ModifierQuality),
	modifier("skinless", common.ModifierQuality),
	modifier("organic", common.ModifierQuality),
	modifier("ripe", common.ModifierQuality),
	modifier("large", common.ModifierSize),
	modifier("medium", common.ModifierSize),
	modifier("small", common.ModifierSize),
	modifier("extra large", common.ModifierSize, "extra-large", "xl"),
	modifier("cooked", common.ModifierCooking),
	modifier("toasted", common.ModifierCooking),
	modifier("roasted", common.ModifierCooking),
	modifier("blanched", common.ModifierCooking),
}
