package extraction

import (
	"regexp"
	"strings"

	"listing-service/internal/core/domain"
)

const DefaultSubCategory = "General"

// Vehicle body types in text inference order: the larger body wins, so
// "van with car seats" is a Van.
var vehicleBodyRules = []keywordRule{
	newKeywordRule("Bus", "bus", "coach"),
	newKeywordRule("Van", "van", "mini van", "hiace", "kdh", "caravan"),
	newKeywordRule("Car", "car", "sedan", "hatchback", "wagon", "estate", "suv", "jeep"),
	newKeywordRule("Bike", "bike", "motorcycle", "motor bike", "scooter", "scooty"),
	newKeywordRule("Three Wheeler", "three wheeler", "tuk", "tuk tuk", "trishaw"),
	newKeywordRule("Lorry", "lorry", "truck", "tipper"),
}

// Remap order for a written sub-category value: smaller bodies first, so
// "bike or car" is a Bike.
var vehicleRemapRules = []keywordRule{
	vehicleBodyRules[3], // Bike
	vehicleBodyRules[2], // Car
	vehicleBodyRules[1], // Van
	vehicleBodyRules[0], // Bus
	vehicleBodyRules[4], // Three Wheeler
	vehicleBodyRules[5], // Lorry
}

// Popular model names decide the body type when the text never names one.
var vehicleModelRules = []keywordRule{
	newKeywordRule("Bus", "rosa", "coaster", "lanka ashok leyland"),
	newKeywordRule("Van", "townace", "nv200", "vanette", "noah", "voxy"),
	newKeywordRule("Car", "civic", "corolla", "axio", "allion", "premio", "vitz", "aqua", "prius",
		"vezel", "swift", "alto", "wagon r", "x trail", "demio", "axela", "lancer", "montero",
		"tucson", "elantra", "picanto", "sportage"),
	newKeywordRule("Bike", "pulsar", "platina", "ct100", "fz", "r15", "dio", "activa",
		"ray zr", "ntorq", "splendor", "gixxer", "xr150"),
}

var vehicleSubCategories = map[string]struct{}{}

func init() {
	for _, r := range vehicleBodyRules {
		vehicleSubCategories[r.label] = struct{}{}
	}
}

// IsVehicleSubCategory reports whether s is one of the fixed vehicle body types.
func IsVehicleSubCategory(s string) bool {
	_, ok := vehicleSubCategories[s]
	return ok
}

var subCategoryRules = map[domain.Category][]keywordRule{
	domain.CategoryProperty: {
		newKeywordRule("Apartment", "apartment", "flat", "condo", "condominium"),
		newKeywordRule("House", "house", "home", "villa", "bungalow"),
		newKeywordRule("Room", "room", "rooms", "annex", "annexe", "boarding"),
		newKeywordRule("Commercial", "commercial", "shop", "office", "warehouse", "building", "factory"),
		newKeywordRule("Land", "land", "plot", "acre", "acres", "perch", "perches"),
	},
	domain.CategoryJob: {
		newKeywordRule("Driver", "driver", "chauffeur"),
		newKeywordRule("IT & Software", "software", "developer", "programmer", "web designer", "network engineer", "qa engineer"),
		newKeywordRule("Accounting & Finance", "accountant", "accounts", "finance", "bookkeeper", "audit"),
		newKeywordRule("Teaching", "teacher", "tutor", "lecturer", "instructor"),
		newKeywordRule("Healthcare", "nurse", "doctor", "caregiver", "pharmacist", "carer"),
		newKeywordRule("Hospitality", "cook", "chef", "waiter", "steward", "hotel", "kitchen helper"),
		newKeywordRule("Security", "security", "guard", "watcher"),
		newKeywordRule("Sales & Marketing", "sales", "marketing", "sales rep", "promoter"),
		newKeywordRule("Office & Admin", "clerk", "receptionist", "admin", "secretary", "data entry"),
		newKeywordRule("Labour", "labourer", "laborer", "helper", "cleaner", "housemaid", "maid"),
	},
	domain.CategoryElectronic: {
		newKeywordRule("Washing Machine", "washing machine", "washer"),
		newKeywordRule("Refrigerator", "fridge", "refrigerator", "freezer"),
		newKeywordRule("TV", "tv", "television", "smart tv", "led tv"),
		newKeywordRule("Air Conditioner", "ac", "a/c", "air conditioner", "air conditioning"),
		newKeywordRule("Laptop", "laptop", "notebook", "macbook"),
		newKeywordRule("Computer", "computer", "desktop", "pc", "monitor"),
		newKeywordRule("Camera", "camera", "dslr", "gopro"),
		newKeywordRule("Gaming", "playstation", "ps4", "ps5", "xbox", "nintendo"),
		newKeywordRule("Audio", "speaker", "speakers", "sound system", "amplifier", "home theater"),
	},
	domain.CategoryMobile: {
		newKeywordRule("Smart Watch", "smart watch", "apple watch", "galaxy watch"),
		newKeywordRule("Tablet", "tablet", "ipad", "tab"),
		newKeywordRule("Mobile Phone", "phone", "mobile", "smartphone", "iphone", "galaxy", "redmi", "pixel"),
		newKeywordRule("Accessories", "charger", "back cover", "cover", "case", "earbuds", "earphones",
			"headphones", "power bank", "screen protector", "tempered glass"),
	},
	domain.CategoryHomeGarden: {
		newKeywordRule("Furniture", "sofa", "chair", "chairs", "table", "bed", "wardrobe", "cupboard",
			"furniture", "dining", "cabinet"),
		newKeywordRule("Kitchen", "kitchen", "cooker", "gas cooker", "blender", "oven", "utensils", "rice cooker"),
		newKeywordRule("Garden", "garden", "plant", "plants", "pot", "pots", "lawn", "mower", "seeds", "fertilizer"),
		newKeywordRule("Decor", "decor", "curtain", "curtains", "carpet", "rug", "lamp", "painting", "mirror"),
		newKeywordRule("Tools", "tools", "drill", "grinder", "ladder"),
	},
}

// RemapSubCategory maps a raw sub-category value through the category
// vocabulary. Unknown values are title-cased. Vehicle body words apply when
// the category is Vehicle or not known yet.
func RemapSubCategory(category domain.Category, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	rules := subCategoryRules[category]
	if category == domain.CategoryVehicle || category == "" {
		rules = vehicleRemapRules
	}
	if label := firstLabel(rules, raw); label != "" {
		return label
	}
	return TitleCase(raw)
}

var (
	tagWordRe = regexp.MustCompile(`[A-Za-z]{4,}`)
	// words that say nothing about the item itself
	tagStopWords = map[string]struct{}{
		"selling": {}, "sale": {}, "sell": {}, "brand": {}, "used": {}, "good": {}, "condition": {},
		"with": {}, "urgent": {}, "item": {}, "items": {}, "have": {}, "available": {}, "call": {},
		"price": {}, "negotiable": {}, "fixed": {}, "contact": {}, "very": {}, "from": {}, "this": {},
	}
)

// ExtractSubCategory infers a sub-category for category from text. Vehicles
// are tried against body words, then well-known model names. Other listings
// get a tag made of their first meaningful word. "General" when nothing fits.
func ExtractSubCategory(category domain.Category, text string) string {
	switch category {
	case domain.CategoryVehicle:
		if label := firstLabel(vehicleBodyRules, text); label != "" {
			return label
		}
		if label := firstLabel(vehicleModelRules, text); label != "" {
			return label
		}
	case domain.CategoryOther:
		for _, w := range tagWordRe.FindAllString(text, -1) {
			if _, stop := tagStopWords[strings.ToLower(w)]; !stop {
				return TitleCase(w)
			}
		}
	default:
		if label := firstLabel(subCategoryRules[category], text); label != "" {
			return label
		}
	}
	return DefaultSubCategory
}
