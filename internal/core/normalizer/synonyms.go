package normalizer

// Synonym lists in priority order: the first key holding a usable value wins.
var (
	locationKeys    = []string{"location", "location_text", "address", "city", "town", "district"}
	modelKeys       = []string{"model_name", "model", "vehicle_model"}
	subCategoryKeys = []string{"sub_category", "subcategory", "vehicle_subcategory", "vehicle_type", "type"}
	yearKeys        = []string{"manufacture_year", "year", "model_year", "mfg_year"}
	priceKeys       = []string{"price", "price_value", "amount", "cost", "price_lkr"}
	pricingKeys     = []string{"pricing_type", "pricing", "price_type"}
	phoneKeys       = []string{"phone", "phone_number", "contact_phone", "mobile", "contact"}

	// Job listings only. Salary keys are also kept as passthrough fields.
	salaryKeys     = []string{"salary", "pay", "compensation"}
	salaryTypeKeys = []string{"salary_type", "pay_type", "compensation_type"}

	// listing level keys some models echo back; they are not record fields
	listingKeys = []string{"category", "title", "description"}
)

// consumedKeys are never carried into Extras.
var consumedKeys = func() map[string]struct{} {
	m := make(map[string]struct{})
	for _, list := range [][]string{
		locationKeys, modelKeys, subCategoryKeys, yearKeys,
		priceKeys, pricingKeys, phoneKeys, listingKeys,
	} {
		for _, k := range list {
			m[k] = struct{}{}
		}
	}
	return m
}()
