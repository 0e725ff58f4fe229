package catalog

import "github.com/harvestbites/storefront/internal/models"

// Products is the packaged-food catalog. It is reference data: seeded
// into the database at startup and never mutated at runtime.
var Products = []models.Product{
	{
		ID:          1,
		Name:        "Gut",
		Subtitle:    "Functional Millet Cookies",
		Price:       249,
		Rating:      4.9,
		Reviews:     128,
		Benefit:     "Digestion . Microbiome . Comfort",
		Description: "Ragi cookies crafted for everyday digestive comfort.",
		Tags:        []string{"Kids Favorite", "High Calcium"},
		Ingredients: []string{
			"Organic Ragi (Finger Millet) Flour",
			"Jaggery",
			"Desi Ghee",
			"Almonds",
			"Cardamom",
			"Rock Salt",
		},
		Nutrition: []models.NutritionFact{
			{Label: "Calories", Value: "120 kcal"},
			{Label: "Protein", Value: "3g"},
			{Label: "Fibre", Value: "4g"},
			{Label: "Iron", Value: "15% DV"},
			{Label: "Calcium", Value: "20% DV"},
		},
		MRP:          299,
		Discount:     17,
		PremiumPrice: 239,
		Image:        "/assets/products/ragi.png",
		Images:       []string{"/assets/products/ragi-1.png", "/assets/products/ragi-2.png", "/assets/products/ragi-3.png", "/assets/products/ragi-4.png"},
	},
	{
		ID:          2,
		Name:        "Brain",
		Subtitle:    "Functional Millet Cookies",
		Price:       229,
		Rating:      4.8,
		Reviews:     96,
		Benefit:     "Heart Friendly",
		Description: "Jowar cookies with walnuts for focus and recall.",
		Tags:        []string{"No Refined Sugar", "Brain Food"},
		Ingredients: []string{
			"Jowar (Sorghum) Flour",
			"Jaggery",
			"Desi Ghee",
			"Walnuts",
			"Flax Seeds",
		},
		Nutrition: []models.NutritionFact{
			{Label: "Calories", Value: "115 kcal"},
			{Label: "Protein", Value: "3g"},
			{Label: "Fibre", Value: "3g"},
			{Label: "Omega-3", Value: "12% DV"},
		},
		MRP:          279,
		Discount:     18,
		PremiumPrice: 219,
		Image:        "/assets/products/jowar.png",
		Images:       []string{"/assets/products/jowar-1.png", "/assets/products/jowar-2.png", "/assets/products/jowar-3.png", "/assets/products/jowar-4.png"},
	},
	{
		ID:          3,
		Name:        "Heart",
		Subtitle:    "Functional Millet Cookies",
		Price:       259,
		Rating:      4.7,
		Reviews:     84,
		Benefit:     "Gut Health",
		Description: "Bajra cookies supporting cholesterol balance.",
		Tags:        []string{"Heart Healthy", "High Fibre"},
		Ingredients: []string{
			"Bajra (Pearl Millet) Flour",
			"Jaggery",
			"Desi Ghee",
			"Pumpkin Seeds",
		},
		Nutrition: []models.NutritionFact{
			{Label: "Calories", Value: "118 kcal"},
			{Label: "Protein", Value: "4g"},
			{Label: "Fibre", Value: "4g"},
			{Label: "Magnesium", Value: "18% DV"},
		},
		MRP:          309,
		Discount:     16,
		PremiumPrice: 245,
		Image:        "/assets/products/bajra.png",
		Images:       []string{"/assets/products/bajra-1.png", "/assets/products/bajra-2.png", "/assets/products/bajra-3.png", "/assets/products/bajra-4.png"},
	},
	{
		ID:          4,
		Name:        "Born Density",
		Subtitle:    "Functional Millet Cookies",
		Price:       299,
		Rating:      4.9,
		Reviews:     156,
		Benefit:     "Complete Nutrition",
		Description: "Multi-millet cookies for bone strength.",
		Tags:        []string{"High Calcium", "All Ages"},
		Ingredients: []string{
			"Multi Millet Flour",
			"Jaggery",
			"Desi Ghee",
			"Sesame Seeds",
			"Almonds",
		},
		Nutrition: []models.NutritionFact{
			{Label: "Calories", Value: "125 kcal"},
			{Label: "Protein", Value: "4g"},
			{Label: "Calcium", Value: "25% DV"},
		},
		MRP:          349,
		Discount:     14,
		PremiumPrice: 279,
		Image:        "/assets/products/multi.png",
		Images:       []string{"/assets/products/multi-1.png", "/assets/products/multi-2.png", "/assets/products/multi-3.png", "/assets/products/multi-4.png"},
	},
	{
		ID:          5,
		Name:        "Pocd / Pcos",
		Subtitle:    "Functional Millet Cookies",
		Price:       269,
		Rating:      4.8,
		Reviews:     72,
		Benefit:     "Blood Sugar Support",
		Description: "Foxtail millet cookies with a low glycemic load.",
		Tags:        []string{"Low GI", "Hormone Balance"},
		Ingredients: []string{
			"Foxtail Millet Flour",
			"Jaggery",
			"Desi Ghee",
			"Fenugreek",
			"Cinnamon",
		},
		Nutrition: []models.NutritionFact{
			{Label: "Calories", Value: "112 kcal"},
			{Label: "Protein", Value: "3g"},
			{Label: "Fibre", Value: "5g"},
		},
		MRP:          319,
		Discount:     16,
		PremiumPrice: 259,
		Image:        "/assets/products/foxtail.png",
		Images:       []string{"/assets/products/foxtail-1.png", "/assets/products/foxtail-2.png", "/assets/products/foxtail-3.png", "/assets/products/foxtail-4.png"},
	},
	{
		ID:          6,
		Name:        "Little Millet Joy",
		Subtitle:    "Functional Millet Cookies",
		Price:       239,
		Rating:      4.6,
		Reviews:     64,
		Benefit:     "Weight Management",
		Description: "Little millet cookies that keep you fuller for longer.",
		Tags:        []string{"Light Snack", "High Fibre"},
		Ingredients: []string{
			"Little Millet Flour",
			"Jaggery",
			"Desi Ghee",
			"Raisins",
		},
		Nutrition: []models.NutritionFact{
			{Label: "Calories", Value: "110 kcal"},
			{Label: "Protein", Value: "3g"},
			{Label: "Fibre", Value: "4g"},
		},
		MRP:          289,
		Discount:     17,
		PremiumPrice: 229,
		Image:        "/assets/products/little.png",
		Images:       []string{"/assets/products/little-1.png", "/assets/products/little-2.png", "/assets/products/little-3.png", "/assets/products/little-4.png"},
	},
	{
		ID:          101,
		Name:        "All-in-One Wellness Combo",
		Subtitle:    "All your wellness needs in one pack",
		Price:       999,
		Rating:      4.9,
		Reviews:     212,
		Benefit:     "Complete Family Wellness",
		Description: "One pack of every cookie in the range.",
		Tags:        []string{"Best Value", "Gift Ready"},
		Ingredients: []string{"All six millet cookie variants"},
		Nutrition: []models.NutritionFact{
			{Label: "Packs", Value: "6"},
		},
		MRP:          1528,
		Discount:     15,
		PremiumPrice: 899,
		Image:        "/assets/combos/combo.png",
		Images:       []string{"/assets/combos/combo-1.png", "/assets/combos/combo-2.png", "/assets/combos/combo-3.png", "/assets/combos/combo-4.png"},
	},
}
