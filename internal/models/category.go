package models

// Category is the closed set of merchant-category labels derived from MCC
// codes. Classification always yields exactly one of these; CategoryOther is
// the catch-all for unknown or missing codes.
type Category string

const (
	CategoryAgricultural  Category = "Agricultural"
	CategoryTransport     Category = "Transport"
	CategoryUtilities     Category = "Utilities"
	CategoryShopping      Category = "Shopping"
	CategoryGroceries     Category = "Groceries"
	CategoryClothing      Category = "Clothing"
	CategoryDigital       Category = "Digital"
	CategoryDining        Category = "Dining"
	CategoryFinancial     Category = "Financial"
	CategoryCash          Category = "Cash"
	CategoryServices      Category = "Services"
	CategoryBusiness      Category = "Business"
	CategoryEntertainment Category = "Entertainment"
	CategoryHealth        Category = "Health"
	CategoryEducation     Category = "Education"
	CategoryGovernment    Category = "Government"
	CategoryHolidays      Category = "Holidays"
	CategoryFuel          Category = "Fuel"
	CategoryOther         Category = "Other"
)

// AllCategories lists the labels in classification table order.
var AllCategories = []Category{
	CategoryAgricultural,
	CategoryTransport,
	CategoryUtilities,
	CategoryShopping,
	CategoryGroceries,
	CategoryClothing,
	CategoryDigital,
	CategoryDining,
	CategoryFinancial,
	CategoryCash,
	CategoryServices,
	CategoryBusiness,
	CategoryEntertainment,
	CategoryHealth,
	CategoryEducation,
	CategoryGovernment,
	CategoryHolidays,
	CategoryFuel,
	CategoryOther,
}
