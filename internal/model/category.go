package model

// Category is a spending bucket a merchant description can fall into.
type Category string

const (
	CategoryFood        Category = "Food & Dining"
	CategoryInvestments Category = "Investments"
	CategoryTravel      Category = "Travel"
	CategoryDebt        Category = "Debt Payments"
	CategoryInsurance   Category = "Insurance"
	CategoryRent        Category = "Rent"

	// CategoryUncategorized is used when no rule matches.
	CategoryUncategorized Category = "Uncategorized"
)

// Categories lists the known categories in display order.
var Categories = []Category{
	CategoryFood,
	CategoryInvestments,
	CategoryTravel,
	CategoryDebt,
	CategoryInsurance,
	CategoryRent,
}
