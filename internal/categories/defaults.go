package categories

import "github.com/wealthwise-dev/wealthwise/internal/model"

// DefaultRules returns the built-in merchant rules for Indian retail banking
// statements.
func DefaultRules() []Rule {
	return []Rule{
		{Category: model.CategoryFood, Keywords: []string{"Swiggy", "Zomato", "Starbucks", "McDonalds"}},
		{Category: model.CategoryInvestments, Keywords: []string{"Zerodha", "Groww", "IndMoney"}},
		{Category: model.CategoryTravel, Keywords: []string{"Uber", "Ola", "Rapido"}},
		{Category: model.CategoryDebt, Keywords: []string{"Cred", "Credit Card"}},
		{Category: model.CategoryInsurance, Keywords: []string{"LIC", "Acko", "Policy"}},
		{Category: model.CategoryRent, Keywords: []string{"Rent", "Landlord"}},
	}
}
