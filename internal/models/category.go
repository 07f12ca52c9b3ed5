package models

import (
	"encoding/json"
	"strings"
)

// Category classifies a holding. The set is closed.
type Category string

const (
	CategoryStock  Category = "stock"
	CategoryETF    Category = "etf"
	CategoryCrypto Category = "crypto"

	CategoryCash        Category = "cash"
	CategoryRealEstate  Category = "real_estate"
	CategoryBond        Category = "bond"
	CategoryFixedIncome Category = "fixed_income"
	CategoryDerivative  Category = "derivative"
	CategoryMetal       Category = "metal"
)

// AllCategories lists every supported category, listed ones first.
var AllCategories = []Category{
	CategoryStock,
	CategoryETF,
	CategoryCrypto,
	CategoryCash,
	CategoryRealEstate,
	CategoryBond,
	CategoryFixedIncome,
	CategoryDerivative,
	CategoryMetal,
}

// ParseCategory normalizes user input into a Category. The boolean is false
// when the value is not part of the closed set.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	return c, c.Valid()
}

// UnmarshalJSON normalizes case and surrounding space. Unknown values are kept
// so Validate can report them.
func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*c, _ = ParseCategory(s)
	return nil
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

// IsListed reports whether holdings of this category trade under a ticker and
// therefore consolidate across entries.
func (c Category) IsListed() bool {
	switch c {
	case CategoryStock, CategoryETF, CategoryCrypto:
		return true
	default:
		return false
	}
}

// IsCashLike reports whether the category is tracked as a balance rather than
// a unit-priced instrument.
func (c Category) IsCashLike() bool {
	return c == CategoryCash
}

// NormalizeTicker trims and upper-cases a ticker symbol.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// NormalizeCurrency trims and upper-cases an ISO currency code.
func NormalizeCurrency(currency string) string {
	return strings.ToUpper(strings.TrimSpace(currency))
}
