package models

import (
	"fmt"
	"strings"
)

// Category classifies an expense.
type Category string

const (
	CategoryFood           Category = "Food"
	CategoryTransportation Category = "Transportation"
	CategoryHousing        Category = "Housing"
	CategoryUtilities      Category = "Utilities"
	CategoryEntertainment  Category = "Entertainment"
	CategoryHealthcare     Category = "Healthcare"
	CategoryShopping       Category = "Shopping"
	CategoryEducation      Category = "Education"
	CategorySalary         Category = "Salary"
	CategoryOther          Category = "Other"
)

var categories = []Category{
	CategoryFood,
	CategoryTransportation,
	CategoryHousing,
	CategoryUtilities,
	CategoryEntertainment,
	CategoryHealthcare,
	CategoryShopping,
	CategoryEducation,
	CategorySalary,
	CategoryOther,
}

// Categories returns the fixed category set in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

func (c Category) Valid() bool {
	for _, k := range categories {
		if c == k {
			return true
		}
	}
	return false
}

// ParseCategory matches s against the category set, ignoring case and
// surrounding spaces, and returns the canonical value.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, k := range categories {
		if strings.EqualFold(s, string(k)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}
