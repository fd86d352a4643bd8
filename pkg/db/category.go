package db

import (
	"fmt"
	"strings"
)

// Category is the meal type of an entry
type Category string

const (
	CategoryNone      Category = ""
	CategoryBreakfast Category = "Breakfast"
	CategoryLunch     Category = "Lunch"
	CategoryDinner    Category = "Dinner"
	CategorySnack     Category = "Snack"
)

// Categories lists the known categories in display order.
var Categories = []Category{CategoryBreakfast, CategoryLunch, CategoryDinner, CategorySnack}

// ParseCategory matches s case-insensitively against the known categories.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CategoryNone, nil
	}
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return CategoryNone, fmt.Errorf("unknown category: %q", s)
}

// Valid reports whether c is empty or one of the known categories.
func (c Category) Valid() bool {
	if c == CategoryNone {
		return true
	}
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseDescription splits a legacy "[Category] text" description into its
// category and the remaining text. Descriptions without a recognised tag are
// returned unchanged with no category.
func ParseDescription(description string) (Category, string) {
	if !strings.HasPrefix(description, "[") {
		return CategoryNone, description
	}
	end := strings.Index(description, "]")
	if end < 0 {
		return CategoryNone, description
	}
	category, err := ParseCategory(description[1:end])
	if err != nil || category == CategoryNone {
		return CategoryNone, description
	}
	return category, strings.TrimSpace(description[end+1:])
}
