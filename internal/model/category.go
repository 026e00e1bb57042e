package model

import (
	"fmt"
	"sort"
)

// Category is one row of the product category reference table, derived from
// the categories actually observed in the cleaned dataset.
type Category struct {
	CategoryID string `csv:"category_id"`
	NameEN     string `csv:"category_name_en"`
	NameJP     string `csv:"category_name_jp"`
}

// CategoryMappings maps raw category tokens (Japanese and already-canonical
// English) onto the canonical English vocabulary. Returned as a fresh map so
// cleaning behavior stays deterministic per call.
func CategoryMappings() map[string]string {
	return map[string]string{
		// Japanese to English
		"レディース":  "Women's Apparel",
		"メンズ":    "Men's Apparel",
		"アクセサリー": "Accessories",
		"シューズ":   "Footwear",
		"バッグ":    "Bags",
		"キッズ":    "Kids",
		"季節商品":   "Seasonal",
		"セール商品":  "Sale Items",

		// English identity mappings
		"Women's Apparel": "Women's Apparel",
		"Men's Apparel":   "Men's Apparel",
		"Accessories":     "Accessories",
		"Footwear":        "Footwear",
		"Bags":            "Bags",
		"Kids":            "Kids",
		"Seasonal":        "Seasonal",
		"Sale Items":      "Sale Items",
	}
}

// CanonicalCategories returns the closed category vocabulary, sorted.
func CanonicalCategories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, v := range CategoryMappings() {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// BuildCategoryMetadata builds the category reference table from the set of
// categories observed in the cleaned dataset. IDs are assigned C01, C02, ...
// in sorted category order; Japanese names come from the reverse of the
// category mappings, falling back to the English name when no Japanese
// spelling exists.
func BuildCategoryMetadata(observed []string) []Category {
	uniq := make(map[string]struct{}, len(observed))
	for _, c := range observed {
		uniq[c] = struct{}{}
	}
	names := make([]string, 0, len(uniq))
	for c := range uniq {
		names = append(names, c)
	}
	sort.Strings(names)

	reverse := make(map[string]string)
	for raw, canonical := range CategoryMappings() {
		if raw != canonical {
			reverse[canonical] = raw
		}
	}

	out := make([]Category, 0, len(names))
	for i, name := range names {
		jp, ok := reverse[name]
		if !ok {
			jp = name
		}
		out = append(out, Category{
			CategoryID: fmt.Sprintf("C%02d", i+1),
			NameEN:     name,
			NameJP:     jp,
		})
	}
	return out
}
