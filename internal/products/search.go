package products

import "strings"

// Search filters products whose name or brand contains query, ignoring case.
// A blank query returns the catalog unchanged.
func Search(items []Product, query string) []Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}
	out := make([]Product, 0, len(items))
	for _, p := range items {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Brand.Name), q) {
			out = append(out, p)
		}
	}
	return out
}

// FindByID returns the product with the given id.
func FindByID(items []Product, id string) (Product, bool) {
	for _, p := range items {
		if p.ProductID == id {
			return p, true
		}
	}
	return Product{}, false
}
