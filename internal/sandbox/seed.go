package sandbox

import (
	"fmt"

	"github.com/angelmondragon/storefront/internal/products"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DemoEmail    = "demo@storefront.dev"
	DemoPassword = "demo1234"
)

type seedProduct struct {
	name     string
	brand    int
	category int
	price    int64
	stock    int
}

var (
	seedBrands     = []string{"Lumi Beauty", "Rose & Co", "Atelier Mono"}
	seedCategories = []struct{ name, description string }{
		{"Face", "Foundation, primer, powder and concealer"},
		{"Cheeks", "Blush, bronzer and highlighter"},
		{"Lips", "Lipstick and lip care"},
		{"Eyes", "Mascara, liner and shadow"},
		{"Care", "Cleansing and finishing"},
	}
	seedProducts = []seedProduct{
		{"Warm Beige Liquid Foundation", 0, 0, 420000, 25},
		{"Cool Pink Satin Foundation", 1, 0, 450000, 18},
		{"Matte Oil Control Foundation", 2, 0, 890000, 12},
		{"Hydrating Dewy Foundation", 0, 0, 760000, 9},
		{"Pore Minimizing Matte Primer", 2, 0, 540000, 14},
		{"Hydrating Moisture Primer", 1, 0, 380000, 20},
		{"Matte Setting Powder", 0, 0, 310000, 30},
		{"Full Coverage Concealer", 1, 0, 260000, 40},
		{"Coral Peach Blush", 0, 1, 290000, 22},
		{"Rose Pink Blush", 1, 1, 300000, 0},
		{"Soft Natural Blush", 2, 1, 1250000, 6},
		{"Contour Bronzer Duo", 2, 1, 980000, 11},
		{"Illuminator Highlight Stick", 1, 1, 670000, 16},
		{"Warm Coral Lipstick", 0, 2, 240000, 35},
		{"Rose Pink Lipstick", 1, 2, 240000, 28},
		{"Volume Mascara", 2, 3, 350000, 50},
		{"Precision Eyeliner", 0, 3, 190000, 45},
		{"Nude Eyeshadow Palette", 1, 3, 1150000, 8},
		{"All Day Setting Spray", 2, 4, 520000, 19},
		{"Gentle Cleansing Soap", 0, 4, 90000, 60},
	}
)

func (s *Store) seed() error {
	now := s.timestamp()

	s.mu.Lock()
	for _, name := range seedBrands {
		s.brands = append(s.brands, products.Brand{
			BrandID:   uuid.NewString(),
			Name:      name,
			IsPremium: name == "Atelier Mono",
			CreatedAt: now,
		})
	}
	for _, c := range seedCategories {
		s.categories = append(s.categories, products.Category{
			CategoryID:  uuid.NewString(),
			Name:        c.name,
			Description: c.description,
			CreatedAt:   now,
		})
	}
	for i, sp := range seedProducts {
		brand := s.brands[sp.brand]
		category := s.categories[sp.category]
		s.products = append(s.products, products.Product{
			ProductID:      uuid.NewString(),
			Name:           sp.name,
			Description:    fmt.Sprintf("%s by %s", sp.name, brand.Name),
			Price:          sp.price,
			StockQuantity:  sp.stock,
			ImageURLs:      []string{fmt.Sprintf("%s/media/products/%d.jpg", s.publicURL, i+1)},
			CommissionRate: decimal.RequireFromString("0.10"),
			CategoryID:     category.CategoryID,
			BrandID:        brand.BrandID,
			CreatedAt:      now,
			IsActive:       true,
			Category:       category,
			Brand:          brand,
		})
	}
	s.mu.Unlock()

	if err := s.addUser(Registration{Email: DemoEmail, Name: "Demo Shopper", Password: DemoPassword}); err != nil {
		return fmt.Errorf("seed demo user: %w", err)
	}
	return nil
}
