package products

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Category is the catalog category snapshot embedded in products.
type Category struct {
	CategoryID  string `json:"categoryId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`
}

// Brand is the brand snapshot embedded in products.
type Brand struct {
	BrandID   string `json:"brandId"`
	Name      string `json:"name"`
	IsPremium bool   `json:"isPremium"`
	CreatedAt string `json:"createdAt"`
}

// Product is the immutable catalog entry shown to shoppers. Price is in the
// smallest currency unit.
type Product struct {
	ProductID      string          `json:"productId"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Price          int64           `json:"price"`
	StockQuantity  int             `json:"stockQuantity"`
	ImageURLs      []string        `json:"imageUrls"`
	CommissionRate decimal.Decimal `json:"commissionRate"`
	CategoryID     string          `json:"categoryId"`
	BrandID        string          `json:"brandId"`
	CreatedAt      string          `json:"createAt"`
	UpdatedAt      *string         `json:"updatedAt"`
	IsActive       bool            `json:"isActive"`
	Category       Category        `json:"category"`
	Brand          Brand           `json:"brand"`
}

// InStock reports whether at least one unit is available.
func (p Product) InStock() bool {
	return p.StockQuantity > 0
}

// Normalize cleans a product decoded from the network.
func (p Product) Normalize() Product {
	p.ProductID = strings.TrimSpace(p.ProductID)
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	if p.Price < 0 {
		p.Price = 0
	}
	if p.StockQuantity < 0 {
		p.StockQuantity = 0
	}
	urls := make([]string, 0, len(p.ImageURLs))
	for _, u := range p.ImageURLs {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	p.ImageURLs = urls
	if p.CommissionRate.IsNegative() {
		p.CommissionRate = decimal.Zero
	}
	if p.UpdatedAt != nil && strings.TrimSpace(*p.UpdatedAt) == "" {
		p.UpdatedAt = nil
	}
	p.Category.Name = strings.TrimSpace(p.Category.Name)
	p.Brand.Name = strings.TrimSpace(p.Brand.Name)
	if p.CategoryID == "" {
		p.CategoryID = p.Category.CategoryID
	}
	if p.BrandID == "" {
		p.BrandID = p.Brand.BrandID
	}
	return p
}

// NormalizeAll normalizes every product; a nil input yields an empty slice.
func NormalizeAll(items []Product) []Product {
	out := make([]Product, 0, len(items))
	for _, p := range items {
		out = append(out, p.Normalize())
	}
	return out
}

// CreateProductInput is the admin payload for a new catalog entry.
type CreateProductInput struct {
	Name           string          `json:"name" validate:"notblank"`
	Description    string          `json:"description"`
	Price          int64           `json:"price" validate:"gte=0"`
	StockQuantity  int             `json:"stockQuantity" validate:"gte=0"`
	ImageURLs      []string        `json:"imageUrls,omitempty" validate:"omitempty,dive,url"`
	CommissionRate decimal.Decimal `json:"commissionRate"`
	CategoryID     string          `json:"categoryId" validate:"notblank"`
	BrandID        string          `json:"brandId" validate:"notblank"`
}

// CreateBrandInput is the payload of the brand form.
type CreateBrandInput struct {
	Name      string `json:"name" validate:"notblank"`
	IsPremium bool   `json:"isPremium,omitempty"`
}

// CategoryInput is the payload of the category create and update forms.
type CategoryInput struct {
	Name        string `json:"name" validate:"notblank"`
	Description string `json:"description"`
}
