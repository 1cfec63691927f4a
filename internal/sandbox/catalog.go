package sandbox

import (
	"context"
	"strings"

	"github.com/angelmondragon/storefront/internal/products"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ListProducts returns the active catalog in insertion order.
func (s *Store) ListProducts(_ context.Context) []products.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]products.Product, 0, len(s.products))
	for _, p := range s.products {
		if p.IsActive {
			out = append(out, cloneProduct(p))
		}
	}
	return out
}

func (s *Store) CreateProduct(_ context.Context, input products.CreateProductInput) (products.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	brand, ok := s.brandByID(input.BrandID)
	if !ok {
		return products.Product{}, pkgerrors.New(pkgerrors.CodeValidation, "Unknown brand").
			WithDetails(map[string]string{"brandId": "does not exist"})
	}
	category, ok := s.categoryByID(input.CategoryID)
	if !ok {
		return products.Product{}, pkgerrors.New(pkgerrors.CodeValidation, "Unknown category").
			WithDetails(map[string]string{"categoryId": "does not exist"})
	}

	rate := input.CommissionRate
	if rate.IsNegative() {
		rate = decimal.Zero
	}
	p := products.Product{
		ProductID:      uuid.NewString(),
		Name:           strings.TrimSpace(input.Name),
		Description:    strings.TrimSpace(input.Description),
		Price:          input.Price,
		StockQuantity:  input.StockQuantity,
		ImageURLs:      append([]string{}, input.ImageURLs...),
		CommissionRate: rate,
		CategoryID:     category.CategoryID,
		BrandID:        brand.BrandID,
		CreatedAt:      s.timestamp(),
		IsActive:       true,
		Category:       category,
		Brand:          brand,
	}
	s.products = append(s.products, p)
	return cloneProduct(p), nil
}

func (s *Store) DeleteProduct(_ context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.productIndex(productID)
	if idx < 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
	}
	s.products = append(s.products[:idx], s.products[idx+1:]...)
	return nil
}

func (s *Store) ListBrands(_ context.Context) []products.Brand {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]products.Brand{}, s.brands...)
}

// CreateBrand rejects duplicate names case-insensitively.
func (s *Store) CreateBrand(_ context.Context, input products.CreateBrandInput) (products.Brand, error) {
	name := strings.TrimSpace(input.Name)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.brands {
		if strings.EqualFold(b.Name, name) {
			return products.Brand{}, pkgerrors.New(pkgerrors.CodeConflict, "Brand already exists")
		}
	}
	b := products.Brand{
		BrandID:   uuid.NewString(),
		Name:      name,
		IsPremium: input.IsPremium,
		CreatedAt: s.timestamp(),
	}
	s.brands = append(s.brands, b)
	return b, nil
}

func (s *Store) ListCategories(_ context.Context, page pagination.Params) []products.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]products.Category{}, pagination.Slice(s.categories, page)...)
}

func (s *Store) CreateCategory(_ context.Context, input products.CategoryInput) (products.Category, error) {
	name := strings.TrimSpace(input.Name)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.categories {
		if strings.EqualFold(c.Name, name) {
			return products.Category{}, pkgerrors.New(pkgerrors.CodeConflict, "Category already exists")
		}
	}
	c := products.Category{
		CategoryID:  uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		CreatedAt:   s.timestamp(),
	}
	s.categories = append(s.categories, c)
	return c, nil
}

// UpdateCategory renames a category and refreshes the snapshots embedded in products.
func (s *Store) UpdateCategory(_ context.Context, categoryID string, input products.CategoryInput) (products.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.categories {
		if s.categories[i].CategoryID != categoryID {
			continue
		}
		s.categories[i].Name = strings.TrimSpace(input.Name)
		s.categories[i].Description = strings.TrimSpace(input.Description)
		updated := s.categories[i]
		for j := range s.products {
			if s.products[j].CategoryID == categoryID {
				s.products[j].Category = updated
			}
		}
		return updated, nil
	}
	return products.Category{}, pkgerrors.New(pkgerrors.CodeNotFound, "Category not found")
}

// DeleteCategory refuses to orphan products.
func (s *Store) DeleteCategory(_ context.Context, categoryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i, c := range s.categories {
		if c.CategoryID == categoryID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Category not found")
	}
	for _, p := range s.products {
		if p.CategoryID == categoryID {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "Category still has products")
		}
	}
	s.categories = append(s.categories[:idx], s.categories[idx+1:]...)
	return nil
}

func (s *Store) productIndex(productID string) int {
	for i, p := range s.products {
		if p.ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) brandByID(id string) (products.Brand, bool) {
	for _, b := range s.brands {
		if b.BrandID == id {
			return b, true
		}
	}
	return products.Brand{}, false
}

func (s *Store) categoryByID(id string) (products.Category, bool) {
	for _, c := range s.categories {
		if c.CategoryID == id {
			return c, true
		}
	}
	return products.Category{}, false
}

func cloneProduct(p products.Product) products.Product {
	p.ImageURLs = append([]string{}, p.ImageURLs...)
	if p.UpdatedAt != nil {
		updated := *p.UpdatedAt
		p.UpdatedAt = &updated
	}
	return p
}
