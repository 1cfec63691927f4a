package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/api/validators"
	"github.com/angelmondragon/storefront/internal/products"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/pagination"
)

// CatalogStore is the product, brand and category side of the sandbox state.
type CatalogStore interface {
	ListProducts(ctx context.Context) []products.Product
	CreateProduct(ctx context.Context, input products.CreateProductInput) (products.Product, error)
	DeleteProduct(ctx context.Context, productID string) error
	ListBrands(ctx context.Context) []products.Brand
	CreateBrand(ctx context.Context, input products.CreateBrandInput) (products.Brand, error)
	ListCategories(ctx context.Context, page pagination.Params) []products.Category
	CreateCategory(ctx context.Context, input products.CategoryInput) (products.Category, error)
	UpdateCategory(ctx context.Context, categoryID string, input products.CategoryInput) (products.Category, error)
	DeleteCategory(ctx context.Context, categoryID string) error
}

func ListProducts(catalog CatalogStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, "Products retrieved", catalog.ListProducts(r.Context()))
	}
}

func CreateProduct(catalog CatalogStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input products.CreateProductInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := catalog.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, "Product created", created)
	}
}

func DeleteProduct(catalog CatalogStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, logg, "id")
		if !ok {
			return
		}
		if err := catalog.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Product deleted", nil)
	}
}

func ListBrands(catalog CatalogStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, "Brands retrieved", catalog.ListBrands(r.Context()))
	}
}

func CreateBrand(catalog CatalogStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input products.CreateBrandInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := catalog.CreateBrand(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, "Brand created", created)
	}
}

func ListCategories(catalog CatalogStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParsePage(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Categories retrieved", catalog.ListCategories(r.Context(), page))
	}
}

func CreateCategory(catalog CatalogStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input products.CategoryInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := catalog.CreateCategory(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, "Category created", created)
	}
}

func UpdateCategory(catalog CatalogStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, logg, "id")
		if !ok {
			return
		}
		var input products.CategoryInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		updated, err := catalog.UpdateCategory(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Category updated", updated)
	}
}

func DeleteCategory(catalog CatalogStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, logg, "id")
		if !ok {
			return
		}
		if err := catalog.DeleteCategory(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Category deleted", nil)
	}
}
