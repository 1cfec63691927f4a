package products

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/angelmondragon/storefront/pkg/apiclient"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/pagination"
	"github.com/angelmondragon/storefront/pkg/validation"
)

// Service exposes the catalog endpoints.
type Service interface {
	ListProducts(ctx context.Context) ([]Product, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*Product, error)
	DeleteProduct(ctx context.Context, productID string) error
	ListBrands(ctx context.Context) ([]Brand, error)
	CreateBrand(ctx context.Context, input CreateBrandInput) (*Brand, error)
	ListCategories(ctx context.Context, page pagination.Params) ([]Category, error)
	CreateCategory(ctx context.Context, input CategoryInput) (*Category, error)
	UpdateCategory(ctx context.Context, categoryID string, input CategoryInput) (*Category, error)
	DeleteCategory(ctx context.Context, categoryID string) error
}

type requester interface {
	Do(ctx context.Context, req apiclient.Request, out any) (*apiclient.Response, error)
}

type service struct {
	api requester
}

// NewService constructs the catalog service.
func NewService(api requester) (Service, error) {
	if api == nil {
		return nil, fmt.Errorf("api client is required")
	}
	return &service{api: api}, nil
}

func (s *service) ListProducts(ctx context.Context) ([]Product, error) {
	var items []Product
	if _, err := s.api.Do(ctx, apiclient.Request{
		Name:   "products.list",
		Method: http.MethodGet,
		Path:   "/Product/GetAllProduct",
	}, &items); err != nil {
		return nil, err
	}
	return NormalizeAll(items), nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*Product, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	var created Product
	if _, err := s.api.Do(ctx, apiclient.Request{
		Name:   "products.create",
		Method: http.MethodPost,
		Path:   "/Product/CreateProduct",
		Body:   input,
		Auth:   true,
	}, &created); err != nil {
		return nil, err
	}
	created = created.Normalize()
	return &created, nil
}

func (s *service) DeleteProduct(ctx context.Context, productID string) error {
	id, err := requireID(productID, "productId")
	if err != nil {
		return err
	}
	_, err = s.api.Do(ctx, apiclient.Request{
		Name:   "products.delete",
		Method: http.MethodDelete,
		Path:   "/Product/DeleteProduct/" + url.PathEscape(id),
		Auth:   true,
	}, nil)
	return err
}

func (s *service) ListBrands(ctx context.Context) ([]Brand, error) {
	brands := []Brand{}
	if _, err := s.api.Do(ctx, apiclient.Request{
		Name:   "brands.list",
		Method: http.MethodGet,
		Path:   "/Brand/GetAllBrand",
	}, &brands); err != nil {
		return nil, err
	}
	return brands, nil
}

func (s *service) CreateBrand(ctx context.Context, input CreateBrandInput) (*Brand, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	var created Brand
	if _, err := s.api.Do(ctx, apiclient.Request{
		Name:   "brands.create",
		Method: http.MethodPost,
		Path:   "/Brand/CreateBrand",
		Body:   input,
		Auth:   true,
	}, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *service) ListCategories(ctx context.Context, page pagination.Params) ([]Category, error) {
	categories := []Category{}
	if _, err := s.api.Do(ctx, apiclient.Request{
		Name:   "categories.list",
		Method: http.MethodGet,
		Path:   "/Category/GetAllCategory",
		Query:  page.Query(),
	}, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *service) CreateCategory(ctx context.Context, input CategoryInput) (*Category, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	var created Category
	if _, err := s.api.Do(ctx, apiclient.Request{
		Name:   "categories.create",
		Method: http.MethodPost,
		Path:   "/Category/CreateCategory",
		Body:   input,
		Auth:   true,
	}, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *service) UpdateCategory(ctx context.Context, categoryID string, input CategoryInput) (*Category, error) {
	id, err := requireID(categoryID, "categoryId")
	if err != nil {
		return nil, err
	}
	input.Name = strings.TrimSpace(input.Name)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	var updated Category
	if _, err := s.api.Do(ctx, apiclient.Request{
		Name:   "categories.update",
		Method: http.MethodPut,
		Path:   "/Category/UpdateCategoryBy/" + url.PathEscape(id),
		Body:   input,
		Auth:   true,
	}, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *service) DeleteCategory(ctx context.Context, categoryID string) error {
	id, err := requireID(categoryID, "categoryId")
	if err != nil {
		return err
	}
	_, err = s.api.Do(ctx, apiclient.Request{
		Name:   "categories.delete",
		Method: http.MethodDelete,
		Path:   "/Category/DeleteCategoryBy/" + url.PathEscape(id),
		Auth:   true,
	}, nil)
	return err
}

func requireID(value, field string) (string, error) {
	id := strings.TrimSpace(value)
	if id == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, field+" is required").
			WithDetails(map[string]string{field: "is required"})
	}
	return id, nil
}
