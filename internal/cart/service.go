package cart

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/angelmondragon/storefront/internal/products"
	"github.com/angelmondragon/storefront/pkg/apiclient"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/validation"
)

// Service exposes the cart endpoints.
type Service interface {
	Fetch(ctx context.Context) ([]Item, error)
	Add(ctx context.Context, productID string, quantity int) error
	AddProduct(ctx context.Context, product products.Product, quantity int) error
	Remove(ctx context.Context, productID string) error
}

type requester interface {
	Do(ctx context.Context, req apiclient.Request, out any) (*apiclient.Response, error)
}

type service struct {
	api   requester
	store *Store
}

// NewService builds a cart service. A nil store gets a private one.
func NewService(api requester, store *Store) (Service, error) {
	if api == nil {
		return nil, fmt.Errorf("api client is required")
	}
	if store == nil {
		store = NewStore()
	}
	return &service{api: api, store: store}, nil
}

func (s *service) Fetch(ctx context.Context) ([]Item, error) {
	var out Cart
	if _, err := s.api.Do(ctx, apiclient.Request{
		Name:   "cart.fetch",
		Method: http.MethodGet,
		Path:   "/cart",
		Auth:   true,
	}, &out); err != nil {
		return nil, err
	}
	s.store.Dispatch(Loaded{Items: out.Items})
	return s.store.Snapshot(), nil
}

func (s *service) Add(ctx context.Context, productID string, quantity int) error {
	return s.add(ctx, products.Product{ProductID: strings.TrimSpace(productID)}, quantity)
}

// AddProduct rejects out-of-stock products before calling the backend.
func (s *service) AddProduct(ctx context.Context, product products.Product, quantity int) error {
	if !product.InStock() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("%s is out of stock", product.Name))
	}
	if quantity > product.StockQuantity {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("only %d of %s left in stock", product.StockQuantity, product.Name))
	}
	return s.add(ctx, product, quantity)
}

func (s *service) add(ctx context.Context, product products.Product, quantity int) error {
	req := AddRequest{ProductID: product.ProductID, Quantity: quantity}
	if err := validation.Struct(req); err != nil {
		return err
	}
	if _, err := s.api.Do(ctx, apiclient.Request{
		Name:   "cart.add",
		Method: http.MethodPost,
		Path:   "/cart/add",
		Body:   req,
		Auth:   true,
	}, nil); err != nil {
		return err
	}
	s.store.Dispatch(Added{Item: itemFor(product, quantity)})
	return nil
}

func (s *service) Remove(ctx context.Context, productID string) error {
	id := strings.TrimSpace(productID)
	if id == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "productId is required").
			WithDetails(map[string]string{"productId": "is required"})
	}
	if _, err := s.api.Do(ctx, apiclient.Request{
		Name:   "cart.remove",
		Method: http.MethodDelete,
		Path:   "/cart/remove/" + url.PathEscape(id),
		Auth:   true,
	}, nil); err != nil {
		return err
	}
	s.store.Dispatch(Removed{ProductID: id})
	return nil
}
