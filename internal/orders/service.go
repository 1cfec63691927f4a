package orders

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/angelmondragon/storefront/pkg/apiclient"
	"github.com/angelmondragon/storefront/pkg/pagination"
	"github.com/angelmondragon/storefront/pkg/validation"
)

// Service exposes order placement and history.
type Service interface {
	Place(ctx context.Context, req PlaceRequest) (*Order, error)
	History(ctx context.Context, page pagination.Params) ([]Order, error)
	Details(ctx context.Context, page pagination.Params) ([]Detail, error)
}

type requester interface {
	Do(ctx context.Context, req apiclient.Request, out any) (*apiclient.Response, error)
}

type service struct {
	api requester
}

func NewService(api requester) (Service, error) {
	if api == nil {
		return nil, fmt.Errorf("api client is required")
	}
	return &service{api: api}, nil
}

func (s *service) Place(ctx context.Context, req PlaceRequest) (*Order, error) {
	req.ProductID = strings.TrimSpace(req.ProductID)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	var order Order
	if _, err := s.api.Do(ctx, apiclient.Request{
		Name:   "orders.place",
		Method: http.MethodPost,
		Path:   "/Order",
		Body:   req,
		Auth:   true,
	}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *service) History(ctx context.Context, page pagination.Params) ([]Order, error) {
	orders := []Order{}
	if _, err := s.api.Do(ctx, apiclient.Request{
		Name:   "orders.history",
		Method: http.MethodGet,
		Path:   "/Order/history",
		Query:  page.Query(),
		Auth:   true,
	}, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *service) Details(ctx context.Context, page pagination.Params) ([]Detail, error) {
	details := []Detail{}
	if _, err := s.api.Do(ctx, apiclient.Request{
		Name:   "orders.details",
		Method: http.MethodGet,
		Path:   "/OrderDetail",
		Query:  page.Query(),
		Auth:   true,
	}, &details); err != nil {
		return nil, err
	}
	return details, nil
}
