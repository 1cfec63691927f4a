// Package payments creates hosted payment links and confirms completed payments.
package payments

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/angelmondragon/storefront/pkg/apiclient"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/shopspring/decimal"
)

// Link is the hosted checkout page returned by the backend.
type Link struct {
	PaymentURL string `json:"paymentUrl"`
}

type createLinkRequest struct {
	Amount decimal.Decimal
}

// MarshalJSON sends the amount as a bare JSON number.
func (r createLinkRequest) MarshalJSON() ([]byte, error) {
	return []byte(`{"amount":` + r.Amount.String() + `}`), nil
}

type confirmRequest struct {
	PaymentCode string `json:"paymentCode"`
}

type Service interface {
	CreateLink(ctx context.Context, amount decimal.Decimal) (*Link, error)
	Confirm(ctx context.Context, paymentCode string) error
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

func (s *service) CreateLink(ctx context.Context, amount decimal.Decimal) (*Link, error) {
	if !amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be a positive number").
			WithDetails(map[string]string{"amount": "must be greater than 0"})
	}
	var link Link
	if _, err := s.api.Do(ctx, apiclient.Request{
		Name:   "payments.create_link",
		Method: http.MethodPost,
		Path:   "/Payment/create-payment-link",
		Body:   createLinkRequest{Amount: amount},
		Auth:   true,
	}, &link); err != nil {
		return nil, err
	}
	if strings.TrimSpace(link.PaymentURL) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "backend returned no payment url")
	}
	return &link, nil
}

func (s *service) Confirm(ctx context.Context, paymentCode string) error {
	code := strings.TrimSpace(paymentCode)
	if code == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment code is required").
			WithDetails(map[string]string{"paymentCode": "is required"})
	}
	_, err := s.api.Do(ctx, apiclient.Request{
		Name:   "payments.confirm",
		Method: http.MethodPost,
		Path:   "/Payment/payment",
		Body:   confirmRequest{PaymentCode: code},
		Auth:   true,
	}, nil)
	return err
}
