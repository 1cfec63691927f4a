package controllers

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/api/validators"
	"github.com/angelmondragon/storefront/internal/payments"
	"github.com/angelmondragon/storefront/pkg/logger"
)

type PaymentStore interface {
	CreatePaymentLink(ctx context.Context, userID string, amount decimal.Decimal) (payments.Link, error)
	ConfirmPayment(ctx context.Context, userID, code string) error
}

type createLinkRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type confirmPaymentRequest struct {
	PaymentCode string `json:"paymentCode" validate:"notblank"`
}

func CreatePaymentLink(store PaymentStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r, logg)
		if !ok {
			return
		}
		var req createLinkRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		link, err := store.CreatePaymentLink(r.Context(), userID, req.Amount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Payment link created", link)
	}
}

func ConfirmPayment(store PaymentStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r, logg)
		if !ok {
			return
		}
		var req confirmPaymentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := store.ConfirmPayment(r.Context(), userID, req.PaymentCode); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Payment confirmed", nil)
	}
}
