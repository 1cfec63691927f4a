package sandbox

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/orders"
	"github.com/angelmondragon/storefront/internal/payments"
	"github.com/angelmondragon/storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type payment struct {
	userID string
	amount decimal.Decimal
	status enums.PaymentStatus
}

// Cart returns the user's cart lines.
func (s *Store) Cart(_ context.Context, userID string) []cart.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := s.carts[userID]
	out := make([]cart.Item, 0, len(items))
	for _, item := range items {
		item.Product = cloneProduct(item.Product)
		out = append(out, item)
	}
	return out
}

// AddToCart merges quantities for a product already in the cart. The
// combined quantity may not exceed the stock on hand.
func (s *Store) AddToCart(_ context.Context, userID, productID string, quantity int) error {
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "Quantity must be at least 1").
			WithDetails(map[string]string{"quantity": "must be at least 1"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.productIndex(productID)
	if idx < 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
	}
	product := s.products[idx]

	items := s.carts[userID]
	existing := 0
	pos := -1
	for i, item := range items {
		if item.Product.ProductID == productID {
			existing, pos = item.Quantity, i
			break
		}
	}
	if existing+quantity > product.StockQuantity {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("Only %d of %s left in stock", product.StockQuantity, product.Name))
	}
	if pos >= 0 {
		items[pos].Quantity += quantity
		items[pos].Product = cloneProduct(product)
	} else {
		items = append(items, cart.Item{Product: cloneProduct(product), Quantity: quantity})
	}
	s.carts[userID] = items
	return nil
}

func (s *Store) RemoveFromCart(_ context.Context, userID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.carts[userID]
	for i, item := range items {
		if item.Product.ProductID == productID {
			s.carts[userID] = append(items[:i], items[i+1:]...)
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, "Product is not in the cart")
}

// PlaceOrder buys quantity units of one product, reserving stock and
// dropping the product from the cart.
func (s *Store) PlaceOrder(ctx context.Context, userID string, req orders.PlaceRequest) (orders.Order, error) {
	if req.Quantity < 1 {
		return orders.Order{}, pkgerrors.New(pkgerrors.CodeValidation, "Quantity must be at least 1").
			WithDetails(map[string]string{"quantity": "must be at least 1"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.productIndex(req.ProductID)
	if idx < 0 {
		return orders.Order{}, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
	}
	product := &s.products[idx]
	if req.Quantity > product.StockQuantity {
		return orders.Order{}, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("Only %d of %s left in stock", product.StockQuantity, product.Name))
	}
	product.StockQuantity -= req.Quantity

	s.orderSeq++
	price := decimal.NewFromInt(product.Price)
	orderID := uuid.NewString()
	lineID := uuid.NewString()
	var image string
	if len(product.ImageURLs) > 0 {
		image = product.ImageURLs[0]
	}
	order := orders.Order{
		ID:          orderID,
		OrderNumber: fmt.Sprintf("ORD-%06d", s.orderSeq),
		OrderDate:   s.timestamp(),
		TotalAmount: price.Mul(decimal.NewFromInt(int64(req.Quantity))),
		Status:      enums.OrderStatusPending,
		Items: []orders.LineItem{{
			ID:          lineID,
			ProductName: product.Name,
			Quantity:    req.Quantity,
			Price:       price,
			ImageURL:    image,
		}},
	}
	detail := orders.Detail{
		ID:        lineID,
		OrderID:   orderID,
		ProductID: product.ProductID,
		Quantity:  req.Quantity,
		Price:     price,
		Product: orders.ProductSummary{
			Name:        product.Name,
			ImageURLs:   append([]string{}, product.ImageURLs...),
			Description: product.Description,
		},
	}
	s.orders[userID] = append(s.orders[userID], order)
	s.details[userID] = append(s.details[userID], detail)

	items := s.carts[userID]
	for i, item := range items {
		if item.Product.ProductID == req.ProductID {
			s.carts[userID] = append(items[:i], items[i+1:]...)
			break
		}
	}

	s.logg.Info(s.logg.WithFields(s.logg.WithUserID(ctx, userID), map[string]any{
		"order_number": order.OrderNumber,
		"product_id":   req.ProductID,
		"quantity":     req.Quantity,
	}), "sandbox.order.placed")
	return order, nil
}

// OrderHistory lists the user's orders, newest first.
func (s *Store) OrderHistory(_ context.Context, userID string, page pagination.Params) []orders.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := reversed(s.orders[userID])
	return pagination.Slice(history, page)
}

// OrderDetails lists the user's purchased lines, newest first.
func (s *Store) OrderDetails(_ context.Context, userID string, page pagination.Params) []orders.Detail {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return pagination.Slice(reversed(s.details[userID]), page)
}

// CreatePaymentLink opens a hosted payment page for amount.
func (s *Store) CreatePaymentLink(_ context.Context, userID string, amount decimal.Decimal) (payments.Link, error) {
	if !amount.IsPositive() {
		return payments.Link{}, pkgerrors.New(pkgerrors.CodeValidation, "Amount must be greater than 0").
			WithDetails(map[string]string{"amount": "must be greater than 0"})
	}
	code := paymentCode()
	s.mu.Lock()
	s.payments[code] = &payment{userID: userID, amount: amount, status: enums.PaymentStatusPending}
	s.mu.Unlock()
	return payments.Link{PaymentURL: s.publicURL + "/pay/" + code}, nil
}

// ConfirmPayment marks a payment as completed and confirms the oldest pending
// order with the same total. A code can be confirmed once.
func (s *Store) ConfirmPayment(ctx context.Context, userID, code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[code]
	if !ok || p.userID != userID {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Payment not found")
	}
	if p.status == enums.PaymentStatusPaid {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "Payment already confirmed")
	}
	p.status = enums.PaymentStatusPaid

	history := s.orders[userID]
	for i := range history {
		if history[i].Status == enums.OrderStatusPending && history[i].TotalAmount.Equal(p.amount) {
			history[i].Status = enums.OrderStatusConfirmed
			s.logg.Info(s.logg.WithFields(s.logg.WithUserID(ctx, userID), map[string]any{
				"order_number": history[i].OrderNumber,
				"payment_code": code,
			}), "sandbox.order.confirmed")
			break
		}
	}
	return nil
}

func paymentCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}

func reversed[T any](items []T) []T {
	out := make([]T, len(items))
	for i, item := range items {
		out[len(items)-1-i] = item
	}
	return out
}
