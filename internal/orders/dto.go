package orders

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront/pkg/enums"
)

// LineItem is one product line of an order in the history list.
type LineItem struct {
	ID          string          `json:"id"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl,omitempty"`
}

// Order is one entry of the order history.
type Order struct {
	ID          string            `json:"id"`
	OrderNumber string            `json:"orderNumber"`
	OrderDate   string            `json:"orderDate"`
	TotalAmount decimal.Decimal   `json:"totalAmount"`
	Status      enums.OrderStatus `json:"status"`
	Items       []LineItem        `json:"items"`
}

// ItemsTotal sums price times quantity across lines.
func (o Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// ProductSummary is the product snapshot attached to an order detail.
type ProductSummary struct {
	Name        string   `json:"name"`
	ImageURLs   []string `json:"imageUrls"`
	Description string   `json:"description"`
}

// Detail is one purchased line as returned by the order detail endpoint.
type Detail struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"orderId"`
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Product   ProductSummary  `json:"product"`
}

// PlaceRequest is the payload of POST /Order.
type PlaceRequest struct {
	ProductID string `json:"productId" validate:"notblank"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
}
