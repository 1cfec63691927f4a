package cart

import "github.com/angelmondragon/storefront/internal/products"

// Item is one cart line. The backend owns the cart; the client only mirrors it.
type Item struct {
	Product  products.Product `json:"product"`
	Quantity int              `json:"quantity"`
}

// LineTotal is the display-only price of the line.
func (i Item) LineTotal() int64 {
	return i.Product.Price * int64(i.Quantity)
}

// Cart is the payload of GET /cart.
type Cart struct {
	Items []Item `json:"items"`
}

// AddRequest is the payload of POST /cart/add.
type AddRequest struct {
	ProductID string `json:"productId" validate:"notblank"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
}

func normalizeItems(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		item.Product = item.Product.Normalize()
		if item.Quantity <= 0 {
			item.Quantity = 1
		}
		out = append(out, item)
	}
	return out
}
