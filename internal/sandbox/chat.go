package sandbox

import (
	"context"
	"fmt"
	"strings"
)

var chatTopics = []struct {
	keywords []string
	reply    string
}{
	{[]string{"order", "delivery", "shipping"}, "You can follow every order from the Order History screen. New orders start as pending and move to confirmed once paid."},
	{[]string{"pay", "payment"}, "Checkout creates a secure payment link. After paying, enter the payment code to confirm the order."},
	{[]string{"skin", "scan", "analysis"}, "Try the Beauty Scanner! It suggests products that match your skin tone, skin type and face shape."},
	{[]string{"hello", "hi", "hey"}, "Hi there! Ask me about products, orders or payments."},
}

// Reply answers a chat message. Product names found in the message are
// matched against the catalog before falling back to canned topics.
func (s *Store) Reply(ctx context.Context, message string) string {
	text := strings.ToLower(strings.TrimSpace(message))
	if text == "" {
		return ""
	}
	for _, p := range s.ListProducts(ctx) {
		name := strings.ToLower(p.Name)
		if name != "" && strings.Contains(text, name) {
			if p.InStock() {
				return fmt.Sprintf("%s is in stock (%d left) for %d.", p.Name, p.StockQuantity, p.Price)
			}
			return fmt.Sprintf("%s is currently out of stock.", p.Name)
		}
	}
	words := strings.FieldsFunc(text, func(r rune) bool {
		return (r < 'a' || r > 'z') && (r < '0' || r > '9')
	})
	for _, topic := range chatTopics {
		for _, kw := range topic.keywords {
			for _, w := range words {
				if w == kw || (len(kw) > 3 && strings.HasPrefix(w, kw)) {
					return topic.reply
				}
			}
		}
	}
	return "I'm not sure about that yet. Try asking about a product, your orders or payments."
}
