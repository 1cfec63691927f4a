// Package sandbox holds the in-memory state behind the development backend.
// It reuses the client DTOs so both sides of the wire share one contract.
package sandbox

import (
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/orders"
	"github.com/angelmondragon/storefront/internal/products"
	"github.com/angelmondragon/storefront/internal/videos"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/logger"
)

const defaultOTPTTL = 10 * time.Minute

// Params configures a Store.
type Params struct {
	Config config.SandboxConfig
	Logger *logger.Logger
	// PublicURL prefixes payment and media links handed to clients.
	PublicURL string
	Now       func() time.Time
}

// Store is the sandbox system state. Safe for concurrent use.
type Store struct {
	cfg       config.SandboxConfig
	logg      *logger.Logger
	publicURL string
	now       func() time.Time

	mu         sync.RWMutex
	users      map[string]*user
	usersByID  map[string]*user
	pending    map[string]*pendingUser
	resets     map[string]otpCode
	products   []products.Product
	brands     []products.Brand
	categories []products.Category
	carts      map[string][]cart.Item
	orders     map[string][]orders.Order
	details    map[string][]orders.Detail
	videos     map[string][]videos.Video
	payments   map[string]*payment
	orderSeq   int
}

// New builds an empty store, seeding the demo catalog when configured.
func New(params Params) (*Store, error) {
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	publicURL := strings.TrimRight(strings.TrimSpace(params.PublicURL), "/")
	if publicURL == "" {
		publicURL = "http://localhost:" + params.Config.Port
	}
	s := &Store{
		cfg:       params.Config,
		logg:      logg,
		publicURL: publicURL,
		now:       now,
		users:     map[string]*user{},
		usersByID: map[string]*user{},
		pending:   map[string]*pendingUser{},
		resets:    map[string]otpCode{},
		carts:     map[string][]cart.Item{},
		orders:    map[string][]orders.Order{},
		details:   map[string][]orders.Detail{},
		videos:    map[string][]videos.Video{},
		payments:  map[string]*payment{},
	}
	if params.Config.Seed {
		if err := s.seed(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

func (s *Store) otpTTL() time.Duration {
	if s.cfg.OTP.TTL > 0 {
		return s.cfg.OTP.TTL
	}
	return defaultOTPTTL
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
