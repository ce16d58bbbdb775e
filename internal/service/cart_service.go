package service

import (
	"context"
	"errors"
	"sync"

	"cart-service/internal/models"
	"cart-service/internal/notify"
	"cart-service/internal/storage"
	"cart-service/internal/util"

	"go.uber.org/zap"
)

// Checked operation outcomes. None of these corrupts state: a rejected
// operation leaves both collections untouched.
var (
	ErrUnknownProduct    = errors.New("unknown product id")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("invalid quantity")
)

// User-facing message texts.
const (
	msgAdded          = "Add to cart successfully"
	msgDeleted        = "Delete successfully"
	msgOutOfStock     = "Out of stock"
	msgUnknownProduct = "Product not found"
	msgBadQuantity    = "Invalid quantity"
)

// CartService owns the catalog and the cart and is the only code allowed to
// mutate them. Every operation updates the pair as one atomic step under the
// mutex, so no caller can observe stock deducted without the matching cart
// line (or vice versa). For every product id the sum of catalog quantity and
// cart quantity stays equal to the original stock.
type CartService struct {
	mu       sync.Mutex
	catalog  []models.Product
	cart     []models.CartLine
	store    storage.Store
	notifier *notify.Notifier
	logger   *zap.Logger
}

// NewCartService loads both collections from the store. A catalog that was
// never saved (or whose payload is corrupt) is reseeded from the fixed
// initial set, the cart is emptied alongside it, and the fresh session is
// persisted immediately. Any other storage failure is fatal.
func NewCartService(ctx context.Context, store storage.Store, notifier *notify.Notifier) (*CartService, error) {
	s := &CartService{
		store:    store,
		notifier: notifier,
		logger:   util.GetLogger(),
	}

	catalog, catalogFound, err := store.LoadProducts(ctx)
	if err != nil && !errors.Is(err, storage.ErrCorruptSlot) {
		return nil, err
	}
	corrupt := errors.Is(err, storage.ErrCorruptSlot)

	cart, cartFound, err := store.LoadCart(ctx)
	if err != nil && !errors.Is(err, storage.ErrCorruptSlot) {
		return nil, err
	}
	corrupt = corrupt || errors.Is(err, storage.ErrCorruptSlot)

	if corrupt || !catalogFound {
		// Fresh session: a half-parsed catalog or cart would break unit
		// conservation, so both collections are reset together.
		if corrupt {
			s.logger.Warn("Corrupt persisted state, reseeding catalog")
		}
		util.CatalogReseedsTotal.Inc()

		s.catalog = models.SeedCatalog()
		s.cart = []models.CartLine{}
		if err := store.SaveProducts(ctx, s.catalog); err != nil {
			return nil, err
		}
		if err := store.SaveCart(ctx, s.cart); err != nil {
			return nil, err
		}
		s.logger.Info("Catalog seeded", zap.Int("products", len(s.catalog)))
		return s, nil
	}

	s.catalog = catalog
	if cartFound {
		s.cart = cart
	} else {
		s.cart = []models.CartLine{}
	}

	s.logger.Info("State loaded",
		zap.Int("products", len(s.catalog)),
		zap.Int("cart_lines", len(s.cart)))
	return s, nil
}

// AddToCart moves qty units of a product from the catalog into the cart. An
// existing line is incremented, otherwise a new line is appended. The request
// is rejected whole if qty exceeds the remaining stock.
func (s *CartService) AddToCart(ctx context.Context, productID int64, qty int) error {
	ctx, span := util.StartSpan(ctx, "CartService.AddToCart")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	pi := s.findProduct(productID)
	if pi < 0 {
		s.reject("unknown_product", msgUnknownProduct)
		return ErrUnknownProduct
	}

	if qty < 1 {
		s.reject("invalid_quantity", msgBadQuantity)
		return ErrInvalidQuantity
	}

	if s.catalog[pi].Quantity < qty {
		s.reject("insufficient_stock", msgOutOfStock)
		return ErrInsufficientStock
	}

	if li := s.findLine(productID); li >= 0 {
		s.cart[li].Quantity += qty
	} else {
		s.cart = append(s.cart, s.catalog[pi].Line(qty))
	}
	s.catalog[pi].Quantity -= qty

	s.persistLocked(ctx)

	util.CartAddsTotal.Inc()
	s.notifier.Show(msgAdded, models.KindSuccess, models.OutcomeOK)
	s.logger.Info("Added to cart",
		zap.Int64("product_id", productID),
		zap.Int("quantity", qty),
		zap.Int("remaining_stock", s.catalog[pi].Quantity))
	return nil
}

// UpdateQuantity sets a cart line to newQty, returning or pulling the
// difference from the catalog. Pulling more than the remaining stock rejects
// the whole request; there is no partial fulfillment. A newQty of zero
// removes the line. Success emits no notification.
func (s *CartService) UpdateQuantity(ctx context.Context, productID int64, newQty int) error {
	ctx, span := util.StartSpan(ctx, "CartService.UpdateQuantity")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	li := s.findLine(productID)
	if li < 0 {
		s.reject("unknown_product", msgUnknownProduct)
		return ErrUnknownProduct
	}

	if newQty < 0 {
		s.reject("invalid_quantity", msgBadQuantity)
		return ErrInvalidQuantity
	}

	if newQty == 0 {
		// A line never stays at quantity zero; dropping to zero is a removal.
		s.removeLocked(ctx, productID)
		return nil
	}

	pi := s.findProduct(productID)
	if pi < 0 {
		s.reject("unknown_product", msgUnknownProduct)
		return ErrUnknownProduct
	}

	delta := newQty - s.cart[li].Quantity
	if delta > 0 && s.catalog[pi].Quantity < delta {
		s.reject("insufficient_stock", msgOutOfStock)
		return ErrInsufficientStock
	}

	s.cart[li].Quantity = newQty
	s.catalog[pi].Quantity -= delta

	s.persistLocked(ctx)

	util.CartUpdatesTotal.Inc()
	s.logger.Info("Cart quantity updated",
		zap.Int64("product_id", productID),
		zap.Int("quantity", newQty),
		zap.Int("delta", delta))
	return nil
}

// RemoveFromCart returns a line's full quantity to the catalog and drops the
// line. Removing an id that has no line is a no-op; stock is never credited
// twice. The confirmation message renders with the danger style.
func (s *CartService) RemoveFromCart(ctx context.Context, productID int64) error {
	ctx, span := util.StartSpan(ctx, "CartService.RemoveFromCart")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(ctx, productID)
	return nil
}

// removeLocked holds the actual removal. Callers hold s.mu.
func (s *CartService) removeLocked(ctx context.Context, productID int64) {
	li := s.findLine(productID)
	if li >= 0 {
		if pi := s.findProduct(productID); pi >= 0 {
			s.catalog[pi].Quantity += s.cart[li].Quantity
		}
		s.cart = append(s.cart[:li], s.cart[li+1:]...)
		s.persistLocked(ctx)

		util.CartRemovalsTotal.Inc()
		s.logger.Info("Removed from cart", zap.Int64("product_id", productID))
	}

	s.notifier.Show(msgDeleted, models.KindDanger, models.OutcomeOK)
}

// Total returns the sum of price times quantity over all cart lines, zero
// for an empty cart.
func (s *CartService) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total int64
	for _, line := range s.cart {
		total += line.Price * int64(line.Quantity)
	}
	return total
}

// Products returns a snapshot of the catalog in display order.
func (s *CartService) Products() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Product, len(s.catalog))
	copy(out, s.catalog)
	return out
}

// CartLines returns a snapshot of the cart in insertion order.
func (s *CartService) CartLines() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.CartLine, len(s.cart))
	copy(out, s.cart)
	return out
}

// ActiveMessage returns the currently displayed status message, or nil.
func (s *CartService) ActiveMessage() *models.Message {
	return s.notifier.Active()
}

// persistLocked saves both collections after a mutation. The in-memory state
// is the source of truth; a save failure is logged and counted but does not
// roll the operation back. Callers hold s.mu.
func (s *CartService) persistLocked(ctx context.Context) {
	if err := s.store.SaveProducts(ctx, s.catalog); err != nil {
		util.SlotSaveFailuresTotal.WithLabelValues(storage.SlotProducts).Inc()
		s.logger.Error("Failed to save products slot", zap.Error(err))
	}
	if err := s.store.SaveCart(ctx, s.cart); err != nil {
		util.SlotSaveFailuresTotal.WithLabelValues(storage.SlotCart).Inc()
		s.logger.Error("Failed to save cart slot", zap.Error(err))
	}
}

// reject records a rejected operation and surfaces it to the user. Callers
// hold s.mu.
func (s *CartService) reject(reason, text string) {
	util.CartOpsRejectedTotal.WithLabelValues(reason).Inc()
	s.notifier.Show(text, models.KindDanger, models.OutcomeRejected)
}

func (s *CartService) findProduct(id int64) int {
	for i := range s.catalog {
		if s.catalog[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *CartService) findLine(id int64) int {
	for i := range s.cart {
		if s.cart[i].ID == id {
			return i
		}
	}
	return -1
}
