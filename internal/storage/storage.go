package storage

import (
	"context"
	"errors"

	"cart-service/internal/models"
)

// Slot names under which the two collections are persisted.
const (
	SlotProducts = "products"
	SlotCart     = "cart"
)

// ErrCorruptSlot reports that a persisted payload could not be decoded.
// Callers must treat the slot as absent rather than operate on a
// partially-parsed collection.
var ErrCorruptSlot = errors.New("storage: corrupt slot payload")

// Store persists the two named collections durably. Save replaces the prior
// value of a slot in full; Load reports found=false for a slot that was never
// saved.
type Store interface {
	LoadProducts(ctx context.Context) (products []models.Product, found bool, err error)
	SaveProducts(ctx context.Context, products []models.Product) error
	LoadCart(ctx context.Context) (lines []models.CartLine, found bool, err error)
	SaveCart(ctx context.Context, lines []models.CartLine) error
	Close() error
}
