package stateful

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/localmock/localmock/pkg/util"
)

// Wishlist price bounds, in whole dollars.
const (
	MinWishlistPrice = 20
	MaxWishlistPrice = 80
)

// WishlistItem is one saved game title.
type WishlistItem struct {
	Title   string `json:"title"`
	AddedAt string `json:"added_at"`
	Price   string `json:"price"`
}

// Wishlist is an ordered, title-unique list of items. It survives
// configuration reloads and lives for the whole process.
type Wishlist struct {
	mu    sync.Mutex
	items []WishlistItem
	now   func() time.Time
	price func() int
}

// WishlistOption configures a Wishlist.
type WishlistOption func(*Wishlist)

// WithClock sets the time source used for added_at.
func WithClock(now func() time.Time) WishlistOption {
	return func(w *Wishlist) { w.now = now }
}

// WithPriceFunc sets the function used to pick an item's dollar price.
func WithPriceFunc(fn func() int) WishlistOption {
	return func(w *Wishlist) { w.price = fn }
}

// NewWishlist returns an empty wishlist.
func NewWishlist(opts ...WishlistOption) *Wishlist {
	w := &Wishlist{
		now: time.Now,
		price: func() int {
			return MinWishlistPrice + rand.IntN(MaxWishlistPrice-MinWishlistPrice+1) //nolint:gosec // mock data
		},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// All returns a snapshot of the items in insertion order.
func (w *Wishlist) All() []WishlistItem {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.items)
}

// Count returns the number of items.
func (w *Wishlist) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.items)
}

// Add appends title. It fails with *ConflictError if the title is present
// and with *ValidationError if it is empty.
func (w *Wishlist) Add(title string) (WishlistItem, error) {
	if title == "" {
		return WishlistItem{}, &ValidationError{Field: "title", Message: "Title is required"}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.indexLocked(title) >= 0 {
		return WishlistItem{}, &ConflictError{Resource: "wishlist item", Key: title}
	}
	item := WishlistItem{
		Title:   title,
		AddedAt: util.ISOTimestamp(w.now()),
		Price:   fmt.Sprintf("$%d", w.price()),
	}
	w.items = append(w.items, item)
	return item, nil
}

// Remove deletes title. It fails with *NotFoundError if the title is absent.
func (w *Wishlist) Remove(title string) (WishlistItem, error) {
	if title == "" {
		return WishlistItem{}, &ValidationError{Field: "title", Message: "Title is required"}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	i := w.indexLocked(title)
	if i < 0 {
		return WishlistItem{}, &NotFoundError{Resource: "wishlist item", Value: title}
	}
	item := w.items[i]
	w.items = slices.Delete(w.items, i, i+1)
	return item, nil
}

func (w *Wishlist) indexLocked(title string) int {
	return slices.IndexFunc(w.items, func(it WishlistItem) bool { return it.Title == title })
}
