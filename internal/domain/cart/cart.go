package cart

import (
	"fmt"
	"sync"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/wicaksana/paket-portal/internal/domain/catalog"
	"github.com/wicaksana/paket-portal/internal/domain/discount"
	"github.com/wicaksana/paket-portal/internal/notify"
)

// Line is one package pending purchase in the current session. Quantity is
// always 1 in this domain: package durations do not stack.
type Line struct {
	Package  catalog.Package
	Quantity int
}

// Cart holds the authenticated session's pending package selection together
// with its applied discount state. All methods are safe for concurrent use;
// the portal serves overlapping HTTP requests for one session, unlike the
// original single-threaded UI.
type Cart struct {
	engine *discount.Engine

	mu    sync.Mutex
	lines []Line
	disc  discount.State
}

// New returns an empty cart whose discount state is validated by engine.
func New(engine *discount.Engine) *Cart {
	return &Cart{engine: engine}
}

// Add appends a line for p with quantity 1.
//
// Re-adding a package already in the cart is a no-op with an info notice.
// When a different package of the same category is already present, a
// warning is emitted but the line is still added: the category rule is
// advisory, not enforced.
func (c *Cart) Add(p catalog.Package, sink notify.Sink) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var exists, sameCategory bool
	for _, l := range c.lines {
		if l.Package.ID == p.ID {
			exists = true
		} else if l.Package.Category == p.Category {
			sameCategory = true
		}
	}

	if sameCategory {
		sink.Warning(fmt.Sprintf(
			"You already have a package from the %q category. Package durations do not stack.",
			p.Category))
	}

	if exists {
		sink.Info(fmt.Sprintf("%q is already in your cart.", p.Name))
		return
	}

	c.lines = append(c.lines, Line{Package: p, Quantity: 1})
	sink.Success(fmt.Sprintf("Added %q to cart.", p.Name))
}

// Remove deletes the line holding packageID. Removing an absent package is
// a silent no-op. If the removal drops the subtotal below the discount
// minimum while a discount is active, the discount is cleared and a warning
// is emitted.
func (c *Cart) Remove(packageID int64, sink notify.Sink) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.lines[:0]
	for _, l := range c.lines {
		if l.Package.ID != packageID {
			kept = append(kept, l)
		}
	}
	c.lines = kept
	c.revalidateDiscountLocked(sink)
}

// Clear empties the cart and drops any applied discount.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
	c.disc = discount.State{}
}

// Lines returns a snapshot of the current cart lines.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Subtotal is the sum of price times quantity over the current lines,
// recomputed on every call.
func (c *Cart) Subtotal() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subtotalLocked()
}

func (c *Cart) subtotalLocked() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.lines {
		sum = sum.Add(l.Package.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return sum
}

// ApplyDiscount validates code against the current subtotal and records the
// resulting discount state. Failures are reported through sink and returned.
func (c *Cart) ApplyDiscount(code string, sink notify.Sink) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	subtotal := c.subtotalLocked()
	amount, err := c.engine.Apply(code, subtotal)
	if err != nil {
		switch {
		case errors.Is(err, discount.ErrInvalidCode):
			sink.Error("Invalid discount code.")
		case errors.Is(err, discount.ErrBelowMinimum):
			sink.Warning(fmt.Sprintf(
				"Minimum purchase of Rp %s to apply discount.",
				c.engine.MinPurchase().StringFixed(0)))
		}
		return err
	}

	c.disc = discount.State{Code: code, Amount: amount, Subtotal: subtotal}
	sink.Success("Discount applied!")
	return nil
}

// Discount returns the currently applied discount state.
func (c *Cart) Discount() discount.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disc
}

// Total is the subtotal minus the applied discount, floored at zero.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := c.subtotalLocked().Sub(c.disc.Amount)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// revalidateDiscountLocked clears the applied discount the instant the
// subtotal stops qualifying. Caller must hold c.mu.
func (c *Cart) revalidateDiscountLocked(sink notify.Sink) {
	if !c.disc.Active() {
		return
	}
	if c.engine.Qualifies(c.subtotalLocked()) {
		return
	}
	c.disc = discount.State{}
	sink.Warning("Discount removed as purchase amount is below minimum.")
}
