package discount

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidCode is returned when the supplied code is not the
	// recognized promotional code.
	ErrInvalidCode = errors.New("invalid discount code")
	// ErrBelowMinimum is returned when the cart subtotal does not reach
	// the minimum purchase amount required by the code.
	ErrBelowMinimum = errors.New("purchase amount below discount minimum")
)

// Config holds the promotional code parameters. The defaults mirror the
// portal's single running promotion.
type Config struct {
	Code        string          `default:"HEMAT30K" usage:"Recognized discount code"`
	MinPurchase decimal.Decimal `usage:"Minimum subtotal for the discount to apply"`
	Rate        decimal.Decimal `usage:"Discount rate applied to the subtotal"`
}

// Engine validates discount codes against a cart subtotal. It is pure: all
// session state (the currently applied discount) lives in State, owned by
// the cart.
type Engine struct {
	code        string
	minPurchase decimal.Decimal
	rate        decimal.Decimal
}

// NewEngine creates an Engine for the given promotion parameters. Zero
// MinPurchase/Rate fall back to the running promotion's values
// (Rp 30.000 minimum, 10% off).
func NewEngine(cfg Config) *Engine {
	if cfg.Code == "" {
		cfg.Code = "HEMAT30K"
	}
	if cfg.MinPurchase.IsZero() {
		cfg.MinPurchase = decimal.NewFromInt(30000)
	}
	if cfg.Rate.IsZero() {
		cfg.Rate = decimal.NewFromFloat(0.1)
	}
	return &Engine{
		code:        cfg.Code,
		minPurchase: cfg.MinPurchase,
		rate:        cfg.Rate,
	}
}

// MinPurchase returns the qualifying subtotal threshold.
func (e *Engine) MinPurchase() decimal.Decimal {
	return e.minPurchase
}

// Rate returns the discount rate.
func (e *Engine) Rate() decimal.Decimal {
	return e.rate
}

// Apply validates code against subtotal and returns the discount amount.
// The amount is zero on any failure: ErrInvalidCode when the code is not
// recognized, ErrBelowMinimum when the subtotal is under the threshold.
func (e *Engine) Apply(code string, subtotal decimal.Decimal) (decimal.Decimal, error) {
	if code != e.code {
		return decimal.Zero, ErrInvalidCode
	}
	if subtotal.LessThan(e.minPurchase) {
		return decimal.Zero, ErrBelowMinimum
	}
	return subtotal.Mul(e.rate).Round(2), nil
}

// Qualifies reports whether subtotal still satisfies the threshold. The
// cart uses this to invalidate an applied discount the moment a removal
// drops the subtotal below the minimum.
func (e *Engine) Qualifies(subtotal decimal.Decimal) bool {
	return subtotal.GreaterThanOrEqual(e.minPurchase)
}

// State is the session-local record of an applied discount. The zero value
// means no discount is active.
type State struct {
	Code     string
	Amount   decimal.Decimal
	Subtotal decimal.Decimal
}

// Active reports whether a non-zero discount is currently applied.
func (s State) Active() bool {
	return s.Amount.IsPositive()
}
