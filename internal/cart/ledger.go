package cart

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Avannubo/subirananadons-backend/pkg/config"
	"github.com/Avannubo/subirananadons-backend/pkg/enums"
	pkgerrors "github.com/Avannubo/subirananadons-backend/pkg/errors"
)

const (
	// MinQuantity and MaxQuantity bound a regular line's quantity.
	// Gift lines always hold exactly one unit.
	MinQuantity = 1
	MaxQuantity = 99
)

// Rates carries the storefront pricing rules the ledger derives totals
// from. TaxRate is a fraction, not a percentage.
type Rates struct {
	ShippingFee       decimal.Decimal
	FreeShippingFloor decimal.Decimal
	TaxRate           decimal.Decimal
}

// DefaultRates returns the shop's standing terms: flat 5.99 delivery,
// waived at a 60.00 subtotal, 21% IVA.
func DefaultRates() Rates {
	return Rates{
		ShippingFee:       decimal.RequireFromString("5.99"),
		FreeShippingFloor: decimal.NewFromInt(60),
		TaxRate:           decimal.RequireFromString("0.21"),
	}
}

// RatesFromConfig reads the pricing rules from configuration. Any value
// that is blank or unparsable keeps its default.
func RatesFromConfig(cfg config.ShopConfig) Rates {
	rates := DefaultRates()
	if fee, err := decimal.NewFromString(cfg.ShippingFee); err == nil {
		rates.ShippingFee = fee
	}
	if floor, err := decimal.NewFromString(cfg.FreeShippingFloor); err == nil {
		rates.FreeShippingFloor = floor
	}
	if percent, err := decimal.NewFromString(cfg.TaxRatePercent); err == nil {
		rates.TaxRate = percent.Div(decimal.NewFromInt(100))
	}
	return rates
}

// ErrDeliveryUnavailable rejects a delivery request for a cart with no
// regular lines. The ledger keeps its previous mode when this is returned.
var ErrDeliveryUnavailable = pkgerrors.New(pkgerrors.CodeValidation,
	"home delivery is not available for gift-only carts")

// Line is one product in the cart, already normalized: the price was
// parsed once at entry and quantity respects the gift invariant.
type Line struct {
	ProductID uuid.UUID
	Name      string
	Price     decimal.Decimal
	Quantity  int
	IsGift    bool
	ListOwner string
	GiftNote  string
}

// NormalizePrice coerces loosely formatted price input (currency symbols,
// thousands separators, decimal commas) into a decimal. Anything that
// still fails to parse is worth zero rather than an error: a cart line
// with garbage pricing must not break total computation.
func NormalizePrice(raw string) decimal.Decimal {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}
	cleaned := strings.ReplaceAll(b.String(), ",", ".")
	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return value
}

// Ledger holds the cart lines for one session and answers every derived
// pricing question from current state. Totals are never stored.
type Ledger struct {
	lines []Line
	mode  enums.DeliveryMethod
	rates Rates
}

// NewLedger builds an empty ledger defaulting to home delivery.
func NewLedger() *Ledger {
	return &Ledger{mode: enums.DeliveryMethodDelivery, rates: DefaultRates()}
}

// NewLedgerFromLines builds a ledger from a submitted snapshot. Every
// line is kept, so a gift line and a regular line for the same product
// coexist; replace-by-id is an interactive-editing behavior and only
// applies through AddOrUpdateLine.
func NewLedgerFromLines(lines []Line, mode enums.DeliveryMethod, rates Rates) *Ledger {
	if !mode.IsValid() {
		mode = enums.DeliveryMethodDelivery
	}
	ledger := &Ledger{mode: mode, rates: rates}
	for _, line := range lines {
		ledger.lines = append(ledger.lines, clampQuantity(line))
	}
	ledger.syncMode()
	return ledger
}

func clampQuantity(line Line) Line {
	if line.IsGift {
		line.Quantity = 1
		return line
	}
	if line.Quantity < MinQuantity {
		line.Quantity = MinQuantity
	}
	if line.Quantity > MaxQuantity {
		line.Quantity = MaxQuantity
	}
	return line
}

// AddOrUpdateLine inserts the line or replaces the one with the same
// product id. Gift carts can only be picked up, so introducing a gift
// line flips the mode.
func (l *Ledger) AddOrUpdateLine(line Line) {
	line = clampQuantity(line)
	for i := range l.lines {
		if l.lines[i].ProductID == line.ProductID {
			l.lines[i] = line
			l.syncMode()
			return
		}
	}
	l.lines = append(l.lines, line)
	l.syncMode()
}

// SetQuantity adjusts a line's quantity. Unknown ids are a no-op, gift
// lines stay at one unit.
func (l *Ledger) SetQuantity(productID uuid.UUID, quantity int) {
	for i := range l.lines {
		if l.lines[i].ProductID == productID {
			l.lines[i].Quantity = quantity
			l.lines[i] = clampQuantity(l.lines[i])
			return
		}
	}
}

// RemoveLine drops the line with the given product id; unknown ids are a
// no-op.
func (l *Ledger) RemoveLine(productID uuid.UUID) {
	for i := range l.lines {
		if l.lines[i].ProductID == productID {
			l.lines = append(l.lines[:i], l.lines[i+1:]...)
			l.syncMode()
			return
		}
	}
}

// SetGiftNote updates the free-text note on a gift line; unknown ids are
// a no-op.
func (l *Ledger) SetGiftNote(productID uuid.UUID, note string) {
	for i := range l.lines {
		if l.lines[i].ProductID == productID {
			l.lines[i].GiftNote = note
			return
		}
	}
}

// Clear empties the ledger after a successful order submission.
func (l *Ledger) Clear() {
	l.lines = nil
}

// Lines returns a copy of the current lines.
func (l *Ledger) Lines() []Line {
	out := make([]Line, len(l.lines))
	copy(out, l.lines)
	return out
}

// RegularLines returns the non-gift lines.
func (l *Ledger) RegularLines() []Line {
	var out []Line
	for _, line := range l.lines {
		if !line.IsGift {
			out = append(out, line)
		}
	}
	return out
}

// GiftLines returns the gift lines.
func (l *Ledger) GiftLines() []Line {
	var out []Line
	for _, line := range l.lines {
		if line.IsGift {
			out = append(out, line)
		}
	}
	return out
}

// HasGiftItems reports whether any line is a gift.
func (l *Ledger) HasGiftItems() bool {
	for _, line := range l.lines {
		if line.IsGift {
			return true
		}
	}
	return false
}

// IsGiftOnly reports whether the cart is non-empty and every line is a
// gift.
func (l *Ledger) IsGiftOnly() bool {
	if len(l.lines) == 0 {
		return false
	}
	for _, line := range l.lines {
		if !line.IsGift {
			return false
		}
	}
	return true
}

// Subtotal sums price times quantity over every line, gift and regular
// alike.
func (l *Ledger) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, line := range l.lines {
		sum = sum.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return sum.Round(2)
}

// ShippingCost is zero for pickup and for delivery orders at or above the
// free-shipping floor; otherwise the flat fee applies.
func (l *Ledger) ShippingCost(mode enums.DeliveryMethod) decimal.Decimal {
	if mode == enums.DeliveryMethodPickup {
		return decimal.Zero
	}
	if l.Subtotal().GreaterThanOrEqual(l.rates.FreeShippingFloor) {
		return decimal.Zero
	}
	return l.rates.ShippingFee
}

// Tax reports the IVA share of the subtotal. Shelf prices already include
// it, so this figure is informational and never added to Total.
func (l *Ledger) Tax() decimal.Decimal {
	return l.Subtotal().Mul(l.rates.TaxRate).Round(2)
}

// Total is subtotal plus shipping.
func (l *Ledger) Total(mode enums.DeliveryMethod) decimal.Decimal {
	return l.Subtotal().Add(l.ShippingCost(mode)).Round(2)
}

// Mode returns the ledger's current delivery mode.
func (l *Ledger) Mode() enums.DeliveryMethod {
	return l.EffectiveMode(l.mode)
}

// EffectiveMode resolves the mode actually in force for a request: a cart
// holding gift items is always picked up, whatever was asked for.
func (l *Ledger) EffectiveMode(requested enums.DeliveryMethod) enums.DeliveryMethod {
	if l.HasGiftItems() {
		return enums.DeliveryMethodPickup
	}
	if !requested.IsValid() {
		return enums.DeliveryMethodDelivery
	}
	return requested
}

// RequestMode attempts a user-driven mode switch. Pickup is always
// allowed. Delivery is rejected when there are no regular lines; the
// ledger keeps its previous mode and the caller surfaces the warning.
func (l *Ledger) RequestMode(requested enums.DeliveryMethod) error {
	if !requested.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown delivery method")
	}
	if requested == enums.DeliveryMethodPickup {
		l.mode = enums.DeliveryMethodPickup
		return nil
	}
	if l.HasGiftItems() || len(l.RegularLines()) == 0 {
		return ErrDeliveryUnavailable
	}
	l.mode = enums.DeliveryMethodDelivery
	return nil
}

// syncMode applies the content-driven transition: gift items force pickup.
func (l *Ledger) syncMode() {
	if l.HasGiftItems() {
		l.mode = enums.DeliveryMethodPickup
	}
}
