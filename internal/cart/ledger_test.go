package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Avannubo/subirananadons-backend/pkg/config"
	"github.com/Avannubo/subirananadons-backend/pkg/enums"
)

func regularLine(price string, qty int) Line {
	return Line{
		ProductID: uuid.New(),
		Name:      "Cuna colecho",
		Price:     decimal.RequireFromString(price),
		Quantity:  qty,
	}
}

func giftLine(price, owner string) Line {
	return Line{
		ProductID: uuid.New(),
		Name:      "Trona evolutiva",
		Price:     decimal.RequireFromString(price),
		Quantity:  1,
		IsGift:    true,
		ListOwner: owner,
	}
}

func TestNormalizePrice(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{name: "plain", raw: "25.99", want: "25.99"},
		{name: "decimal comma", raw: "25,99", want: "25.99"},
		{name: "currency symbol", raw: "25,99 €", want: "25.99"},
		{name: "leading symbol", raw: "$49.50", want: "49.5"},
		{name: "integer", raw: "60", want: "60"},
		{name: "garbage", raw: "n/a", want: "0"},
		{name: "empty", raw: "", want: "0"},
		{name: "two separators", raw: "1.234,56", want: "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizePrice(tc.raw)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)),
				"got %s want %s", got, tc.want)
		})
	}
}

func TestFromLinesKeepsGiftAndRegularForSameProduct(t *testing.T) {
	regular := regularLine("30.00", 2)
	gift := giftLine("30.00", "Laia")
	gift.ProductID = regular.ProductID

	ledger := NewLedgerFromLines([]Line{regular, gift}, enums.DeliveryMethodDelivery, DefaultRates())

	// Building from a submitted snapshot keeps both lines; replace-by-id
	// only applies to interactive AddOrUpdateLine edits.
	require.Len(t, ledger.Lines(), 2)
	assert.Equal(t, "90.00", ledger.Subtotal().StringFixed(2))
	assert.Equal(t, enums.DeliveryMethodPickup, ledger.Mode())
}

func TestRatesFromConfigDriveTotals(t *testing.T) {
	cfg := config.ShopConfig{ShippingFee: "4.50", FreeShippingFloor: "100", TaxRatePercent: "10"}
	ledger := NewLedgerFromLines([]Line{regularLine("50.00", 1)}, enums.DeliveryMethodDelivery, RatesFromConfig(cfg))

	assert.Equal(t, "4.50", ledger.ShippingCost(enums.DeliveryMethodDelivery).StringFixed(2))
	assert.Equal(t, "5.00", ledger.Tax().StringFixed(2))
	assert.Equal(t, "54.50", ledger.Total(enums.DeliveryMethodDelivery).StringFixed(2))
}

func TestRatesFromConfigFallsBackToDefaults(t *testing.T) {
	rates := RatesFromConfig(config.ShopConfig{})
	assert.Equal(t, "5.99", rates.ShippingFee.StringFixed(2))
	assert.Equal(t, "60.00", rates.FreeShippingFloor.StringFixed(2))
	assert.Equal(t, "0.21", rates.TaxRate.String())
}

func TestSubtotalSumsAllLines(t *testing.T) {
	ledger := NewLedger()
	ledger.AddOrUpdateLine(regularLine("30", 2))
	ledger.AddOrUpdateLine(giftLine("25", "Ana"))

	assert.Equal(t, "85", ledger.Subtotal().String())
}

func TestShippingThreshold(t *testing.T) {
	cases := []struct {
		name  string
		price string
		qty   int
		mode  enums.DeliveryMethod
		want  string
		total string
	}{
		{name: "free at floor", price: "30", qty: 2, mode: enums.DeliveryMethodDelivery, want: "0", total: "60"},
		{name: "flat fee below floor", price: "10", qty: 1, mode: enums.DeliveryMethodDelivery, want: "5.99", total: "15.99"},
		{name: "pickup always free", price: "10", qty: 1, mode: enums.DeliveryMethodPickup, want: "0", total: "10"},
		{name: "just under floor", price: "59.99", qty: 1, mode: enums.DeliveryMethodDelivery, want: "5.99", total: "65.98"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ledger := NewLedger()
			ledger.AddOrUpdateLine(regularLine(tc.price, tc.qty))

			assert.True(t, ledger.ShippingCost(tc.mode).Equal(decimal.RequireFromString(tc.want)),
				"shipping %s", ledger.ShippingCost(tc.mode))
			assert.True(t, ledger.Total(tc.mode).Equal(decimal.RequireFromString(tc.total)),
				"total %s", ledger.Total(tc.mode))
		})
	}
}

func TestTaxReportedButExcludedFromTotal(t *testing.T) {
	ledger := NewLedger()
	ledger.AddOrUpdateLine(regularLine("100", 1))

	assert.Equal(t, "21", ledger.Tax().String())
	assert.Equal(t, "100", ledger.Total(enums.DeliveryMethodDelivery).String())
}

func TestGiftLinesForcePickup(t *testing.T) {
	ledger := NewLedger()
	require.NoError(t, ledger.RequestMode(enums.DeliveryMethodPickup))
	ledger.AddOrUpdateLine(regularLine("20", 1))
	require.NoError(t, ledger.RequestMode(enums.DeliveryMethodDelivery))

	ledger.AddOrUpdateLine(giftLine("25", "Ana"))

	assert.Equal(t, enums.DeliveryMethodPickup, ledger.Mode())
	assert.Equal(t, enums.DeliveryMethodPickup, ledger.EffectiveMode(enums.DeliveryMethodDelivery))
	assert.True(t, ledger.HasGiftItems())
}

func TestDeliveryRejectedWithoutRegularLines(t *testing.T) {
	ledger := NewLedger()
	require.NoError(t, ledger.RequestMode(enums.DeliveryMethodPickup))
	ledger.AddOrUpdateLine(giftLine("25", "Ana"))

	err := ledger.RequestMode(enums.DeliveryMethodDelivery)

	assert.ErrorIs(t, err, ErrDeliveryUnavailable)
	assert.Equal(t, enums.DeliveryMethodPickup, ledger.Mode())
}

func TestGiftQuantityPinnedToOne(t *testing.T) {
	line := giftLine("25", "Ana")
	line.Quantity = 5

	ledger := NewLedger()
	ledger.AddOrUpdateLine(line)
	ledger.SetQuantity(line.ProductID, 7)

	require.Len(t, ledger.GiftLines(), 1)
	assert.Equal(t, 1, ledger.GiftLines()[0].Quantity)
}

func TestQuantityClamp(t *testing.T) {
	line := regularLine("10", 150)
	ledger := NewLedger()
	ledger.AddOrUpdateLine(line)
	assert.Equal(t, 99, ledger.Lines()[0].Quantity)

	ledger.SetQuantity(line.ProductID, 0)
	assert.Equal(t, 1, ledger.Lines()[0].Quantity)
}

func TestUnknownIDMutationsAreNoOps(t *testing.T) {
	ledger := NewLedger()
	ledger.AddOrUpdateLine(regularLine("10", 1))

	ledger.SetQuantity(uuid.New(), 5)
	ledger.RemoveLine(uuid.New())
	ledger.SetGiftNote(uuid.New(), "hola")

	require.Len(t, ledger.Lines(), 1)
	assert.Equal(t, 1, ledger.Lines()[0].Quantity)
}

func TestIsGiftOnly(t *testing.T) {
	ledger := NewLedger()
	assert.False(t, ledger.IsGiftOnly(), "empty cart is not gift-only")

	ledger.AddOrUpdateLine(giftLine("25", "Ana"))
	assert.True(t, ledger.IsGiftOnly())

	ledger.AddOrUpdateLine(regularLine("10", 1))
	assert.False(t, ledger.IsGiftOnly())
}

func TestRemoveLastRegularLineKeepsPickupForGiftCart(t *testing.T) {
	regular := regularLine("10", 1)
	ledger := NewLedger()
	ledger.AddOrUpdateLine(regular)
	ledger.AddOrUpdateLine(giftLine("25", "Ana"))
	ledger.RemoveLine(regular.ProductID)

	assert.Equal(t, enums.DeliveryMethodPickup, ledger.Mode())
	assert.True(t, ledger.IsGiftOnly())
}
