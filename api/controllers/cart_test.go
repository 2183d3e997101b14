package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Avannubo/subirananadons-backend/pkg/config"
	"github.com/Avannubo/subirananadons-backend/pkg/enums"
	"github.com/Avannubo/subirananadons-backend/pkg/logger"
	"github.com/Avannubo/subirananadons-backend/pkg/types"
)

func quoteRequest(t *testing.T, body any) *httptest.ResponseRecorder {
	return quoteRequestWithShop(t, config.ShopConfig{}, body)
}

func quoteRequestWithShop(t *testing.T, shopCfg config.ShopConfig, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/quote", bytes.NewReader(payload))
	rec := httptest.NewRecorder()

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	Quote(shopCfg, logg)(rec, req)
	return rec
}

func decodeQuote(t *testing.T, rec *httptest.ResponseRecorder) QuoteDTO {
	t.Helper()

	var envelope types.SuccessEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))

	raw, err := json.Marshal(envelope.Data)
	require.NoError(t, err)

	var out QuoteDTO
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestQuotePricesMixedCart(t *testing.T) {
	rec := quoteRequest(t, QuoteInput{
		DeliveryMethod: "delivery",
		Lines: []QuoteLineInput{
			{Name: "Body pack", Price: "30,00 €", Quantity: 2},
			{Name: "Chupete", Price: "25.00", Quantity: 1},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	out := decodeQuote(t, rec)
	assert.Equal(t, "85", out.Subtotal.String())
	assert.Equal(t, "0", out.Shipping.String())
	assert.Equal(t, "17.85", out.Tax.String())
	// Listed prices include tax, so the total matches the subtotal.
	assert.Equal(t, "85", out.Total.String())
	assert.Equal(t, enums.DeliveryMethodDelivery, out.DeliveryMethod)
}

func TestQuoteGiftForcesPickupWithWarning(t *testing.T) {
	rec := quoteRequest(t, QuoteInput{
		DeliveryMethod: "delivery",
		Lines: []QuoteLineInput{
			{Name: "Cochecito", Price: "199.00", Quantity: 3, IsGift: true, ListOwner: "Laia Puig"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	out := decodeQuote(t, rec)
	assert.Equal(t, enums.DeliveryMethodPickup, out.DeliveryMethod)
	assert.NotEmpty(t, out.Warning)
	assert.True(t, out.IsGiftOnly)
	require.Len(t, out.Lines, 1)
	// Gift lines are pinned to a single unit regardless of input.
	assert.Equal(t, 1, out.Lines[0].Quantity)
	assert.Equal(t, "0", out.Shipping.String())
}

func TestQuoteBelowFloorChargesShipping(t *testing.T) {
	rec := quoteRequest(t, QuoteInput{
		DeliveryMethod: "delivery",
		Lines: []QuoteLineInput{
			{Name: "Biberón", Price: "10.00", Quantity: 1},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	out := decodeQuote(t, rec)
	assert.Equal(t, "5.99", out.Shipping.String())
	assert.Equal(t, "15.99", out.Total.String())
}

func TestQuoteHonorsConfiguredShopRates(t *testing.T) {
	shopCfg := config.ShopConfig{ShippingFee: "7.00", FreeShippingFloor: "200", TaxRatePercent: "10"}
	rec := quoteRequestWithShop(t, shopCfg, QuoteInput{
		DeliveryMethod: "delivery",
		Lines: []QuoteLineInput{
			{Name: "Trona", Price: "100.00", Quantity: 1},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	out := decodeQuote(t, rec)
	assert.Equal(t, "7", out.Shipping.String())
	assert.Equal(t, "10", out.Tax.String())
	assert.Equal(t, "107", out.Total.String())
}

func TestQuoteRejectsUnknownDeliveryMethod(t *testing.T) {
	rec := quoteRequest(t, QuoteInput{
		DeliveryMethod: "drone",
		Lines: []QuoteLineInput{
			{Name: "Biberón", Price: "10.00", Quantity: 1},
		},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuoteEmptyCartIsZero(t *testing.T) {
	rec := quoteRequest(t, QuoteInput{})
	require.Equal(t, http.StatusOK, rec.Code)

	out := decodeQuote(t, rec)
	assert.True(t, out.Subtotal.IsZero())
	assert.True(t, out.Total.IsZero())
	assert.False(t, out.IsGiftOnly)
}
