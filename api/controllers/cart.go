package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Avannubo/subirananadons-backend/api/responses"
	"github.com/Avannubo/subirananadons-backend/api/validators"
	"github.com/Avannubo/subirananadons-backend/internal/cart"
	"github.com/Avannubo/subirananadons-backend/pkg/config"
	"github.com/Avannubo/subirananadons-backend/pkg/enums"
	pkgerrors "github.com/Avannubo/subirananadons-backend/pkg/errors"
	"github.com/Avannubo/subirananadons-backend/pkg/logger"
)

// QuoteLineInput is one cart line as the storefront holds it. Prices come
// in as display strings and are normalized server side.
type QuoteLineInput struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Price     string    `json:"price"`
	Quantity  int       `json:"quantity"`
	IsGift    bool      `json:"is_gift"`
	ListOwner string    `json:"list_owner"`
	GiftNote  string    `json:"gift_note"`
}

// QuoteInput asks for a priced summary of the submitted cart.
type QuoteInput struct {
	Lines          []QuoteLineInput `json:"lines"`
	DeliveryMethod string           `json:"delivery_method"`
}

// QuoteLineDTO echoes a line after normalization.
type QuoteLineDTO struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	IsGift    bool            `json:"is_gift"`
	ListOwner string          `json:"list_owner,omitempty"`
	GiftNote  string          `json:"gift_note,omitempty"`
}

// QuoteDTO is the derived cart state.
type QuoteDTO struct {
	Lines          []QuoteLineDTO       `json:"lines"`
	Subtotal       decimal.Decimal      `json:"subtotal"`
	Shipping       decimal.Decimal      `json:"shipping"`
	Tax            decimal.Decimal      `json:"tax"`
	Total          decimal.Decimal      `json:"total"`
	DeliveryMethod enums.DeliveryMethod `json:"delivery_method"`
	HasGiftItems   bool                 `json:"has_gift_items"`
	IsGiftOnly     bool                 `json:"is_gift_only"`
	Warning        string               `json:"warning,omitempty"`
}

// Quote prices a cart snapshot. Nothing is stored; the same payload always
// yields the same answer.
func Quote(shopCfg config.ShopConfig, logg *logger.Logger) http.HandlerFunc {
	rates := cart.RatesFromConfig(shopCfg)
	return func(w http.ResponseWriter, r *http.Request) {
		var input QuoteInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		lines := make([]cart.Line, 0, len(input.Lines))
		for _, in := range input.Lines {
			lines = append(lines, cart.Line{
				ProductID: in.ProductID,
				Name:      in.Name,
				Price:     cart.NormalizePrice(in.Price),
				Quantity:  in.Quantity,
				IsGift:    in.IsGift,
				ListOwner: in.ListOwner,
				GiftNote:  in.GiftNote,
			})
		}

		ledger := cart.NewLedgerFromLines(lines, enums.DeliveryMethodDelivery, rates)

		var warning string
		if input.DeliveryMethod != "" {
			requested, err := enums.ParseDeliveryMethod(input.DeliveryMethod)
			if err != nil {
				responses.WriteError(r.Context(), w, logg, pkgerrors.New(pkgerrors.CodeValidation, err.Error()))
				return
			}
			// An impossible delivery request keeps the previous mode and
			// comes back as a warning rather than a failure.
			if err := ledger.RequestMode(requested); err != nil {
				warning = err.Error()
				if appErr := pkgerrors.As(err); appErr != nil {
					warning = appErr.Message()
				}
			}
		}

		mode := ledger.Mode()
		out := QuoteDTO{
			Subtotal:       ledger.Subtotal(),
			Shipping:       ledger.ShippingCost(mode),
			Tax:            ledger.Tax(),
			Total:          ledger.Total(mode),
			DeliveryMethod: mode,
			HasGiftItems:   ledger.HasGiftItems(),
			IsGiftOnly:     ledger.IsGiftOnly(),
			Warning:        warning,
		}
		for _, line := range ledger.Lines() {
			out.Lines = append(out.Lines, QuoteLineDTO{
				ProductID: line.ProductID,
				Name:      line.Name,
				Price:     line.Price,
				Quantity:  line.Quantity,
				IsGift:    line.IsGift,
				ListOwner: line.ListOwner,
				GiftNote:  line.GiftNote,
			})
		}
		responses.WriteSuccess(w, out)
	}
}
