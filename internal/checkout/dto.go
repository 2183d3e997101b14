package checkout

import (
	"github.com/google/uuid"

	"github.com/Avannubo/subirananadons-backend/internal/orders"
)

// RegularLineInput is an own-purchase cart line. The price is authoritative
// server side; only the product and quantity are taken from the client.
type RegularLineInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// GiftLineInput buys one unit of a birth-list item for its owner.
type GiftLineInput struct {
	ListID     uuid.UUID `json:"list_id" validate:"required"`
	ListItemID uuid.UUID `json:"list_item_id" validate:"required"`
	Note       string    `json:"note" validate:"omitempty,max=500"`
}

// AccountInput optionally opens an account during checkout.
type AccountInput struct {
	Password        string `json:"password" validate:"required,min=8,max=128"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// Input is the full checkout submission.
type Input struct {
	Name           string `json:"name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	City           string `json:"city"`
	PostalCode     string `json:"postal_code"`
	Province       string `json:"province"`
	DeliveryMethod string `json:"delivery_method"`

	RegularLines []RegularLineInput `json:"lines"`
	GiftLines    []GiftLineInput    `json:"gift_lines"`

	CreateAccount *AccountInput `json:"create_account,omitempty"`
}

// Result is the checkout outcome.
type Result struct {
	Order          orders.OrderDTO `json:"order"`
	AccountCreated bool            `json:"account_created"`
}
