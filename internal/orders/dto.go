package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Avannubo/subirananadons-backend/pkg/db/models"
	"github.com/Avannubo/subirananadons-backend/pkg/enums"
	"github.com/Avannubo/subirananadons-backend/pkg/types"
)

// ItemDTO is one purchased line.
type ItemDTO struct {
	ID        uuid.UUID        `json:"id"`
	ProductID uuid.UUID        `json:"product_id"`
	Name      string           `json:"name"`
	Price     decimal.Decimal  `json:"price"`
	Quantity  int              `json:"quantity"`
	IsGift    bool             `json:"is_gift"`
	ListID    *uuid.UUID       `json:"list_id,omitempty"`
	ListOwner *string          `json:"list_owner,omitempty"`
	BuyerInfo *types.BuyerInfo `json:"buyer_info,omitempty"`
}

// OrderDTO is the full order as served to customers and the back office.
type OrderDTO struct {
	ID              uuid.UUID            `json:"id"`
	OrderNumber     string               `json:"order_number"`
	Email           string               `json:"email"`
	Status          enums.OrderStatus    `json:"status"`
	DeliveryMethod  enums.DeliveryMethod `json:"delivery_method"`
	HasGiftItems    bool                 `json:"has_gift_items"`
	IsGiftOnly      bool                 `json:"is_gift_only"`
	ShippingDetails types.Address        `json:"shipping_details"`
	Subtotal        decimal.Decimal      `json:"subtotal"`
	Shipping        decimal.Decimal      `json:"shipping"`
	Tax             decimal.Decimal      `json:"tax"`
	Total           decimal.Decimal      `json:"total"`
	Items           []ItemDTO            `json:"items"`
	CreatedAt       time.Time            `json:"created_at"`
}

// PageDTO is a cursor-paginated page of orders. LastShippingDetails echoes
// the newest order's address so checkout forms can prefill it.
type PageDTO struct {
	Orders              []OrderDTO     `json:"orders"`
	NextCursor          string         `json:"next_cursor,omitempty"`
	LastShippingDetails *types.Address `json:"last_shipping_details,omitempty"`
}

// StatusInput updates an order's status from the back office.
type StatusInput struct {
	Status string `json:"status" validate:"required"`
}

// ToDTO converts a stored order into its API shape.
func ToDTO(order models.Order) OrderDTO {
	items := make([]ItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, ItemDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			IsGift:    item.IsGift,
			ListID:    item.ListID,
			ListOwner: item.ListOwner,
			BuyerInfo: item.BuyerInfo,
		})
	}
	return OrderDTO{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		Email:           order.Email,
		Status:          order.Status,
		DeliveryMethod:  order.DeliveryMethod,
		HasGiftItems:    order.HasGiftItems,
		IsGiftOnly:      order.IsGiftOnly,
		ShippingDetails: order.ShippingDetails,
		Subtotal:        order.Subtotal,
		Shipping:        order.Shipping,
		Tax:             order.Tax,
		Total:           order.Total,
		Items:           items,
		CreatedAt:       order.CreatedAt,
	}
}
