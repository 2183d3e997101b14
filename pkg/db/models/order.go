package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Avannubo/subirananadons-backend/pkg/enums"
	"github.com/Avannubo/subirananadons-backend/pkg/types"
)

// Order is a submitted checkout. Tax is recorded alongside the totals but
// is not part of Total: shelf prices already include it.
type Order struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber     string               `gorm:"column:order_number;not null;uniqueIndex:orders_order_number_key"`
	UserID          *uuid.UUID           `gorm:"column:user_id;type:uuid;index:orders_user_id_idx"`
	User            *User                `gorm:"foreignKey:UserID"`
	Email           string               `gorm:"column:email;not null"`
	Status          enums.OrderStatus    `gorm:"column:status;not null;default:pending"`
	DeliveryMethod  enums.DeliveryMethod `gorm:"column:delivery_method;not null"`
	HasGiftItems    bool                 `gorm:"column:has_gift_items;not null;default:false"`
	IsGiftOnly      bool                 `gorm:"column:is_gift_only;not null;default:false"`
	ShippingDetails types.Address        `gorm:"column:shipping_details;type:jsonb"`
	Subtotal        decimal.Decimal      `gorm:"column:subtotal;type:numeric(10,2);not null"`
	Shipping        decimal.Decimal      `gorm:"column:shipping;type:numeric(10,2);not null"`
	Tax             decimal.Decimal      `gorm:"column:tax;type:numeric(10,2);not null"`
	Total           decimal.Decimal      `gorm:"column:total;type:numeric(10,2);not null"`
	Items           []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem is one purchased line. Gift lines always carry quantity 1 and
// a BuyerInfo block; ListItemID ties the line back to the reserved
// birth-list row.
type OrderItem struct {
	ID         uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID    uuid.UUID        `gorm:"column:order_id;type:uuid;not null;index:order_items_order_id_idx"`
	ProductID  uuid.UUID        `gorm:"column:product_id;type:uuid;not null"`
	Name       string           `gorm:"column:name;not null"`
	Price      decimal.Decimal  `gorm:"column:price;type:numeric(10,2);not null"`
	Quantity   int              `gorm:"column:quantity;not null"`
	IsGift     bool             `gorm:"column:is_gift;not null;default:false"`
	ListID     *uuid.UUID       `gorm:"column:list_id;type:uuid"`
	ListItemID *uuid.UUID       `gorm:"column:list_item_id;type:uuid"`
	ListOwner  *string          `gorm:"column:list_owner"`
	BuyerInfo  *types.BuyerInfo `gorm:"column:buyer_info;type:jsonb"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
}
