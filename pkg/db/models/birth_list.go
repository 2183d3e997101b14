package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Avannubo/subirananadons-backend/pkg/enums"
	"github.com/Avannubo/subirananadons-backend/pkg/types"
)

// BirthList is a gift registry owned by one customer and visible to any
// number of gift buyers.
type BirthList struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID   uuid.UUID        `gorm:"column:owner_id;type:uuid;not null;index:birth_lists_owner_id_idx"`
	Owner     *User            `gorm:"foreignKey:OwnerID"`
	Title     string           `gorm:"column:title;not null"`
	BabyName  *string          `gorm:"column:baby_name"`
	DueDate   *time.Time       `gorm:"column:due_date"`
	Status    enums.ListStatus `gorm:"column:status;not null;default:active"`
	Items     []BirthListItem  `gorm:"foreignKey:ListID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// BirthListItem is one requested product on a list. Reserved counts how
// many units gift buyers have purchased so far; it is a plain stored count
// with no upper-bound enforcement against Quantity.
type BirthListItem struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ListID    uuid.UUID             `gorm:"column:list_id;type:uuid;not null;index:birth_list_items_list_id_idx"`
	ProductID uuid.UUID             `gorm:"column:product_id;type:uuid;not null"`
	Product   *Product              `gorm:"foreignKey:ProductID"`
	Quantity  int                   `gorm:"column:quantity;not null;default:1"`
	Reserved  int                   `gorm:"column:reserved;not null;default:0"`
	Priority  int                   `gorm:"column:priority;not null;default:2"`
	State     enums.ListItemState   `gorm:"column:state;not null;default:0"`
	Snapshot  types.ProductSnapshot `gorm:"column:snapshot;type:jsonb"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
