package registry

import (
	"time"

	"github.com/google/uuid"

	"github.com/Avannubo/subirananadons-backend/pkg/db/models"
	"github.com/Avannubo/subirananadons-backend/pkg/enums"
	"github.com/Avannubo/subirananadons-backend/pkg/types"
)

// ItemDTO is one list row as served to the storefront and back office.
type ItemDTO struct {
	ID        uuid.UUID             `json:"id"`
	ProductID uuid.UUID             `json:"product_id"`
	Product   types.ProductSnapshot `json:"product"`
	Quantity  int                   `json:"quantity"`
	Reserved  int                   `json:"reserved"`
	Priority  int                   `json:"priority"`
	State     enums.ListItemState   `json:"state"`
	CreatedAt time.Time             `json:"created_at"`
}

// ItemsDTO bundles a list's items with the derived completion ratio.
type ItemsDTO struct {
	Items    []ItemDTO `json:"items"`
	Progress int       `json:"progress"`
}

// ListDTO is the list header served to owners and admins.
type ListDTO struct {
	ID        uuid.UUID        `json:"id"`
	OwnerID   uuid.UUID        `json:"owner_id"`
	Title     string           `json:"title"`
	BabyName  *string          `json:"baby_name,omitempty"`
	DueDate   *time.Time       `json:"due_date,omitempty"`
	Status    enums.ListStatus `json:"status"`
	Progress  int              `json:"progress"`
	CreatedAt time.Time        `json:"created_at"`
}

// ListPageDTO is a cursor-paginated page of list headers.
type ListPageDTO struct {
	Lists      []ListDTO `json:"lists"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// ItemInput is one entry of a bulk items write. The client sends the full
// desired collection (previous plus new) and the server replaces the set.
type ItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	Reserved  int
	Priority  int
	State     enums.ListItemState
}

func itemToDTO(item models.BirthListItem) ItemDTO {
	return ItemDTO{
		ID:        item.ID,
		ProductID: item.ProductID,
		Product:   item.Snapshot,
		Quantity:  item.Quantity,
		Reserved:  item.Reserved,
		Priority:  item.Priority,
		State:     item.State,
		CreatedAt: item.CreatedAt,
	}
}

func listToDTO(list models.BirthList, progress int) ListDTO {
	return ListDTO{
		ID:        list.ID,
		OwnerID:   list.OwnerID,
		Title:     list.Title,
		BabyName:  list.BabyName,
		DueDate:   list.DueDate,
		Status:    list.Status,
		Progress:  progress,
		CreatedAt: list.CreatedAt,
	}
}

func progressInputs(items []models.BirthListItem) []ProgressInput {
	inputs := make([]ProgressInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, ProgressInput{Quantity: item.Quantity, Reserved: item.Reserved})
	}
	return inputs
}
