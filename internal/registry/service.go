package registry

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Avannubo/subirananadons-backend/pkg/db/models"
	"github.com/Avannubo/subirananadons-backend/pkg/enums"
	pkgerrors "github.com/Avannubo/subirananadons-backend/pkg/errors"
	"github.com/Avannubo/subirananadons-backend/pkg/pagination"
	"github.com/Avannubo/subirananadons-backend/pkg/types"
)

const defaultPriority = 2

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type listStore interface {
	CreateList(ctx context.Context, list *models.BirthList) (*models.BirthList, error)
	FindListByID(ctx context.Context, id uuid.UUID) (*models.BirthList, error)
	ListLists(ctx context.Context, ownerID *uuid.UUID, params pagination.Params) ([]models.BirthList, string, error)
	ListItems(ctx context.Context, listID uuid.UUID, pendingOnly bool) ([]models.BirthListItem, error)
	ReplaceItems(ctx context.Context, listID uuid.UUID, items []models.BirthListItem) error
	DeleteItem(ctx context.Context, listID, itemID uuid.UUID) (int64, error)
}

// Service exposes birth-list management and the fulfillment view.
type Service interface {
	CreateList(ctx context.Context, ownerID uuid.UUID, input CreateListInput) (ListDTO, error)
	GetList(ctx context.Context, listID uuid.UUID) (ListDTO, error)
	ListLists(ctx context.Context, ownerID *uuid.UUID, params pagination.Params) (ListPageDTO, error)
	GetItems(ctx context.Context, listID uuid.UUID, pendingOnly bool) (ItemsDTO, error)
	SetItems(ctx context.Context, listID, actorID uuid.UUID, inputs []ItemInput) (ItemsDTO, error)
	RemoveItem(ctx context.Context, listID, itemID, actorID uuid.UUID) error
}

// CreateListInput carries the fields of a new list.
type CreateListInput struct {
	Title    string
	BabyName *string
}

type service struct {
	repo     listStore
	products productLoader
}

// NewService builds a registry service.
func NewService(repo listStore, products productLoader) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "registry repo is required")
	}
	if products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product loader is required")
	}
	return &service{repo: repo, products: products}, nil
}

func (s *service) CreateList(ctx context.Context, ownerID uuid.UUID, input CreateListInput) (ListDTO, error) {
	if ownerID == uuid.Nil {
		return ListDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "owner id is required")
	}
	if strings.TrimSpace(input.Title) == "" {
		return ListDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "list title is required")
	}

	list, err := s.repo.CreateList(ctx, &models.BirthList{
		OwnerID:  ownerID,
		Title:    strings.TrimSpace(input.Title),
		BabyName: input.BabyName,
		Status:   enums.ListStatusActive,
	})
	if err != nil {
		return ListDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create list")
	}
	return listToDTO(*list, 0), nil
}

func (s *service) GetList(ctx context.Context, listID uuid.UUID) (ListDTO, error) {
	list, err := s.loadList(ctx, listID)
	if err != nil {
		return ListDTO{}, err
	}

	items, err := s.repo.ListItems(ctx, listID, false)
	if err != nil {
		return ListDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load list items")
	}
	return listToDTO(*list, Progress(progressInputs(items))), nil
}

func (s *service) ListLists(ctx context.Context, ownerID *uuid.UUID, params pagination.Params) (ListPageDTO, error) {
	lists, nextCursor, err := s.repo.ListLists(ctx, ownerID, params)
	if err != nil {
		return ListPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list birth lists")
	}

	out := make([]ListDTO, 0, len(lists))
	for _, list := range lists {
		items, err := s.repo.ListItems(ctx, list.ID, false)
		if err != nil {
			return ListPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load list items")
		}
		out = append(out, listToDTO(list, Progress(progressInputs(items))))
	}
	return ListPageDTO{Lists: out, NextCursor: nextCursor}, nil
}

// GetItems serves the fulfillment view: the item rows plus the derived
// completion percentage. pendingOnly restricts to state = 0, which is
// what the public "pending products" view shows.
func (s *service) GetItems(ctx context.Context, listID uuid.UUID, pendingOnly bool) (ItemsDTO, error) {
	if _, err := s.loadList(ctx, listID); err != nil {
		return ItemsDTO{}, err
	}

	items, err := s.repo.ListItems(ctx, listID, pendingOnly)
	if err != nil {
		return ItemsDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load list items")
	}

	dtos := make([]ItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, itemToDTO(item))
	}
	return ItemsDTO{Items: dtos, Progress: Progress(progressInputs(items))}, nil
}

// SetItems replaces the whole item collection. The storefront sends the
// combined previous-plus-new array; reserved counts on already-known
// products are carried through as submitted.
func (s *service) SetItems(ctx context.Context, listID, actorID uuid.UUID, inputs []ItemInput) (ItemsDTO, error) {
	list, err := s.loadList(ctx, listID)
	if err != nil {
		return ItemsDTO{}, err
	}
	if list.OwnerID != actorID {
		return ItemsDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "only the list owner can edit its items")
	}
	if list.Status != enums.ListStatusActive {
		return ItemsDTO{}, pkgerrors.New(pkgerrors.CodeStateConflict, "list is closed")
	}

	items := make([]models.BirthListItem, 0, len(inputs))
	for _, input := range inputs {
		if input.ProductID == uuid.Nil {
			return ItemsDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "item product id is required")
		}
		if input.Quantity < 1 {
			return ItemsDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be at least 1")
		}
		if input.Reserved < 0 {
			return ItemsDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "item reserved cannot be negative")
		}

		product, err := s.products.FindByID(ctx, input.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ItemsDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return ItemsDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}

		priority := input.Priority
		if priority <= 0 {
			priority = defaultPriority
		}

		items = append(items, models.BirthListItem{
			ListID:    listID,
			ProductID: product.ID,
			Quantity:  input.Quantity,
			Reserved:  input.Reserved,
			Priority:  priority,
			State:     input.State,
			Snapshot:  SnapshotFromProduct(product),
		})
	}

	if err := s.repo.ReplaceItems(ctx, listID, items); err != nil {
		return ItemsDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace list items")
	}
	return s.GetItems(ctx, listID, false)
}

func (s *service) RemoveItem(ctx context.Context, listID, itemID, actorID uuid.UUID) error {
	list, err := s.loadList(ctx, listID)
	if err != nil {
		return err
	}
	if list.OwnerID != actorID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the list owner can remove items")
	}

	affected, err := s.repo.DeleteItem(ctx, listID, itemID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete list item")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "list item not found")
	}
	return nil
}

func (s *service) loadList(ctx context.Context, listID uuid.UUID) (*models.BirthList, error) {
	if listID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "list id is required")
	}
	list, err := s.repo.FindListByID(ctx, listID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "birth list not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load birth list")
	}
	return list, nil
}

// SnapshotFromProduct denormalizes the display fields kept on a list item.
func SnapshotFromProduct(product *models.Product) types.ProductSnapshot {
	snapshot := types.ProductSnapshot{
		Name:  product.Name,
		Price: product.Price.StringFixed(2),
	}
	if product.Brand != nil {
		snapshot.Brand = product.Brand.Name
	}
	if product.ImageURL != nil {
		snapshot.ImageURL = *product.ImageURL
	}
	return snapshot
}
